package messages

import "encoding/json"

// Voice event types sent by the voice platform during an active call.
const (
	EventTranscript   = "transcript"
	EventFunctionCall = "function-call"
	EventCallStart    = "call-start"
	EventCallEnd      = "call-end"
)

// Function-call signal names accepted at any time during a voice session.
const (
	SignalUpdateStep = "update_step"
	SignalSaveConfig = "save_config"
)

// VoiceEvent is one inbound event on the voice websocket. Payload shape
// depends on Type.
type VoiceEvent struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// TranscriptPayload carries one transcribed utterance.
type TranscriptPayload struct {
	Role       string `json:"role"` // "user" or "assistant"
	Transcript string `json:"transcript"`
}

// FunctionCallPayload carries an explicit signal from the voice platform.
type FunctionCallPayload struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
}
