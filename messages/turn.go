// Package messages defines the wire types of the configuration dialogue: one
// turn request in, one turn response out, plus the voice-platform events.
package messages

import "github.com/allokoli/configurator/models"

// Dialogue modes
const (
	ModeChat  = "chat"
	ModeVoice = "voice"
)

// Component tags name a UI affordance the client should render; the engine
// only emits the tag, never the rendering.
const (
	ComponentKnowledgeBase = "knowledgeBase"
	ComponentTestAssistant = "testAssistant"
	ComponentPhoneNumber   = "phoneNumber"
	ComponentSuccess       = "success"
)

// Error codes
const (
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeEmptyMessage   = "EMPTY_MESSAGE"
	ErrCodeSessionFailed  = "SESSION_FAILED"
	ErrCodeGatewayFailed  = "GATEWAY_FAILED"
)

// TurnRequest is one user utterance in an ongoing configuration dialogue.
type TurnRequest struct {
	Message   string `json:"message"`
	Step      int    `json:"step"`
	Mode      string `json:"mode,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

// TurnResponse is the engine's reply to one turn.
type TurnResponse struct {
	Content   string                  `json:"content"`
	Options   []string                `json:"options,omitempty"`
	Component string                  `json:"component,omitempty"`
	Data      map[string]any          `json:"data,omitempty"`
	Config    *models.BusinessProfile `json:"config,omitempty"`
	NextStep  *int                    `json:"nextStep,omitempty"`
	Mode      string                  `json:"mode,omitempty"`
	SessionID string                  `json:"sessionId,omitempty"`
	ErrorCode string                  `json:"error_code,omitempty"`
}

// NewTurnResponse creates a plain content response advancing to nextStep.
func NewTurnResponse(content string, nextStep int) *TurnResponse {
	return &TurnResponse{Content: content, NextStep: &nextStep}
}

// WithOptions attaches quick-reply options.
func (r *TurnResponse) WithOptions(options ...string) *TurnResponse {
	r.Options = options
	return r
}

// WithComponent attaches a UI component tag.
func (r *TurnResponse) WithComponent(component string) *TurnResponse {
	r.Component = component
	return r
}

// WithConfig attaches a snapshot of the accumulated profile.
func (r *TurnResponse) WithConfig(profile *models.BusinessProfile) *TurnResponse {
	r.Config = profile
	return r
}

// NewErrorResponse creates a user-facing error reply that keeps the dialogue
// at the given step.
func NewErrorResponse(code, content string, step int) *TurnResponse {
	return &TurnResponse{Content: content, NextStep: &step, ErrorCode: code}
}
