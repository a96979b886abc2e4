package models

// ModelConfig holds the language-model parameters of an assistant.
type ModelConfig struct {
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	SystemPrompt string  `json:"systemPrompt"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"maxTokens"`
}

// VoiceConfig identifies the synthetic voice of an assistant.
type VoiceConfig struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
}

// TranscriberConfig identifies the speech-to-text pipeline of an assistant.
type TranscriberConfig struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Language string `json:"language"`
}

// AssistantConfiguration is the synthesized output handed to the provisioning
// platform: produced exactly once per dialogue and immutable thereafter.
type AssistantConfiguration struct {
	Name                  string            `json:"name"`
	Model                 ModelConfig       `json:"model"`
	Voice                 VoiceConfig       `json:"voice"`
	Transcriber           TranscriberConfig `json:"transcriber"`
	FirstMessage          string            `json:"firstMessage"`
	EndCallMessage        string            `json:"endCallMessage"`
	EndCallPhrases        []string          `json:"endCallPhrases"`
	SilenceTimeoutSeconds int               `json:"silenceTimeoutSeconds"`
	MaxDurationSeconds    int               `json:"maxDurationSeconds"`
}
