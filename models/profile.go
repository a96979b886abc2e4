package models

import "time"

// Business size buckets derived from the owner's description.
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

// MaxKeyInformation caps the key-information list captured at step 4.
const MaxKeyInformation = 5

// BusinessProfile accumulates the structured facts inferred from the owner's
// free-text answers over the course of a configuration dialogue. Fields are
// only ever filled in or appended to; a profile is never reset except by an
// explicit restart.
type BusinessProfile struct {
	Sector        string   `json:"sector,omitempty"`
	Confidence    float64  `json:"confidence,omitempty"`
	BusinessName  string   `json:"business_name,omitempty"`
	Location      string   `json:"location,omitempty"`
	Services      []string `json:"services,omitempty"`
	Size          string   `json:"size,omitempty"`
	RawInput      string   `json:"original_business_input,omitempty"`
	AssistantName string   `json:"assistant_name,omitempty"`
	Tone          string   `json:"tone,omitempty"`
	KeyInfo       []string `json:"key_information,omitempty"`
	RawKeyInfo    string   `json:"raw_key_info,omitempty"`

	// Custom free-form instructions, only set via a voice save_config signal.
	CustomInstructions string `json:"custom_instructions,omitempty"`

	// Provisioning results, filled in as the gateway succeeds.
	AssistantID   string `json:"vapi_assistant_id,omitempty"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	PhoneNumberID string `json:"phone_number_id,omitempty"`

	CreatedAt   time.Time `json:"creation_timestamp,omitempty"`
	CompletedAt time.Time `json:"completion_timestamp,omitempty"`
}

// AddServices merges service candidates into the profile, deduplicating and
// dropping fragments of two characters or fewer. Existing entries are never
// removed.
func (p *BusinessProfile) AddServices(candidates []string) {
	seen := make(map[string]bool, len(p.Services))
	for _, s := range p.Services {
		seen[s] = true
	}
	for _, c := range candidates {
		if len(c) <= 2 || seen[c] {
			continue
		}
		p.Services = append(p.Services, c)
		seen[c] = true
	}
}

// Complete reports whether the profile carries everything the synthesizer
// needs: assistant name, sector, tone, and at least one key-information item.
func (p *BusinessProfile) Complete() bool {
	return p.AssistantName != "" && p.Sector != "" && p.Tone != "" && len(p.KeyInfo) > 0
}
