// Package store persists finished assistant configurations to Supabase.
// Persistence is best-effort: the dialogue never fails because a row could
// not be written.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/allokoli/configurator/models"

	"github.com/supabase-community/supabase-go"
)

// Config holds Supabase connection configuration.
type Config struct {
	URL    string
	APIKey string
}

// Client writes assistant records through the Supabase REST API.
type Client struct {
	client *supabase.Client
}

// New creates a Supabase-backed store.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}

	client, err := supabase.NewClient(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &Client{client: client}, nil
}

// assistantRow is the assistants table shape.
type assistantRow struct {
	UserID        string                  `json:"user_id,omitempty"`
	Name          string                  `json:"name"`
	Sector        string                  `json:"business_type"`
	AssistantID   string                  `json:"vapi_assistant_id"`
	PhoneNumber   string                  `json:"phone_number,omitempty"`
	PhoneNumberID string                  `json:"phone_number_id,omitempty"`
	ConfigJSON    *models.BusinessProfile `json:"config_json"`
	IsActive      bool                    `json:"is_active"`
	CreatedAt     time.Time               `json:"created_at"`
}

// SaveAssistant records a completed configuration.
func (c *Client) SaveAssistant(_ context.Context, profile *models.BusinessProfile, userID string) error {
	row := assistantRow{
		UserID:        userID,
		Name:          profile.AssistantName,
		Sector:        profile.Sector,
		AssistantID:   profile.AssistantID,
		PhoneNumber:   profile.PhoneNumber,
		PhoneNumberID: profile.PhoneNumberID,
		ConfigJSON:    profile,
		IsActive:      true,
		CreatedAt:     time.Now().UTC(),
	}

	_, _, err := c.client.From("assistants").
		Insert(row, false, "", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to save assistant: %w", err)
	}
	return nil
}

// Close releases the Supabase client. The underlying client holds no
// resources that need closing.
func (c *Client) Close() error {
	return nil
}
