// Package gateway is the HTTP client for the provisioning platform that
// materializes an assistant configuration into a live voice agent and assigns
// it a telephone number.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/allokoli/configurator/config"
	"github.com/allokoli/configurator/models"

	"github.com/bytedance/sonic"
)

// Client talks to the provisioning platform's REST API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a provisioning client from configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.ProvisioningURL,
		apiKey:  cfg.ProvisioningAPIKey,
		http:    &http.Client{Timeout: cfg.ProvisioningTimeout},
	}
}

// AssistantMeta is the caller metadata attached to an assistant-creation
// request.
type AssistantMeta struct {
	UserID       string `json:"user_id,omitempty"`
	BusinessName string `json:"business_name"`
	Sector       string `json:"business_sector,omitempty"`
}

// ProvisionedNumber is the result of a successful number provisioning call.
type ProvisionedNumber struct {
	Number string `json:"phone_number"`
	ID     string `json:"phone_number_id"`
}

type createAssistantRequest struct {
	AssistantConfig *models.AssistantConfiguration `json:"assistant_config"`
	UserMetadata    AssistantMeta                  `json:"user_metadata"`
}

type createAssistantResponse struct {
	AssistantID string `json:"assistant_id"`
}

type provisionNumberRequest struct {
	AssistantID string `json:"assistant_id"`
	AreaCode    string `json:"area_code,omitempty"`
}

// CreateAssistant creates the assistant on the platform and returns its
// platform-assigned identifier. A response without an identifier is a failed
// call.
func (c *Client) CreateAssistant(ctx context.Context, cfg *models.AssistantConfiguration, meta AssistantMeta) (string, error) {
	var resp createAssistantResponse
	if err := c.post(ctx, "/assistant", createAssistantRequest{
		AssistantConfig: cfg,
		UserMetadata:    meta,
	}, &resp); err != nil {
		return "", err
	}
	if resp.AssistantID == "" {
		return "", fmt.Errorf("assistant creation returned no assistant id")
	}
	return resp.AssistantID, nil
}

// ProvisionNumber attaches a phone number to an existing assistant. A
// response without a number is a failed call.
func (c *Client) ProvisionNumber(ctx context.Context, assistantID, areaCode string) (ProvisionedNumber, error) {
	var resp ProvisionedNumber
	if err := c.post(ctx, "/phone-number", provisionNumberRequest{
		AssistantID: assistantID,
		AreaCode:    areaCode,
	}, &resp); err != nil {
		return ProvisionedNumber{}, err
	}
	if resp.Number == "" {
		return ProvisionedNumber{}, fmt.Errorf("number provisioning returned no phone number")
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := sonic.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("provisioning request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provisioning call %s failed: status %d: %s", path, resp.StatusCode, data)
	}

	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
