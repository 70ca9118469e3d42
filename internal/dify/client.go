// Package dify relays chat messages to the Dify chat-messages API. Each
// persona carries its own bearer key, so the key is supplied per request
// rather than per client.
package dify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the hosted Dify API endpoint
const DefaultBaseURL = "https://api.dify.ai/v1"

// Client wraps calls to the Dify chat API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Dify client. An empty baseURL uses the hosted API
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// ChatRequest is one blocking chat-message call
type ChatRequest struct {
	// Query is the user's message
	Query string

	// User is the display name reported to the backend
	User string

	// ConversationID continues an existing backend conversation when set
	ConversationID string

	// CSVAttachment, when non-empty, is passed to the app as the "csv" input
	CSVAttachment string
}

// ChatResponse is the backend's reply
type ChatResponse struct {
	Answer         string `json:"answer"`
	ConversationID string `json:"conversation_id"`
}

// chatMessagePayload is the wire format of a chat-messages request
type chatMessagePayload struct {
	Inputs         map[string]string `json:"inputs"`
	Query          string            `json:"query"`
	User           string            `json:"user"`
	ConversationID string            `json:"conversation_id"`
	ResponseMode   string            `json:"response_mode"`
}

// SendMessage posts a message to the chat backend and waits for the full
// reply (blocking response mode). apiKey is the selected persona's key
func (c *Client) SendMessage(ctx context.Context, apiKey string, req ChatRequest) (*ChatResponse, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("persona API key is empty")
	}

	inputs := map[string]string{}
	if req.CSVAttachment != "" {
		inputs["csv"] = req.CSVAttachment
	}

	payload := chatMessagePayload{
		Inputs:         inputs,
		Query:          req.Query,
		User:           req.User,
		ConversationID: req.ConversationID,
		ResponseMode:   "blocking",
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat-messages", bytes.NewBuffer(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Include the body so upstream errors are diagnosable without
		// backend access
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("[DIFY]: chat request failed: %d: %s", resp.StatusCode, string(body))
	}

	var out ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}

	if out.Answer == "" {
		return nil, fmt.Errorf("backend returned no answer")
	}

	return &out, nil
}
