// Package oulia is the Go client for the Oulia guest chat API.
package oulia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to an Oulia gateway on behalf of a guest.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new Oulia SDK client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			// A chat turn waits on the language model.
			Timeout: 90 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures the client
type Option func(*Client)

// WithToken sets a host bearer token. Guest routes do not need one.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Conversation is a guest chat session.
type Conversation struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"propertyId"`
	GuestName  string    `json:"guestName"`
	Language   string    `json:"language"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Message is one stored chat message.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	ContentType    string    `json:"contentType"`
	MediaURL       string    `json:"mediaUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Turn is the pair stored by one SendMessage call.
type Turn struct {
	UserMessage      Message `json:"userMessage"`
	AssistantMessage Message `json:"assistantMessage"`
}

// Issue is a reported problem.
type Issue struct {
	ID             string    `json:"id"`
	PropertyID     string    `json:"propertyId"`
	ConversationID string    `json:"conversationId,omitempty"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority"`
	CreatedAt      time.Time `json:"createdAt"`
}

// MessageInput is a guest message. Leave ContentType empty for text.
type MessageInput struct {
	Content     string `json:"content"`
	ContentType string `json:"contentType,omitempty"`
	MediaURL    string `json:"mediaUrl,omitempty"`
}

// IssueInput is a problem report.
type IssueInput struct {
	Description    string `json:"description"`
	Category       string `json:"category,omitempty"`
	ImageURL       string `json:"imageUrl,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
}

// APIError is a non-2xx answer from the gateway.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"error"`
	// Fallback is the apology text to show the guest when generation failed.
	Fallback string `json:"fallback,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("oulia: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// StartConversation opens a session for a property. Empty guestName or
// language use the server defaults.
func (c *Client) StartConversation(ctx context.Context, propertyID, guestName, language string) (*Conversation, error) {
	body := map[string]string{}
	if guestName != "" {
		body["guestName"] = guestName
	}
	if language != "" {
		body["language"] = language
	}
	var out struct {
		Conversation Conversation `json:"conversation"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/chat/conversations/"+url.PathEscape(propertyID), body, &out); err != nil {
		return nil, err
	}
	return &out.Conversation, nil
}

// SendMessage submits a chat turn and returns both stored messages.
func (c *Client) SendMessage(ctx context.Context, conversationID string, in MessageInput) (*Turn, error) {
	var out Turn
	if err := c.do(ctx, http.MethodPost, "/api/chat/conversations/"+url.PathEscape(conversationID)+"/messages", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History returns the conversation transcript, oldest first.
func (c *Client) History(ctx context.Context, conversationID string) ([]Message, error) {
	var out struct {
		Messages []Message `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/chat/conversations/"+url.PathEscape(conversationID), nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// Translate renders text in targetLanguage.
func (c *Client) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	var out struct {
		Translation string `json:"translation"`
	}
	body := map[string]string{"text": text, "targetLanguage": targetLanguage}
	if err := c.do(ctx, http.MethodPost, "/api/chat/translate", body, &out); err != nil {
		return "", err
	}
	return out.Translation, nil
}

// ReportIssue files a problem for a property.
func (c *Client) ReportIssue(ctx context.Context, propertyID string, in IssueInput) (*Issue, error) {
	var out struct {
		Issue Issue `json:"issue"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/chat/issues/"+url.PathEscape(propertyID), in, &out); err != nil {
		return nil, err
	}
	return &out.Issue, nil
}

// Health checks if the server is healthy
func (c *Client) Health(ctx context.Context) bool {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
