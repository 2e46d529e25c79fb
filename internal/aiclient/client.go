// Package aiclient talks to an OpenAI-compatible chat endpoint that turns
// messy text or a screenshot into a candidate record.
//
// The client is optional wiring: when unconfigured every call reports
// ErrNotConfigured and the caller falls back to local extraction. Failures
// here are never fatal to the pipeline for the same reason.
package aiclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jotbook-dev/jotbook/internal/model"
)

const systemPrompt = `You are a bookkeeping extraction service. The user sends a fragment of chat or OCR text, usually Traditional Chinese, plus a reference date. Extract at most one expense or note record.

Return ONLY a JSON object with these fields:
{
  "title": "short description with date, time and amount tokens removed",
  "date": "YYYY-MM-DD, empty string if the text names no day",
  "time": "HH:MM 24-hour, empty string if no clock time appears",
  "amount": number or null,
  "category": "one of: food, transport, shopping, entertainment, health, education, travel, other",
  "isExpense": true or false,
  "recognizedText": "the exact span of the input the record came from"
}`

var (
	// ErrNotConfigured means no endpoint or model is set; callers treat it
	// as "feature off", not a failure.
	ErrNotConfigured = errors.New("extraction service not configured")

	// ErrMalformedResponse means the service answered 200 but the body did
	// not decode into a candidate record.
	ErrMalformedResponse = errors.New("malformed extraction response")
)

// EncodeError wraps a failure to marshal the outgoing chat request.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return "encoding chat request: " + e.Err.Error() }
func (e *EncodeError) Unwrap() error { return e.Err }

// ServerError is a non-200 reply from the chat endpoint.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("extraction service returned HTTP %d: %s", e.Status, e.Body)
}

// Candidate is what the service derived: an unconfirmed record plus the
// text span it recognized it from.
type Candidate struct {
	Record         model.Record
	RecognizedText string
}

// Client calls one OpenAI-compatible chat-completions endpoint.
type Client struct {
	endpoint      string
	apiKey        string
	model         string
	fallbackModel string
	http          *http.Client
}

// Option adjusts a Client.
type Option func(*Client)

// WithFallbackModel names a second model to retry with when the primary
// model is rejected with a 4xx.
func WithFallbackModel(name string) Option {
	return func(c *Client) { c.fallbackModel = name }
}

// WithHTTPClient swaps the underlying client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each chat request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New returns a Client. Empty endpoint or model is legal and turns every
// extraction call into ErrNotConfigured.
func New(endpoint, apiKey, modelName string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    modelName,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether the client has enough settings to be called.
func (c *Client) Configured() bool {
	return c.endpoint != "" && c.model != ""
}

// ExtractText asks the service for a candidate record derived from text.
// ref anchors relative and year-less dates.
func (c *Client) ExtractText(ctx context.Context, text string, ref time.Time) (*Candidate, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	user := fmt.Sprintf("Reference date: %s\n\nText:\n%s", ref.Format("2006-01-02"), text)
	messages := []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: user},
	}
	content, err := c.completeWithFallback(ctx, messages)
	if err != nil {
		return nil, err
	}
	return decodeCandidate(content, ref)
}

// ExtractImage asks the service to read a screenshot (PNG bytes) and
// derive a candidate record from it.
func (c *Client) ExtractImage(ctx context.Context, png []byte, ref time.Time) (*Candidate, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	parts := []contentPart{
		{Type: "text", Text: fmt.Sprintf("Reference date: %s\n\nExtract the record from this screenshot.", ref.Format("2006-01-02"))},
		{Type: "image_url", ImageURL: &imageURL{URL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)}},
	}
	messages := []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: parts},
	}
	content, err := c.completeWithFallback(ctx, messages)
	if err != nil {
		return nil, err
	}
	return decodeCandidate(content, ref)
}

// completeWithFallback runs one completion against the primary model and,
// on a 4xx only, retries once against the fallback model. Every other
// failure class surfaces immediately.
func (c *Client) completeWithFallback(ctx context.Context, messages []chatMessage) (string, error) {
	content, err := c.complete(ctx, c.model, messages)
	if err == nil {
		return content, nil
	}
	var srvErr *ServerError
	if c.fallbackModel != "" && errors.As(err, &srvErr) && srvErr.Status >= 400 && srvErr.Status < 500 {
		return c.complete(ctx, c.fallbackModel, messages)
	}
	return "", err
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// chatMessage is an outbound message. Content is a string for plain text
// or []contentPart for multimodal input.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content messageContent `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, modelName string, messages []chatMessage) (string, error) {
	raw, err := json.Marshal(chatRequest{
		Model:          modelName,
		Messages:       messages,
		Temperature:    0.1,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", &EncodeError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling extraction service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading extraction response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &ServerError{Status: resp.StatusCode, Body: string(body)}
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	content := strings.TrimSpace(chat.Choices[0].Message.Content.text)
	if content == "" {
		return "", fmt.Errorf("%w: empty content", ErrMalformedResponse)
	}
	return content, nil
}
