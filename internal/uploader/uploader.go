// Package uploader posts batches of shared records to a remote sink.
//
// The sink is a thin HTTP endpoint: one POST per batch, JSON body, 2xx
// means accepted. Anything smarter (retries, queues, auth refresh) lives
// server-side or not at all.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jotbook-dev/jotbook/internal/model"
)

var (
	// ErrNoEndpoint means no sink URL is configured.
	ErrNoEndpoint = errors.New("upload endpoint not configured")

	// ErrNothingToUpload means the batch was empty.
	ErrNothingToUpload = errors.New("no shared records to upload")
)

// EncodeError wraps a failure to marshal the outgoing payload.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return "encoding upload payload: " + e.Err.Error() }
func (e *EncodeError) Unwrap() error { return e.Err }

// ServerError is a non-2xx reply from the sink.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("upload sink returned HTTP %d: %s", e.Status, e.Body)
}

// payload is the wire format the sink accepts.
type payload struct {
	Events      []model.Record `json:"events"`
	GeneratedAt string         `json:"generatedAt"`
}

// Uploader sends record batches to one fixed endpoint.
type Uploader struct {
	endpoint string
	http     *http.Client
}

// Option adjusts an Uploader.
type Option func(*Uploader)

// WithHTTPClient swaps the underlying client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(u *Uploader) { u.http = c }
}

// WithTimeout bounds each upload request.
func WithTimeout(d time.Duration) Option {
	return func(u *Uploader) { u.http.Timeout = d }
}

// New returns an Uploader for the given sink URL. An empty URL is legal;
// Upload then reports ErrNoEndpoint, which callers treat as "not set up"
// rather than a fault.
func New(endpoint string, opts ...Option) *Uploader {
	u := &Uploader{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload posts the batch and returns how many records the sink accepted.
func (u *Uploader) Upload(ctx context.Context, records []model.Record, generatedAt time.Time) (int, error) {
	if u.endpoint == "" {
		return 0, ErrNoEndpoint
	}
	if len(records) == 0 {
		return 0, ErrNothingToUpload
	}

	body, err := json.Marshal(payload{
		Events:      records,
		GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return 0, &EncodeError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("posting upload batch: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("reading sink response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, &ServerError{Status: resp.StatusCode, Body: string(respBody)}
	}
	return len(records), nil
}
