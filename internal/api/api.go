package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	rerrors "resolveit/internal/errors"
	"resolveit/internal/session"
)

// Client talks to one ResolveIT backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Store
}

// New creates a client for the backend at baseURL, reading the bearer token
// from the session store on every request.
func New(baseURL string, store *session.Store) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    GetHTTPClient(),
		session: store,
	}
}

// envelope is the {success, message} wrapper most mutation and lookup
// endpoints use. List endpoints return bare arrays instead.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// do performs one request. body is JSON-encoded when non-nil; out, when
// non-nil, receives the decoded response body. Mutating requests carry an
// X-Request-ID so a manual retry is recognizable server-side.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return rerrors.NewFetchError("failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return rerrors.NewFetchError(method+" "+path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return rerrors.NewFetchError("failed to read response", err)
	}

	if err := statusError(resp.StatusCode, data); err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return rerrors.NewFetchError("failed to decode response", err)
		}
	}
	if env := decodeEnvelope(data); env != nil && !env.Success {
		return rerrors.NewAPIError(resp.StatusCode, env.Message)
	}
	return nil
}

// decodeEnvelope extracts the success/message wrapper when the body is a
// JSON object carrying one. Bare arrays and wrapper-less objects yield nil.
func decodeEnvelope(data []byte) *envelope {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' || !bytes.Contains(trimmed, []byte(`"success"`)) {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil
	}
	return &env
}

// statusError maps HTTP failure statuses onto the client error taxonomy.
// The backend's own message is preserved verbatim when present.
func statusError(code int, data []byte) error {
	if code < 400 {
		return nil
	}
	msg := ""
	if env := decodeEnvelope(data); env != nil {
		msg = env.Message
	}
	switch code {
	case http.StatusUnauthorized:
		if msg == "" {
			msg = "authentication required"
		}
		return rerrors.NewSessionExpiredError(msg)
	case http.StatusForbidden:
		return rerrors.NewAccessDeniedError("", nonEmpty(msg, "forbidden"))
	case http.StatusNotFound:
		return rerrors.NewNotFoundError(nonEmpty(msg, "resource"))
	default:
		return rerrors.NewAPIError(code, msg)
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// WithHTTPClient swaps the underlying HTTP client. Returns the receiver
// so construction can chain. Used by tests against httptest servers.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.http = httpClient
	return c
}

func unmarshalBody(data []byte, out interface{}) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return rerrors.NewFetchError("failed to decode response", err)
	}
	return nil
}

// get is a convenience wrapper for GET requests.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// raw performs a request and returns the raw body bytes, for blob
// downloads (file content, report exports).
func (c *Client) raw(ctx context.Context, method, path string, body interface{}) ([]byte, string, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, "", rerrors.NewFetchError("failed to build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", rerrors.NewFetchError(method+" "+path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", rerrors.NewFetchError("failed to read response", err)
	}
	if err := statusError(resp.StatusCode, data); err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}
