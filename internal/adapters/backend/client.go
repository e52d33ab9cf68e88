// Package backend is the gateway to the REST backend that owns all
// domain state. Every dashboard action goes through here; the
// front-end never persists domain data itself.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Errors surfaced by the gateway.
var (
	// ErrUnauthenticated means the backend rejected the bearer token.
	// The session has already been invalidated by the time callers see
	// this; they must route to login.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// userErrorFallback is shown when an error carries no usable message.
const userErrorFallback = "Произошла неизвестная ошибка"

// networkErrorMessage marks transport failures with no response.
const networkErrorMessage = "network error"

// APIError is a non-2xx backend response, or a transport failure when
// StatusCode is 0.
type APIError struct {
	StatusCode int
	Message    string // the backend's {error} field
	Details    string // the backend's {details}, flattened if an object
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// IsNetwork returns true for transport failures with no response.
func (e *APIError) IsNetwork() bool {
	return e.StatusCode == 0
}

// FormatUserError converts any gateway or validation error into the
// inline user-facing string. It is the single formatting point for
// errors displayed on dashboards (validation errors carry their own
// Russian text and pass through unchanged).
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrUnauthenticated) {
		return "Сессия истекла, войдите заново"
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" && apiErr.Message != networkErrorMessage {
			return apiErr.Message
		}
		if apiErr.Details != "" {
			return apiErr.Details
		}
		if apiErr.IsNetwork() {
			return "Ошибка сети"
		}
		return userErrorFallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return userErrorFallback
}

// Client wraps HTTP calls to the backend. Calls are fire-once: no
// retries, no backoff; callers decide whether to re-invoke.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// onUnauthenticated is invoked on any 401 so the owning session
	// can be cleared before the error propagates.
	onUnauthenticated func(ctx context.Context, token string)
}

// New creates a Client for the given backend base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// OnUnauthenticated registers the session-invalidation hook called on
// every 401 response.
// PRE: fn is safe to call from request handlers
func (c *Client) OnUnauthenticated(fn func(ctx context.Context, token string)) {
	c.onUnauthenticated = fn
}

// do issues a JSON request and returns the raw response body.
// POST: 401 invalidates the session and returns ErrUnauthenticated;
// other non-2xx statuses return *APIError
func (c *Client) do(ctx context.Context, token, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(ctx, token, req)
}

// doMultipart issues a multipart/form-data request (file uploads).
// PRE: fileName and file describe the attached document; both may be
// empty for a form without a file
func (c *Client) doMultipart(ctx context.Context, token, path string, fields map[string]string, fileField, fileName string, file []byte) (json.RawMessage, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, key := range sortedKeys(fields) {
		if err := mw.WriteField(key, fields[key]); err != nil {
			return nil, fmt.Errorf("encode form field %s: %w", key, err)
		}
	}
	if fileName != "" {
		part, err := mw.CreateFormFile(fileField, fileName)
		if err != nil {
			return nil, fmt.Errorf("encode form file: %w", err)
		}
		if _, err := part.Write(file); err != nil {
			return nil, fmt.Errorf("encode form file: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(ctx, token, req)
}

func (c *Client) send(ctx context.Context, token string, req *http.Request) (json.RawMessage, error) {
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("backend_call", "method", req.Method, "path", req.URL.Path, "request_id", requestID, "error", err.Error())
		return nil, &APIError{Message: networkErrorMessage}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: networkErrorMessage}
	}

	slog.Debug("backend_call", "method", req.Method, "path", req.URL.Path, "request_id", requestID, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthenticated != nil && token != "" {
			c.onUnauthenticated(ctx, token)
		}
		return nil, ErrUnauthenticated
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp.StatusCode, data)
	}
	return data, nil
}

// decodeAPIError maps a non-2xx body onto APIError. The backend sends
// either {"error": "..."} or {"details": <string or field map>}.
func decodeAPIError(status int, data []byte) *APIError {
	var payload struct {
		Error   string          `json:"error"`
		Details json.RawMessage `json:"details"`
	}
	apiErr := &APIError{StatusCode: status}
	if err := json.Unmarshal(data, &payload); err != nil {
		apiErr.Message = fmt.Sprintf("backend returned status %d", status)
		return apiErr
	}
	apiErr.Message = payload.Error
	apiErr.Details = flattenDetails(payload.Details)
	if apiErr.Message == "" && apiErr.Details == "" {
		apiErr.Message = fmt.Sprintf("backend returned status %d", status)
	}
	return apiErr
}

// flattenDetails joins field-level validation details into one
// comma-separated string. Keys are sorted so the output is stable.
func flattenDetails(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return ""
	}
	var parts []string
	for _, key := range sortedRawKeys(asMap) {
		value := asMap[key]
		var list []string
		if err := json.Unmarshal(value, &list); err == nil {
			parts = append(parts, list...)
			continue
		}
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			parts = append(parts, single)
		}
	}
	return strings.Join(parts, ", ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedRawKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
