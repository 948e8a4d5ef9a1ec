package openhands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/openhands/skillctl/internal/errors"
)

// DefaultBaseURL is the hosted OpenHands Cloud.
const DefaultBaseURL = "https://app.all-hands.dev"

// defaultRequestTimeout bounds a single request when the caller's context
// carries no deadline of its own.
const defaultRequestTimeout = 30 * time.Second

// maxErrorBody caps how much of a response body an APIError carries.
const maxErrorBody = 2048

// ErrMissingAPIKey is returned when a client is constructed without a key.
var ErrMissingAPIKey = errors.New("missing API key")

// Client is the shared transport. It joins a base URL with request paths,
// injects the auth header, and normalizes error handling. The v0 and v1
// packages build their endpoint methods on top of it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	authHeader string
	authValue  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the default base URL. A trailing slash is stripped.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient substitutes the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient returns a client that authenticates with a Bearer API key
// against the app server.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
		authHeader: "Authorization",
		authValue:  "Bearer " + apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewSessionClient returns a client for the agent server running inside a
// sandbox. The agent server uses the X-Session-API-Key header instead of
// Bearer auth, and its URL differs per sandbox.
func NewSessionClient(serverURL, sessionAPIKey string, opts ...Option) (*Client, error) {
	if sessionAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		baseURL:    strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{},
		authHeader: "X-Session-API-Key",
		authValue:  sessionAPIKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the client's base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON performs a GET and returns the raw response body.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	body, _, err := c.do(ctx, http.MethodGet, path, query, "", nil)
	return body, err
}

// PostJSON marshals payload and POSTs it. A nil payload sends no body.
func (c *Client) PostJSON(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	return c.sendJSON(ctx, http.MethodPost, path, payload)
}

// PatchJSON marshals payload and PATCHes it.
func (c *Client) PatchJSON(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	return c.sendJSON(ctx, http.MethodPatch, path, payload)
}

// DeleteJSON performs a DELETE and returns the raw response body.
func (c *Client) DeleteJSON(ctx context.Context, path string) (json.RawMessage, error) {
	body, _, err := c.do(ctx, http.MethodDelete, path, nil, "", nil)
	return body, err
}

// Download performs a GET and returns the raw body together with its
// Content-Type. Used for trajectory zips and workspace file downloads.
func (c *Client) Download(ctx context.Context, path string, query url.Values) ([]byte, string, error) {
	return c.do(ctx, http.MethodGet, path, query, "", nil)
}

// PostMultipart uploads a single file part under the given form field.
func (c *Client) PostMultipart(ctx context.Context, path, field, filename string, content []byte, contentType string) (json.RawMessage, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, errors.Wrap(err, "creating multipart body")
	}
	if _, err := part.Write(content); err != nil {
		return nil, errors.Wrap(err, "writing multipart content")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "finalizing multipart body")
	}

	body, _, err := c.do(ctx, http.MethodPost, path, nil, w.FormDataContentType(), &buf)
	return body, err
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(data)
	}
	raw, _, err := c.do(ctx, method, path, nil, "application/json", body)
	return raw, err
}

// do executes one request. When ctx has no deadline, the default request
// timeout applies; callers that need longer (sandbox provisioning, zip
// downloads) set their own deadline before calling.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader) ([]byte, string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultRequestTimeout)
		defer cancel()
	}

	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, "", errors.Wrapf(err, "building %s request", method)
	}
	req.Header.Set(c.authHeader, c.authValue)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", errors.Wrapf(err, "%s %s", method, RedactURL(requestURL))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.Wrapf(err, "reading response from %s", RedactURL(requestURL))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        RedactURL(requestURL),
			Body:       truncateBody(data),
		}
	}

	return data, resp.Header.Get("Content-Type"), nil
}

// APIError describes a non-2xx response.
type APIError struct {
	// StatusCode is the numeric HTTP status.
	StatusCode int
	// Status is the full status line, e.g. "404 Not Found".
	Status string
	// URL is the request URL with query string and userinfo removed,
	// safe to log.
	URL string
	// Body holds the response body, truncated to maxErrorBody bytes.
	Body string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("openhands: %s returned %s", e.URL, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// AsAPIError unwraps err as an *APIError. It reports false for transport
// failures that never produced a response.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// PollTimeoutError reports that a poll loop ran out of time before the
// watched resource reached a terminal status.
type PollTimeoutError struct {
	// Resource names what was being polled, e.g. "conversation abc123".
	Resource string
	// Timeout is the poll budget that was exhausted.
	Timeout time.Duration
	// LastStatus is the last observed status, empty when none was seen.
	LastStatus string
}

func (e *PollTimeoutError) Error() string {
	msg := fmt.Sprintf("%s did not reach a terminal state within %s", e.Resource, e.Timeout)
	if e.LastStatus != "" {
		msg += fmt.Sprintf(" (last status %q)", e.LastStatus)
	}
	return msg
}

// RedactURL strips the query string and userinfo from a request URL so
// filter values and embedded credentials never end up in logs or errors.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}

func truncateBody(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
