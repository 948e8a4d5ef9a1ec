package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/pkg/openhands"
)

// Sort orders accepted by the agent server's event search.
const (
	SortTimestamp     = "TIMESTAMP"
	SortTimestampDesc = "TIMESTAMP_DESC"
)

// DefaultBashTimeout bounds a sandbox command when the request does not
// say otherwise.
const DefaultBashTimeout = 30 * time.Second

// bashRequestTimeout bounds the HTTP request around the command, leaving
// headroom over the command's own timeout.
const bashRequestTimeout = 60 * time.Second

// AgentClient talks to the agent server running inside a sandbox. Each
// sandbox publishes its own server URL and session key; both come from
// the app server's sandbox listing.
type AgentClient struct {
	http *openhands.Client
}

// NewAgentClient returns a client for the agent server at serverURL,
// authenticating with the sandbox session key.
func NewAgentClient(serverURL, sessionAPIKey string, opts ...openhands.Option) (*AgentClient, error) {
	http, err := openhands.NewSessionClient(serverURL, sessionAPIKey, opts...)
	if err != nil {
		return nil, err
	}
	return &AgentClient{http: http}, nil
}

// BaseURL returns the agent server URL without a trailing slash.
func (a *AgentClient) BaseURL() string {
	return a.http.BaseURL()
}

// EventFilter narrows an agent-server event search. The zero value
// matches everything.
type EventFilter struct {
	// SortOrder is SortTimestamp or SortTimestampDesc. Empty keeps the
	// server's default ordering. Ignored by CountEvents.
	SortOrder string

	// TimestampGTE and TimestampLT bound the event timestamps. Zero
	// times are omitted.
	TimestampGTE time.Time
	TimestampLT  time.Time

	Kind   string
	Source string
	Body   string
}

func (f EventFilter) query(includeSort bool) (url.Values, error) {
	switch f.SortOrder {
	case "", SortTimestamp, SortTimestampDesc:
	default:
		return nil, errors.Newf("invalid sort order %q, want %s or %s", f.SortOrder, SortTimestamp, SortTimestampDesc)
	}

	q := url.Values{}
	if includeSort && f.SortOrder != "" {
		q.Set("sort_order", f.SortOrder)
	}
	if !f.TimestampGTE.IsZero() {
		q.Set("timestamp__gte", f.TimestampGTE.UTC().Format(time.RFC3339))
	}
	if !f.TimestampLT.IsZero() {
		q.Set("timestamp__lt", f.TimestampLT.UTC().Format(time.RFC3339))
	}
	if f.Kind != "" {
		q.Set("kind", f.Kind)
	}
	if f.Source != "" {
		q.Set("source", f.Source)
	}
	if f.Body != "" {
		q.Set("body", f.Body)
	}
	return q, nil
}

// SearchEvents pages through a conversation's live event stream. A limit
// below one falls back to DefaultEventsLimit.
func (a *AgentClient) SearchEvents(ctx context.Context, conversationID string, limit int, filter EventFilter) (json.RawMessage, error) {
	q, err := filter.query(true)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = DefaultEventsLimit
	}
	q.Set("limit", strconv.Itoa(limit))

	return a.http.GetJSON(ctx, "/api/conversations/"+conversationID+"/events/search", q)
}

// CountEvents returns the number of events matching the filter. The
// server answers with a bare integer body.
func (a *AgentClient) CountEvents(ctx context.Context, conversationID string, filter EventFilter) (int, error) {
	q, err := filter.query(false)
	if err != nil {
		return 0, err
	}

	raw, err := a.http.GetJSON(ctx, "/api/conversations/"+conversationID+"/events/count", q)
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, errors.Wrapf(err, "parsing event count %q", raw)
	}
	return n, nil
}

// BashRequest describes a command to run in the sandbox workspace.
type BashRequest struct {
	// Command is the shell command line. Required.
	Command string

	// Cwd sets the working directory. Empty uses the server default.
	Cwd string

	// Timeout bounds the command itself, rounded to whole seconds with a
	// floor of one. Zero means DefaultBashTimeout.
	Timeout time.Duration
}

type bashPayload struct {
	Command string `json:"command"`
	Timeout int    `json:"timeout"`
	Cwd     string `json:"cwd,omitempty"`
}

// ExecuteBash runs a command inside the sandbox and returns the server's
// result document (exit code, stdout, stderr).
func (a *AgentClient) ExecuteBash(ctx context.Context, req BashRequest) (json.RawMessage, error) {
	if req.Command == "" {
		return nil, errors.New("command is required")
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultBashTimeout
	}
	seconds := int(timeout / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	ctx, cancel := context.WithTimeout(ctx, bashRequestTimeout)
	defer cancel()
	return a.http.PostJSON(ctx, "/api/bash/execute_bash_command", bashPayload{
		Command: req.Command,
		Timeout: seconds,
		Cwd:     req.Cwd,
	})
}

// DownloadFile fetches a file from the sandbox workspace and writes it to
// outPath. remotePath may omit the leading slash.
func (a *AgentClient) DownloadFile(ctx context.Context, remotePath, outPath string) (*DownloadInfo, error) {
	data, contentType, err := a.http.Download(ctx, "/api/file/download"+normalizeRemotePath(remotePath), nil)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return nil, errors.Wrap(err, "writing downloaded file")
	}

	return &DownloadInfo{File: outPath, Size: len(data), ContentType: contentType}, nil
}

// UploadTextFile writes content to a file in the sandbox workspace. An
// empty contentType defaults to text/plain. Some server builds answer an
// upload with an empty body; that is normalized to {"success": true}.
func (a *AgentClient) UploadTextFile(ctx context.Context, remotePath, content, contentType string) (json.RawMessage, error) {
	if contentType == "" {
		contentType = "text/plain"
	}
	p := normalizeRemotePath(remotePath)

	raw, err := a.http.PostMultipart(ctx, "/api/file/upload"+p, "file", path.Base(p), []byte(content), contentType)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return json.RawMessage(`{"success": true}`), nil
	}
	return raw, nil
}

// normalizeRemotePath guarantees the leading slash the file routes expect.
func normalizeRemotePath(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}
