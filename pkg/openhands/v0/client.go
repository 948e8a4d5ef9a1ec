// Package v0 implements a client for the legacy V0 conversation routes of
// the OpenHands Cloud API under {base}/api/conversations.
//
// The usual automation workflow:
//
//  1. Start a conversation: [Client.CreateConversation]
//  2. Monitor progress: [Client.GetConversation] or [Client.PollUntilTerminal]
//  3. Read the event stream: [Client.GetEvents]
//  4. Fetch the full history: [Client.GetTrajectory]
//
// Responses stay raw; the field helpers in the parent package extract the
// common values.
package v0

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/pkg/openhands"
)

// Server-enforced and default limits for event and conversation listings.
const (
	DefaultListLimit   = 20
	DefaultEventsLimit = 20
	MaxEventsLimit     = 100
)

// Client calls the legacy V0 conversation routes.
type Client struct {
	http *openhands.Client
}

// NewClient builds a V0 client. The API key is required; the base URL
// defaults to OpenHands Cloud and can be overridden with
// [openhands.WithBaseURL].
func NewClient(apiKey string, opts ...openhands.Option) (*Client, error) {
	hc, err := openhands.NewClient(apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.http.BaseURL()
}

// CreateConversationRequest is the payload for CreateConversation.
// InitialUserMsg is required; the rest is optional.
type CreateConversationRequest struct {
	// InitialUserMsg is the first user message.
	InitialUserMsg string `json:"initial_user_msg"`
	// Repository optionally attaches an "owner/repo".
	Repository string `json:"repository,omitempty"`
	// SelectedBranch optionally names a git branch.
	SelectedBranch string `json:"selected_branch,omitempty"`
	// GitProvider optionally hints the provider ("github", "gitlab", ...).
	GitProvider string `json:"git_provider,omitempty"`
	// ConversationInstructions optionally adds extra instructions.
	ConversationInstructions string `json:"conversation_instructions,omitempty"`
}

// CreateConversation starts a new conversation.
//
// POST /api/conversations
//
// The response carries at least conversation_id and status, and usually url.
func (c *Client) CreateConversation(ctx context.Context, req CreateConversationRequest) (json.RawMessage, error) {
	if strings.TrimSpace(req.InitialUserMsg) == "" {
		return nil, errors.New("initial user message is required")
	}
	return c.http.PostJSON(ctx, "/api/conversations", req)
}

// GetConversation fetches one conversation.
//
// GET /api/conversations/{id}
func (c *Client) GetConversation(ctx context.Context, conversationID string) (json.RawMessage, error) {
	return c.http.GetJSON(ctx, "/api/conversations/"+conversationID, nil)
}

// ListConversationsOptions filters ListConversations. The zero value lists
// the default page.
type ListConversationsOptions struct {
	// Limit caps the page size; values below 1 fall back to DefaultListLimit.
	Limit int
	// PageID continues a previous listing.
	PageID string
	// SelectedRepository filters to one repository.
	SelectedRepository string
	// IncludeSubConversations is a tri-state: nil omits the parameter.
	IncludeSubConversations *bool
}

// ListConversations returns a paginated result set
// { results: [...], next_page_id: ... }.
//
// GET /api/conversations
func (c *Client) ListConversations(ctx context.Context, opts ListConversationsOptions) (json.RawMessage, error) {
	limit := opts.Limit
	if limit < 1 {
		limit = DefaultListLimit
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if opts.PageID != "" {
		query.Set("page_id", opts.PageID)
	}
	if opts.SelectedRepository != "" {
		query.Set("selected_repository", opts.SelectedRepository)
	}
	if opts.IncludeSubConversations != nil {
		query.Set("include_sub_conversations", strconv.FormatBool(*opts.IncludeSubConversations))
	}
	return c.http.GetJSON(ctx, "/api/conversations", query)
}

// UpdateTitle sets a conversation title. Useful to give automation-created
// conversations a deterministic name.
//
// PATCH /api/conversations/{id}
func (c *Client) UpdateTitle(ctx context.Context, conversationID, title string) (json.RawMessage, error) {
	return c.http.PatchJSON(ctx, "/api/conversations/"+conversationID, map[string]string{"title": title})
}

// DeleteConversation deletes a conversation.
//
// DELETE /api/conversations/{id}
func (c *Client) DeleteConversation(ctx context.Context, conversationID string) (json.RawMessage, error) {
	return c.http.DeleteJSON(ctx, "/api/conversations/"+conversationID)
}

// AddMessage sends a user message into an existing conversation.
//
// POST /api/conversations/{id}/message
func (c *Client) AddMessage(ctx context.Context, conversationID, message string) (json.RawMessage, error) {
	return c.http.PostJSON(ctx, "/api/conversations/"+conversationID+"/message", map[string]string{"message": message})
}

// GetEventsOptions controls the event window for GetEvents. The zero value
// reads the first DefaultEventsLimit events in forward order.
type GetEventsOptions struct {
	// StartID is the first event id to include.
	StartID int
	// EndID optionally bounds the window; nil omits the parameter.
	EndID *int
	// Reverse flips the ordering.
	Reverse bool
	// Limit caps the window; the server enforces at most MaxEventsLimit.
	Limit int
}

// GetEvents reads a window of the event stream. This is the endpoint for
// incremental monitoring.
//
// GET /api/conversations/{id}/events
func (c *Client) GetEvents(ctx context.Context, conversationID string, opts GetEventsOptions) (json.RawMessage, error) {
	limit := opts.Limit
	if limit == 0 {
		limit = DefaultEventsLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxEventsLimit {
		limit = MaxEventsLimit
	}

	query := url.Values{}
	query.Set("start_id", strconv.Itoa(opts.StartID))
	query.Set("reverse", strconv.FormatBool(opts.Reverse))
	query.Set("limit", strconv.Itoa(limit))
	if opts.EndID != nil {
		query.Set("end_id", strconv.Itoa(*opts.EndID))
	}
	return c.http.GetJSON(ctx, "/api/conversations/"+conversationID+"/events", query)
}

// GetTrajectory fetches the entire event history in one response. Heavier
// than GetEvents; prefer the event window for monitoring.
//
// GET /api/conversations/{id}/trajectory
func (c *Client) GetTrajectory(ctx context.Context, conversationID string) (json.RawMessage, error) {
	return c.http.GetJSON(ctx, "/api/conversations/"+conversationID+"/trajectory", nil)
}

// ListFiles lists files in the sandbox workspace. An empty path lists the
// workspace root.
//
// GET /api/conversations/{id}/list-files
func (c *Client) ListFiles(ctx context.Context, conversationID, path string) (json.RawMessage, error) {
	query := url.Values{}
	if path != "" {
		query.Set("path", path)
	}
	return c.http.GetJSON(ctx, "/api/conversations/"+conversationID+"/list-files", query)
}

// GetFileContent fetches one workspace file; the response carries the text
// under "code".
//
// GET /api/conversations/{id}/select-file?file=...
func (c *Client) GetFileContent(ctx context.Context, conversationID, filePath string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("file", filePath)
	return c.http.GetJSON(ctx, "/api/conversations/"+conversationID+"/select-file", query)
}

// CreateFromPromptFileRequest configures CreateFromPromptFile.
type CreateFromPromptFileRequest struct {
	// PromptFile is the main prompt document. Required.
	PromptFile string
	// AppendFile is an optional tail (shared conventions); when the file
	// exists its content is joined to the prompt with a blank line.
	AppendFile string
	// Repository optionally attaches an "owner/repo".
	Repository string
	// SelectedBranch optionally names a git branch.
	SelectedBranch string
}

// CreateFromPromptFile starts a conversation from a prompt file, the pattern
// automation workflows use: a main prompt template plus a small shared tail.
// A named AppendFile that does not exist is skipped silently.
func (c *Client) CreateFromPromptFile(ctx context.Context, req CreateFromPromptFileRequest) (json.RawMessage, error) {
	main, err := os.ReadFile(req.PromptFile)
	if err != nil {
		return nil, errors.Wrap(err, "reading prompt file")
	}
	initial := string(main)

	if req.AppendFile != "" {
		if _, statErr := os.Stat(req.AppendFile); statErr == nil {
			tail, err := os.ReadFile(req.AppendFile)
			if err != nil {
				return nil, errors.Wrap(err, "reading append file")
			}
			initial = initial + "\n\n" + string(tail)
		}
	}

	return c.CreateConversation(ctx, CreateConversationRequest{
		InitialUserMsg: initial,
		Repository:     req.Repository,
		SelectedBranch: req.SelectedBranch,
	})
}
