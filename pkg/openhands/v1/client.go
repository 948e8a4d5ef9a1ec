// Package v1 implements clients for the V1 generation of the OpenHands
// Cloud API.
//
// Two servers are involved. The app server lives under {base}/api/v1 and
// authenticates with a Bearer token; it manages conversations, sandboxes
// and start tasks. Each running sandbox additionally exposes an agent
// server with its own URL and session key, covered by [AgentClient].
//
// The usual automation workflow:
//
//  1. Discover the account: [Client.Me]
//  2. Start a conversation: [Client.StartConversation]
//  3. Wait for the sandbox: [Client.PollStartTask]
//  4. Talk to the agent server: [AgentClient.SearchEvents], [AgentClient.ExecuteBash]
//  5. Export the run: [Client.DownloadTrajectory]
package v1

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/pkg/openhands"
)

// apiPrefix roots every app-server route.
const apiPrefix = "/api/v1"

// Default page sizes. Event searches page larger than conversation
// searches, matching the server defaults.
const (
	DefaultSearchLimit = 20
	DefaultEventsLimit = 50
)

// Deadlines for the slow operations. Starting a conversation provisions a
// sandbox and routinely takes over a minute.
const (
	startTimeout    = 120 * time.Second
	sandboxTimeout  = 60 * time.Second
	downloadTimeout = 60 * time.Second
)

// Client talks to the V1 app server with Bearer authentication.
type Client struct {
	http *openhands.Client
}

// NewClient returns a V1 app-server client for the given API key.
func NewClient(apiKey string, opts ...openhands.Option) (*Client, error) {
	http, err := openhands.NewClient(apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{http: http}, nil
}

// BaseURL returns the server base URL without the /api/v1 prefix.
func (c *Client) BaseURL() string {
	return c.http.BaseURL()
}

// Me returns the authenticated user, useful as a cheap credential check.
func (c *Client) Me(ctx context.Context) (json.RawMessage, error) {
	return c.http.GetJSON(ctx, apiPrefix+"/users/me", nil)
}

// SearchConversations lists app conversations, newest first. A limit below
// one falls back to DefaultSearchLimit.
func (c *Client) SearchConversations(ctx context.Context, limit int) (json.RawMessage, error) {
	return c.http.GetJSON(ctx, apiPrefix+"/app-conversations/search", limitQuery(limit, DefaultSearchLimit))
}

// CountConversations returns the total conversation count for the account.
func (c *Client) CountConversations(ctx context.Context) (json.RawMessage, error) {
	return c.http.GetJSON(ctx, apiPrefix+"/app-conversations/count", nil)
}

// GetConversations fetches a batch of conversations by ID. An empty ID
// list returns no results without a request.
func (c *Client) GetConversations(ctx context.Context, ids []string) ([]json.RawMessage, error) {
	return c.batch(ctx, apiPrefix+"/app-conversations", ids)
}

// GetConversation fetches one conversation, or nil when the server does
// not know the ID.
func (c *Client) GetConversation(ctx context.Context, conversationID string) (json.RawMessage, error) {
	items, err := c.GetConversations(ctx, []string{conversationID})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

// StartConversationRequest describes a new V1 conversation.
//
// Run controls whether the agent starts working immediately. The zero
// value means "create but do not run"; callers that want the usual
// fire-and-go behavior must set it explicitly.
type StartConversationRequest struct {
	// InitialMessage is the first user message. Required.
	InitialMessage string

	// Run starts the agent right away.
	Run bool

	SelectedRepository string
	SelectedBranch     string
	Title              string
}

type startPayload struct {
	InitialMessage     startMessage `json:"initial_message"`
	SelectedRepository string       `json:"selected_repository,omitempty"`
	SelectedBranch     string       `json:"selected_branch,omitempty"`
	Title              string       `json:"title,omitempty"`
}

type startMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
	Run     bool          `json:"run"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// StartConversation creates a conversation and its sandbox. This is the
// expensive call of the API; the response carries the conversation and a
// start task ID to poll with [Client.PollStartTask].
func (c *Client) StartConversation(ctx context.Context, req StartConversationRequest) (json.RawMessage, error) {
	if req.InitialMessage == "" {
		return nil, errors.New("initial message is required")
	}

	payload := startPayload{
		InitialMessage: startMessage{
			Role:    "user",
			Content: []contentPart{{Type: "text", Text: req.InitialMessage}},
			Run:     req.Run,
		},
		SelectedRepository: req.SelectedRepository,
		SelectedBranch:     req.SelectedBranch,
		Title:              req.Title,
	}

	ctx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	return c.http.PostJSON(ctx, apiPrefix+"/app-conversations", payload)
}

// StartFromPromptFileRequest builds a conversation's initial message from
// files on disk.
type StartFromPromptFileRequest struct {
	// PromptFile is read as the initial message. Required.
	PromptFile string

	// AppendFile, when present on disk, is appended after a blank line.
	// A missing append file is skipped silently so automations can share
	// an optional conventions tail.
	AppendFile string

	Run                bool
	SelectedRepository string
	SelectedBranch     string
	Title              string
}

// StartFromPromptFile reads the initial message from disk and starts a
// conversation with it.
func (c *Client) StartFromPromptFile(ctx context.Context, req StartFromPromptFileRequest) (json.RawMessage, error) {
	prompt, err := os.ReadFile(req.PromptFile)
	if err != nil {
		return nil, errors.Wrap(err, "reading prompt file")
	}
	message := string(prompt)

	if req.AppendFile != "" {
		if _, statErr := os.Stat(req.AppendFile); statErr == nil {
			tail, err := os.ReadFile(req.AppendFile)
			if err != nil {
				return nil, errors.Wrap(err, "reading append file")
			}
			message += "\n\n" + string(tail)
		}
	}

	return c.StartConversation(ctx, StartConversationRequest{
		InitialMessage:     message,
		Run:                req.Run,
		SelectedRepository: req.SelectedRepository,
		SelectedBranch:     req.SelectedBranch,
		Title:              req.Title,
	})
}

// GetStartTasks fetches a batch of start tasks by ID. An empty ID list
// returns no results without a request.
func (c *Client) GetStartTasks(ctx context.Context, ids []string) ([]json.RawMessage, error) {
	return c.batch(ctx, apiPrefix+"/app-conversations/start-tasks", ids)
}

// GetStartTask fetches one start task, or nil when the server does not
// know the ID.
func (c *Client) GetStartTask(ctx context.Context, taskID string) (json.RawMessage, error) {
	items, err := c.GetStartTasks(ctx, []string{taskID})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

// SearchEvents lists the stored events of a conversation via the app
// server. A limit below one falls back to DefaultEventsLimit.
func (c *Client) SearchEvents(ctx context.Context, conversationID string, limit int) (json.RawMessage, error) {
	path := apiPrefix + "/conversation/" + conversationID + "/events/search"
	return c.http.GetJSON(ctx, path, limitQuery(limit, DefaultEventsLimit))
}

// CountEvents returns the stored event count of a conversation via the
// app server.
func (c *Client) CountEvents(ctx context.Context, conversationID string) (json.RawMessage, error) {
	return c.http.GetJSON(ctx, apiPrefix+"/conversation/"+conversationID+"/events/count", nil)
}

// SearchSandboxes lists the account's sandboxes. A limit below one falls
// back to DefaultSearchLimit.
func (c *Client) SearchSandboxes(ctx context.Context, limit int) (json.RawMessage, error) {
	return c.http.GetJSON(ctx, apiPrefix+"/sandboxes/search", limitQuery(limit, DefaultSearchLimit))
}

// PauseSandbox pauses a running sandbox.
func (c *Client) PauseSandbox(ctx context.Context, sandboxID string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, sandboxTimeout)
	defer cancel()
	return c.http.PostJSON(ctx, apiPrefix+"/sandboxes/"+sandboxID+"/pause", nil)
}

// ResumeSandbox resumes a paused sandbox.
func (c *Client) ResumeSandbox(ctx context.Context, sandboxID string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, sandboxTimeout)
	defer cancel()
	return c.http.PostJSON(ctx, apiPrefix+"/sandboxes/"+sandboxID+"/resume", nil)
}

// SearchSandboxSpecs lists the available sandbox specifications. A limit
// below one falls back to DefaultSearchLimit.
func (c *Client) SearchSandboxSpecs(ctx context.Context, limit int) (json.RawMessage, error) {
	return c.http.GetJSON(ctx, apiPrefix+"/sandbox-specs/search", limitQuery(limit, DefaultSearchLimit))
}

// batch implements the ids=a&ids=b fetch shared by conversations and
// start tasks.
func (c *Client) batch(ctx context.Context, path string, ids []string) ([]json.RawMessage, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	raw, err := c.http.GetJSON(ctx, path, url.Values{"ids": ids})
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.Wrap(err, "decoding batch response")
	}
	return items, nil
}

func limitQuery(limit, fallback int) url.Values {
	if limit < 1 {
		limit = fallback
	}
	return url.Values{"limit": []string{strconv.Itoa(limit)}}
}
