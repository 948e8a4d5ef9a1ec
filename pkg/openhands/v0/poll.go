package v0

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/openhands/skillctl/pkg/openhands"
)

// Defaults for PollUntilTerminal, matching the automation workflows this
// client was built for.
const (
	DefaultPollInterval = 30 * time.Second
	DefaultPollTimeout  = 20 * time.Minute
)

// Terminal conversation statuses. The API does not strictly standardize
// these; this is the safe set observed in practice.
var terminalStatuses = map[string]bool{
	"STOPPED":   true,
	"ERROR":     true,
	"FAILED":    true,
	"CANCELLED": true,
}

// IsTerminalStatus reports whether a conversation status means the run is
// over. Matching is case-insensitive.
func IsTerminalStatus(status string) bool {
	return terminalStatuses[strings.ToUpper(status)]
}

// PollUntilTerminal polls GetConversation at a fixed interval until the
// conversation reaches a terminal status, the timeout expires, or ctx is
// cancelled. Non-positive interval or timeout fall back to the defaults.
//
// A response without a status field keeps the poll going. On timeout the
// returned error is a [*openhands.PollTimeoutError] carrying the last
// observed status, and the last response is returned alongside it.
func (c *Client) PollUntilTerminal(ctx context.Context, conversationID string, interval, timeout time.Duration) (json.RawMessage, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}

	deadline := time.Now().Add(timeout)
	var last json.RawMessage
	var lastStatus string

	for {
		convo, err := c.GetConversation(ctx, conversationID)
		if err != nil {
			return last, err
		}
		last = convo
		lastStatus = strings.ToUpper(openhands.Status(convo))
		if IsTerminalStatus(lastStatus) {
			return convo, nil
		}

		if time.Now().Add(interval).After(deadline) {
			return last, &openhands.PollTimeoutError{
				Resource:   "conversation " + conversationID,
				Timeout:    timeout,
				LastStatus: lastStatus,
			}
		}

		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-time.After(interval):
		}
	}
}
