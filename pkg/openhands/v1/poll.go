package v1

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/openhands/skillctl/pkg/openhands"
)

// Defaults for PollStartTask. Sandbox provisioning usually finishes well
// inside the timeout; the short interval keeps startup latency low.
const (
	DefaultTaskPollInterval = 2 * time.Second
	DefaultTaskPollTimeout  = 10 * time.Minute
)

// Terminal start-task statuses.
var terminalTaskStatuses = map[string]bool{
	"READY":     true,
	"ERROR":     true,
	"FAILED":    true,
	"CANCELLED": true,
}

// IsTerminalTaskStatus reports whether a start-task status means sandbox
// provisioning is over. Matching is case-insensitive.
func IsTerminalTaskStatus(status string) bool {
	return terminalTaskStatuses[strings.ToUpper(status)]
}

// PollStartTask polls GetStartTask at a fixed interval until the task
// reaches a terminal status, the timeout expires, or ctx is cancelled.
// Non-positive interval or timeout fall back to the defaults.
//
// A nil task keeps the poll going: freshly created tasks are not always
// visible immediately. On timeout the returned error is a
// [*openhands.PollTimeoutError] carrying the last observed status, and
// the last response is returned alongside it.
func (c *Client) PollStartTask(ctx context.Context, taskID string, interval, timeout time.Duration) (json.RawMessage, error) {
	if interval <= 0 {
		interval = DefaultTaskPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultTaskPollTimeout
	}

	deadline := time.Now().Add(timeout)
	var last json.RawMessage
	var lastStatus string

	for {
		task, err := c.GetStartTask(ctx, taskID)
		if err != nil {
			return last, err
		}
		if task != nil {
			last = task
			lastStatus = strings.ToUpper(openhands.Status(task))
			if IsTerminalTaskStatus(lastStatus) {
				return task, nil
			}
		}

		if time.Now().Add(interval).After(deadline) {
			return last, &openhands.PollTimeoutError{
				Resource:   "start task " + taskID,
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
