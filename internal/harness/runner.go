// Package harness drives plugin verification runs against OpenHands Cloud.
// A run sends a test message as a new conversation, waits for the agent to
// finish, and checks the trajectory for an expected pattern. Every completed
// run is recorded in the local run ledger.
package harness

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/skratchdot/open-golang/open"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/paths"
	"github.com/openhands/skillctl/internal/redact"
	"github.com/openhands/skillctl/internal/registry"
	"github.com/openhands/skillctl/internal/runs"
	"github.com/openhands/skillctl/internal/skill"
	"github.com/openhands/skillctl/internal/skill/parser"
	"github.com/openhands/skillctl/pkg/openhands"
	v0 "github.com/openhands/skillctl/pkg/openhands/v0"
)

// Defaults for the wait loop, matching the documented flag defaults.
const (
	DefaultPollInterval = 30 * time.Second
	DefaultMaxWait      = 20 * time.Minute
)

// excerptLen bounds how much trajectory text verbose mode echoes.
const excerptLen = 400

const seeHelp = "See: skillctl plugin test --help"

// findPlugin is a package-level var to allow test injection.
var findPlugin = func(name string) ([]registry.Entry, error) {
	return registry.FindByName(name, registry.KindPlugin)
}

// Options configures one verification run.
type Options struct {
	// Plugin names the plugin under test (required).
	Plugin string
	// Message is the initial user message sent to the agent (required).
	Message string
	// Expect is the pattern the trajectory must contain (required).
	Expect string
	// Regex treats Expect as a regular expression instead of a substring.
	Regex bool
	// Open opens the conversation in the default browser once created.
	Open bool
	// Verbose echoes poll progress and a trajectory excerpt on no-match.
	Verbose bool
	// MaxWait bounds the whole wait; zero means DefaultMaxWait.
	MaxWait time.Duration
	// Poll is the status check interval; zero means DefaultPollInterval.
	Poll time.Duration
}

// Result is the outcome of a verification run. A timed out or unmatched run
// is still a Result, not an error.
type Result struct {
	RunID          string        `json:"run_id"`
	Plugin         string        `json:"plugin"`
	ConversationID string        `json:"conversation_id"`
	URL            string        `json:"url"`
	Status         string        `json:"status"`
	Matched        bool          `json:"matched"`
	TimedOut       bool          `json:"timed_out"`
	Duration       time.Duration `json:"-"`
}

// Runner executes verification runs. Client is required; the rest is
// optional.
type Runner struct {
	// Client talks to the conversation API.
	Client *v0.Client
	// Registry is the local registry root searched before configured
	// sources. Empty skips the local lookup.
	Registry string
	// Store records completed runs. Nil disables recording.
	Store *runs.Store
	// Out receives progress output. Nil discards it.
	Out io.Writer
	// OpenURL opens a URL in the browser. Nil uses the platform default.
	OpenURL func(url string) error
}

// Run performs one verification run: resolve the plugin, create the
// conversation, wait for a terminal status, and match the trajectory.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if strings.TrimSpace(opts.Message) == "" {
		return nil, errors.NewUsageError(errors.New("--message is required"), seeHelp)
	}
	m, err := newMatcher(opts.Expect, opts.Regex)
	if err != nil {
		return nil, err
	}
	if opts.Poll <= 0 {
		opts.Poll = DefaultPollInterval
	}
	if opts.MaxWait <= 0 {
		opts.MaxWait = DefaultMaxWait
	}

	doc, err := r.resolvePlugin(opts.Plugin)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		fmt.Fprintf(r.out(), "plugin: %s: %s\n", doc.Name, doc.Description)
	}
	if !doc.HasTrigger(opts.Message) {
		fmt.Fprintf(r.out(), "warning: message does not mention any trigger of plugin %q (triggers: %s)\n",
			opts.Plugin, strings.Join(doc.Triggers, ", "))
	}

	started := time.Now()
	raw, err := r.Client.CreateConversation(ctx, v0.CreateConversationRequest{
		InitialUserMsg: opts.Message,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating conversation")
	}

	res := &Result{
		RunID:          uuid.NewString(),
		Plugin:         opts.Plugin,
		ConversationID: openhands.ConversationID(raw),
		URL:            openhands.ConversationURL(raw),
	}
	if res.URL == "" {
		res.URL = r.Client.BaseURL() + "/conversations/" + res.ConversationID
	}
	fmt.Fprintf(r.out(), "Conversation: %s\n", res.URL)

	if opts.Open {
		if err := r.openURL(res.URL); err != nil {
			fmt.Fprintf(r.out(), "warning: could not open browser: %v\n", err)
		}
	}

	res.Status, res.TimedOut, err = r.waitTerminal(ctx, res.ConversationID, opts)
	if err != nil {
		return nil, err
	}

	if !res.TimedOut {
		trajRaw, err := r.Client.GetTrajectory(ctx, res.ConversationID)
		if err != nil {
			return nil, errors.Wrap(err, "fetching trajectory")
		}
		text := openhands.StringField(trajRaw, "trajectory")
		if text == "" {
			text = string(trajRaw)
		}
		res.Matched = m.match(text)
		if opts.Verbose && !res.Matched {
			fmt.Fprintf(r.out(), "pattern %q not found in trajectory (%d bytes): ...%s\n",
				opts.Expect, len(text), excerpt(text))
		}
	}

	res.Duration = time.Since(started)
	r.record(res, opts, started)
	return res, nil
}

// waitTerminal polls the conversation until its status is terminal, the
// wait budget runs out, or ctx is cancelled.
func (r *Runner) waitTerminal(ctx context.Context, conversationID string, opts Options) (status string, timedOut bool, err error) {
	deadline := time.Now().Add(opts.MaxWait)
	for {
		raw, err := r.Client.GetConversation(ctx, conversationID)
		if err != nil {
			return "", false, errors.Wrap(err, "polling conversation")
		}
		status = openhands.Status(raw)
		if v0.IsTerminalStatus(status) {
			if opts.Verbose {
				fmt.Fprintf(r.out(), "status: %s\n", status)
			}
			return status, false, nil
		}
		if time.Now().Add(opts.Poll).After(deadline) {
			fmt.Fprintf(r.out(), "timed out after %s (last status %q)\n", opts.MaxWait, status)
			return status, true, nil
		}
		if opts.Verbose {
			fmt.Fprintf(r.out(), "status: %s, next check in %s\n", status, opts.Poll)
		}
		select {
		case <-ctx.Done():
			return status, false, errors.Wrap(ctx.Err(), "waiting for conversation")
		case <-time.After(opts.Poll):
		}
	}
}

// resolvePlugin locates the plugin document, preferring the local registry
// over configured sources.
func (r *Runner) resolvePlugin(name string) (*skill.Document, error) {
	if name == "" {
		return nil, errors.NewUsageError(errors.New("a plugin name is required"), seeHelp)
	}

	if r.Registry != "" {
		p := paths.PluginFile(r.Registry, name)
		if _, err := os.Stat(p); err == nil {
			doc, err := parser.New().ParseFile(p)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing plugin %s", name)
			}
			return doc, nil
		}
	}

	entries, err := findPlugin(name)
	if err != nil && !errors.Is(err, registry.ErrNoSourcesConfigured) {
		return nil, errors.Wrapf(err, "resolving plugin %s", name)
	}
	switch len(entries) {
	case 0:
		return nil, errors.Newf("plugin %q not found in the registry", name)
	case 1:
		doc, err := parser.New().ParseFile(entries[0].DocPath())
		if err != nil {
			return nil, errors.Wrapf(err, "parsing plugin %s", name)
		}
		return doc, nil
	default:
		var sources []string
		for i := 0; i < len(entries); i++ {
			sources = append(sources, entries[i].Source)
		}
		return nil, errors.Newf("plugin %q found in multiple sources: %s", name, strings.Join(sources, ", "))
	}
}

// record saves the run to the ledger. Recording failures never fail the run.
func (r *Runner) record(res *Result, opts Options, started time.Time) {
	if r.Store == nil {
		return
	}
	status := res.Status
	if res.TimedOut {
		status = "TIMEOUT"
	}
	rec := &runs.Record{
		ID:             res.RunID,
		Plugin:         res.Plugin,
		ConversationID: res.ConversationID,
		Message:        opts.Message,
		Pattern:        opts.Expect,
		Regex:          opts.Regex,
		Matched:        res.Matched,
		Status:         status,
		Duration:       res.Duration,
		StartedAt:      started.UTC(),
		FinishedAt:     started.Add(res.Duration).UTC(),
	}
	if err := r.Store.Save(rec); err != nil {
		fmt.Fprintf(r.out(), "warning: could not record run: %v\n", err)
	}
}

func (r *Runner) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return io.Discard
}

func (r *Runner) openURL(url string) error {
	if r.OpenURL != nil {
		return r.OpenURL(url)
	}
	return open.Run(url)
}

// matcher checks trajectory text against the expected pattern.
type matcher struct {
	substr string
	re     *regexp.Regexp
}

func newMatcher(expect string, useRegex bool) (*matcher, error) {
	if strings.TrimSpace(expect) == "" {
		return nil, errors.NewUsageError(errors.New("--expect is required"), seeHelp)
	}
	if !useRegex {
		return &matcher{substr: expect}, nil
	}
	re, err := regexp.Compile(expect)
	if err != nil {
		return nil, errors.NewUsageError(errors.Wrap(err, "invalid --expect pattern"), seeHelp)
	}
	return &matcher{re: re}, nil
}

func (m *matcher) match(text string) bool {
	if m.re != nil {
		return m.re.MatchString(text)
	}
	return strings.Contains(text, m.substr)
}

// excerpt returns the redacted tail of the trajectory text.
func excerpt(text string) string {
	masked := redact.MaskText(string(redact.JSON([]byte(text))))
	if len(masked) <= excerptLen {
		return masked
	}
	return masked[len(masked)-excerptLen:]
}
