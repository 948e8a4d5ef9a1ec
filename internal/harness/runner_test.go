package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/registry"
	"github.com/openhands/skillctl/internal/runs"
	"github.com/openhands/skillctl/pkg/openhands"
	v0 "github.com/openhands/skillctl/pkg/openhands/v0"
)

const testPluginDoc = `---
name: git-helper
description: Helps with git operations
triggers:
  - git
  - commit
---

# Git Helper

Use git to commit changes.
`

// writePlugin lays out a registry root containing one plugin document.
func writePlugin(t *testing.T, doc string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "plugins", "git-helper")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "PLUGIN.md"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

// testServer models the conversation API for one run: create, a sequence of
// status responses, and a trajectory.
type testServer struct {
	server     *httptest.Server
	statuses   []string
	trajectory string
	createURL  string

	creates    atomic.Int32
	polls      atomic.Int32
	trajCalls  atomic.Int32
	lastCreate atomic.Value
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		statuses:   []string{"STOPPED"},
		trajectory: `{"trajectory":[{"action":"run","observation":"BUILD PASSED"}]}`,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/conversations", func(w http.ResponseWriter, req *http.Request) {
		ts.creates.Add(1)
		var body map[string]any
		if err := json.NewDecoder(req.Body).Decode(&body); err == nil {
			ts.lastCreate.Store(body)
		}
		resp := map[string]any{"conversation_id": "conv-1", "status": "STARTING"}
		if ts.createURL != "" {
			resp["url"] = ts.createURL
		}
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("GET /api/conversations/conv-1", func(w http.ResponseWriter, req *http.Request) {
		n := int(ts.polls.Add(1))
		status := ts.statuses[len(ts.statuses)-1]
		if n <= len(ts.statuses) {
			status = ts.statuses[n-1]
		}
		fmt.Fprintf(w, `{"conversation_id":"conv-1","status":%q}`, status)
	})
	mux.HandleFunc("GET /api/conversations/conv-1/trajectory", func(w http.ResponseWriter, req *http.Request) {
		ts.trajCalls.Add(1)
		fmt.Fprint(w, ts.trajectory)
	})
	ts.server = httptest.NewServer(mux)
	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client(t *testing.T) *v0.Client {
	t.Helper()
	c, err := v0.NewClient("test-key", openhands.WithBaseURL(ts.server.URL))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return c
}

func newTestRunner(t *testing.T, ts *testServer) (*Runner, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	r := &Runner{
		Client:   ts.client(t),
		Registry: writePlugin(t, testPluginDoc),
		Out:      &out,
		OpenURL:  func(string) error { return nil },
	}
	return r, &out
}

func fastOptions() Options {
	return Options{
		Plugin:  "git-helper",
		Message: "use git to commit the fix",
		Expect:  "BUILD PASSED",
		Poll:    time.Millisecond,
		MaxWait: time.Second,
	}
}

func TestRun_MatchesSubstring(t *testing.T) {
	ts := newTestServer(t)
	ts.statuses = []string{"STARTING", "RUNNING", "STOPPED"}
	r, out := newTestRunner(t, ts)

	res, err := r.Run(context.Background(), fastOptions())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !res.Matched {
		t.Error("Matched = false, want true")
	}
	if res.TimedOut {
		t.Error("TimedOut = true, want false")
	}
	if res.Status != "STOPPED" {
		t.Errorf("Status = %q, want STOPPED", res.Status)
	}
	if res.ConversationID != "conv-1" {
		t.Errorf("ConversationID = %q, want conv-1", res.ConversationID)
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}
	if got := ts.polls.Load(); got != 3 {
		t.Errorf("status polled %d times, want 3", got)
	}
	if got := ts.trajCalls.Load(); got != 1 {
		t.Errorf("trajectory fetched %d times, want 1", got)
	}
	if !strings.Contains(out.String(), "Conversation: ") {
		t.Errorf("output missing conversation URL line: %q", out.String())
	}
	if strings.Contains(out.String(), "warning:") {
		t.Errorf("unexpected warning in output: %q", out.String())
	}
	body, _ := ts.lastCreate.Load().(map[string]any)
	if got := body["initial_user_msg"]; got != "use git to commit the fix" {
		t.Errorf("initial_user_msg = %v, want the test message", got)
	}
}

func TestRun_NoMatch(t *testing.T) {
	ts := newTestServer(t)
	r, _ := newTestRunner(t, ts)

	opts := fastOptions()
	opts.Expect = "DEPLOY COMPLETE"
	res, err := r.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.Matched {
		t.Error("Matched = true, want false")
	}
}

func TestRun_RegexMatch(t *testing.T) {
	ts := newTestServer(t)
	r, _ := newTestRunner(t, ts)

	opts := fastOptions()
	opts.Expect = `BUILD (PASSED|FAILED)`
	opts.Regex = true
	res, err := r.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !res.Matched {
		t.Error("Matched = false, want true")
	}
}

func TestRun_UsageErrors(t *testing.T) {
	ts := newTestServer(t)
	r, _ := newTestRunner(t, ts)

	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"missing message", func(o *Options) { o.Message = "  " }},
		{"missing expect", func(o *Options) { o.Expect = "" }},
		{"invalid regex", func(o *Options) { o.Expect = "("; o.Regex = true }},
		{"missing plugin", func(o *Options) { o.Plugin = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := fastOptions()
			tt.modify(&opts)

			_, err := r.Run(context.Background(), opts)
			if err == nil {
				t.Fatal("Run() expected error, got nil")
			}
			var exitErr *errors.ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("error %v is not an ExitError", err)
			}
			if exitErr.Code != errors.ExitUsage {
				t.Errorf("Code = %d, want %d", exitErr.Code, errors.ExitUsage)
			}
		})
	}
	if got := ts.creates.Load(); got != 0 {
		t.Errorf("usage errors created %d conversations, want 0", got)
	}
}

func TestRun_UnknownPlugin(t *testing.T) {
	ts := newTestServer(t)
	r, _ := newTestRunner(t, ts)

	restore := findPlugin
	findPlugin = func(name string) ([]registry.Entry, error) {
		return nil, registry.ErrNoSourcesConfigured
	}
	defer func() { findPlugin = restore }()

	opts := fastOptions()
	opts.Plugin = "no-such-plugin"
	_, err := r.Run(context.Background(), opts)
	if err == nil {
		t.Fatal("Run() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v, want mention of not found", err)
	}
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		t.Errorf("unknown plugin should be a plain run failure, got ExitError code %d", exitErr.Code)
	}
	if got := ts.creates.Load(); got != 0 {
		t.Errorf("created %d conversations, want 0", got)
	}
}

func TestRun_AmbiguousPlugin(t *testing.T) {
	ts := newTestServer(t)
	r, _ := newTestRunner(t, ts)
	r.Registry = ""

	restore := findPlugin
	findPlugin = func(name string) ([]registry.Entry, error) {
		return []registry.Entry{
			{Name: name, Kind: registry.KindPlugin, Source: "alpha"},
			{Name: name, Kind: registry.KindPlugin, Source: "beta"},
		}, nil
	}
	defer func() { findPlugin = restore }()

	_, err := r.Run(context.Background(), fastOptions())
	if err == nil {
		t.Fatal("Run() expected error, got nil")
	}
	for _, want := range []string{"multiple sources", "alpha", "beta"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %v missing %q", err, want)
		}
	}
}

func TestRun_TriggerWarning(t *testing.T) {
	ts := newTestServer(t)
	r, out := newTestRunner(t, ts)

	opts := fastOptions()
	opts.Message = "please summarize the README"
	if _, err := r.Run(context.Background(), opts); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !strings.Contains(out.String(), "warning: message does not mention any trigger") {
		t.Errorf("output missing trigger warning: %q", out.String())
	}
	if !strings.Contains(out.String(), "git, commit") {
		t.Errorf("output missing trigger list: %q", out.String())
	}
}

func TestRun_Timeout(t *testing.T) {
	ts := newTestServer(t)
	ts.statuses = []string{"RUNNING"}
	r, out := newTestRunner(t, ts)

	opts := fastOptions()
	opts.Poll = 50 * time.Millisecond
	opts.MaxWait = 10 * time.Millisecond
	res, err := r.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !res.TimedOut {
		t.Error("TimedOut = false, want true")
	}
	if res.Matched {
		t.Error("Matched = true, want false")
	}
	if res.Status != "RUNNING" {
		t.Errorf("Status = %q, want RUNNING", res.Status)
	}
	if got := ts.polls.Load(); got != 1 {
		t.Errorf("status polled %d times, want 1", got)
	}
	if got := ts.trajCalls.Load(); got != 0 {
		t.Errorf("trajectory fetched %d times on timeout, want 0", got)
	}
	if !strings.Contains(out.String(), "timed out after") {
		t.Errorf("output missing timeout line: %q", out.String())
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	ts := newTestServer(t)
	ts.statuses = []string{"RUNNING"}
	r, _ := newTestRunner(t, ts)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	opts := fastOptions()
	opts.Poll = time.Minute
	opts.MaxWait = time.Hour
	_, err := r.Run(ctx, opts)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestRun_OpensURL(t *testing.T) {
	ts := newTestServer(t)
	ts.createURL = "https://app.example.com/conversations/conv-1"
	r, _ := newTestRunner(t, ts)

	var opened string
	r.OpenURL = func(url string) error {
		opened = url
		return nil
	}
	opts := fastOptions()
	opts.Open = true
	res, err := r.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if opened != ts.createURL {
		t.Errorf("opened %q, want %q", opened, ts.createURL)
	}
	if res.URL != ts.createURL {
		t.Errorf("URL = %q, want %q", res.URL, ts.createURL)
	}
}

func TestRun_OpenFailureIsWarning(t *testing.T) {
	ts := newTestServer(t)
	r, out := newTestRunner(t, ts)

	r.OpenURL = func(string) error { return errors.New("no display") }
	opts := fastOptions()
	opts.Open = true
	res, err := r.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !res.Matched {
		t.Error("Matched = false, want true")
	}
	if !strings.Contains(out.String(), "warning: could not open browser") {
		t.Errorf("output missing browser warning: %q", out.String())
	}
}

func TestRun_URLFallback(t *testing.T) {
	ts := newTestServer(t)
	r, _ := newTestRunner(t, ts)

	res, err := r.Run(context.Background(), fastOptions())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	want := ts.server.URL + "/conversations/conv-1"
	if res.URL != want {
		t.Errorf("URL = %q, want %q", res.URL, want)
	}
}

func TestRun_RecordsRun(t *testing.T) {
	ts := newTestServer(t)
	r, _ := newTestRunner(t, ts)

	store, err := runs.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer store.Close()
	r.Store = store

	res, err := r.Run(context.Background(), fastOptions())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	records, err := store.List(0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("ledger has %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.ID != res.RunID {
		t.Errorf("ID = %q, want %q", rec.ID, res.RunID)
	}
	if rec.Plugin != "git-helper" {
		t.Errorf("Plugin = %q, want git-helper", rec.Plugin)
	}
	if rec.ConversationID != "conv-1" {
		t.Errorf("ConversationID = %q, want conv-1", rec.ConversationID)
	}
	if rec.Pattern != "BUILD PASSED" {
		t.Errorf("Pattern = %q, want BUILD PASSED", rec.Pattern)
	}
	if !rec.Matched {
		t.Error("Matched = false, want true")
	}
	if rec.Status != "STOPPED" {
		t.Errorf("Status = %q, want STOPPED", rec.Status)
	}
	if rec.StartedAt.IsZero() || rec.FinishedAt.IsZero() {
		t.Error("timestamps not recorded")
	}
}

func TestRun_RecordsTimeoutStatus(t *testing.T) {
	ts := newTestServer(t)
	ts.statuses = []string{"RUNNING"}
	r, _ := newTestRunner(t, ts)

	store, err := runs.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer store.Close()
	r.Store = store

	opts := fastOptions()
	opts.Poll = 50 * time.Millisecond
	opts.MaxWait = 10 * time.Millisecond
	if _, err := r.Run(context.Background(), opts); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	records, err := store.List(0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("ledger has %d records, want 1", len(records))
	}
	if records[0].Status != "TIMEOUT" {
		t.Errorf("Status = %q, want TIMEOUT", records[0].Status)
	}
}

func TestRun_RecordFailureIsWarning(t *testing.T) {
	ts := newTestServer(t)
	r, out := newTestRunner(t, ts)

	store, err := runs.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	store.Close()
	r.Store = store

	res, err := r.Run(context.Background(), fastOptions())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !res.Matched {
		t.Error("Matched = false, want true")
	}
	if !strings.Contains(out.String(), "warning: could not record run") {
		t.Errorf("output missing record warning: %q", out.String())
	}
}

func TestRun_VerboseRedactsExcerpt(t *testing.T) {
	ts := newTestServer(t)
	ts.trajectory = `{"trajectory":[{"observation":"token ghp_abc123def456 leaked"}]}`
	r, out := newTestRunner(t, ts)

	opts := fastOptions()
	opts.Expect = "NEVER PRESENT"
	opts.Verbose = true
	res, err := r.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.Matched {
		t.Error("Matched = true, want false")
	}
	if strings.Contains(out.String(), "ghp_abc123def456") {
		t.Errorf("output leaked the token: %q", out.String())
	}
	if !strings.Contains(out.String(), "ghp_****") {
		t.Errorf("output missing masked token: %q", out.String())
	}
}

func TestRun_VerboseProgress(t *testing.T) {
	ts := newTestServer(t)
	ts.statuses = []string{"STARTING", "RUNNING", "STOPPED"}
	r, out := newTestRunner(t, ts)

	opts := fastOptions()
	opts.Verbose = true
	if _, err := r.Run(context.Background(), opts); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	for _, want := range []string{"plugin: git-helper", "status: STARTING", "status: RUNNING", "status: STOPPED"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q: %q", want, out.String())
		}
	}
}

func TestRun_PollFailureAborts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/conversations", func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, `{"conversation_id":"conv-1","status":"STARTING"}`)
	})
	mux.HandleFunc("GET /api/conversations/conv-1", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, `{"detail":"gone"}`, http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, err := v0.NewClient("test-key", openhands.WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	r := &Runner{Client: c, Registry: writePlugin(t, testPluginDoc), OpenURL: func(string) error { return nil }}

	_, err = r.Run(context.Background(), fastOptions())
	if err == nil {
		t.Fatal("Run() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "polling conversation") {
		t.Errorf("error = %v, want polling context", err)
	}
}
