package v0

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openhands/skillctl/pkg/openhands"
)

// newTestClient builds a client pointed at a test server.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient("test-key", openhands.WithBaseURL(server.URL))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient("")
	if err == nil {
		t.Fatal("NewClient(\"\") expected error")
	}
}

func TestCreateConversation(t *testing.T) {
	var gotPath, gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		_, _ = w.Write([]byte(`{"conversation_id":"abc123","status":"RUNNING","url":"https://example.com/conversations/abc123"}`))
	})

	raw, err := c.CreateConversation(context.Background(), CreateConversationRequest{
		InitialUserMsg: "fix the build",
		Repository:     "acme/widgets",
		SelectedBranch: "main",
	})
	if err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}

	if gotPath != "/api/conversations" {
		t.Errorf("path = %q, want /api/conversations", gotPath)
	}
	for _, want := range []string{`"initial_user_msg":"fix the build"`, `"repository":"acme/widgets"`, `"selected_branch":"main"`} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("request body = %q, missing %s", gotBody, want)
		}
	}
	if got := openhands.ConversationID(raw); got != "abc123" {
		t.Errorf("conversation id = %q, want abc123", got)
	}
}

func TestCreateConversation_OmitsEmptyOptionalFields(t *testing.T) {
	var gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		_, _ = w.Write([]byte(`{}`))
	})

	if _, err := c.CreateConversation(context.Background(), CreateConversationRequest{InitialUserMsg: "hi"}); err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}

	for _, field := range []string{"repository", "selected_branch", "git_provider", "conversation_instructions"} {
		if strings.Contains(gotBody, field) {
			t.Errorf("request body = %q, should omit empty %s", gotBody, field)
		}
	}
}

func TestCreateConversation_EmptyMessage(t *testing.T) {
	requested := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requested = true
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.CreateConversation(context.Background(), CreateConversationRequest{InitialUserMsg: "   "})
	if err == nil {
		t.Fatal("expected error for blank initial message")
	}
	if requested {
		t.Error("no request should be sent for a blank message")
	}
}

func TestGetConversation(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"conversation_id":"abc123","status":"STOPPED"}`))
	})

	raw, err := c.GetConversation(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("GetConversation() error = %v", err)
	}
	if gotPath != "/api/conversations/abc123" {
		t.Errorf("path = %q", gotPath)
	}
	if got := openhands.Status(raw); got != "STOPPED" {
		t.Errorf("status = %q, want STOPPED", got)
	}
}

func TestListConversations(t *testing.T) {
	tests := []struct {
		name      string
		opts      ListConversationsOptions
		wantQuery map[string]string
		omitted   []string
	}{
		{
			name:      "defaults",
			opts:      ListConversationsOptions{},
			wantQuery: map[string]string{"limit": "20"},
			omitted:   []string{"page_id", "selected_repository", "include_sub_conversations"},
		},
		{
			name: "all options",
			opts: ListConversationsOptions{
				Limit:                   5,
				PageID:                  "next-page",
				SelectedRepository:      "acme/widgets",
				IncludeSubConversations: boolPtr(true),
			},
			wantQuery: map[string]string{
				"limit":                     "5",
				"page_id":                   "next-page",
				"selected_repository":       "acme/widgets",
				"include_sub_conversations": "true",
			},
		},
		{
			name:      "explicit false is sent",
			opts:      ListConversationsOptions{IncludeSubConversations: boolPtr(false)},
			wantQuery: map[string]string{"include_sub_conversations": "false"},
		},
		{
			name:      "limit below one falls back",
			opts:      ListConversationsOptions{Limit: -3},
			wantQuery: map[string]string{"limit": "20"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery map[string][]string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.Query()
				_, _ = w.Write([]byte(`{"results":[],"next_page_id":null}`))
			})

			if _, err := c.ListConversations(context.Background(), tt.opts); err != nil {
				t.Fatalf("ListConversations() error = %v", err)
			}

			for key, want := range tt.wantQuery {
				if got := first(gotQuery[key]); got != want {
					t.Errorf("query %s = %q, want %q", key, got, want)
				}
			}
			for _, key := range tt.omitted {
				if _, present := gotQuery[key]; present {
					t.Errorf("query should omit %s", key)
				}
			}
		})
	}
}

func TestUpdateTitle(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		_, _ = w.Write([]byte(`{"title":"nightly check"}`))
	})

	if _, err := c.UpdateTitle(context.Background(), "abc123", "nightly check"); err != nil {
		t.Fatalf("UpdateTitle() error = %v", err)
	}
	if gotMethod != http.MethodPatch {
		t.Errorf("method = %q, want PATCH", gotMethod)
	}
	if gotPath != "/api/conversations/abc123" {
		t.Errorf("path = %q", gotPath)
	}
	if !strings.Contains(gotBody, `"title":"nightly check"`) {
		t.Errorf("body = %q, missing title", gotBody)
	}
}

func TestDeleteConversation(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"deleted":true}`))
	})

	if _, err := c.DeleteConversation(context.Background(), "abc123"); err != nil {
		t.Fatalf("DeleteConversation() error = %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", gotMethod)
	}
	if gotPath != "/api/conversations/abc123" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestAddMessage(t *testing.T) {
	var gotPath, gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		_, _ = w.Write([]byte(`{}`))
	})

	if _, err := c.AddMessage(context.Background(), "abc123", "please also run the linter"); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	if gotPath != "/api/conversations/abc123/message" {
		t.Errorf("path = %q", gotPath)
	}
	if !strings.Contains(gotBody, `"message":"please also run the linter"`) {
		t.Errorf("body = %q", gotBody)
	}
}

func TestGetEvents(t *testing.T) {
	tests := []struct {
		name      string
		opts      GetEventsOptions
		wantQuery map[string]string
		omitted   []string
	}{
		{
			name: "defaults",
			opts: GetEventsOptions{},
			wantQuery: map[string]string{
				"start_id": "0",
				"reverse":  "false",
				"limit":    "20",
			},
			omitted: []string{"end_id"},
		},
		{
			name: "window with end id",
			opts: GetEventsOptions{StartID: 10, EndID: intPtr(50), Reverse: true, Limit: 30},
			wantQuery: map[string]string{
				"start_id": "10",
				"end_id":   "50",
				"reverse":  "true",
				"limit":    "30",
			},
		},
		{
			name:      "limit clamped to server maximum",
			opts:      GetEventsOptions{Limit: 500},
			wantQuery: map[string]string{"limit": "100"},
		},
		{
			name:      "negative limit clamped to one",
			opts:      GetEventsOptions{Limit: -5},
			wantQuery: map[string]string{"limit": "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			var gotQuery map[string][]string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotQuery = r.URL.Query()
				_, _ = w.Write([]byte(`{"events":[]}`))
			})

			if _, err := c.GetEvents(context.Background(), "abc123", tt.opts); err != nil {
				t.Fatalf("GetEvents() error = %v", err)
			}

			if gotPath != "/api/conversations/abc123/events" {
				t.Errorf("path = %q", gotPath)
			}
			for key, want := range tt.wantQuery {
				if got := first(gotQuery[key]); got != want {
					t.Errorf("query %s = %q, want %q", key, got, want)
				}
			}
			for _, key := range tt.omitted {
				if _, present := gotQuery[key]; present {
					t.Errorf("query should omit %s", key)
				}
			}
		})
	}
}

func TestGetTrajectory(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"trajectory":[{"action":"message"}]}`))
	})

	raw, err := c.GetTrajectory(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("GetTrajectory() error = %v", err)
	}
	if gotPath != "/api/conversations/abc123/trajectory" {
		t.Errorf("path = %q", gotPath)
	}
	if !strings.Contains(string(raw), "message") {
		t.Errorf("unexpected trajectory body %q", raw)
	}
}

func TestListFiles(t *testing.T) {
	t.Run("with path", func(t *testing.T) {
		var gotQuery map[string][]string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			_, _ = w.Write([]byte(`["src/main.go"]`))
		})

		if _, err := c.ListFiles(context.Background(), "abc123", "src"); err != nil {
			t.Fatalf("ListFiles() error = %v", err)
		}
		if got := first(gotQuery["path"]); got != "src" {
			t.Errorf("path param = %q, want src", got)
		}
	})

	t.Run("without path", func(t *testing.T) {
		var gotQuery map[string][]string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			_, _ = w.Write([]byte(`[]`))
		})

		if _, err := c.ListFiles(context.Background(), "abc123", ""); err != nil {
			t.Fatalf("ListFiles() error = %v", err)
		}
		if _, present := gotQuery["path"]; present {
			t.Error("path param should be omitted")
		}
	})
}

func TestGetFileContent(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"code":"package main"}`))
	})

	raw, err := c.GetFileContent(context.Background(), "abc123", "src/main.go")
	if err != nil {
		t.Fatalf("GetFileContent() error = %v", err)
	}
	if gotPath != "/api/conversations/abc123/select-file" {
		t.Errorf("path = %q", gotPath)
	}
	if got := first(gotQuery["file"]); got != "src/main.go" {
		t.Errorf("file param = %q", got)
	}
	if got := openhands.StringField(raw, "code"); got != "package main" {
		t.Errorf("code field = %q", got)
	}
}

func TestCreateFromPromptFile(t *testing.T) {
	dir := t.TempDir()
	promptPath := filepath.Join(dir, "prompt.md")
	appendPath := filepath.Join(dir, "tail.md")
	if err := os.WriteFile(promptPath, []byte("Do the thing."), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(appendPath, []byte("Follow the conventions."), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("prompt with append file", func(t *testing.T) {
		var gotBody string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			data, _ := io.ReadAll(r.Body)
			gotBody = string(data)
			_, _ = w.Write([]byte(`{"conversation_id":"abc123"}`))
		})

		_, err := c.CreateFromPromptFile(context.Background(), CreateFromPromptFileRequest{
			PromptFile: promptPath,
			AppendFile: appendPath,
			Repository: "acme/widgets",
		})
		if err != nil {
			t.Fatalf("CreateFromPromptFile() error = %v", err)
		}
		if !strings.Contains(gotBody, `Do the thing.\n\nFollow the conventions.`) {
			t.Errorf("body = %q, prompt and tail should be joined with a blank line", gotBody)
		}
	})

	t.Run("missing append file is skipped", func(t *testing.T) {
		var gotBody string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			data, _ := io.ReadAll(r.Body)
			gotBody = string(data)
			_, _ = w.Write([]byte(`{}`))
		})

		_, err := c.CreateFromPromptFile(context.Background(), CreateFromPromptFileRequest{
			PromptFile: promptPath,
			AppendFile: filepath.Join(dir, "missing.md"),
		})
		if err != nil {
			t.Fatalf("CreateFromPromptFile() error = %v", err)
		}
		if !strings.Contains(gotBody, "Do the thing.") {
			t.Errorf("body = %q", gotBody)
		}
		if strings.Contains(gotBody, `\n\n`) {
			t.Errorf("body = %q, nothing should be appended", gotBody)
		}
	})

	t.Run("missing prompt file", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		})

		_, err := c.CreateFromPromptFile(context.Background(), CreateFromPromptFileRequest{
			PromptFile: filepath.Join(dir, "missing.md"),
		})
		if err == nil {
			t.Fatal("expected error for missing prompt file")
		}
	})
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
