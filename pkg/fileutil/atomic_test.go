package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAtomicWriteFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		perm os.FileMode
	}{
		{name: "text", data: []byte("hello world\n"), perm: 0o644},
		{name: "empty", data: []byte{}, perm: 0o644},
		{name: "binary", data: []byte{0x00, 0x01, 0xFF}, perm: 0o600},
		{name: "executable hook", data: []byte("#!/bin/sh\necho ok\n"), perm: 0o755},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out")
			if err := AtomicWriteFile(path, tt.data, tt.perm); err != nil {
				t.Fatalf("AtomicWriteFile: %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading back: %v", err)
			}
			if string(got) != string(tt.data) {
				t.Errorf("content = %q, want %q", got, tt.data)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if info.Mode().Perm() != tt.perm {
				t.Errorf("perm = %o, want %o", info.Mode().Perm(), tt.perm)
			}
		})
	}
}

func TestAtomicWriteFile_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := AtomicWriteFile(path, []byte("new"), 0o600); err != nil {
		t.Fatalf("AtomicWriteFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("content = %q, want %q", got, "new")
	}
}

func TestAtomicWriteFile_MissingParentDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "doc")

	if err := AtomicWriteFile(path, []byte("data"), 0o644); err == nil {
		t.Fatal("expected error for missing parent directory")
	}

	// No temp droppings either.
	assertNoTempFiles(t, dir)
}

func TestAtomicWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := AtomicWriteJSON(path, map[string]int{"count": 42}); err != nil {
		t.Fatalf("AtomicWriteJSON: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"count\": 42\n}\n"
	if string(got) != want {
		t.Errorf("content = %q, want %q", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("default perm = %o, want 0644", info.Mode().Perm())
	}
}

func TestAtomicWriteJSON_MarshalError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	if err := AtomicWriteJSON(path, make(chan int)); err == nil {
		t.Fatal("expected marshal error for channel value")
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("file must not exist after a marshal error")
	}
	assertNoTempFiles(t, dir)
}

func TestAtomicWriteYAML(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "map", value: map[string]int{"count": 42}, want: "count: 42\n"},
		{name: "list", value: []string{"a", "b"}, want: "- a\n- b\n"},
		{name: "struct", value: struct{ Name string }{Name: "git-helper"}, want: "name: git-helper\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.yaml")
			if err := AtomicWriteYAML(path, tt.value); err != nil {
				t.Fatalf("AtomicWriteYAML: %v", err)
			}
			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
			if !strings.HasSuffix(string(got), "\n") {
				t.Error("YAML output missing trailing newline")
			}
		})
	}
}

func TestAtomicWriteYAML_MarshalPanic(t *testing.T) {
	// yaml.Marshal panics on functions; the writer must turn that into
	// an error and leave nothing behind.
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	if err := AtomicWriteYAML(path, func() {}); err == nil {
		t.Fatal("expected error for unmarshalable value")
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("file must not exist after a marshal panic")
	}
	assertNoTempFiles(t, dir)
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
