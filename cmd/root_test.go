// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/ticklist/internal/config"
	"github.com/nibzard/ticklist/internal/todo"
)

// setupHome isolates config lookup and points storage at a temp dir.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "TICKLIST_") {
			t.Setenv(strings.SplitN(kv, "=", 2)[0], "")
		}
	}
	ticklistHome := filepath.Join(home, ".ticklist")
	t.Setenv("TICKLIST_HOME", ticklistHome)
	t.Chdir(t.TempDir())
	return ticklistHome
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("ticklist %v: %v\nstderr: %s", args, err, stderr)
	}
	return out
}

func TestRun(t *testing.T) {
	setupHome(t)

	for _, args := range [][]string{{"--help"}, {"-h"}, {"help"}} {
		out, _, err := runCLI(t, args...)
		if err != nil {
			t.Errorf("%v: unexpected error %v", args, err)
		}
		if !strings.Contains(out, "Commands:") {
			t.Errorf("%v: usage not printed", args)
		}
	}

	for _, args := range [][]string{{"--version"}, {"-v"}, {"version"}} {
		out, _, err := runCLI(t, args...)
		if err != nil {
			t.Errorf("%v: unexpected error %v", args, err)
		}
		if !strings.Contains(out, "ticklist version "+Version) {
			t.Errorf("%v: got %q", args, out)
		}
	}

	_, _, err := runCLI(t, "unknown-command")
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("expected unknown command error, got %v", err)
	}
}

func TestAddAndList(t *testing.T) {
	home := setupHome(t)

	id := strings.TrimSpace(mustRun(t, "add", "Buy", "milk"))
	if len(id) != 36 {
		t.Fatalf("expected a full uuid, got %q", id)
	}

	out := mustRun(t, "ls")
	if !strings.Contains(out, "Pending (1):") || !strings.Contains(out, id[:8]+"  Buy milk") {
		t.Errorf("ls output:\n%s", out)
	}

	if _, err := os.Stat(filepath.Join(home, "storage.json")); err != nil {
		t.Errorf("storage file not written: %v", err)
	}
}

func TestAddValidation(t *testing.T) {
	setupHome(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no text", []string{"add"}, "text is required"},
		{"blank text", []string{"add", "   "}, "text is required"},
		{"time without date", []string{"add", "-at", "09:00", "task"}, "-at requires -due"},
		{"bad date", []string{"add", "-due", "tomorrow", "task"}, "invalid date"},
		{"bad time", []string{"add", "-due", "2030-01-02", "-at", "25:00", "task"}, "invalid time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	out := mustRun(t, "ls")
	if !strings.Contains(out, "Pending (0):") {
		t.Errorf("failed adds left tasks behind:\n%s", out)
	}
}

func TestDueDatesAndOverdue(t *testing.T) {
	setupHome(t)

	mustRun(t, "-time-format", "2006-01-02 15:04", "add", "-due", "2000-01-02", "-at", "09:30", "Old task")
	mustRun(t, "add", "-due", "2999-12-31", "Future task")

	out := mustRun(t, "-time-format", "2006-01-02 15:04", "ls")
	var oldLine, futureLine string
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.Contains(line, "Old task"):
			oldLine = line
		case strings.Contains(line, "Future task"):
			futureLine = line
		}
	}
	if !strings.Contains(oldLine, "due 2000-01-02 09:30") || !strings.HasSuffix(oldLine, "OVERDUE") {
		t.Errorf("old task line: %q", oldLine)
	}
	if !strings.Contains(futureLine, "due 2999-12-31 00:00") || strings.Contains(futureLine, "OVERDUE") {
		t.Errorf("future task line: %q", futureLine)
	}
}

func TestDoneAndUndo(t *testing.T) {
	home := setupHome(t)

	id := strings.TrimSpace(mustRun(t, "add", "Water plants"))

	out := mustRun(t, "done", id[:6])
	if !strings.Contains(out, "Completed "+id[:8]) {
		t.Errorf("done output: %q", out)
	}

	out = mustRun(t, "ls", "-all")
	if !strings.Contains(out, "Pending (0):") || !strings.Contains(out, "Completed (1):") {
		t.Errorf("ls -all after done:\n%s", out)
	}

	// The emptied pending list is persisted by removing its key.
	data, err := os.ReadFile(filepath.Join(home, "storage.json"))
	if err != nil {
		t.Fatal(err)
	}
	var stored map[string]string
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("storage file is not a JSON object: %v", err)
	}
	if _, ok := stored[todo.KeyPending]; ok {
		t.Errorf("expected %q key removed, got %v", todo.KeyPending, stored)
	}

	out = mustRun(t, "done", id)
	if !strings.Contains(out, "already completed") {
		t.Errorf("second done: %q", out)
	}

	out = mustRun(t, "undo", id)
	if !strings.Contains(out, "Reopened "+id[:8]) {
		t.Errorf("undo output: %q", out)
	}
	out = mustRun(t, "ls")
	if !strings.Contains(out, "Water plants") {
		t.Errorf("task not pending after undo:\n%s", out)
	}
}

func TestDoneErrors(t *testing.T) {
	setupHome(t)
	mustRun(t, "add", "task")

	_, _, err := runCLI(t, "done", "ffffffff")
	if !errors.Is(err, todo.ErrNotFound) {
		t.Errorf("unknown id: expected ErrNotFound, got %v", err)
	}

	_, _, err = runCLI(t, "done")
	if err == nil || !strings.Contains(err.Error(), "usage") {
		t.Errorf("missing id: got %v", err)
	}
}

func TestListJSON(t *testing.T) {
	setupHome(t)
	mustRun(t, "add", "-due", "2030-05-06", "first")
	id := strings.TrimSpace(mustRun(t, "add", "second"))
	mustRun(t, "done", id)

	var got map[string][]todo.Task
	if err := json.Unmarshal([]byte(mustRun(t, "ls", "-json")), &got); err != nil {
		t.Fatalf("ls -json output is not JSON: %v", err)
	}
	if len(got["pending"]) != 1 || got["pending"][0].Text != "first" || got["pending"][0].DueDate == nil {
		t.Errorf("pending: %+v", got["pending"])
	}
	if _, ok := got["completed"]; ok {
		t.Error("completed included without -all")
	}

	got = nil
	if err := json.Unmarshal([]byte(mustRun(t, "ls", "-json", "-all")), &got); err != nil {
		t.Fatal(err)
	}
	if len(got["completed"]) != 1 || got["completed"][0].ID != id {
		t.Errorf("completed: %+v", got["completed"])
	}
}

func TestBackends(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		persist bool
	}{
		{"file", []string{"-storage", "file"}, true},
		{"sqlite", []string{"-storage", "sqlite"}, true},
		{"memory", []string{"-storage", "memory"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupHome(t)
			mustRun(t, append(tt.args, "add", "persist me")...)
			out := mustRun(t, append(tt.args, "ls")...)
			if got := strings.Contains(out, "persist me"); got != tt.persist {
				t.Errorf("task persisted = %v, want %v\n%s", got, tt.persist, out)
			}
		})
	}
}

func TestExplicitStoragePath(t *testing.T) {
	setupHome(t)
	path := filepath.Join(t.TempDir(), "nested", "tasks.json")

	mustRun(t, "-storage-path", path, "add", "elsewhere")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("storage path not used: %v", err)
	}
	if out := mustRun(t, "ls"); strings.Contains(out, "elsewhere") {
		t.Error("default storage should not see the task")
	}
}

func TestConfigCommand(t *testing.T) {
	setupHome(t)
	if err := os.WriteFile("ticklist.toml", []byte("log_level = \"debug\"\nbogus = 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, "-storage", "memory", "config")
	for _, want := range []string{
		"ticklist.toml",
		`"memory"`,
		"(flag)",
		`"debug"`,
		"(project file)",
		`unknown key "bogus"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "config", "-example")
	if !strings.Contains(out, "storage_backend") {
		t.Errorf("example config:\n%s", out)
	}
}

func TestInvalidConfig(t *testing.T) {
	setupHome(t)

	_, _, err := runCLI(t, "-storage", "redis", "ls")
	if err == nil || !strings.Contains(err.Error(), "storage_backend") {
		t.Errorf("expected storage_backend error, got %v", err)
	}
}

func TestCorruptStorageLoadsEmpty(t *testing.T) {
	home := setupHome(t)
	if err := os.MkdirAll(home, 0755); err != nil {
		t.Fatal(err)
	}
	stored := `{"todos": "not json", "completed": "[{\"id\":\"abcd1234\",\"text\":\"kept\"}]"}`
	if err := os.WriteFile(filepath.Join(home, "storage.json"), []byte(stored), 0644); err != nil {
		t.Fatal(err)
	}

	out, stderr, err := runCLI(t, "ls", "-all")
	if err != nil {
		t.Fatalf("ls failed: %v", err)
	}
	if !strings.Contains(out, "Pending (0):") || !strings.Contains(out, "abcd1234  kept") {
		t.Errorf("ls output:\n%s", out)
	}
	if !strings.Contains(stderr, "malformed") {
		t.Errorf("expected a warning on stderr, got %q", stderr)
	}
}

func TestTUIRequiresTTY(t *testing.T) {
	home := setupHome(t)
	logPath := filepath.Join(home, "ticklist.log")
	var stderr bytes.Buffer
	e := &env{
		cws:    &config.ConfigWithSources{},
		cfg:    &config.Config{StorageBackend: "memory", LogFile: logPath},
		stderr: &stderr,
		isTTY:  func() bool { return false },
	}

	err := tuiCommand(context.Background(), e, nil)
	if err == nil || !strings.Contains(err.Error(), "requires a TTY") {
		t.Fatalf("expected TTY error, got %v", err)
	}
	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Errorf("log file should not be created without a TTY: %v", err)
	}
}
