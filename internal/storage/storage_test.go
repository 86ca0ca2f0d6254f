package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

// openers builds each backend at a fresh path under dir.
func openers(dir string) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		BackendFile: func(t *testing.T) Store {
			s, err := OpenFile(filepath.Join(dir, "storage.json"), nil)
			if err != nil {
				t.Fatalf("OpenFile failed: %v", err)
			}
			return s
		},
		BackendSQLite: func(t *testing.T) Store {
			s, err := OpenSQLite(filepath.Join(dir, "storage.db"))
			if err != nil {
				t.Fatalf("OpenSQLite failed: %v", err)
			}
			return s
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, open := range openers(t.TempDir()) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			if _, ok, err := s.Get("todos"); err != nil || ok {
				t.Fatalf("Get on empty store: ok=%v err=%v", ok, err)
			}
			if err := s.Set("todos", `[{"id":"a","text":"x"}]`); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if err := s.Set("todos", `[]`); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}
			got, ok, err := s.Get("todos")
			if err != nil || !ok || got != `[]` {
				t.Fatalf("Get: got %q ok=%v err=%v", got, ok, err)
			}
			if err := s.Delete("todos"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if err := s.Delete("todos"); err != nil {
				t.Fatalf("Delete of missing key failed: %v", err)
			}
			if _, ok, _ := s.Get("todos"); ok {
				t.Error("key still present after Delete")
			}
		})
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	for name, open := range openers(dir) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			if err := s.Set("completed", "value"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			s = open(t)
			defer s.Close()
			got, ok, err := s.Get("completed")
			if err != nil || !ok || got != "value" {
				t.Errorf("after reopen: got %q ok=%v err=%v", got, ok, err)
			}
		})
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	if err := s.Set("k", "v"); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Errorf("Len: got %d, want 1", s.Len())
	}
	if v, ok, _ := s.Get("k"); !ok || v != "v" {
		t.Errorf("Get: got %q ok=%v", v, ok)
	}
	s.Delete("k")
	if s.Len() != 0 {
		t.Errorf("Len after delete: got %d, want 0", s.Len())
	}
}

func TestFileStoreFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	s, err := OpenFile(path, nil)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	if err := s.Set("todos", "[]"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	want := "{\n  \"todos\": \"[]\"\n}\n"
	if string(data) != want {
		t.Errorf("file contents: got %q, want %q", data, want)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the storage file, found %d entries", len(entries))
	}
}

func TestFileStoreCorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	logger := log.New(&buf)
	s, err := OpenFile(path, logger)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	if _, ok, _ := s.Get("todos"); ok {
		t.Error("corrupt file should read as empty")
	}
	if !strings.Contains(buf.String(), "ignoring unreadable storage file") {
		t.Errorf("expected warning, got %q", buf.String())
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open("memory", "", nil)
	if err != nil {
		t.Fatalf("Open memory failed: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("memory backend: got %T", s)
	}

	s, err = Open("", filepath.Join(dir, "s.json"), nil)
	if err != nil {
		t.Fatalf("Open default failed: %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("default backend: got %T", s)
	}

	if _, err := Open("redis", "", nil); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("unknown backend: got %v, want ErrUnknownBackend", err)
	}
}

func TestValidBackend(t *testing.T) {
	for _, b := range Backends() {
		if !ValidBackend(b) {
			t.Errorf("ValidBackend(%q) = false", b)
		}
	}
	if ValidBackend("redis") {
		t.Error("ValidBackend(redis) = true")
	}
}
