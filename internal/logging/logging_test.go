package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPrintfWritesConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	l := New(dir, &console)
	defer l.Close()

	l.Printf("deleted %d files", 3)

	out := console.String()
	if !strings.Contains(out, "deleted 3 files") {
		t.Errorf("console output %q missing message", out)
	}
	if !strings.HasPrefix(out, "[") {
		t.Errorf("console output %q missing timestamp prefix", out)
	}

	path := l.Path()
	if path == "" {
		t.Fatal("Path() should name the log file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "deleted 3 files") {
		t.Errorf("log file %q missing message", string(data))
	}
	if filepath.Dir(path) != dir {
		t.Errorf("log file %q not under %q", path, dir)
	}
}

func TestPrintfAppends(t *testing.T) {
	var console bytes.Buffer
	l := New(t.TempDir(), &console)
	defer l.Close()

	l.Printf("first")
	l.Printf("second")

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "first") || !strings.Contains(lines[1], "second") {
		t.Errorf("lines out of order: %v", lines)
	}
}

func TestConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	l := New("", &console)
	defer l.Close()

	l.Printf("hello")
	if l.Path() != "" {
		t.Error("Path() should be empty without a file sink")
	}
	if !strings.Contains(console.String(), "hello") {
		t.Error("console sink should still receive messages")
	}
}

func TestUnwritableDirDegrades(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "blocked")
	if err := os.WriteFile(dir, []byte("file in the way"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var console bytes.Buffer
	l := New(dir, &console)
	defer l.Close()

	l.Printf("still works")
	if !strings.Contains(console.String(), "still works") {
		t.Error("logger should degrade to console-only")
	}
	if l.Path() != "" {
		t.Error("degraded logger should report no file path")
	}
}
