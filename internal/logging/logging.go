// Package logging writes the append-only run log: one "[timestamp] message"
// line per event, mirrored to the console. The file sink is best-effort and
// its failures are never fatal.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Logger appends timestamped lines to a per-run log file and a console
// writer.
type Logger struct {
	file    *os.File
	console io.Writer
}

// New opens a log file named after the current time under dir. When the
// file cannot be created the logger degrades to console-only output. A nil
// console writer defaults to stdout; io.Discard silences it.
func New(dir string, console io.Writer) *Logger {
	if console == nil {
		console = os.Stdout
	}
	l := &Logger{console: console}

	if dir == "" {
		return l
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return l
	}
	name := time.Now().Format("20060102_150405") + ".log"
	if f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
		l.file = f
	}
	return l
}

// Printf logs one event line.
func (l *Logger) Printf(format string, args ...any) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("[%s] %s", ts, fmt.Sprintf(format, args...))

	fmt.Fprintln(l.console, line)
	if l.file != nil {
		fmt.Fprintln(l.file, line)
	}
}

// Path returns the log file path, or empty when running console-only.
func (l *Logger) Path() string {
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

// Close closes the file sink.
func (l *Logger) Close() {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}
