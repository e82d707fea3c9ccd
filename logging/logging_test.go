package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	log, err := New(Config{File: path, Level: "debug"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	log.Named("session").Debugw("state change", "to", "connected")
	log.Infow("hello", "user", 7)
	Sync(log)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	for _, want := range []string{"DEBUG", "session", "state change", "to", "connected", "INFO", "hello"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log output:\n%s", want, out)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	log, err := New(Config{File: path, Level: "warn"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	log.Infow("quiet")
	log.Warnw("loud")
	Sync(log)

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "quiet") || !strings.Contains(string(data), "loud") {
		t.Fatalf("unexpected level filtering:\n%s", data)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(Config{Level: "chatty"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
