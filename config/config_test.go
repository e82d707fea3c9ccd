package config

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"MMO_SERVER_ADDR", "MMO_USER_ID", "MMO_LOG_FILE", "MMO_LOG_LEVEL", "MMO_LOG_CONSOLE", "MMO_DIAL_TIMEOUT", "MMO_DEBUG_ADDR"} {
		t.Setenv(k, "")
	}
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	if cfg.ServerAddr != "ws://localhost:8001" {
		t.Fatalf("unexpected server addr %q", cfg.ServerAddr)
	}
	if cfg.HasUserID {
		t.Fatalf("expected no user id, got %d", cfg.UserID)
	}
	if cfg.LogFile != "client.log" || cfg.LogLevel != "info" || cfg.LogConsole {
		t.Fatalf("unexpected log settings %+v", cfg)
	}
	if cfg.DialTimeout != 10*time.Second || cfg.DebugAddr != ":6061" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MMO_SERVER_ADDR", "ws://gate:9000")
	t.Setenv("MMO_USER_ID", "77")
	t.Setenv("MMO_LOG_CONSOLE", "true")
	t.Setenv("MMO_DIAL_TIMEOUT", "bogus")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	if cfg.ServerAddr != "ws://gate:9000" || cfg.UserID != 77 || !cfg.HasUserID || !cfg.LogConsole {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.DialTimeout != 10*time.Second {
		t.Fatalf("bad duration must fall back to default, got %v", cfg.DialTimeout)
	}
}

func TestLoadFromDotEnv(t *testing.T) {
	// godotenv never overrides variables that exist, even empty ones.
	for _, k := range []string{"MMO_SERVER_ADDR", "MMO_LOG_LEVEL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("MMO_SERVER_ADDR=ws://dotenv:8001\nMMO_LOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}

	cfg := Load(path)
	if cfg.ServerAddr != "ws://dotenv:8001" || cfg.LogLevel != "debug" {
		t.Fatalf("expected .env values, got %+v", cfg)
	}
}

type memStore struct {
	items map[string][]byte
	err   error
}

func (m *memStore) LoadItem(key string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.items[key], nil
}

func (m *memStore) SaveItem(key string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.items[key] = data
	return nil
}

func TestProfileRoundTrip(t *testing.T) {
	store := &memStore{items: map[string][]byte{}}

	p, err := LoadProfile(store)
	if err != nil || p != nil {
		t.Fatalf("expected no profile yet, got %+v, %v", p, err)
	}
	if err := SaveProfile(store, Profile{UserID: 31, LastServer: "ws://gate:8001"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	p, err = LoadProfile(store)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p == nil || p.UserID != 31 || p.LastServer != "ws://gate:8001" {
		t.Fatalf("unexpected profile %+v", p)
	}
}

func TestProfileErrors(t *testing.T) {
	boom := errors.New("disk full")
	if _, err := LoadProfile(&memStore{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped load error, got %v", err)
	}
	if err := SaveProfile(&memStore{err: boom}, Profile{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped save error, got %v", err)
	}
	if _, err := LoadProfile(&memStore{items: map[string][]byte{profileKey: []byte("{")}}); err == nil {
		t.Fatalf("expected parse error")
	}
	if p, err := LoadProfile(nil); p != nil || err != nil {
		t.Fatalf("nil store must be a no-op")
	}
}

func TestResolveUserID(t *testing.T) {
	saved := &Profile{UserID: 12}
	if got := ResolveUserID(0, true, saved, nil); got != 0 {
		t.Fatalf("explicit id must win, got %d", got)
	}
	if got := ResolveUserID(0, false, saved, nil); got != 12 {
		t.Fatalf("saved id must be reused, got %d", got)
	}
	for i := 0; i < 100; i++ {
		got := ResolveUserID(0, false, nil, rand.New(rand.NewSource(int64(i))))
		if got < 0 || got >= 10000 {
			t.Fatalf("generated id out of range: %d", got)
		}
	}
}
