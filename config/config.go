// Package config holds the client's environment configuration, persisted
// profile and display settings. It must not import ebiten so the headless
// bot can share it.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Client is the runtime configuration shared by the GUI client and the bot.
type Client struct {
	ServerAddr  string
	UserID      int
	HasUserID   bool
	LogFile     string
	LogLevel    string
	LogConsole  bool
	DialTimeout time.Duration
	DebugAddr   string
}

// Load reads the given .env files (".env" when none are named; missing files
// are ignored) and then the process environment. Variables already set in
// the environment win over .env values.
func Load(envFiles ...string) Client {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}

	cfg := Client{
		ServerAddr:  getEnv("MMO_SERVER_ADDR", "ws://localhost:8001"),
		LogFile:     getEnv("MMO_LOG_FILE", "client.log"),
		LogLevel:    getEnv("MMO_LOG_LEVEL", "info"),
		LogConsole:  parseBool(getEnv("MMO_LOG_CONSOLE", "false")),
		DialTimeout: parseDuration(getEnv("MMO_DIAL_TIMEOUT", "10s"), 10*time.Second),
		DebugAddr:   getEnv("MMO_DEBUG_ADDR", ":6061"),
	}
	if id, err := strconv.Atoi(getEnv("MMO_USER_ID", "")); err == nil && id >= 0 {
		cfg.UserID = id
		cfg.HasUserID = true
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}
