// Package logging builds the zap loggers used by the client and the bot.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects where logs go and how verbose they are.
type Config struct {
	// File is the rolling log file. Empty disables file output.
	File string
	// Level is a zap level name such as "debug" or "info".
	Level string
	// Console mirrors log lines to stderr.
	Console bool
}

// New returns a SugaredLogger writing to a rolling file and, optionally, stderr.
func New(cfg Config) (*zap.SugaredLogger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			return nil, fmt.Errorf("logging: bad level %q: %w", cfg.Level, err)
		}
	}

	var sinks []zapcore.WriteSyncer
	if cfg.File != "" {
		// 10MB per file, 3 backups, 7 days
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		}))
	}
	if cfg.Console || len(sinks) == 0 {
		sinks = append(sinks, zapcore.Lock(os.Stderr))
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.NewMultiWriteSyncer(sinks...), level)
	return zap.New(core, zap.AddCaller()).Sugar(), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// Sync flushes buffered entries, ignoring the errors stderr returns on some platforms.
func Sync(log *zap.SugaredLogger) {
	if log != nil {
		_ = log.Sync()
	}
}
