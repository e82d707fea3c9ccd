// Command bot connects a headless client to the gate, wanders its entity and
// serves a debug API with the session state.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chenmins/mmo-demo/bot"
	"github.com/chenmins/mmo-demo/config"
	"github.com/chenmins/mmo-demo/logging"
	"github.com/chenmins/mmo-demo/network"
)

func main() {
	envFile := flag.String("env", ".env", "dotenv file to load")
	server := flag.String("server", "", "gate address, overrides MMO_SERVER_ADDR")
	userID := flag.Int("user", -1, "login user id, overrides MMO_USER_ID")
	debugAddr := flag.String("debug", "", "debug API listen address, overrides MMO_DEBUG_ADDR")
	seed := flag.Int64("seed", 0, "wander seed, 0 picks one from the clock")
	flag.Parse()

	cfg := config.Load(*envFile)
	if *server != "" {
		cfg.ServerAddr = *server
	}
	if *userID >= 0 {
		cfg.UserID, cfg.HasUserID = *userID, true
	}
	if *debugAddr != "" {
		cfg.DebugAddr = *debugAddr
	}
	cfg.UserID = config.ResolveUserID(cfg.UserID, cfg.HasUserID, nil, nil)

	logger, err := logging.New(logging.Config{File: cfg.LogFile, Level: cfg.LogLevel, Console: true})
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Sync(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	transport := network.NewWsTransport(network.WsOptions{DialTimeout: cfg.DialTimeout})
	session := network.NewSession(transport, network.Config{UserID: cfg.UserID}, logger)
	if err := session.Connect(cfg.ServerAddr); err != nil {
		logger.Errorw("connect failed", "server", cfg.ServerAddr, "error", err)
		return
	}

	runner := bot.NewRunner(session, bot.Options{
		Seed:       *seed,
		IdleChance: config.Bot.IdleChance,
	}, logger)

	srv := &http.Server{
		Addr:              cfg.DebugAddr,
		Handler:           bot.NewDebugRouter(runner),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Infow("debug API listening", "addr", cfg.DebugAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("debug API stopped", "error", err)
		}
	}()

	logger.Infow("bot started", "server", cfg.ServerAddr, "user_id", cfg.UserID, "session", session.ID())
	runErr := runner.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Warnw("bot finished", "error", runErr)
		return
	}
	logger.Infow("bot finished")
}
