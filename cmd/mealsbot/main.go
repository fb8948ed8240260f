package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/mealsbot/internal/admin"
	"github.com/dukerupert/mealsbot/internal/bot"
	"github.com/dukerupert/mealsbot/internal/config"
	"github.com/dukerupert/mealsbot/internal/database"
	"github.com/dukerupert/mealsbot/internal/logging"
	"github.com/dukerupert/mealsbot/internal/scheduler"
	"github.com/dukerupert/mealsbot/internal/server"
	"github.com/dukerupert/mealsbot/internal/store"
	"github.com/dukerupert/mealsbot/internal/survey"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api, err := bot.Connect(ctx, cfg.BotToken, logger.With("component", "telegram"))
	if err != nil {
		log.Fatalf("failed to connect to telegram: %v", err)
	}

	members := store.NewMemberStore(db)
	responses := store.NewResponseStore(db)
	sender := bot.NewSender(api)

	engine := survey.NewEngine(members, responses, sender, cfg.AdminID, logger.With("component", "survey"))
	console := admin.NewConsole(members, responses, engine, sender, cfg.AdminID, logger.With("component", "admin"))
	b := bot.New(api, members, engine, console, logger.With("component", "bot"))

	sched := scheduler.New(members, engine, logger.With("component", "scheduler"))
	sched.Start(ctx)
	defer sched.Stop()

	srv := server.New(db, api.Self.UserName, logger)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("health server error: %v", err)
		}
	}()

	logger.Info("mealsbot started", "bot", api.Self.UserName, "admin", cfg.AdminID, "port", cfg.Port)

	// Blocks until the context is canceled by SIGINT or SIGTERM.
	b.Run(ctx)

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
