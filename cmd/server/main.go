package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfolio-site/internal/app"
	"portfolio-site/internal/config"
	"portfolio-site/internal/devserver"
	"portfolio-site/internal/logging"
	"portfolio-site/internal/repository"
)

const localParamPrefix = "/local"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, syncLogs, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer syncLogs()

	if cfg.UseRealAI && cfg.OpenAIAPIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, answering from the local trigger table only")
		cfg.UseRealAI = false
	}
	if cfg.SearchEnabled && cfg.SearchAPIKey == "" {
		cfg.SearchEnabled = false
	}

	h, err := app.NewHandler(cfg, app.Deps{
		Secrets:     app.LocalSecrets(localParamPrefix, cfg.OpenAIAPIKey, cfg.SearchAPIKey),
		ParamPrefix: localParamPrefix,
		Transcripts: repository.NewTranscripts(
			repository.WithTTL(cfg.TranscriptTTL),
			repository.WithMaxConversations(cfg.MaxConversations),
		),
		Preferences: repository.NewPreferences(),
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("failed to create handler", zap.Error(err))
	}

	if cfg.LogFormat != "console" {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := devserver.NewRouter(h.Handle, logger)
	if err != nil {
		logger.Fatal("failed to create router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("dev server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
