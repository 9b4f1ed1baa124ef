package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"wa-highlighter/core"
	"wa-highlighter/infrastructure/loggers"
	"wa-highlighter/infrastructure/servers"
	"wa-highlighter/infrastructure/watchers"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx := context.Background()

	log.Println("initializing settings")
	mySettings, err := servers.LoadSettings(ctx)
	if err != nil {
		log.Fatalf("error on load settings: %v\n", err)
	}

	log.Println("initializing loggers")
	logger, err := loggers.InitializeMultiLogger(mySettings.DoLogToStdout, mySettings.LogLevel)
	if err != nil {
		log.Fatalf("error on initializing multilogger: %v\n", err)
	}

	webhookServer, err := servers.Bootstrap(ctx, mySettings, logger)
	if err != nil {
		logger.Fatal("error on bootstrap: %v", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", mySettings.Port),
		Handler:           webhookServer,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var bgInterruptWatcher core.InterruptWatcher = watchers.InitializeBackgroundInterruptWatcher()
	bgInterruptWatcher.StartBackgroundWatcher()

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("bot running on port %d", mySettings.Port)
		logger.Info("webhook: %s/webhook", mySettings.WebhookURL)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed: %v", err)
		}
	case <-bgInterruptWatcher.Interrupted():
		logger.Info("interrupted, shutting down")
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed: %v", err)
			if err := srv.Close(); err != nil {
				logger.Fatal("force shutdown failed: %v", err)
			}
		}
		logger.Info("server stopped gracefully")
	}
}
