package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"personachat/core"
	"personachat/factories"
)

func main() {
	var settingsPath string
	var addr string
	flag.StringVar(&settingsPath, "settings", "", "path to settings.json (optional)")
	flag.StringVar(&addr, "addr", "", "listen address, overrides settings (e.g. :8080)")
	flag.Parse()

	logger := core.GetLogger()

	if err := godotenv.Load(".env.local"); err != nil {
		logger.With(map[string]any{"error": err}).Warn("No .env.local file found or failed to load")
	}

	settings := factories.DefaultSettingsConfig()
	if settingsPath != "" {
		var err error
		settings, err = factories.SettingsConfigFromFile(settingsPath)
		if err != nil {
			logger.Fatalf("failed to load settings: %v", err)
		}
	}
	factories.ApplyEnv(&settings)
	if addr != "" {
		settings.Server.Addr = addr
	}

	if settings.OpenAI.APIKey == "" {
		logger.Warn("OPENAI_API_KEY not set; chat requests will fail")
	}
	if settings.ElevenLabs.APIKey == "" {
		logger.Warn("ELEVENLABS_API_KEY not set; speech requests will return 500")
	}

	handler := factories.BuildHandler(settings, logger)
	srv := &http.Server{
		Addr:              settings.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		logger.Infof("personachat listening on %s", settings.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
