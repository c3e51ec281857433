package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"finease/internal/auth"
	"finease/internal/backend"
	"finease/internal/cli"
	apphttp "finease/internal/http"
	"finease/internal/log"
	"finease/internal/middleware/ratelimit"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	factory := backend.NewFactory(logger)
	result, err := factory.Create(backend.FromAppConfig(cfg))
	if err != nil {
		logger.Error("failed to create backend", log.FieldError, err)
		os.Exit(1)
	}

	sessions := auth.NewManager(result.Store, cfg.SessionTTL, logger)

	var google auth.Verifier
	if cfg.GoogleOAuthClientID != "" {
		google = auth.NewGoogleVerifier(cfg.GoogleOAuthClientID)
		logger.Info("google sign-in enabled")
	} else {
		logger.Info("google sign-in disabled, no GOOGLE_OAUTH_CLIENT_ID provided")
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:         ":" + cfg.Port,
		Store:        result.Store,
		Sessions:     sessions,
		Google:       google,
		Logger:       logger,
		CacheTTL:     cfg.CacheTTL,
		CacheMaxSize: cfg.CacheMaxSize,
		RateLimit:    ratelimit.DefaultConfig(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Expired sessions pile up without a periodic sweep
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sessions.CleanExpired()
			}
		}
	}()

	_, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", log.FieldError, err)
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("backend cleanup error", log.FieldError, err)
			}
		}
		cancel()
	})

	logger.Info("starting finease server",
		"port", cfg.Port,
		"backend", cfg.DataBackend)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-done
	logger.Info("server stopped gracefully")
}
