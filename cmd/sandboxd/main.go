package main

import (
	"github.com/internhub/portal-client/internal/pkg/config"
	"github.com/internhub/portal-client/internal/sandbox"
	"github.com/internhub/portal-client/pkg/logger"
)

// sandboxd serves the in-memory marketplace API with seeded demo accounts.
// It exists so the client can be exercised end to end without the real
// backend.
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Pretty})

	srv := sandbox.New(sandbox.Options{
		JWTSecret: cfg.Sandbox.JWTSecret,
		TokenTTL:  cfg.Sandbox.TokenTTL,
		Logger:    log,
	})
	if err := srv.Start(":" + cfg.Sandbox.Port); err != nil {
		log.Fatal().Err(err).Msg("sandbox stopped")
	}
}
