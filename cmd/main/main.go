package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"variant-service/internal/config"
	"variant-service/internal/variants/service"
	serverhttp "variant-service/server/http"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	vocab, err := service.LoadVocabulary(cfg.VocabFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("vocabulary")
	}
	det := service.NewDetector(vocab, service.WithLogger(logger))

	r := serverhttp.NewRouter(cfg, logger, det)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info().
		Str("addr", cfg.Addr()).
		Str("vocab", cfg.VocabFile).
		Int("size_tokens", len(vocab.SizeTokens)).
		Int("color_tokens", len(vocab.ColorTokens)).
		Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	logger.Info().Msg("bye")
}
