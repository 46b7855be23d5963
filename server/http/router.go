package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"variant-service/internal/config"
	"variant-service/internal/middleware"
	varHnd "variant-service/internal/variants/handler"
	"variant-service/internal/variants/service"
	"variant-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, det *service.Detector) *chi.Mux {
	r := chi.NewRouter()

	// order matters: requestID (puts the logger in ctx) -> recover -> logging -> cors -> limit
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Recover)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health)

	r.Post("/detect", varHnd.Detect(cfg, det))
	r.Post("/suffix", varHnd.Suffix(det))
	r.Post("/category", varHnd.Category())
	r.Post("/base", varHnd.Base(det))

	return r
}
