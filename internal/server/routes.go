package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI(logger))
	r.Mount("/docs", v5emb.New("Maths Quiz API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())

	r.Get("/api/highscore", handleHighScore(deps.Prefs))

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", handleCreateSession(deps.Sessions))

		r.Route("/{id}", func(r chi.Router) {
			r.Use(sessionMiddleware(deps.Sessions))
			r.Get("/", handleGetSession())
			r.Delete("/", handleDeleteSession(deps.Sessions))
			r.Post("/answer", handleAnswer())
			r.Post("/restart", handleRestart())
			r.Put("/tier", handleSetTier())
			r.Get("/events", handleEvents(deps.Broker))
			r.Get("/ws", handleSessionWS(logger, deps.Broker))
		})
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
