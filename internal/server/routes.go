package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/swaggest/swgui/v5emb"

	"github.com/pentathlon/bazar/internal/shell"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, broker *Broker, db *sql.DB, rdb *redis.Client, rules shell.Rules, spaDir string) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Bazar API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db, rdb))
	r.Get("/ws/leaderboard", handleWSLeaderboard(logger, broker))

	r.Route("/api", func(r chi.Router) {
		// Buzzer flow.
		r.Post("/schools/register", handleRegister(logger, store, broker))
		r.Post("/buzzer/press", handlePress(logger, store, broker))

		// Leaderboard projection and its change feed.
		r.Get("/leaderboard", handleLeaderboard(logger, store))
		r.Get("/leaderboard/events", handleEvents(broker))

		// Practice coding challenges.
		r.Get("/challenges", handleListChallenges())
		r.Get("/challenges/{id}", handleGetChallenge())
		r.Post("/challenges/{id}/grade", handleGrade())

		// Per-device navigation state.
		r.Get("/state", handleGetState(logger, store, rules))
		r.Put("/state", handlePutState(logger, store, rules))

		// Admin auth.
		r.Post("/admin/login", handleAdminLogin(logger, store, rules))
		r.Post("/admin/logout", handleAdminLogout(logger, store, rules))
		r.Get("/admin/me", handleAdminMe(store))

		// Privileged bulk operations.
		r.With(adminAuthMiddleware(store)).Post("/admin/reset", handleAdminReset(logger, store, broker))
		r.With(adminAuthMiddleware(store)).Post("/admin/delete-all", handleAdminDeleteAll(logger, store, broker))
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
