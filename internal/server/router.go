package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/macrolog-ai/macrolog/internal/api"
	"github.com/macrolog-ai/macrolog/internal/api/handlers"
	"github.com/macrolog-ai/macrolog/internal/api/middleware"
)

type RouterConfig struct {
	Logger        *zap.Logger
	MealHandler   *handlers.MealHandler
	LedgerHandler *handlers.LedgerHandler
	NoteHandler   *handlers.NoteHandler
	TargetHandler *handlers.TargetHandler
	StatsHandler  *handlers.StatsHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog(cfg.Logger))
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Post("/meals", cfg.MealHandler.Log)
		r.Get("/summary", cfg.LedgerHandler.Summary)
		r.Delete("/entries/{position}", cfg.LedgerHandler.DeleteEntry)
		r.Delete("/day", cfg.LedgerHandler.ClearDay)
		r.Put("/target", cfg.TargetHandler.Set)
		r.Get("/target", cfg.TargetHandler.Get)
	})

	r.Route("/notes", func(r chi.Router) {
		r.Post("/", cfg.NoteHandler.Add)
		r.Get("/", cfg.NoteHandler.List)
		r.Delete("/{id}", cfg.NoteHandler.Delete)
	})

	r.Post("/context", cfg.NoteHandler.BuildContext)
	r.Get("/stats/users", cfg.StatsHandler.Users)

	return r
}
