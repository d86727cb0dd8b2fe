package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the chi router with middleware and every route.
func NewRouter(h *Handler, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	// Middleware chain: RequestID → Logging → Recoverer → CORS
	r.Use(middleware.RequestID)
	r.Use(Logging(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Content
	r.Get("/categories", h.listCategories)
	r.Route("/decks", func(r chi.Router) {
		r.Post("/import", h.importDeck)
		r.Get("/{deckID}", h.getDeck)
		r.Get("/{deckID}/export", h.exportDeck)
	})
	r.Get("/flashcards", h.listFlashcards)
	r.Get("/flashcards/{deckID}", h.getFlashcards)

	// Sessions
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.createSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Post("/select", h.selectCandidate)
			r.Post("/pairs", h.selectPair)
			r.Post("/submit", h.submitAnswer)
			r.Post("/advance", h.advance)
			r.Get("/summary", h.getSummary)
		})
	})

	// Progress
	r.Get("/streak", h.getStreak)
	r.Post("/streak/check-in", h.checkIn)
	r.Put("/streak/goal", h.setGoal)
	r.Get("/preferences", h.getPreferences)
	r.Patch("/preferences", h.updatePreferences)
	r.Get("/quests", h.getQuests)
	r.Get("/vocabulary/stats", h.getVocabularyStats)
	r.Get("/results", h.listResults)
	r.Route("/scores", func(r chi.Router) {
		r.Get("/", h.getScores)
		r.Put("/", h.setScore)
		r.Get("/official", h.listOfficialScores)
		r.Post("/official", h.addOfficialScore)
	})

	return r
}

// Logging writes one structured log line per request.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
