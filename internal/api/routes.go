package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	if s.RequestTimeout > 0 {
		r.Use(timeoutMiddleware(s.RequestTimeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/auth/logout", s.handleLogout)
			r.Get("/me", s.handleMe)

			r.Get("/folders", s.handleListFolders)
			r.Post("/folders", s.handleCreateFolder)
			r.Route("/folders/{folderID}", func(r chi.Router) {
				r.Get("/", s.handleGetFolder)
				r.Patch("/", s.handleRenameFolder)
				r.Delete("/", s.handleDeleteFolder)
				r.Get("/stats", s.handleFolderStats)

				r.Get("/cards", s.handleListCards)
				r.Post("/cards", s.handleCreateCard)
				r.Post("/cards/batch", s.handleCreateCardBatch)

				r.Get("/context-reading", s.handleNextContextCards)
				r.Delete("/context-reading", s.handleResetContextReading)
			})

			r.Route("/cards/{cardID}", func(r chi.Router) {
				r.Get("/", s.handleGetCard)
				r.Patch("/", s.handleUpdateCard)
				r.Delete("/", s.handleDeleteCard)
				r.Post("/move", s.handleMoveCard)
				r.Post("/learned", s.cardAction(s.Cards.MarkLearned))
				r.Post("/unlearned", s.cardAction(s.Cards.MarkUnlearned))
				r.Post("/shown", s.cardAction(s.Cards.RecordShown))
				r.Post("/correct", s.cardAction(s.Cards.RecordCorrect))
				r.Post("/incorrect", s.cardAction(s.Cards.RecordIncorrect))
			})
		})
	})
	return r
}
