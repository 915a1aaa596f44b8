package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/decks", func(r chi.Router) {
		r.Get("/", s.handleListDecks)
		r.Post("/", s.handleCreateDeck)
		r.Post("/import", s.handleImportDeck)
		r.Delete("/by-name/{name}", s.handleDeleteDeckByName)
		r.Delete("/{deck}", s.handleDeleteDeck)
		r.Get("/{deck}/flashcards", s.handleDeckFlashcards)
		r.Get("/{deck}/stats", s.handleDeckStats)
		r.Post("/{deck}/export", s.handleExportDeck)
		r.Get("/{deck}/export.csv", s.handleDownloadDeck)
	})

	r.Route("/flashcards", func(r chi.Router) {
		r.Get("/", s.handleListFlashcards)
		r.Post("/", s.handleCreateFlashcard)
		r.Put("/{id}", s.handleUpdateFlashcard)
		r.Delete("/{id}", s.handleDeleteFlashcard)
	})

	r.Get("/stats", s.handleStats)

	r.Route("/session", func(r chi.Router) {
		r.Get("/", s.handleSessionView)
		r.Post("/start", s.handleSessionStart)
		r.Post("/answer", s.handleSessionAnswer)
		r.Post("/hint", s.handleSessionHint)
		r.Post("/next", s.handleSessionNext)
		r.Post("/exit", s.handleSessionExit)
	})

	r.Get("/events", s.hub.ServeWS)
	return r
}
