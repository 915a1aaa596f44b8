package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/flashy/internal/logger"
	"github.com/vytor/flashy/internal/models"
)

type deckRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"max=1024"`
}

type exportRequest struct {
	FileName string `json:"file_name" validate:"required"`
}

type importRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"max=1024"`
	FileName    string `json:"file_name" validate:"required"`
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.decks.Decks())
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var req deckRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	deck, err := models.NewDeck(req.Name, req.Description)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.flashcards.AddDeck(r.Context(), deck); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, deck)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "deck")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.flashcards.DeleteDeck(r.Context(), models.Deck{ID: id}); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteDeckByName(w http.ResponseWriter, r *http.Request) {
	if err := s.flashcards.DeleteDeckByName(r.Context(), chi.URLParam(r, "name")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeckFlashcards(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "deck")
	if err != nil {
		handleError(w, r, err)
		return
	}
	cards, err := s.flashcards.FlashcardsInDeck(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cards)
}

func (s *Server) handleExportDeck(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	path, err := s.flashcards.ExportDeckToCSV(r.Context(), chi.URLParam(r, "deck"), req.FileName)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"path": path})
}

func (s *Server) handleDownloadDeck(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "deck")
	if _, err := s.flashcards.GetDeckByName(r.Context(), name); err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(name, `"`, "")+`.csv"`)
	if err := s.flashcards.WriteDeckCSV(r.Context(), name, w); err != nil {
		// headers are gone by now
		logger.FromContext(r.Context()).Error("failed to stream deck %q: %v", name, err)
	}
}

// handleImportDeck creates a deck from CSV. A text/csv body is imported
// directly with the deck named by the query string; a JSON body names a file
// in the export directory.
func (s *Server) handleImportDeck(w http.ResponseWriter, r *http.Request) {
	var (
		deck  *models.Deck
		count int
		err   error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/csv") {
		q := r.URL.Query()
		if deck, err = models.NewDeck(q.Get("name"), q.Get("description")); err == nil {
			count, err = s.flashcards.ImportDeckCSV(r.Context(), deck, r.Body)
		}
	} else {
		var req importRequest
		if err = s.decode(r, &req); err == nil {
			if deck, err = models.NewDeck(req.Name, req.Description); err == nil {
				count, err = s.flashcards.ImportDeckFromCSV(r.Context(), deck, req.FileName)
			}
		}
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, map[string]any{"deck": deck, "imported": count})
}
