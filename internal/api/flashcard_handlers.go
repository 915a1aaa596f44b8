package api

import (
	"net/http"

	"github.com/vytor/flashy/internal/logger"
	"github.com/vytor/flashy/internal/models"
)

type createFlashcardRequest struct {
	Question string       `json:"question" validate:"required"`
	Answer   string       `json:"answer" validate:"required"`
	Hint     string       `json:"hint"`
	DeckID   int64        `json:"deck_id" validate:"omitempty,gt=0,excluded_with=NewDeck"`
	NewDeck  *deckRequest `json:"new_deck" validate:"omitempty"`
}

type updateFlashcardRequest struct {
	Question   string `json:"question" validate:"required"`
	Answer     string `json:"answer" validate:"required"`
	Hint       string `json:"hint"`
	State      string `json:"state" validate:"omitempty,oneof=CREATED LEARNING LEARNT TO_REVIEW"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=EASY MEDIUM HARD DEFAULT"`
}

func (s *Server) handleListFlashcards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.cards.Flashcards())
}

func (s *Server) handleCreateFlashcard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createFlashcardRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	card, err := models.NewFlashcard(req.Question, req.Answer, req.Hint)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := map[string]any{"flashcard": card}
	switch {
	case req.NewDeck != nil:
		deck, err := models.NewDeck(req.NewDeck.Name, req.NewDeck.Description)
		if err != nil {
			handleError(w, r, err)
			return
		}
		if err := s.flashcards.AddFlashcardWithNewDeck(ctx, card, deck); err != nil {
			handleError(w, r, err)
			return
		}
		resp["deck"] = deck
	case req.DeckID > 0:
		deck, err := s.flashcards.GetDeckByID(ctx, req.DeckID)
		if err != nil {
			handleError(w, r, err)
			return
		}
		if err := s.flashcards.AddFlashcardWithDeck(ctx, card, *deck); err != nil {
			handleError(w, r, err)
			return
		}
		resp["deck"] = deck
	default:
		if err := s.flashcards.AddFlashcardWithoutDeck(ctx, card); err != nil {
			handleError(w, r, err)
			return
		}
		// no event is published for loose cards
		s.reseedFlashcards(r)
	}
	writeJSON(w, r, http.StatusCreated, resp)
}

func (s *Server) reseedFlashcards(r *http.Request) {
	cards, err := s.flashcards.GetAllFlashcards(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Warn("failed to refresh flashcard list: %v", err)
		return
	}
	s.cards.Reset(cards)
}

func (s *Server) handleUpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req updateFlashcardRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.flashcards.GetFlashcard(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	card.Question, card.Answer, card.Hint = req.Question, req.Answer, req.Hint
	// oneof tags above guarantee these parse
	if req.State != "" {
		card.State, _ = models.ParseState(req.State)
	}
	if req.Difficulty != "" {
		card.Difficulty, _ = models.ParseDifficulty(req.Difficulty)
	}

	if err := s.flashcards.UpdateFlashcard(r.Context(), *card); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleDeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.flashcards.DeleteFlashcardWithDecks(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
