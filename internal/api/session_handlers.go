package api

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/vytor/flashy/internal/errors"
	"github.com/vytor/flashy/internal/events"
	"github.com/vytor/flashy/internal/logger"
	"github.com/vytor/flashy/internal/study"
)

var errNoCardInProgress = &errors.AppError{
	Code:    errors.ErrCodeConflict,
	Message: "no card in progress",
	Status:  http.StatusConflict,
}

type startSessionRequest struct {
	DeckID     int64  `json:"deck_id" validate:"required,gt=0"`
	Mode       string `json:"mode" validate:"omitempty,oneof=CREATED LEARNING LEARNT TO_REVIEW ALL"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=EASY MEDIUM HARD DEFAULT ALL"`
}

type feedbackRequest struct {
	Recall string `json:"recall" validate:"omitempty,oneof=NONE KNEW FORGOT REVIEW"`
	Rating string `json:"rating" validate:"omitempty,oneof=NONE EASY MEDIUM HARD"`
}

func (req feedbackRequest) feedback() study.Feedback {
	recall, _ := study.ParseRecall(req.Recall)
	rating, _ := study.ParseRating(req.Rating)
	return study.Feedback{Recall: recall, Rating: rating}
}

type hintRequest struct {
	Confirmed bool `json:"confirmed"`
}

type sessionResponse struct {
	study.View
	Warning string `json:"warning,omitempty"`
}

func orAll(s string) string {
	if s == "" {
		return "ALL"
	}
	return s
}

// respondSession writes the session view. Feedback that was not saved or not
// announced is reported as a warning since the session has already moved on.
func (s *Server) respondSession(w http.ResponseWriter, r *http.Request, err error) {
	resp := sessionResponse{View: s.session.View()}
	if err != nil {
		var warnings []string
		if stderrors.Is(err, study.ErrProgressNotSaved) {
			warnings = append(warnings, study.ErrProgressNotSaved.Error())
		}
		if stderrors.Is(err, events.ErrDelivery) {
			warnings = append(warnings, events.ErrDelivery.Error())
		}
		if len(warnings) == 0 {
			handleError(w, r, err)
			return
		}
		logger.FromContext(r.Context()).Warn("study feedback: %v", err)
		resp.Warning = strings.Join(warnings, "; ")
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleSessionView(w http.ResponseWriter, r *http.Request) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	s.respondSession(w, r, nil)
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	mode, err := study.ParseMode(orAll(req.Mode))
	if err != nil {
		handleError(w, r, errors.NewValidationError("mode", err.Error()))
		return
	}
	difficulty, err := study.ParseDifficultyFilter(orAll(req.Difficulty))
	if err != nil {
		handleError(w, r, errors.NewValidationError("difficulty", err.Error()))
		return
	}
	if _, err := s.flashcards.GetDeckByID(r.Context(), req.DeckID); err != nil {
		handleError(w, r, err)
		return
	}

	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	s.respondSession(w, r, s.session.Start(r.Context(), req.DeckID, mode, difficulty))
}

func (s *Server) handleSessionAnswer(w http.ResponseWriter, r *http.Request) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	if _, ok := s.session.RevealAnswer(); !ok {
		handleError(w, r, errNoCardInProgress)
		return
	}
	s.respondSession(w, r, nil)
}

func (s *Server) handleSessionHint(w http.ResponseWriter, r *http.Request) {
	var req hintRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	if s.session.Status() != study.InProgress {
		handleError(w, r, errNoCardInProgress)
		return
	}
	if _, ok := s.session.RevealHint(req.Confirmed); !ok {
		handleError(w, r, errors.NewBadRequestError("hint reveal must be confirmed"))
		return
	}
	s.respondSession(w, r, nil)
}

func (s *Server) handleSessionNext(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	s.respondSession(w, r, s.session.Advance(r.Context(), req.feedback()))
}

func (s *Server) handleSessionExit(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	s.respondSession(w, r, s.session.Exit(r.Context(), req.feedback()))
}
