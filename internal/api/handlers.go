package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/vytor/flashy/internal/errors"
	"github.com/vytor/flashy/internal/events"
	"github.com/vytor/flashy/internal/logger"
	"github.com/vytor/flashy/internal/repository"
	"github.com/vytor/flashy/internal/services"
	"github.com/vytor/flashy/internal/study"
)

// Deps holds what the HTTP surface is built from.
type Deps struct {
	Store           repository.Store
	Flashcards      services.FlashcardService
	Study           services.StudySessionService
	Stats           services.StatsService
	DeckMirror      *events.DeckMirror
	FlashcardMirror *events.FlashcardMirror
	Hub             *Hub
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	store      repository.Store
	flashcards services.FlashcardService
	stats      services.StatsService
	decks      *events.DeckMirror
	cards      *events.FlashcardMirror
	hub        *Hub
	validate   *validator.Validate

	sessionMu sync.Mutex
	session   *study.Session
}

// NewServer creates a new Server from its dependencies
func NewServer(d Deps) *Server {
	return &Server{
		store:      d.Store,
		flashcards: d.Flashcards,
		stats:      d.Stats,
		decks:      d.DeckMirror,
		cards:      d.FlashcardMirror,
		hub:        d.Hub,
		validate:   newValidator(),
		session:    study.NewSession(d.Study),
	}
}

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Warn("failed to encode response: %v", err)
	}
}

// decode reads a JSON body into v and runs its validate tags. An empty body
// decodes to the zero value.
func (s *Server) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.NewBadRequestError("invalid request body: " + err.Error())
	}
	return s.validate.Struct(v)
}

func pathID(r *http.Request, key string) (int64, error) {
	raw := chi.URLParam(r, key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewBadRequestError("invalid id: " + raw)
	}
	return id, nil
}
