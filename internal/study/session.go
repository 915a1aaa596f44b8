package study

import (
	"context"
	"errors"
	"fmt"

	"github.com/vytor/flashy/internal/events"
	"github.com/vytor/flashy/internal/logger"
	"github.com/vytor/flashy/internal/models"
)

const (
	EndOfCardsMessage = "You have reached the end of your cards!"
	NoHintMessage     = "There is no hint for this card!"
)

// finished is the cursor value once no card is being shown.
const finished = -1

// ErrProgressNotSaved wraps feedback that could not be persisted. The session
// still moves on.
var ErrProgressNotSaved = errors.New("progress not saved")

// CardSource is the data access a session needs.
type CardSource interface {
	FlashcardIDsInDeck(ctx context.Context, deckID int64) ([]int64, error)
	FlashcardByID(ctx context.Context, id int64) (*models.Flashcard, error)
	SetFlashcardState(ctx context.Context, card *models.Flashcard, state models.State) error
	SetFlashcardDifficulty(ctx context.Context, card *models.Flashcard, difficulty models.Difficulty) error
}

// Status is the lifecycle stage of a Session.
type Status int

const (
	NotStarted Status = iota
	InProgress
	Finished
)

var statusNames = [...]string{"NOT_STARTED", "IN_PROGRESS", "FINISHED"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// View is a snapshot of what a study screen shows.
type View struct {
	Status     Status           `json:"status"`
	DeckID     int64            `json:"deck_id"`
	Mode       Mode             `json:"mode"`
	Difficulty DifficultyFilter `json:"difficulty"`
	Cursor     int              `json:"cursor"`
	Total      int              `json:"total"`
	CardID     int64            `json:"card_id"`
	Question   string           `json:"question"`
	Answer     string           `json:"answer"`
	Hint       string           `json:"hint"`
}

// Session walks a filtered sequence of a deck's cards. It is not safe for
// concurrent use.
type Session struct {
	src CardSource

	status     Status
	deckID     int64
	mode       Mode
	difficulty DifficultyFilter
	cards      []models.Flashcard
	cursor     int

	question string
	answer   string
	hint     string
}

// NewSession creates a new Session reading cards from src
func NewSession(src CardSource) *Session {
	s := &Session{src: src}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.status = NotStarted
	s.deckID = models.UnsavedID
	s.mode = ModeAll
	s.difficulty = DifficultyAll
	s.cards = nil
	s.cursor = finished
	s.question, s.answer, s.hint = "", "", ""
}

// Start loads the deck and keeps the cards matching both filters, in load
// order. Any previous session state is discarded.
func (s *Session) Start(ctx context.Context, deckID int64, mode Mode, difficulty DifficultyFilter) error {
	log := logger.FromContext(ctx).WithPrefix("study")
	s.reset()

	ids, err := s.src.FlashcardIDsInDeck(ctx, deckID)
	if err != nil {
		return fmt.Errorf("load deck %d: %w", deckID, err)
	}

	cards := make([]models.Flashcard, 0, len(ids))
	for _, id := range ids {
		card, err := s.src.FlashcardByID(ctx, id)
		if err != nil {
			return fmt.Errorf("load flashcard %d: %w", id, err)
		}
		if mode.Matches(card.State) && difficulty.Matches(card.Difficulty) {
			cards = append(cards, *card)
		}
	}

	s.deckID = deckID
	s.mode = mode
	s.difficulty = difficulty
	s.cards = cards

	if len(cards) == 0 {
		s.finish()
	} else {
		s.status = InProgress
		s.cursor = 0
		s.question = cards[0].Question
	}
	log.Info("session started: deck_id=%d, mode=%s, difficulty=%s, cards=%d", deckID, mode, difficulty, len(cards))
	return nil
}

func (s *Session) finish() {
	s.status = Finished
	s.cursor = finished
	s.question = EndOfCardsMessage
	s.answer, s.hint = "", ""
}

func (s *Session) current() *models.Flashcard {
	if s.status != InProgress {
		return nil
	}
	return &s.cards[s.cursor]
}

// apply writes the feedback for the current card. Both writes are attempted.
// Store failures are reported as ErrProgressNotSaved; a write that was stored
// but whose event could not be delivered is reported as is.
func (s *Session) apply(ctx context.Context, card *models.Flashcard, fb Feedback) error {
	var unsaved, undelivered []error
	record := func(err error) {
		switch {
		case err == nil:
		case errors.Is(err, events.ErrDelivery):
			undelivered = append(undelivered, err)
		default:
			unsaved = append(unsaved, err)
		}
	}

	if state, ok := fb.Recall.State(); ok {
		record(s.src.SetFlashcardState(ctx, card, state))
	}
	if difficulty, ok := fb.Rating.Difficulty(); ok {
		record(s.src.SetFlashcardDifficulty(ctx, card, difficulty))
	}

	log := logger.FromContext(ctx).WithPrefix("study")
	var errs []error
	if len(unsaved) > 0 {
		log.Warn("feedback for flashcard %d not saved: %v", card.ID, unsaved)
		errs = append(errs, fmt.Errorf("%w: %w", ErrProgressNotSaved, errors.Join(unsaved...)))
	}
	if len(undelivered) > 0 {
		log.Warn("feedback for flashcard %d saved but not announced: %v", card.ID, undelivered)
		errs = append(errs, undelivered...)
	}
	return errors.Join(errs...)
}

// Advance applies the feedback to the current card and moves to the next one.
// It does nothing unless a card is in progress. A feedback error is returned
// after the cursor has already moved.
func (s *Session) Advance(ctx context.Context, fb Feedback) error {
	card := s.current()
	if card == nil {
		return nil
	}
	err := s.apply(ctx, card, fb)

	s.cursor++
	if s.cursor >= len(s.cards) {
		s.finish()
		return err
	}
	s.question = s.cards[s.cursor].Question
	s.answer, s.hint = "", ""
	return err
}

// Exit applies pending feedback for the card in progress, then returns the
// session to NotStarted.
func (s *Session) Exit(ctx context.Context, fb Feedback) error {
	if s.status == NotStarted {
		return nil
	}
	var err error
	if card := s.current(); card != nil {
		err = s.apply(ctx, card, fb)
	}
	s.reset()
	return err
}

// RevealAnswer shows the current card's answer.
func (s *Session) RevealAnswer() (string, bool) {
	card := s.current()
	if card == nil {
		return "", false
	}
	s.answer = card.Answer
	return s.answer, true
}

// RevealHint shows the current card's hint once the learner has confirmed.
func (s *Session) RevealHint(confirmed bool) (string, bool) {
	card := s.current()
	if card == nil || !confirmed {
		return "", false
	}
	if card.HasHint() {
		s.hint = card.Hint
	} else {
		s.hint = NoHintMessage
	}
	return s.hint, true
}

// Status reports where the session is in its lifecycle.
func (s *Session) Status() Status { return s.status }

// View returns a snapshot of what the session currently shows.
func (s *Session) View() View {
	v := View{
		Status:     s.status,
		DeckID:     s.deckID,
		Mode:       s.mode,
		Difficulty: s.difficulty,
		Cursor:     s.cursor,
		Total:      len(s.cards),
		CardID:     models.UnsavedID,
		Question:   s.question,
		Answer:     s.answer,
		Hint:       s.hint,
	}
	if card := s.current(); card != nil {
		v.CardID = card.ID
	}
	return v
}
