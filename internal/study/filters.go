package study

import (
	"fmt"

	"github.com/vytor/flashy/internal/models"
)

const all = "ALL"

// Mode selects cards by learning state. ModeAll disables the filter.
type Mode int

const (
	ModeAll      Mode = -1
	ModeCreated       = Mode(models.StateCreated)
	ModeLearning      = Mode(models.StateLearning)
	ModeLearnt        = Mode(models.StateLearnt)
	ModeToReview      = Mode(models.StateToReview)
)

// ParseMode accepts ALL or a learning state name.
func ParseMode(s string) (Mode, error) {
	if s == all {
		return ModeAll, nil
	}
	state, err := models.ParseState(s)
	if err != nil {
		return 0, fmt.Errorf("unknown study mode %q", s)
	}
	return Mode(state), nil
}

func (m Mode) String() string {
	if m == ModeAll {
		return all
	}
	return models.State(m).String()
}

// Matches reports whether a card in state s passes the filter.
func (m Mode) Matches(s models.State) bool {
	return m == ModeAll || models.State(m) == s
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// DifficultyFilter selects cards by difficulty. DifficultyAll disables the filter.
type DifficultyFilter int

const (
	DifficultyAll     DifficultyFilter = -1
	DifficultyEasy                     = DifficultyFilter(models.DifficultyEasy)
	DifficultyMedium                   = DifficultyFilter(models.DifficultyMedium)
	DifficultyHard                     = DifficultyFilter(models.DifficultyHard)
	DifficultyDefault                  = DifficultyFilter(models.DifficultyDefault)
)

// ParseDifficultyFilter accepts ALL or a difficulty name.
func ParseDifficultyFilter(s string) (DifficultyFilter, error) {
	if s == all {
		return DifficultyAll, nil
	}
	d, err := models.ParseDifficulty(s)
	if err != nil {
		return 0, fmt.Errorf("unknown difficulty filter %q", s)
	}
	return DifficultyFilter(d), nil
}

func (f DifficultyFilter) String() string {
	if f == DifficultyAll {
		return all
	}
	return models.Difficulty(f).String()
}

// Matches reports whether a card of difficulty d passes the filter.
func (f DifficultyFilter) Matches(d models.Difficulty) bool {
	return f == DifficultyAll || models.Difficulty(f) == d
}

func (f DifficultyFilter) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *DifficultyFilter) UnmarshalText(text []byte) error {
	v, err := ParseDifficultyFilter(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Recall is the learner's answer to "did you know it?".
type Recall int

const (
	RecallNone Recall = iota
	RecallKnew
	RecallForgot
	RecallReview
)

var recallNames = [...]string{"NONE", "KNEW", "FORGOT", "REVIEW"}

// ParseRecall maps an empty string to RecallNone.
func ParseRecall(s string) (Recall, error) {
	if s == "" {
		return RecallNone, nil
	}
	for i, n := range recallNames {
		if n == s {
			return Recall(i), nil
		}
	}
	return RecallNone, fmt.Errorf("unknown recall %q", s)
}

func (r Recall) String() string {
	if r < 0 || int(r) >= len(recallNames) {
		return fmt.Sprintf("Recall(%d)", int(r))
	}
	return recallNames[r]
}

// State is the learning state the recall moves a card to.
func (r Recall) State() (models.State, bool) {
	switch r {
	case RecallKnew:
		return models.StateLearnt, true
	case RecallForgot:
		return models.StateLearning, true
	case RecallReview:
		return models.StateToReview, true
	default:
		return 0, false
	}
}

func (r *Recall) UnmarshalText(text []byte) error {
	v, err := ParseRecall(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Rating is the learner's difficulty assessment of a card.
type Rating int

const (
	RatingNone Rating = iota
	RatingEasy
	RatingMedium
	RatingHard
)

var ratingNames = [...]string{"NONE", "EASY", "MEDIUM", "HARD"}

// ParseRating maps an empty string to RatingNone.
func ParseRating(s string) (Rating, error) {
	if s == "" {
		return RatingNone, nil
	}
	for i, n := range ratingNames {
		if n == s {
			return Rating(i), nil
		}
	}
	return RatingNone, fmt.Errorf("unknown rating %q", s)
}

func (r Rating) String() string {
	if r < 0 || int(r) >= len(ratingNames) {
		return fmt.Sprintf("Rating(%d)", int(r))
	}
	return ratingNames[r]
}

// Difficulty is the difficulty the rating assigns to a card.
func (r Rating) Difficulty() (models.Difficulty, bool) {
	switch r {
	case RatingEasy:
		return models.DifficultyEasy, true
	case RatingMedium:
		return models.DifficultyMedium, true
	case RatingHard:
		return models.DifficultyHard, true
	default:
		return 0, false
	}
}

func (r *Rating) UnmarshalText(text []byte) error {
	v, err := ParseRating(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Feedback is what the learner reports before leaving a card.
type Feedback struct {
	Recall Recall `json:"recall"`
	Rating Rating `json:"rating"`
}
