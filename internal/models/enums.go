package models

import (
	"database/sql/driver"
	"fmt"
)

// State is the learning state of a flashcard.
type State int

const (
	StateCreated State = iota
	StateLearning
	StateLearnt
	StateToReview
)

var AllStates = [...]State{StateCreated, StateLearning, StateLearnt, StateToReview}

var stateNames = [...]string{"CREATED", "LEARNING", "LEARNT", "TO_REVIEW"}

func (s State) Valid() bool { return s >= 0 && int(s) < len(stateNames) }

func (s State) String() string {
	if !s.Valid() {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// ParseState accepts exact upper-case names only.
func ParseState(name string) (State, error) {
	for i, n := range stateNames {
		if n == name {
			return State(i), nil
		}
	}
	return 0, fmt.Errorf("unknown state %q", name)
}

func (s State) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid state %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	v, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s State) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid state %d", int(s))
	}
	return s.String(), nil
}

func (s *State) Scan(src any) error {
	name, err := scanName(src)
	if err != nil {
		return fmt.Errorf("scan state: %w", err)
	}
	return s.UnmarshalText([]byte(name))
}

// Difficulty is the self-assessed difficulty of a flashcard.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
	DifficultyDefault
)

var AllDifficulties = [...]Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyDefault}

var difficultyNames = [...]string{"EASY", "MEDIUM", "HARD", "DEFAULT"}

func (d Difficulty) Valid() bool { return d >= 0 && int(d) < len(difficultyNames) }

func (d Difficulty) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
	return difficultyNames[d]
}

// ParseDifficulty accepts exact upper-case names only.
func ParseDifficulty(name string) (Difficulty, error) {
	for i, n := range difficultyNames {
		if n == name {
			return Difficulty(i), nil
		}
	}
	return 0, fmt.Errorf("unknown difficulty %q", name)
}

func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid difficulty %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	v, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Difficulty) Value() (driver.Value, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid difficulty %d", int(d))
	}
	return d.String(), nil
}

func (d *Difficulty) Scan(src any) error {
	name, err := scanName(src)
	if err != nil {
		return fmt.Errorf("scan difficulty: %w", err)
	}
	return d.UnmarshalText([]byte(name))
}

func scanName(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("unsupported type %T", src)
	}
}
