package models

// StateCounts holds the number of flashcards per learning state, indexed by State.
type StateCounts [len(AllStates)]int

// DifficultyCounts holds the number of flashcards per difficulty, indexed by Difficulty.
type DifficultyCounts [len(AllDifficulties)]int

func (c StateCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Map keys every state by name, including the empty ones.
func (c StateCounts) Map() map[string]int {
	m := make(map[string]int, len(c))
	for _, s := range AllStates {
		m[s.String()] = c[s]
	}
	return m
}

func (c DifficultyCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

func (c DifficultyCounts) Map() map[string]int {
	m := make(map[string]int, len(c))
	for _, d := range AllDifficulties {
		m[d.String()] = c[d]
	}
	return m
}

type Stats struct {
	Total        int            `json:"total"`
	ByState      map[string]int `json:"by_state"`
	ByDifficulty map[string]int `json:"by_difficulty"`
}

// NewStats bundles both breakdowns.
func NewStats(states StateCounts, difficulties DifficultyCounts) Stats {
	return Stats{
		Total:        states.Total(),
		ByState:      states.Map(),
		ByDifficulty: difficulties.Map(),
	}
}
