// Package csvio reads and writes the deck exchange format:
//
//	ID,Question,Answer,Hint,State,Difficulty
//	1,"What is ""x""?","42","",LEARNT,EASY
package csvio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	apperrors "github.com/vytor/flashy/internal/errors"
	"github.com/vytor/flashy/internal/logger"
	"github.com/vytor/flashy/internal/models"
)

const Header = "ID,Question,Answer,Hint,State,Difficulty"

const columns = 6

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Write emits the header and one row per card. Text fields are always quoted.
func Write(w io.Writer, cards []models.Flashcard) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, Header); err != nil {
		return err
	}
	for _, c := range cards {
		_, err := fmt.Fprintf(bw, "%d,%s,%s,%s,%s,%s\n",
			c.ID, quote(c.Question), quote(c.Answer), quote(c.Hint), c.State, c.Difficulty)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Row is one data line of an import, fields already unquoted. Text is kept
// verbatim; enum names are trimmed.
type Row struct {
	Line       int
	Question   string
	Answer     string
	Hint       string
	State      string
	Difficulty string
}

// Flashcard converts the row into a transient card. State and difficulty must
// be exact enum names.
func (r Row) Flashcard() (*models.Flashcard, error) {
	state, err := models.ParseState(r.State)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("line %d", r.Line), err.Error())
	}
	difficulty, err := models.ParseDifficulty(r.Difficulty)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("line %d", r.Line), err.Error())
	}
	card, err := models.NewFlashcard(r.Question, r.Answer, r.Hint)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("line %d", r.Line), err.Error())
	}
	card.State = state
	card.Difficulty = difficulty
	return card, nil
}

// Read parses every data row after the header. Rows with fewer than six
// fields or broken quoting are skipped.
func Read(r io.Reader, log *logger.Logger) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var rows []Row
	header := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				log.Warn("skipping malformed csv line %d: %v", parseErr.StartLine, parseErr.Err)
				header = false
				continue
			}
			return nil, err
		}
		if header {
			header = false
			continue
		}
		line, _ := cr.FieldPos(0)
		if len(record) < columns {
			log.Debug("skipping csv line %d: %d fields", line, len(record))
			continue
		}
		rows = append(rows, Row{
			Line:       line,
			Question:   record[1],
			Answer:     record[2],
			Hint:       record[3],
			State:      strings.TrimSpace(record[4]),
			Difficulty: strings.TrimSpace(record[5]),
		})
	}
	return rows, nil
}
