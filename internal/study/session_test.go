package study_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	apperrors "github.com/vytor/flashy/internal/errors"
	"github.com/vytor/flashy/internal/events"
	"github.com/vytor/flashy/internal/models"
	"github.com/vytor/flashy/internal/study"
	"github.com/vytor/flashy/internal/testutil/mocks"
)

type SessionTestSuite struct {
	suite.Suite
	ctx     context.Context
	src     *mocks.MockStudySessionService
	session *study.Session
}

func (s *SessionTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.src = &mocks.MockStudySessionService{}
	s.session = study.NewSession(s.src)
}

func (s *SessionTestSuite) TearDownTest() {
	s.src.AssertExpectations(s.T())
}

// deck registers cards under deck 1 in the given order.
func (s *SessionTestSuite) deck(cards ...*models.Flashcard) {
	ids := make([]int64, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
		s.src.On("FlashcardByID", s.ctx, c.ID).Return(c, nil).Once()
	}
	s.src.On("FlashcardIDsInDeck", s.ctx, int64(1)).Return(ids, nil).Once()
}

func card(id int64, q string, state models.State, d models.Difficulty) *models.Flashcard {
	return &models.Flashcard{ID: id, Question: q, Answer: q + "-answer", State: state, Difficulty: d}
}

func (s *SessionTestSuite) TestStart_FiltersInLoadOrder() {
	s.deck(
		card(3, "q3", models.StateLearning, models.DifficultyHard),
		card(1, "q1", models.StateCreated, models.DifficultyHard),
		card(2, "q2", models.StateLearning, models.DifficultyEasy),
		card(4, "q4", models.StateLearning, models.DifficultyHard),
	)

	err := s.session.Start(s.ctx, 1, study.ModeLearning, study.DifficultyHard)
	s.Require().NoError(err)

	v := s.session.View()
	s.Equal(study.InProgress, v.Status)
	s.Equal(2, v.Total)
	s.Equal(0, v.Cursor)
	s.Equal(int64(3), v.CardID)
	s.Equal("q3", v.Question)
	s.Empty(v.Answer)

	s.Require().NoError(s.session.Advance(s.ctx, study.Feedback{}))
	s.Equal(int64(4), s.session.View().CardID)
}

func (s *SessionTestSuite) TestStart_AllFiltersKeepEverything() {
	s.deck(
		card(1, "q1", models.StateCreated, models.DifficultyDefault),
		card(2, "q2", models.StateLearnt, models.DifficultyEasy),
	)

	s.Require().NoError(s.session.Start(s.ctx, 1, study.ModeAll, study.DifficultyAll))
	s.Equal(2, s.session.View().Total)
}

func (s *SessionTestSuite) TestStart_EmptySelectionFinishes() {
	s.deck(card(1, "q1", models.StateCreated, models.DifficultyDefault))

	s.Require().NoError(s.session.Start(s.ctx, 1, study.ModeLearnt, study.DifficultyAll))

	v := s.session.View()
	s.Equal(study.Finished, v.Status)
	s.Equal(-1, v.Cursor)
	s.Equal(int64(models.UnsavedID), v.CardID)
	s.Equal(study.EndOfCardsMessage, v.Question)
}

func (s *SessionTestSuite) TestStart_LoadFailure() {
	boom := errors.New("boom")
	s.src.On("FlashcardIDsInDeck", s.ctx, int64(1)).Return(nil, boom).Once()

	err := s.session.Start(s.ctx, 1, study.ModeAll, study.DifficultyAll)
	s.ErrorIs(err, boom)
	s.Equal(study.NotStarted, s.session.Status())
}

func (s *SessionTestSuite) TestAdvance_AppliesFeedbackThenFinishes() {
	c := card(1, "q1", models.StateCreated, models.DifficultyDefault)
	s.deck(c)
	s.Require().NoError(s.session.Start(s.ctx, 1, study.ModeAll, study.DifficultyAll))

	s.src.On("SetFlashcardState", s.ctx, mock.AnythingOfType("*models.Flashcard"), models.StateLearnt).Return(nil).Once()
	s.src.On("SetFlashcardDifficulty", s.ctx, mock.AnythingOfType("*models.Flashcard"), models.DifficultyEasy).Return(nil).Once()

	s.session.RevealAnswer()
	err := s.session.Advance(s.ctx, study.Feedback{Recall: study.RecallKnew, Rating: study.RatingEasy})
	s.Require().NoError(err)

	v := s.session.View()
	s.Equal(study.Finished, v.Status)
	s.Equal(-1, v.Cursor)
	s.Equal(study.EndOfCardsMessage, v.Question)
	s.Empty(v.Answer)
	s.Empty(v.Hint)

	// finished sessions ignore further feedback
	s.Require().NoError(s.session.Advance(s.ctx, study.Feedback{Recall: study.RecallForgot}))
	s.src.AssertNumberOfCalls(s.T(), "SetFlashcardState", 1)
}

func (s *SessionTestSuite) TestAdvance_NoFeedbackWritesNothing() {
	s.deck(
		card(1, "q1", models.StateCreated, models.DifficultyDefault),
		card(2, "q2", models.StateCreated, models.DifficultyDefault),
	)
	s.Require().NoError(s.session.Start(s.ctx, 1, study.ModeAll, study.DifficultyAll))

	s.Require().NoError(s.session.Advance(s.ctx, study.Feedback{}))

	s.src.AssertNotCalled(s.T(), "SetFlashcardState", mock.Anything, mock.Anything, mock.Anything)
	s.src.AssertNotCalled(s.T(), "SetFlashcardDifficulty", mock.Anything, mock.Anything, mock.Anything)
	s.Equal("q2", s.session.View().Question)
}

func (s *SessionTestSuite) TestAdvance_RecallMapping() {
	for recall, want := range map[study.Recall]models.State{
		study.RecallKnew:   models.StateLearnt,
		study.RecallForgot: models.StateLearning,
		study.RecallReview: models.StateToReview,
	} {
		got, ok := recall.State()
		s.True(ok)
		s.Equal(want, got, recall.String())
	}
	_, ok := study.RecallNone.State()
	s.False(ok)
}

func (s *SessionTestSuite) TestAdvance_WriteFailureStillMoves() {
	s.deck(
		card(1, "q1", models.StateCreated, models.DifficultyDefault),
		card(2, "q2", models.StateCreated, models.DifficultyDefault),
	)
	s.Require().NoError(s.session.Start(s.ctx, 1, study.ModeAll, study.DifficultyAll))

	dbErr := apperrors.NewPersistenceError("update flashcard", errors.New("disk full"))
	s.src.On("SetFlashcardState", s.ctx, mock.Anything, models.StateLearning).Return(dbErr).Once()
	s.src.On("SetFlashcardDifficulty", s.ctx, mock.Anything, models.DifficultyHard).Return(nil).Once()

	err := s.session.Advance(s.ctx, study.Feedback{Recall: study.RecallForgot, Rating: study.RatingHard})
	s.Require().Error(err)
	s.ErrorIs(err, study.ErrProgressNotSaved)
	s.True(apperrors.IsPersistence(err))

	v := s.session.View()
	s.Equal(1, v.Cursor)
	s.Equal("q2", v.Question)
}

func (s *SessionTestSuite) TestAdvance_UndeliveredEventIsNotUnsavedProgress() {
	s.deck(
		card(1, "q1", models.StateCreated, models.DifficultyDefault),
		card(2, "q2", models.StateCreated, models.DifficultyDefault),
	)
	s.Require().NoError(s.session.Start(s.ctx, 1, study.ModeAll, study.DifficultyAll))

	observerDown := fmt.Errorf("%w: UPDATE_FLASHCARD: %w", events.ErrDelivery, errors.New("observer down"))
	s.src.On("SetFlashcardState", s.ctx, mock.Anything, models.StateLearnt).Return(observerDown).Once()

	err := s.session.Advance(s.ctx, study.Feedback{Recall: study.RecallKnew})
	s.Require().Error(err)
	s.ErrorIs(err, events.ErrDelivery)
	s.NotErrorIs(err, study.ErrProgressNotSaved)
	s.Equal("q2", s.session.View().Question)
}

func (s *SessionTestSuite) TestExit_AppliesPendingFeedbackOnce() {
	s.deck(
		card(1, "q1", models.StateCreated, models.DifficultyDefault),
		card(2, "q2", models.StateCreated, models.DifficultyDefault),
	)
	s.Require().NoError(s.session.Start(s.ctx, 1, study.ModeAll, study.DifficultyAll))

	s.src.On("SetFlashcardState", s.ctx, mock.MatchedBy(func(c *models.Flashcard) bool { return c.ID == 1 }), models.StateToReview).
		Return(nil).Once()

	fb := study.Feedback{Recall: study.RecallReview}
	s.Require().NoError(s.session.Exit(s.ctx, fb))
	s.Require().NoError(s.session.Exit(s.ctx, fb))

	v := s.session.View()
	s.Equal(study.NotStarted, v.Status)
	s.Equal(-1, v.Cursor)
	s.Equal(0, v.Total)
	s.Empty(v.Question)
}

func (s *SessionTestSuite) TestExit_AfterFinishWritesNothing() {
	s.deck(card(1, "q1", models.StateCreated, models.DifficultyDefault))
	s.Require().NoError(s.session.Start(s.ctx, 1, study.ModeAll, study.DifficultyAll))
	s.Require().NoError(s.session.Advance(s.ctx, study.Feedback{}))

	s.Require().NoError(s.session.Exit(s.ctx, study.Feedback{Recall: study.RecallKnew}))
	s.Equal(study.NotStarted, s.session.Status())
	s.src.AssertNotCalled(s.T(), "SetFlashcardState", mock.Anything, mock.Anything, mock.Anything)
}

func (s *SessionTestSuite) TestReveal() {
	withHint := card(1, "q1", models.StateCreated, models.DifficultyDefault)
	withHint.Hint = "think"
	s.deck(withHint, card(2, "q2", models.StateCreated, models.DifficultyDefault))
	s.Require().NoError(s.session.Start(s.ctx, 1, study.ModeAll, study.DifficultyAll))

	_, ok := s.session.RevealHint(false)
	s.False(ok)
	s.Empty(s.session.View().Hint)

	hint, ok := s.session.RevealHint(true)
	s.True(ok)
	s.Equal("think", hint)

	answer, ok := s.session.RevealAnswer()
	s.True(ok)
	s.Equal("q1-answer", answer)
	s.Equal("q1-answer", s.session.View().Answer)

	s.Require().NoError(s.session.Advance(s.ctx, study.Feedback{}))
	s.Empty(s.session.View().Answer)
	s.Empty(s.session.View().Hint)

	hint, ok = s.session.RevealHint(true)
	s.True(ok)
	s.Equal(study.NoHintMessage, hint)
}

func (s *SessionTestSuite) TestReveal_NotInProgress() {
	_, ok := s.session.RevealAnswer()
	s.False(ok)
	_, ok = s.session.RevealHint(true)
	s.False(ok)
	s.Empty(s.session.View().Answer)
}

func TestSessionTestSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func TestParsers(t *testing.T) {
	mode, err := study.ParseMode("ALL")
	require.NoError(t, err)
	assert.Equal(t, study.ModeAll, mode)

	mode, err = study.ParseMode("TO_REVIEW")
	require.NoError(t, err)
	assert.Equal(t, study.ModeToReview, mode)
	assert.Equal(t, "TO_REVIEW", mode.String())

	_, err = study.ParseMode("to_review")
	assert.Error(t, err)

	f, err := study.ParseDifficultyFilter("DEFAULT")
	require.NoError(t, err)
	assert.Equal(t, study.DifficultyDefault, f)
	assert.True(t, study.DifficultyAll.Matches(models.DifficultyHard))
	assert.False(t, f.Matches(models.DifficultyHard))

	r, err := study.ParseRecall("")
	require.NoError(t, err)
	assert.Equal(t, study.RecallNone, r)

	rating, err := study.ParseRating("MEDIUM")
	require.NoError(t, err)
	d, ok := rating.Difficulty()
	assert.True(t, ok)
	assert.Equal(t, models.DifficultyMedium, d)

	_, err = study.ParseRating("IMPOSSIBLE")
	assert.Error(t, err)
}
