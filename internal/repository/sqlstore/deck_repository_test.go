package sqlstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/flashy/internal/db"
	apperrors "github.com/vytor/flashy/internal/errors"
	"github.com/vytor/flashy/internal/models"
	"github.com/vytor/flashy/internal/repository"
	"github.com/vytor/flashy/internal/repository/sqlstore"
	"github.com/vytor/flashy/internal/testutil"
)

type DeckRepositorySuite struct {
	suite.Suite
	db   *db.DB
	repo repository.DeckRepository
}

func (s *DeckRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlstore.NewDeckRepository(s.db, s.db.Builder())
}

func (s *DeckRepositorySuite) add(name string) *models.Deck {
	deck, err := models.NewDeck(name, "")
	s.Require().NoError(err)
	_, err = s.repo.Add(context.Background(), deck)
	s.Require().NoError(err)
	return deck
}

func (s *DeckRepositorySuite) TestAddAndGet() {
	ctx := context.Background()
	deck, err := models.NewDeck("Spanish", "verbs")
	s.Require().NoError(err)

	id, err := s.repo.Add(ctx, deck)
	s.Require().NoError(err)
	s.Assert().Equal(id, deck.ID)

	byID, err := s.repo.GetByID(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal(*deck, *byID)

	byName, err := s.repo.GetByName(ctx, "Spanish")
	s.Require().NoError(err)
	s.Assert().Equal(id, byName.ID)
}

func (s *DeckRepositorySuite) TestGetByName_NotFound() {
	_, err := s.repo.GetByName(context.Background(), "missing")
	s.Assert().True(apperrors.IsNotFound(err))
	s.Assert().Contains(err.Error(), "missing")
}

func (s *DeckRepositorySuite) TestAdd_DuplicateNameIsConflict() {
	s.add("Spanish")

	dup, _ := models.NewDeck("Spanish", "")
	_, err := s.repo.Add(context.Background(), dup)
	s.Assert().True(apperrors.IsConflict(err))
	s.Assert().Equal(models.UnsavedID, dup.ID)
}

func (s *DeckRepositorySuite) TestGetAll() {
	a := s.add("a")
	b := s.add("b")

	decks, err := s.repo.GetAll(context.Background())
	s.Require().NoError(err)
	s.Assert().Equal([]models.Deck{*a, *b}, decks)
}

func (s *DeckRepositorySuite) TestGetAll_Empty() {
	decks, err := s.repo.GetAll(context.Background())
	s.Require().NoError(err)
	s.Assert().Empty(decks)
}

func (s *DeckRepositorySuite) TestUpdateAndDelete() {
	ctx := context.Background()
	deck := s.add("old")

	deck.Name = "new"
	deck.Description = "renamed"
	s.Require().NoError(s.repo.Update(ctx, *deck))

	got, err := s.repo.GetByID(ctx, deck.ID)
	s.Require().NoError(err)
	s.Assert().Equal("new", got.Name)
	s.Assert().Equal("renamed", got.Description)

	s.Require().NoError(s.repo.Delete(ctx, deck.ID))
	s.Assert().True(apperrors.IsNotFound(s.repo.Delete(ctx, deck.ID)))
}

func TestDeckRepositorySuite(t *testing.T) {
	suite.Run(t, new(DeckRepositorySuite))
}
