package sqlstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/flashy/internal/db"
	apperrors "github.com/vytor/flashy/internal/errors"
	"github.com/vytor/flashy/internal/models"
	"github.com/vytor/flashy/internal/repository"
	"github.com/vytor/flashy/internal/testutil"
)

type StoreSuite struct {
	suite.Suite
	db    *db.DB
	store repository.Store
}

func (s *StoreSuite) SetupTest() {
	s.store, s.db = testutil.NewTestStore(s.T())
}

func (s *StoreSuite) seed() (*models.Deck, *models.Flashcard) {
	ctx := context.Background()
	repos := s.store.Repos()

	deck, _ := models.NewDeck("Spanish", "")
	_, err := repos.Decks.Add(ctx, deck)
	s.Require().NoError(err)

	card, _ := models.NewFlashcard("hola", "hello", "")
	_, err = repos.Flashcards.Add(ctx, card)
	s.Require().NoError(err)

	s.Require().NoError(repos.Associations.Add(ctx, card.ID, deck.ID))
	return deck, card
}

func (s *StoreSuite) TestAssociations() {
	ctx := context.Background()
	deck, card := s.seed()
	assoc := s.store.Repos().Associations

	ok, err := assoc.Exists(ctx, card.ID, deck.ID)
	s.Require().NoError(err)
	s.Assert().True(ok)

	deckIDs, err := assoc.DeckIDsForFlashcard(ctx, card.ID)
	s.Require().NoError(err)
	s.Assert().Equal([]int64{deck.ID}, deckIDs)

	cardIDs, err := assoc.FlashcardIDsInDeck(ctx, deck.ID)
	s.Require().NoError(err)
	s.Assert().Equal([]int64{card.ID}, cardIDs)

	all, err := assoc.GetAll(ctx)
	s.Require().NoError(err)
	s.Assert().Equal([]models.Association{{FlashcardID: card.ID, DeckID: deck.ID}}, all)

	s.Assert().True(apperrors.IsConflict(assoc.Add(ctx, card.ID, deck.ID)))

	s.Require().NoError(assoc.Remove(ctx, card.ID, deck.ID))
	s.Assert().True(apperrors.IsNotFound(assoc.Remove(ctx, card.ID, deck.ID)))
}

func (s *StoreSuite) TestAssociation_UnknownDeckRejected() {
	_, card := s.seed()
	err := s.store.Repos().Associations.Add(context.Background(), card.ID, 999)
	s.Assert().True(apperrors.IsPersistence(err))
}

func (s *StoreSuite) TestRemoveAllForDeck() {
	ctx := context.Background()
	deck, _ := s.seed()

	n, err := s.store.Repos().Associations.RemoveAllForDeck(ctx, deck.ID)
	s.Require().NoError(err)
	s.Assert().Equal(int64(1), n)

	ids, err := s.store.Repos().Associations.FlashcardIDsInDeck(ctx, deck.ID)
	s.Require().NoError(err)
	s.Assert().Empty(ids)
}

func (s *StoreSuite) TestForeignKeyCascade() {
	ctx := context.Background()
	deck, card := s.seed()

	s.Require().NoError(s.store.Repos().Decks.Delete(ctx, deck.ID))

	all, err := s.store.Repos().Associations.GetAll(ctx)
	s.Require().NoError(err)
	s.Assert().Empty(all)

	_, err = s.store.Repos().Flashcards.GetByID(ctx, card.ID)
	s.Assert().NoError(err, "deleting a deck keeps its flashcards")
}

func (s *StoreSuite) TestInTx_RollsBackAllRepositories() {
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.store.InTx(ctx, func(r repository.Repositories) error {
		deck, _ := models.NewDeck("tx deck", "")
		if _, err := r.Decks.Add(ctx, deck); err != nil {
			return err
		}
		card, _ := models.NewFlashcard("q", "a", "")
		if _, err := r.Flashcards.Add(ctx, card); err != nil {
			return err
		}
		if err := r.Associations.Add(ctx, card.ID, deck.ID); err != nil {
			return err
		}
		return boom
	})
	s.Assert().ErrorIs(err, boom)

	decks, err := s.store.Repos().Decks.GetAll(ctx)
	s.Require().NoError(err)
	s.Assert().Empty(decks)
	cards, err := s.store.Repos().Flashcards.GetAll(ctx)
	s.Require().NoError(err)
	s.Assert().Empty(cards)
}

func (s *StoreSuite) TestPing() {
	s.Assert().NoError(s.store.Ping(context.Background()))
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}
