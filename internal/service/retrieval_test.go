package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/macrolog-ai/macrolog/internal/domain"
)

func makeNote(id int, text string) *domain.Note {
	n := &domain.Note{ID: id, Text: text}
	n.DeriveName()
	return n
}

func newTestRetriever(notes []*domain.Note) *RetrievalService {
	repo := new(MockNoteRepository)
	repo.On("List", mock.Anything).Return(notes, nil)
	return NewRetrievalService(repo, DefaultRetrievalConfig(), zap.NewNop())
}

func TestRetrievalService_EmptyStore(t *testing.T) {
	svc := newTestRetriever(nil)

	results, err := svc.Retrieve(context.Background(), "oatmeal")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrievalService_EmptyQueryAfterNormalization(t *testing.T) {
	svc := newTestRetriever([]*domain.Note{makeNote(1, "oatmeal, 50g, 190 kcal")})

	results, err := svc.Retrieve(context.Background(), "!!! ???")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrievalService_ExactMatchWins(t *testing.T) {
	svc := newTestRetriever([]*domain.Note{
		makeNote(1, "oatmeal, 50g, 190 kcal"),
		makeNote(2, "chicken breast, 100g, 165 kcal"),
		makeNote(3, "greek yogurt, 150g, 130 kcal"),
	})

	results, err := svc.Retrieve(context.Background(), "oatmeal")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, 1, results[0].ID)
}

func TestRetrievalService_PartialNameReachesLongerEntry(t *testing.T) {
	svc := newTestRetriever([]*domain.Note{
		makeNote(1, "gnc wafer protein bar, 1 pcs, 220 kcal"),
		makeNote(2, "rice, 100g, 130 kcal"),
	})

	results, err := svc.Retrieve(context.Background(), "gnc bar")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, 1, results[0].ID)
}

func TestRetrievalService_NothingAboveMinScore(t *testing.T) {
	svc := newTestRetriever([]*domain.Note{
		makeNote(1, "oatmeal, 50g, 190 kcal"),
	})

	results, err := svc.Retrieve(context.Background(), "zzzzqqqq")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrievalService_DynamicCutoffDropsWeakMatches(t *testing.T) {
	svc := newTestRetriever([]*domain.Note{
		makeNote(1, "protein shake, 1 pcs, 150 kcal"),
		makeNote(2, "protein bar, 1 pcs, 220 kcal"),
		makeNote(3, "apple, 1 pcs, 52 kcal"),
	})

	results, err := svc.Retrieve(context.Background(), "protein shake")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, 1, results[0].ID)
	for _, note := range results {
		assert.NotEqual(t, 3, note.ID, "unrelated entry should fall below the cutoff")
	}
}

func TestRetrievalService_TopKLimit(t *testing.T) {
	svc := newTestRetriever([]*domain.Note{
		makeNote(1, "protein bar vanilla, 1 pcs"),
		makeNote(2, "protein bar chocolate, 1 pcs"),
		makeNote(3, "protein bar caramel, 1 pcs"),
		makeNote(4, "protein bar lemon, 1 pcs"),
	})

	results, err := svc.Retrieve(context.Background(), "protein bar caramel chocolate vanilla lemon")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 3)
}

func TestRetrievalService_ShortQueryCollapsesPerfectTies(t *testing.T) {
	svc := newTestRetriever([]*domain.Note{
		makeNote(1, "Protein Bar (GNC), 1 pcs, 220 kcal"),
		makeNote(2, "protein bar, 1 pcs, 200 kcal"),
	})

	results, err := svc.Retrieve(context.Background(), "protein bar")
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestRetrievalService_LongQueryKeepsMultipleMatches(t *testing.T) {
	svc := newTestRetriever([]*domain.Note{
		makeNote(1, "grilled chicken breast with rice, 300g"),
		makeNote(2, "grilled chicken breast with pasta, 300g"),
	})

	results, err := svc.Retrieve(context.Background(), "grilled chicken breast with rice please")
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestRetrievalService_RepositoryError(t *testing.T) {
	repo := new(MockNoteRepository)
	repo.On("List", mock.Anything).Return(nil, errors.New("disk error"))
	svc := NewRetrievalService(repo, DefaultRetrievalConfig(), zap.NewNop())

	_, err := svc.Retrieve(context.Background(), "oatmeal")
	assert.Error(t, err)
}
