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

func TestNoteService_AddNote(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(MockNoteRepository)
		repo.On("Add", mock.Anything, "oatmeal, 50g").
			Return(makeNote(1, "oatmeal, 50g"), nil)

		svc := NewNoteService(repo, zap.NewNop())
		note, err := svc.AddNote(context.Background(), "oatmeal, 50g")
		require.NoError(t, err)
		assert.Equal(t, 1, note.ID)
		repo.AssertExpectations(t)
	})

	t.Run("empty text", func(t *testing.T) {
		repo := new(MockNoteRepository)
		svc := NewNoteService(repo, zap.NewNop())

		_, err := svc.AddNote(context.Background(), "   ")
		assert.ErrorIs(t, err, domain.ErrEmptyNoteText)
		repo.AssertNotCalled(t, "Add")
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockNoteRepository)
		repo.On("Add", mock.Anything, mock.Anything).Return(nil, errors.New("disk error"))

		svc := NewNoteService(repo, zap.NewNop())
		_, err := svc.AddNote(context.Background(), "oatmeal")
		require.Error(t, err)

		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.ErrCodeInternalError, domainErr.Code)
	})
}

func TestNoteService_DeleteNote(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(MockNoteRepository)
		repo.On("Delete", mock.Anything, 2).Return(true, nil)

		svc := NewNoteService(repo, zap.NewNop())
		assert.NoError(t, svc.DeleteNote(context.Background(), 2))
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockNoteRepository)
		repo.On("Delete", mock.Anything, 99).Return(false, nil)

		svc := NewNoteService(repo, zap.NewNop())
		err := svc.DeleteNote(context.Background(), 99)
		assert.ErrorIs(t, err, domain.ErrNoteNotFound)
	})
}

func TestNoteService_ListNotes(t *testing.T) {
	repo := new(MockNoteRepository)
	repo.On("List", mock.Anything).
		Return([]*domain.Note{makeNote(1, "a"), makeNote(2, "b")}, nil)

	svc := NewNoteService(repo, zap.NewNop())
	notes, err := svc.ListNotes(context.Background())
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}
