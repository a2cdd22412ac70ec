package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/macrolog-ai/macrolog/internal/domain"
)

// NoteRepositoryInterface defines the repository interface for note operations.
type NoteRepositoryInterface interface {
	List(ctx context.Context) ([]*domain.Note, error)
	Add(ctx context.Context, text string) (*domain.Note, error)
	Delete(ctx context.Context, id int) (bool, error)
}

// NoteService handles knowledge note management.
type NoteService struct {
	repo   NoteRepositoryInterface
	logger *zap.Logger
}

// NewNoteService creates a new NoteService instance.
func NewNoteService(repo NoteRepositoryInterface, logger *zap.Logger) *NoteService {
	return &NoteService{repo: repo, logger: logger}
}

// ListNotes returns all stored notes in file order.
func (s *NoteService) ListNotes(ctx context.Context) ([]*domain.Note, error) {
	notes, err := s.repo.List(ctx)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to list notes", err)
	}
	return notes, nil
}

// AddNote stores a new note and returns it with its assigned ID.
func (s *NoteService) AddNote(ctx context.Context, text string) (*domain.Note, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyNoteText
	}

	note, err := s.repo.Add(ctx, text)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to add note", err)
	}

	s.logger.Info("note added", zap.Int("note_id", note.ID))
	return note, nil
}

// DeleteNote removes the note with the given ID.
func (s *NoteService) DeleteNote(ctx context.Context, id int) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to delete note", err)
	}
	if !ok {
		return domain.ErrNoteNotFound
	}

	s.logger.Info("note deleted", zap.Int("note_id", id))
	return nil
}
