package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/macrolog-ai/macrolog/internal/domain"
)

// segmentPattern splits a multi-item message into per-food segments.
var segmentPattern = regexp.MustCompile(`(?i)\band\b|,`)

// RetrieverInterface defines the ranker the assembler queries per segment.
type RetrieverInterface interface {
	Retrieve(ctx context.Context, query string) ([]*domain.Note, error)
}

// ContextService assembles a knowledge context block for a meal message:
// the message is split into food segments, each segment is ranked against
// the note store, and the matching notes are merged into a deduplicated
// newline-joined block.
type ContextService struct {
	retriever RetrieverInterface
	logger    *zap.Logger
}

// NewContextService creates a new ContextService instance.
func NewContextService(retriever RetrieverInterface, logger *zap.Logger) *ContextService {
	return &ContextService{retriever: retriever, logger: logger}
}

// RenderNote formats one note as a context line.
func RenderNote(note *domain.Note) string {
	return fmt.Sprintf("- Note #%d: %s", note.ID, note.Text)
}

// BuildContext returns the merged context block for the message, or the
// empty string when no segment matched anything.
func (s *ContextService) BuildContext(ctx context.Context, text string) (string, error) {
	parts := segmentPattern.Split(text, -1)

	var lines []string
	seen := make(map[string]bool)
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		notes, err := s.retriever.Retrieve(ctx, part)
		if err != nil {
			return "", err
		}
		for _, note := range notes {
			line := RenderNote(note)
			if !seen[line] {
				seen[line] = true
				lines = append(lines, line)
			}
		}
	}

	if len(lines) == 0 {
		return "", nil
	}

	block := strings.Join(lines, "\n")
	s.logger.Debug("context block assembled",
		zap.Int("segments", len(parts)),
		zap.Int("lines", len(lines)))
	return block, nil
}
