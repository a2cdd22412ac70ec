package service

import (
	"context"
	"sort"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"go.uber.org/zap"

	"github.com/macrolog-ai/macrolog/internal/domain"
)

const (
	defaultTopK              = 3
	defaultMinScore          = 35
	defaultCutoffRatio       = 0.7
	defaultCollapseScore     = 90
	defaultCollapseMaxTokens = 2

	overlapBonusStep = 5
	overlapBonusMax  = 15
)

// NoteSourceInterface defines the note store the retriever reads from.
type NoteSourceInterface interface {
	List(ctx context.Context) ([]*domain.Note, error)
}

// RetrievalConfig controls ranking behavior.
type RetrievalConfig struct {
	TopK              int
	MinScore          int
	CutoffRatio       float64
	CollapseScore     int
	CollapseMaxTokens int
}

// DefaultRetrievalConfig returns the default ranking configuration.
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		TopK:              defaultTopK,
		MinScore:          defaultMinScore,
		CutoffRatio:       defaultCutoffRatio,
		CollapseScore:     defaultCollapseScore,
		CollapseMaxTokens: defaultCollapseMaxTokens,
	}
}

type scoredNote struct {
	note  *domain.Note
	score int
}

// RetrievalService ranks stored notes against a free-text query using fuzzy
// name matching with a token-overlap bonus and a dynamic cutoff relative to
// the best score.
type RetrievalService struct {
	notes  NoteSourceInterface
	cfg    RetrievalConfig
	logger *zap.Logger
}

// NewRetrievalService creates a new RetrievalService instance.
func NewRetrievalService(notes NoteSourceInterface, cfg RetrievalConfig, logger *zap.Logger) *RetrievalService {
	if cfg.TopK <= 0 {
		cfg.TopK = defaultTopK
	}
	if cfg.CutoffRatio <= 0 {
		cfg.CutoffRatio = defaultCutoffRatio
	}
	return &RetrievalService{notes: notes, cfg: cfg, logger: logger}
}

// Retrieve returns the notes most relevant to the query, best first.
// An empty result is not an error: it means nothing scored above the cutoff.
func (s *RetrievalService) Retrieve(ctx context.Context, query string) ([]*domain.Note, error) {
	notes, err := s.notes.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		s.logger.Debug("retrieval: note store is empty")
		return nil, nil
	}

	queryNorm := domain.Normalize(query)
	if queryNorm == "" {
		s.logger.Warn("retrieval: query empty after normalization", zap.String("query", query))
		return nil, nil
	}
	queryTokens := tokenSet(queryNorm)

	scores := make([]scoredNote, 0, len(notes))
	for _, note := range notes {
		if note.NameNorm == "" {
			continue
		}

		fuzzyScore := fuzzy.TokenSetRatio(queryNorm, note.NameNorm)

		// Overlap bonus keeps partial names competitive: "gnc bar" should
		// still reach "gnc wafer protein bar".
		overlap := 0
		for token := range tokenSet(note.NameNorm) {
			if queryTokens[token] {
				overlap++
			}
		}
		bonus := overlap * overlapBonusStep
		if bonus > overlapBonusMax {
			bonus = overlapBonusMax
		}

		total := fuzzyScore + bonus
		scores = append(scores, scoredNote{note: note, score: total})

		s.logger.Debug("retrieval: candidate scored",
			zap.String("query", query),
			zap.String("name", note.Name),
			zap.Int("fuzzy", fuzzyScore),
			zap.Int("bonus", bonus),
			zap.Int("total", total))
	}
	if len(scores) == 0 {
		return nil, nil
	}

	// Highest score first; longer names win ties as the more specific entry.
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return len(scores[i].note.Name) > len(scores[j].note.Name)
	})

	bestScore := scores[0].score
	cutoff := int(float64(bestScore) * s.cfg.CutoffRatio)
	if cutoff < s.cfg.MinScore {
		cutoff = s.cfg.MinScore
	}

	selected := make([]*domain.Note, 0, s.cfg.TopK)
	for _, sn := range scores {
		if sn.score < cutoff {
			break
		}
		selected = append(selected, sn.note)
		if len(selected) == s.cfg.TopK {
			break
		}
	}
	if len(selected) == 0 {
		s.logger.Debug("retrieval: no candidates above cutoff",
			zap.String("query", query),
			zap.Int("best_score", bestScore),
			zap.Int("cutoff", cutoff))
		return nil, nil
	}

	// A short generic query with multiple perfect matches tells us nothing
	// about which one the user meant; keep only the best.
	if len(selected) > 1 && len(queryTokens) <= s.cfg.CollapseMaxTokens &&
		bestScore >= s.cfg.CollapseScore && scores[1].score == bestScore {
		s.logger.Debug("retrieval: collapsing short-query ties", zap.String("query", query))
		selected = selected[:1]
	}

	s.logger.Debug("retrieval: selected notes",
		zap.String("query", query),
		zap.Int("count", len(selected)),
		zap.Int("best_score", bestScore),
		zap.Int("cutoff", cutoff))

	return selected, nil
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range domain.Tokens(s) {
		set[token] = true
	}
	return set
}
