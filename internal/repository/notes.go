package repository

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/macrolog-ai/macrolog/internal/domain"
	"go.uber.org/zap"
)

const notesFilename = "knowledge_base.jsonl"

// NoteCache is a process-scoped snapshot of the note collection. Retrieval
// runs once per message chunk, so reads must not hit the file every time.
// The store invalidates the cache after every durable mutation commits and
// before the mutation lock is released, so a read that observes a completed
// mutation can never be served the stale snapshot.
type NoteCache struct {
	mu       sync.RWMutex
	snapshot []*domain.Note
	valid    bool
}

func NewNoteCache() *NoteCache {
	return &NoteCache{}
}

func (c *NoteCache) get() ([]*domain.Note, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot, c.valid
}

func (c *NoteCache) set(notes []*domain.Note) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = notes
	c.valid = true
}

// Invalidate discards the cached snapshot. The next List reloads from disk.
func (c *NoteCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
	c.valid = false
}

// NoteRepository persists fact notes as one JSON object per line. Every
// mutation rewrites the whole collection; a single mutation lock serializes
// writers so one writer's snapshot cannot clobber another's edit.
type NoteRepository struct {
	path   string
	cache  *NoteCache
	logger *zap.Logger

	mu sync.Mutex
}

func NewNoteRepository(dataDir string, cache *NoteCache, logger *zap.Logger) *NoteRepository {
	return &NoteRepository{
		path:   filepath.Join(dataDir, notesFilename),
		cache:  cache,
		logger: logger,
	}
}

// List returns all notes in file order with Name/NameNorm derived. A missing
// file yields an empty collection, not an error.
func (r *NoteRepository) List(ctx context.Context) ([]*domain.Note, error) {
	if notes, ok := r.cache.get(); ok {
		return notes, nil
	}

	// Fill under the mutation lock so a concurrent rewrite cannot race the
	// load and leave a stale snapshot behind its invalidation.
	r.mu.Lock()
	defer r.mu.Unlock()

	if notes, ok := r.cache.get(); ok {
		return notes, nil
	}
	notes, err := r.load()
	if err != nil {
		return nil, err
	}
	r.cache.set(notes)
	return notes, nil
}

// Add trims the text, assigns the next id, appends and persists the full
// collection. Returns the stored note.
func (r *NoteRepository) Add(ctx context.Context, text string) (*domain.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyNoteText
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	notes, err := r.load()
	if err != nil {
		return nil, err
	}

	note := &domain.Note{ID: domain.NextNoteID(notes), Text: text}
	note.DeriveName()
	notes = append(notes, note)
	if err := r.save(notes); err != nil {
		return nil, err
	}
	r.cache.Invalidate()
	return note, nil
}

// Delete removes the note with the given id and persists the remainder.
// Returns false when no note had that id.
func (r *NoteRepository) Delete(ctx context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	notes, err := r.load()
	if err != nil {
		return false, err
	}

	remaining := notes[:0]
	for _, n := range notes {
		if n.ID != id {
			remaining = append(remaining, n)
		}
	}
	if len(remaining) == len(notes) {
		return false, nil
	}

	if err := r.save(remaining); err != nil {
		return false, err
	}
	r.cache.Invalidate()
	return true, nil
}

func (r *NoteRepository) load() ([]*domain.Note, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Note{}, nil
		}
		return nil, fmt.Errorf("failed to open notes file: %w", err)
	}
	defer f.Close()

	notes := []*domain.Note{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var n domain.Note
		if err := json.Unmarshal(line, &n); err != nil {
			// Partial corruption must not abort the whole load.
			r.logger.Warn("skipping malformed note line",
				zap.String("path", r.path),
				zap.Int("line", lineNo),
				zap.Error(err))
			continue
		}
		n.DeriveName()
		notes = append(notes, &n)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notes file: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) save(notes []*domain.Note) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	var buf bytes.Buffer
	for _, n := range notes {
		line, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("failed to marshal note %d: %w", n.ID, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	if err := os.WriteFile(r.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write notes file: %w", err)
	}
	return nil
}
