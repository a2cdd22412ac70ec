package repository

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/macrolog-ai/macrolog/internal/domain"
	"go.uber.org/zap"
)

const usersDirname = "users"

// scopeLocks hands out one mutex per (user, date) scope so read-modify-write
// persistence cannot lose updates under concurrent writers to the same day.
type scopeLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newScopeLocks() *scopeLocks {
	return &scopeLocks{locks: make(map[string]*sync.Mutex)}
}

func (s *scopeLocks) get(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// dayLines is a cached parse of one scope file. RawCount is the number of
// physical lines, which is what positions index: a malformed line still
// occupies its position so that the numbers a user sees stay aligned with
// what delete-by-position removes.
type dayLines struct {
	Lines    []domain.LedgerLine
	RawCount int
}

// LedgerRepository is the per-user, per-day append-only store of resolved
// food records: one JSON object per line under
// <dataDir>/users/user_<id>/<date>.jsonl. All access to a scope is
// serialized by that scope's lock; the LRU day cache is a read-through
// optimization rebuilt from disk, never the source of truth.
type LedgerRepository struct {
	baseDir string
	locks   *scopeLocks
	cache   *lru.Cache
	logger  *zap.Logger
}

func NewLedgerRepository(dataDir string, cacheSize int, logger *zap.Logger) (*LedgerRepository, error) {
	if cacheSize <= 0 {
		cacheSize = 256
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger cache: %w", err)
	}
	return &LedgerRepository{
		baseDir: filepath.Join(dataDir, usersDirname),
		locks:   newScopeLocks(),
		cache:   cache,
		logger:  logger,
	}, nil
}

func scopeKey(userID, date string) string {
	return userID + "/" + date
}

func (r *LedgerRepository) scopePath(userID, date string) string {
	return filepath.Join(r.baseDir, "user_"+userID, date+".jsonl")
}

// Append durably appends the given records to the scope file. Callers are
// expected to have filtered rejected records already; this is storage only.
func (r *LedgerRepository) Append(ctx context.Context, userID, date string, items []domain.FoodItem) error {
	if len(items) == 0 {
		return nil
	}

	key := scopeKey(userID, date)
	lock := r.locks.get(key)
	lock.Lock()
	defer lock.Unlock()

	path := r.scopePath(userID, date)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create user dir: %w", err)
	}

	var buf bytes.Buffer
	for i := range items {
		line, err := json.Marshal(&items[i])
		if err != nil {
			return fmt.Errorf("failed to marshal food item: %w", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open ledger file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to append ledger lines: %w", err)
	}

	r.cache.Remove(key)
	return nil
}

// Read returns the parsed lines of a scope at their physical positions plus
// the physical line count. A missing scope file yields an empty day.
func (r *LedgerRepository) Read(ctx context.Context, userID, date string) ([]domain.LedgerLine, int, error) {
	key := scopeKey(userID, date)
	lock := r.locks.get(key)
	lock.Lock()
	defer lock.Unlock()

	if cached, ok := r.cache.Get(key); ok {
		day := cached.(dayLines)
		return day.Lines, day.RawCount, nil
	}

	day, err := r.loadScope(userID, date)
	if err != nil {
		return nil, 0, err
	}
	r.cache.Add(key, day)
	return day.Lines, day.RawCount, nil
}

// DeleteLine removes the physical line at the 1-based position and persists
// the remainder, shifting later positions down by one. Returns false when
// the position is outside [1, line count].
func (r *LedgerRepository) DeleteLine(ctx context.Context, userID, date string, position int) (bool, error) {
	key := scopeKey(userID, date)
	lock := r.locks.get(key)
	lock.Lock()
	defer lock.Unlock()

	raw, err := r.rawLines(userID, date)
	if err != nil {
		return false, err
	}
	if position < 1 || position > len(raw) {
		return false, nil
	}

	raw = append(raw[:position-1], raw[position:]...)

	var buf bytes.Buffer
	for _, line := range raw {
		buf.Write(line)
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(r.scopePath(userID, date), buf.Bytes(), 0o644); err != nil {
		return false, fmt.Errorf("failed to rewrite ledger file: %w", err)
	}

	r.cache.Remove(key)
	return true, nil
}

// ClearDay deletes the whole scope file. Returns false when nothing existed.
func (r *LedgerRepository) ClearDay(ctx context.Context, userID, date string) (bool, error) {
	key := scopeKey(userID, date)
	lock := r.locks.get(key)
	lock.Lock()
	defer lock.Unlock()

	err := os.Remove(r.scopePath(userID, date))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to clear day: %w", err)
	}

	r.cache.Remove(key)
	return true, nil
}

// CountUsers returns the number of users with any recorded data.
func (r *LedgerRepository) CountUsers(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read users dir: %w", err)
	}

	count := 0
	for _, e := range entries {
		if e.IsDir() {
			count++
		}
	}
	return count, nil
}

func (r *LedgerRepository) loadScope(userID, date string) (dayLines, error) {
	f, err := os.Open(r.scopePath(userID, date))
	if err != nil {
		if os.IsNotExist(err) {
			return dayLines{}, nil
		}
		return dayLines{}, fmt.Errorf("failed to open ledger file: %w", err)
	}
	defer f.Close()

	var day dayLines
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		day.RawCount++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var item domain.FoodItem
		if err := json.Unmarshal(line, &item); err != nil {
			r.logger.Warn("skipping malformed ledger line",
				zap.String("user_id", userID),
				zap.String("date", date),
				zap.Int("line", day.RawCount),
				zap.Error(err))
			continue
		}
		day.Lines = append(day.Lines, domain.LedgerLine{Position: day.RawCount, Item: item})
	}
	if err := scanner.Err(); err != nil {
		return dayLines{}, fmt.Errorf("failed to read ledger file: %w", err)
	}
	return day, nil
}

func (r *LedgerRepository) rawLines(userID, date string) ([][]byte, error) {
	f, err := os.Open(r.scopePath(userID, date))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open ledger file: %w", err)
	}
	defer f.Close()

	var lines [][]byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}
	return lines, nil
}
