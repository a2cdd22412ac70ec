package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const targetsFilename = "user_targets.json"

// TargetRepository stores daily calorie targets as a single JSON object
// mapping user ID to kcal. The file is small and rewritten whole; a mutex
// serializes both reads and writes so a rewrite is never observed halfway.
type TargetRepository struct {
	path string
	mu   sync.Mutex
}

func NewTargetRepository(dataDir string) *TargetRepository {
	return &TargetRepository{path: filepath.Join(dataDir, targetsFilename)}
}

// Get returns the stored target for the user and whether one is set.
func (r *TargetRepository) Get(ctx context.Context, userID string) (float64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	targets, err := r.load()
	if err != nil {
		return 0, false, err
	}
	kcal, ok := targets[userID]
	return kcal, ok, nil
}

// Set stores the target for the user, replacing any previous value.
func (r *TargetRepository) Set(ctx context.Context, userID string, kcal float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	targets, err := r.load()
	if err != nil {
		return err
	}
	targets[userID] = kcal
	return r.save(targets)
}

func (r *TargetRepository) load() (map[string]float64, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]float64), nil
		}
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}

	targets := make(map[string]float64)
	if err := json.Unmarshal(data, &targets); err != nil {
		return nil, fmt.Errorf("failed to parse targets file: %w", err)
	}
	return targets, nil
}

func (r *TargetRepository) save(targets map[string]float64) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	data, err := json.Marshal(targets)
	if err != nil {
		return fmt.Errorf("failed to marshal targets: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write targets file: %w", err)
	}
	return nil
}
