// Package storage persists the most recent chart context and analysis so
// the widget can offer a recall after restart.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dtnitsch/chartbuddy/models"
	"github.com/dtnitsch/chartbuddy/pkg/db"
)

// Keys of the persisted pair.
const (
	KeyLastContext  = "lastContext"
	KeyLastAnalysis = "lastAnalysis"
)

// Store is a small key-value store. Get omits keys it does not have.
type Store interface {
	Get(ctx context.Context, keys []string) (map[string]json.RawMessage, error)
	Set(ctx context.Context, entries map[string]json.RawMessage) error
}

// SaveLast writes the context/analysis pair in a single Set.
func SaveLast(ctx context.Context, s Store, cc models.ChartContext, res models.AnalysisResult) error {
	ccJSON, err := json.Marshal(cc)
	if err != nil {
		return fmt.Errorf("failed to encode context: %w", err)
	}
	resJSON, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	return s.Set(ctx, map[string]json.RawMessage{
		KeyLastContext:  ccJSON,
		KeyLastAnalysis: resJSON,
	})
}

// LoadLast reads the pair. ok is false unless both halves are present.
func LoadLast(ctx context.Context, s Store) (cc models.ChartContext, res models.AnalysisResult, ok bool, err error) {
	values, err := s.Get(ctx, []string{KeyLastContext, KeyLastAnalysis})
	if err != nil {
		return cc, res, false, err
	}
	rawCtx, hasCtx := values[KeyLastContext]
	rawRes, hasRes := values[KeyLastAnalysis]
	if !hasCtx || !hasRes {
		return cc, res, false, nil
	}
	if err := json.Unmarshal(rawCtx, &cc); err != nil {
		return cc, res, false, fmt.Errorf("failed to decode %s: %w", KeyLastContext, err)
	}
	if err := json.Unmarshal(rawRes, &res); err != nil {
		return cc, res, false, fmt.Errorf("failed to decode %s: %w", KeyLastAnalysis, err)
	}
	return cc.Capped(), res.Normalized(), true, nil
}

// SQLiteStore keeps values in the kv table.
type SQLiteStore struct {
	DB *db.DB
}

func (s *SQLiteStore) Get(ctx context.Context, keys []string) (map[string]json.RawMessage, error) {
	return s.DB.GetValues(ctx, keys)
}

func (s *SQLiteStore) Set(ctx context.Context, entries map[string]json.RawMessage) error {
	return s.DB.SetValues(ctx, entries)
}

// FileStore keeps all values in one JSON object on disk.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by path. The file is created on first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(_ context.Context, keys []string) (map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		if v, ok := all[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *FileStore) Set(_ context.Context, entries map[string]json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return err
	}
	for k, v := range entries {
		all[k] = v
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	// Write to a temp file and rename so a crash never leaves half a file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

func (s *FileStore) readAll() (map[string]json.RawMessage, error) {
	all := make(map[string]json.RawMessage)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return all, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	if len(data) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to decode store %s: %w", s.path, err)
	}
	return all, nil
}
