// Package caching stores analysis results on disk, keyed by the chart
// context they were produced for.
package caching

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dtnitsch/chartbuddy/models"
)

// Cache provides a simple file-based cache with a TTL.
type Cache struct {
	path string
	ttl  time.Duration
}

// NewCache creates a new Cache instance.
// The cache path will be created if it doesn't exist.
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{
		path: path,
		ttl:  ttl,
	}, nil
}

// Key hashes the parts of a context that influence the analysis.
// The drop position is left out: the same chart dropped twice is the same question.
func Key(cc models.ChartContext) string {
	cc.X, cc.Y = 0, 0
	data, _ := json.Marshal(cc)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// Get returns the cached result for cc if present and not expired.
func (c *Cache) Get(cc models.ChartContext) (models.AnalysisResult, bool) {
	filePath := filepath.Join(c.path, Key(cc)+".json")

	info, err := os.Stat(filePath)
	if err != nil {
		return models.AnalysisResult{}, false // Cache miss
	}

	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return models.AnalysisResult{}, false // Expired
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return models.AnalysisResult{}, false
	}

	var res models.AnalysisResult
	if err := json.Unmarshal(data, &res); err != nil {
		return models.AnalysisResult{}, false
	}
	return res, true
}

// Set stores res for cc.
func (c *Cache) Set(cc models.ChartContext, res models.AnalysisResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	filePath := filepath.Join(c.path, Key(cc)+".json")
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}
