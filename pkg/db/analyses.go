package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dtnitsch/chartbuddy/models"
)

// Analysis is a row of the analyses table.
type Analysis struct {
	AnalysisID int64
	CreatedAt  time.Time
	Title      string
	URL        string
	Domain     string
	ChartType  string
	X, Y       int
	LabelCount int
	Summary    string
	Confidence float64
	Context    models.ChartContext
	Result     models.AnalysisResult
}

// RecordAnalysis appends a successful analysis, returning its id.
func (db *DB) RecordAnalysis(ctx context.Context, cc models.ChartContext, res models.AnalysisResult) (int64, error) {
	contextJSON, err := json.Marshal(cc)
	if err != nil {
		return 0, fmt.Errorf("failed to encode context: %w", err)
	}
	resultJSON, err := json.Marshal(res)
	if err != nil {
		return 0, fmt.Errorf("failed to encode result: %w", err)
	}

	var domain string
	if parsed, err := url.Parse(cc.URL); err == nil {
		domain = parsed.Host
	}

	result, err := db.ExecContext(ctx, `
		INSERT INTO analyses (title, url, domain, chart_type, x, y, label_count, summary, confidence, context_json, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, cc.Title, cc.URL, domain, string(cc.ChartType), cc.X, cc.Y, len(cc.Labels), res.Summary, res.Confidence, string(contextJSON), string(resultJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get analysis ID: %w", err)
	}
	return id, nil
}

const analysisColumns = `analysis_id, created_at, title, url, domain, chart_type, x, y, label_count, summary, confidence, context_json, result_json`

// ListAnalyses returns the most recent analyses, newest first.
func (db *DB) ListAnalyses(ctx context.Context, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+analysisColumns+`
		FROM analyses
		ORDER BY analysis_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analyses: %w", err)
	}
	return out, nil
}

// GetAnalysis returns one analysis by id.
func (db *DB) GetAnalysis(ctx context.Context, id int64) (*Analysis, error) {
	row := db.QueryRowContext(ctx, `SELECT `+analysisColumns+` FROM analyses WHERE analysis_id = ?`, id)
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis %d not found", id)
	}
	return a, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAnalysis(s scanner) (*Analysis, error) {
	var (
		a                       Analysis
		title, rawURL, domain   sql.NullString
		contextJSON, resultJSON string
		confidence              sql.NullFloat64
	)
	err := s.Scan(&a.AnalysisID, &a.CreatedAt, &title, &rawURL, &domain, &a.ChartType, &a.X, &a.Y,
		&a.LabelCount, &a.Summary, &confidence, &contextJSON, &resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan analysis: %w", err)
	}

	a.Title = title.String
	a.URL = rawURL.String
	a.Domain = domain.String
	a.Confidence = confidence.Float64

	if err := json.Unmarshal([]byte(contextJSON), &a.Context); err != nil {
		return nil, fmt.Errorf("failed to decode stored context: %w", err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &a.Result); err != nil {
		return nil, fmt.Errorf("failed to decode stored result: %w", err)
	}
	return &a, nil
}
