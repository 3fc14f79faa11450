package db

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/chartbuddy/models"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	// Every new connection would get its own empty :memory: database
	database.SetMaxOpenConns(1)

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func TestOpen_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultDBName)

	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if database.Path() != path {
		t.Errorf("Path() = %q, want %q", database.Path(), path)
	}
	database.Close()

	// Second open finds the existing schema
	database, err = Open(path)
	if err != nil {
		t.Fatalf("Open() second call error = %v", err)
	}
	defer database.Close()

	if _, err := database.ListAnalyses(context.Background(), 5); err != nil {
		t.Errorf("ListAnalyses() error = %v", err)
	}
}

func TestSetValues_GetValues(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	got, err := db.GetValues(ctx, []string{"lastContext", "lastAnalysis"})
	if err != nil {
		t.Fatalf("GetValues() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("GetValues() on empty store returned %d entries", len(got))
	}

	err = db.SetValues(ctx, map[string]json.RawMessage{
		"lastContext":  json.RawMessage(`{"title":"a"}`),
		"lastAnalysis": json.RawMessage(`{"summary":"b"}`),
	})
	if err != nil {
		t.Fatalf("SetValues() error = %v", err)
	}

	// Overwrite one key
	if err := db.SetValues(ctx, map[string]json.RawMessage{"lastContext": json.RawMessage(`{"title":"c"}`)}); err != nil {
		t.Fatalf("SetValues() overwrite error = %v", err)
	}

	got, err = db.GetValues(ctx, []string{"lastContext", "lastAnalysis", "missing"})
	if err != nil {
		t.Fatalf("GetValues() error = %v", err)
	}

	tests := []struct {
		key  string
		want string
	}{
		{"lastContext", `{"title":"c"}`},
		{"lastAnalysis", `{"summary":"b"}`},
	}
	for _, tt := range tests {
		if string(got[tt.key]) != tt.want {
			t.Errorf("value[%s] = %s, want %s", tt.key, got[tt.key], tt.want)
		}
	}
	if _, ok := got["missing"]; ok {
		t.Error("GetValues() returned an entry for a missing key")
	}
}

func TestRecordAnalysis(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	cc := models.ChartContext{
		Title:     "Sales",
		URL:       "https://charts.example.com/q3?range=1y",
		ChartType: models.ChartTypeSVG,
		X:         12,
		Y:         34,
		Labels:    []string{"Jan", "Feb"},
	}
	res := models.AnalysisResult{Summary: "Growth", Insights: []string{"Feb up"}, Confidence: 0.7}

	id, err := db.RecordAnalysis(ctx, cc, res)
	if err != nil {
		t.Fatalf("RecordAnalysis() error = %v", err)
	}
	if id == 0 {
		t.Fatal("RecordAnalysis() returned 0 ID")
	}

	a, err := db.GetAnalysis(ctx, id)
	if err != nil {
		t.Fatalf("GetAnalysis() error = %v", err)
	}
	if a.Domain != "charts.example.com" {
		t.Errorf("Domain = %q, want %q", a.Domain, "charts.example.com")
	}
	if a.ChartType != "SVG" {
		t.Errorf("ChartType = %q, want SVG", a.ChartType)
	}
	if a.LabelCount != 2 {
		t.Errorf("LabelCount = %d, want 2", a.LabelCount)
	}
	if a.X != 12 || a.Y != 34 {
		t.Errorf("position = (%d,%d), want (12,34)", a.X, a.Y)
	}
	if a.Result.Summary != "Growth" || len(a.Result.Insights) != 1 {
		t.Errorf("Result = %+v", a.Result)
	}
	if a.Context.Title != "Sales" || len(a.Context.Labels) != 2 {
		t.Errorf("Context = %+v", a.Context)
	}

	if _, err := db.GetAnalysis(ctx, id+100); err == nil {
		t.Error("GetAnalysis() for unknown id returned no error")
	}
}

func TestListAnalyses_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := db.RecordAnalysis(ctx,
			models.ChartContext{Title: title, ChartType: models.ChartTypeUnknown},
			models.AnalysisResult{Summary: title})
		if err != nil {
			t.Fatalf("RecordAnalysis(%s) error = %v", title, err)
		}
	}

	list, err := db.ListAnalyses(ctx, 2)
	if err != nil {
		t.Fatalf("ListAnalyses() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListAnalyses() returned %d rows, want 2", len(list))
	}
	if list[0].Title != "third" || list[1].Title != "second" {
		t.Errorf("order = [%s %s], want [third second]", list[0].Title, list[1].Title)
	}
}
