package common

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/chartbuddy/models"
	"github.com/dtnitsch/chartbuddy/pkg/ai"
	"github.com/dtnitsch/chartbuddy/pkg/background"
	"github.com/dtnitsch/chartbuddy/pkg/caching"
	"github.com/dtnitsch/chartbuddy/pkg/db"
	"github.com/dtnitsch/chartbuddy/pkg/extractor"
	"github.com/dtnitsch/chartbuddy/pkg/messaging"
	"github.com/dtnitsch/chartbuddy/pkg/page"
	"github.com/dtnitsch/chartbuddy/pkg/storage"
	"github.com/dtnitsch/chartbuddy/pkg/widget"
)

// DefaultStateFile is used by the file storage driver when no path is set.
const DefaultStateFile = "chartbuddy-state.json"

// NewLogger builds the JSON stderr logger from the --quiet/--verbose flags.
func NewLogger(c *cli.Context) *slog.Logger {
	return NewLoggerTo(c, os.Stderr)
}

// NewLoggerTo is NewLogger writing to w.
func NewLoggerTo(c *cli.Context, w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: LogLevel(c)}))
}

// LogLevel maps --quiet/--verbose to a level; --quiet wins.
func LogLevel(c *cli.Context) slog.Level {
	switch {
	case c.Bool("quiet"):
		return slog.LevelError
	case c.Bool("verbose"):
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// PageSource returns the --file or --url value. Exactly one must be set.
func PageSource(c *cli.Context) (string, error) {
	file, url := c.String("file"), c.String("url")
	switch {
	case file != "" && url != "":
		return "", cli.Exit("Error: use either --file or --url, not both", 1)
	case file != "":
		return file, nil
	case url != "":
		return url, nil
	default:
		return "", cli.Exit("Error: a page is required (--file or --url)", 1)
	}
}

// LoadConfig reads --config and applies flag overrides on top of it.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("model") {
		cfg.AI.Model = c.String("model")
	}
	if c.IsSet("ai-url") {
		cfg.AI.BaseURL = c.String("ai-url")
	}
	if c.IsSet("addr") {
		cfg.Server.Addr = c.String("addr")
	}
	return cfg, nil
}

// Runtime is everything a command needs, opened from config.
type Runtime struct {
	Config *models.Config
	Logger *slog.Logger
	DB     *db.DB
	Store  storage.Store
}

// Open loads config, opens the database and selects the storage driver.
func Open(c *cli.Context) (*Runtime, error) {
	logger := NewLogger(c)
	cfg, err := LoadConfig(c)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// --db only ever names the sqlite file, whatever the storage driver.
	dbPath := ""
	switch {
	case c.String("db") != "":
		dbPath = c.String("db")
	case cfg.Storage.Driver == "sqlite":
		dbPath = cfg.Storage.Path
	}
	database, err := db.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	rt := &Runtime{Config: cfg, Logger: logger, DB: database}
	switch cfg.Storage.Driver {
	case "file":
		path := cfg.Storage.Path
		if path == "" {
			path = filepath.Join(filepath.Dir(database.Path()), DefaultStateFile)
		}
		rt.Store = storage.NewFileStore(path)
	default:
		rt.Store = &storage.SQLiteStore{DB: database}
	}
	logger.Debug("runtime opened", "db", database.Path(), "storage", cfg.Storage.Driver)
	return rt, nil
}

func (r *Runtime) Close() error {
	return r.DB.Close()
}

// Handler builds the background handler: AI client plus response cache.
func (r *Runtime) Handler() (*background.Handler, error) {
	client := ai.NewClient(&ai.ClientConfig{
		BaseURL: r.Config.AI.BaseURL,
		Model:   r.Config.AI.Model,
		Timeout: r.Config.AI.Timeout,
		Logger:  r.Logger,
	})

	var cache *caching.Cache
	if r.Config.Cache.Dir != "" {
		var err error
		cache, err = caching.NewCache(r.Config.Cache.Dir, r.Config.Cache.TTL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cache: %w", err)
		}
	}

	h := background.NewHandler(client, cache, r.Logger)
	h.FallbackOnError = r.Config.AI.FallbackOnError
	return h, nil
}

// Requester talks to the background at serverURL, or runs it in-process
// when serverURL is empty.
func (r *Runtime) Requester(serverURL string) (*messaging.Requester, error) {
	if serverURL != "" {
		return messaging.NewRequester(messaging.NewHTTPChannel(serverURL, r.Config.AI.Timeout+30*time.Second), r.Logger), nil
	}
	h, err := r.Handler()
	if err != nil {
		return nil, err
	}
	return messaging.NewRequester(messaging.NewLocalChannel(h), r.Logger), nil
}

// NewOverlay wires a widget over p.
func (r *Runtime) NewOverlay(p *page.Page, requester widget.Analyzer, highlighter *extractor.Highlighter) *widget.Overlay {
	return widget.NewOverlay(widget.Config{
		Widget:      widget.New(r.Config.Viewport.Width, r.Config.Viewport.Height),
		HitTester:   p.Surface,
		Highlighter: highlighter,
		Requester:   requester,
		Store:       r.Store,
		History:     r.DB,
		Page:        p.Info,
		Logger:      r.Logger,
	})
}
