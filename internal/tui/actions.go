package tui

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/chartbuddy/internal/common"
	"github.com/dtnitsch/chartbuddy/pkg/extractor"
	"github.com/dtnitsch/chartbuddy/pkg/page"
)

// TUIAction opens a page in the terminal for mouse drag-and-drop.
func TUIAction(c *cli.Context) error {
	source, err := common.PageSource(c)
	if err != nil {
		return err
	}

	rt, err := common.Open(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	// stderr shares the terminal with the alt screen.
	logOut := io.Discard
	if path := c.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	rt.Logger = common.NewLoggerTo(c, logOut)

	p, err := page.NewLoader(rt.Config.AI.Timeout).Load(c.Context, source)
	if err != nil {
		return fmt.Errorf("failed to load page: %w", err)
	}

	requester, err := rt.Requester(c.String("server"))
	if err != nil {
		return err
	}
	// Reverts are scheduled by the model so they run on the update loop.
	highlighter := &extractor.Highlighter{After: func(time.Duration, func()) {}}
	overlay := rt.NewOverlay(p, requester, highlighter)
	if err := overlay.Restore(c.Context); err != nil {
		rt.Logger.Warn("failed to restore last analysis", "error", err)
	}

	duration := rt.Config.Highlight.Duration
	if duration <= 0 {
		duration = extractor.DefaultHighlightDuration
	}
	m := NewModel(c.Context, overlay, p.Surface, rt.Config.Viewport.Width, rt.Config.Viewport.Height, duration)

	prog := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(c.Context),
	)
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("failed to run tui: %w", err)
	}
	return nil
}
