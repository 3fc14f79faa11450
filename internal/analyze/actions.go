package analyze

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/chartbuddy/internal/common"
	"github.com/dtnitsch/chartbuddy/models"
	"github.com/dtnitsch/chartbuddy/pkg/extractor"
	"github.com/dtnitsch/chartbuddy/pkg/page"
	"github.com/dtnitsch/chartbuddy/pkg/presenter"
	"github.com/dtnitsch/chartbuddy/pkg/widget"
)

// AnalyzeAction drags the widget from its resting place onto (--x, --y) of
// a page, drops it there and prints the analysis panel.
func AnalyzeAction(c *cli.Context) error {
	source, err := common.PageSource(c)
	if err != nil {
		return err
	}

	rt, err := common.Open(c)
	if err != nil {
		return err
	}
	defer rt.Close()
	logger := rt.Logger

	p, err := page.NewLoader(rt.Config.AI.Timeout).Load(c.Context, source)
	if err != nil {
		return fmt.Errorf("failed to load page: %w", err)
	}
	logger.Info("page loaded", "title", p.Info.Title, "url", p.Info.URL, "boxes", len(p.Surface.Boxes()))

	requester, err := rt.Requester(c.String("server"))
	if err != nil {
		return err
	}
	// The process exits before any timer could fire; the revert runs on return.
	highlighter := &extractor.Highlighter{After: func(_ time.Duration, _ func()) {}}
	overlay := rt.NewOverlay(p, requester, highlighter)

	start := grabPoint(c, overlay.Widget())
	drop := models.Position{X: c.Int("x"), Y: c.Int("y")}
	if !overlay.PointerDown(1, start) {
		return fmt.Errorf("failed to grab widget at (%d,%d)", start.X, start.Y)
	}
	overlay.PointerMove(1, drop)

	d := overlay.PointerUp(1, drop)
	if d == nil {
		fmt.Printf("Nothing under (%d,%d); no analysis requested\n", drop.X, drop.Y)
		return nil
	}
	defer d.Revert()

	out := overlay.Run(c.Context, d)
	if out.Err != nil {
		return cli.Exit(overlay.Status(), 2)
	}

	fmt.Println(presenter.Render(overlay.View()))
	return nil
}

// grabPoint is --from-x/--from-y, or the widget's centre.
func grabPoint(c *cli.Context, w *widget.Widget) models.Position {
	pos := w.Position()
	start := models.Position{X: pos.X + widget.Size/2, Y: pos.Y + widget.Size/2}
	if c.IsSet("from-x") {
		start.X = c.Int("from-x")
	}
	if c.IsSet("from-y") {
		start.Y = c.Int("from-y")
	}
	return start
}
