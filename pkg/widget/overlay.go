package widget

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dtnitsch/chartbuddy/models"
	"github.com/dtnitsch/chartbuddy/pkg/dom"
	"github.com/dtnitsch/chartbuddy/pkg/extractor"
	"github.com/dtnitsch/chartbuddy/pkg/layout"
	"github.com/dtnitsch/chartbuddy/pkg/messaging"
	"github.com/dtnitsch/chartbuddy/pkg/presenter"
	"github.com/dtnitsch/chartbuddy/pkg/storage"
)

// Status messages shown after a failed analysis.
const (
	StatusUnavailable = "Extension context invalidated. Please refresh the page."
	statusFailedFmt   = "Analysis failed: "
)

// Analyzer is the request side of the analysis boundary.
type Analyzer interface {
	Analyze(ctx context.Context, cc models.ChartContext) (models.AnalysisResult, error)
}

// Recorder keeps a history of successful analyses.
type Recorder interface {
	RecordAnalysis(ctx context.Context, cc models.ChartContext, res models.AnalysisResult) (int64, error)
}

// Config wires an Overlay. Only Widget and HitTester are required for
// dragging; Requester is required for analyses.
type Config struct {
	Widget      *Widget
	HitTester   layout.HitTester
	Extractor   extractor.Extractor
	Highlighter *extractor.Highlighter
	Requester   Analyzer
	Store       storage.Store
	History     Recorder
	Page        extractor.PageInfo
	Logger      *slog.Logger
}

// Drop is a resolved, extracted drop waiting for its analysis.
type Drop struct {
	Context models.ChartContext
	Target  dom.Node
	// Revert removes the drop target highlight. Never nil.
	Revert func()
}

// Outcome is the settled result of a Drop's analysis.
type Outcome struct {
	Context models.ChartContext
	Result  models.AnalysisResult
	Err     error
}

// Overlay owns the widget state and the last context/analysis pair.
type Overlay struct {
	widget      *Widget
	resolver    *Resolver
	extractor   extractor.Extractor
	highlighter *extractor.Highlighter
	requester   Analyzer
	store       storage.Store
	history     Recorder
	page        extractor.PageInfo
	logger      *slog.Logger

	pending     int
	showOverlay bool
	context     *models.ChartContext
	analysis    *models.AnalysisResult
	hasHistory  bool
	status      string
}

// NewOverlay creates an Overlay from cfg.
func NewOverlay(cfg Config) *Overlay {
	w := cfg.Widget
	if w == nil {
		w = New(0, 0)
	}
	ex := cfg.Extractor
	if ex == nil {
		ex = extractor.ChartExtractor{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Overlay{
		widget:      w,
		resolver:    &Resolver{HitTester: cfg.HitTester, Occluder: w},
		extractor:   ex,
		highlighter: cfg.Highlighter,
		requester:   cfg.Requester,
		store:       cfg.Store,
		history:     cfg.History,
		page:        cfg.Page,
		logger:      logger,
	}
}

// Restore loads the persisted pair once at startup so it can be recalled.
func (o *Overlay) Restore(ctx context.Context) error {
	if o.store == nil {
		return nil
	}
	cc, res, ok, err := storage.LoadLast(ctx, o.store)
	if err != nil {
		return err
	}
	if ok {
		o.context, o.analysis = &cc, &res
		o.hasHistory = true
		o.logger.Debug("restored last analysis", "title", cc.Title)
	}
	return nil
}

func (o *Overlay) Widget() *Widget { return o.widget }

// SetHitTester swaps the page surface, e.g. after loading another page.
func (o *Overlay) SetHitTester(ht layout.HitTester) { o.resolver.HitTester = ht }

func (o *Overlay) SetPage(p extractor.PageInfo) { o.page = p }

func (o *Overlay) PointerDown(pointerID int, p models.Position) bool {
	return o.widget.PointerDown(pointerID, p)
}

func (o *Overlay) PointerMove(pointerID int, p models.Position) bool {
	return o.widget.PointerMove(pointerID, p)
}

// PointerUp ends a drag and runs resolution and extraction. It returns nil
// when no drag ended or nothing is under the drop point; in both cases no
// state besides the drag itself changes. A non-nil Drop must be passed to
// Analyze and its Outcome to Settle.
func (o *Overlay) PointerUp(pointerID int, p models.Position) *Drop {
	if !o.widget.PointerUp(pointerID, p) {
		return nil
	}

	target := o.resolver.Resolve(p)
	if target == nil {
		o.logger.Debug("drop missed", "x", p.X, "y", p.Y)
		return nil
	}

	revert := func() {}
	if o.highlighter != nil {
		revert = o.highlighter.Highlight(target)
	}

	cc := o.extractor.Extract(target, o.page, o.widget.Position())
	o.pending++
	o.status = ""
	o.logger.Info("chart dropped",
		"chart_type", cc.ChartType,
		"labels", len(cc.Labels),
		"extracted", len(cc.ExtractedText),
		"x", cc.X, "y", cc.Y)

	return &Drop{Context: cc, Target: target, Revert: revert}
}

// GlobalPointerUp ends a drag whose capture was lost, without dropping.
func (o *Overlay) GlobalPointerUp() bool {
	return o.widget.CancelDrag()
}

// Analyze sends the drop's context to the requester. It touches no Overlay
// state and may run on any goroutine.
func (o *Overlay) Analyze(ctx context.Context, d *Drop) Outcome {
	out := Outcome{Context: d.Context}
	if o.requester == nil {
		out.Err = &messaging.AnalysisError{Message: messaging.DefaultFailureMessage, Unavailable: true, Cause: messaging.ErrChannelUnavailable}
		return out
	}
	out.Result, out.Err = o.requester.Analyze(ctx, d.Context)
	return out
}

// Settle applies an Outcome. Context and analysis are replaced together, so
// with overlapping drops the last settled outcome wins whole.
func (o *Overlay) Settle(ctx context.Context, out Outcome) {
	if o.pending > 0 {
		o.pending--
	}

	if out.Err != nil {
		o.status = statusFor(out.Err)
		o.logger.Warn("analysis failed", "error", out.Err)
		return
	}

	cc, res := out.Context, out.Result.Normalized()
	o.context, o.analysis = &cc, &res
	o.showOverlay = true
	o.status = ""

	if o.store != nil {
		if err := storage.SaveLast(ctx, o.store, cc, res); err != nil {
			o.logger.Warn("failed to persist last analysis", "error", err)
		} else {
			o.hasHistory = true
		}
	}
	if o.history != nil {
		if _, err := o.history.RecordAnalysis(ctx, cc, res); err != nil {
			o.logger.Warn("failed to record analysis", "error", err)
		}
	}
}

// Run analyzes d and settles it on the calling goroutine.
func (o *Overlay) Run(ctx context.Context, d *Drop) Outcome {
	out := o.Analyze(ctx, d)
	o.Settle(ctx, out)
	return out
}

// Dismiss hides the panel and keeps the pair for recall.
func (o *Overlay) Dismiss() { o.showOverlay = false }

// Recall shows the kept pair again. It reports whether there was one.
func (o *Overlay) Recall() bool {
	if o.context == nil || o.analysis == nil {
		return false
	}
	o.showOverlay = true
	return true
}

// CanRecall mirrors the recall affordance: history exists, the widget is
// idle and the panel is closed.
func (o *Overlay) CanRecall() bool {
	return o.hasHistory && o.Mood() == models.MoodIdle && !o.showOverlay
}

func (o *Overlay) Mood() models.Mood {
	return models.MoodFor(o.widget.Dragging(), o.pending > 0, o.showOverlay)
}

func (o *Overlay) Analyzing() bool { return o.pending > 0 }

func (o *Overlay) ShowOverlay() bool { return o.showOverlay }

func (o *Overlay) HasHistory() bool { return o.hasHistory }

func (o *Overlay) Status() string { return o.status }

// Context returns a copy of the current context, if any.
func (o *Overlay) Context() (models.ChartContext, bool) {
	if o.context == nil {
		return models.ChartContext{}, false
	}
	return *o.context, true
}

// Analysis returns a copy of the current analysis, if any.
func (o *Overlay) Analysis() (models.AnalysisResult, bool) {
	if o.analysis == nil {
		return models.AnalysisResult{}, false
	}
	return *o.analysis, true
}

// View returns the presenter input.
func (o *Overlay) View() presenter.View {
	return presenter.View{ShowOverlay: o.showOverlay, Context: o.context, Analysis: o.analysis}
}

func statusFor(err error) string {
	var aerr *messaging.AnalysisError
	if errors.As(err, &aerr) {
		if aerr.Unavailable {
			return StatusUnavailable
		}
		return statusFailedFmt + aerr.Message
	}
	return statusFailedFmt + err.Error()
}
