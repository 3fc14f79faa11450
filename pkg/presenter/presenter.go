// Package presenter renders the analysis panel as styled terminal text.
package presenter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dtnitsch/chartbuddy/models"
)

// PanelWidth is the inner width of the panel in cells.
const PanelWidth = 56

// View is everything the panel depends on.
type View struct {
	ShowOverlay bool
	Context     *models.ChartContext
	Analysis    *models.AnalysisResult
}

// Visible reports whether Render would produce output.
func (v View) Visible() bool {
	return v.ShowOverlay && v.Context != nil && v.Analysis != nil
}

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(PanelWidth)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("245"))

	summaryStyle = lipgloss.NewStyle().Italic(true)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("237"))
	textStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

// Render draws the panel, or returns "" when v is not Visible.
func Render(v View) string {
	if !v.Visible() {
		return ""
	}
	cc, res := v.Context, v.Analysis

	var sections []string
	sections = append(sections, headerStyle.Render("ChartBuddy Insight"))

	sections = append(sections,
		sectionStyle.Render("TARGET CONTEXT"),
		fmt.Sprintf("[%s] %s", chartInitial(cc.ChartType), truncate(cc.Title, PanelWidth-4)),
		mutedStyle.Render(truncate(cc.URL, PanelWidth)),
	)

	sections = append(sections,
		"",
		sectionStyle.Render("AI REPORT"),
		summaryStyle.Render(fmt.Sprintf("%q", res.Summary)),
	)
	for i, insight := range res.Insights {
		sections = append(sections, fmt.Sprintf("%d. %s", i+1, insight))
	}
	sections = append(sections, mutedStyle.Render(fmt.Sprintf("confidence %.0f%%", res.Confidence*100)))

	if cc.HasSignals() {
		sections = append(sections, "", sectionStyle.Render("DETECTED SIGNALS"))
		var chips []string
		for _, l := range cc.Labels {
			chips = append(chips, labelStyle.Render(" "+l+" "))
		}
		for _, t := range cc.ExtractedText {
			chips = append(chips, textStyle.Render(t))
		}
		sections = append(sections, strings.Join(chips, " "))
	}

	sections = append(sections, "", mutedStyle.Render("esc: close analysis"))

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func chartInitial(t models.ChartType) string {
	if t == "" {
		return "U"
	}
	return string([]rune(string(t))[:1])
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
