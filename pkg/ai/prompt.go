package ai

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"

	"github.com/dtnitsch/chartbuddy/models"
)

// minDetectChars is the shortest signal text worth running language detection on.
const minDetectChars = 20

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(
				lingua.English, lingua.French, lingua.German, lingua.Spanish,
				lingua.Portuguese, lingua.Italian, lingua.Dutch, lingua.Japanese, lingua.Chinese,
			).
			WithMinimumRelativeDistance(0.25).
			Build()
	})
	return detector
}

// DetectLanguage guesses the language of the chart's text signals.
// It returns "" when there is too little text or no confident answer.
func DetectLanguage(cc models.ChartContext) string {
	text := strings.Join(append(append([]string{}, cc.Labels...), cc.ExtractedText...), " ")
	if len([]rune(text)) < minDetectChars {
		return ""
	}
	lang, ok := languageDetector().DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return lang.String()
}

// BuildPrompt renders the analysis prompt for cc.
func BuildPrompt(cc models.ChartContext) string {
	labels := strings.Join(cc.Labels, ", ")
	if labels == "" {
		labels = "None found"
	}

	var sb strings.Builder
	sb.WriteString("Analyze this chart context extracted from a webpage.\n")
	fmt.Fprintf(&sb, "Page Title: %s\n", cc.Title)
	fmt.Fprintf(&sb, "URL: %s\n", cc.URL)
	fmt.Fprintf(&sb, "Chart Type: %s\n", cc.ChartType)
	fmt.Fprintf(&sb, "Extracted Data/Labels: %s\n", labels)
	fmt.Fprintf(&sb, "Nearby Text: %s\n", strings.Join(cc.ExtractedText, " "))
	sb.WriteString("\nProvide a concise explanation of what this chart likely represents and 3 key insights a user might find useful.\n")
	sb.WriteString("Reply with JSON containing summary, insights and a confidence between 0 and 1.\n")

	if lang := DetectLanguage(cc); lang != "" && lang != lingua.English.String() {
		fmt.Fprintf(&sb, "The chart labels are in %s; write the summary and insights in %s.\n", lang, lang)
	}

	return sb.String()
}
