package models

// Mood is the widget's presentation state. It is never set directly; see MoodFor.
type Mood string

const (
	MoodIdle      Mood = "idle"
	MoodDragging  Mood = "dragging"
	MoodAnalyzing Mood = "analyzing"
	MoodHappy     Mood = "happy"
	MoodThinking  Mood = "thinking"
)

// MoodFor derives the mood from the widget flags. Analyzing wins over
// dragging, dragging over an open panel.
func MoodFor(isDragging, isAnalyzing, showOverlay bool) Mood {
	switch {
	case isAnalyzing:
		return MoodAnalyzing
	case isDragging:
		return MoodDragging
	case showOverlay:
		return MoodHappy
	default:
		return MoodIdle
	}
}
