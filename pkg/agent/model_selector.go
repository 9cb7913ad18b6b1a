package agent

import (
	"strings"
	"unicode/utf8"
)

// voiceLongThreshold and textLongThreshold are the length cutoffs past
// which the capable model is selected, per spec.md §4.3's "voice
// transcripts longer than ~1000 chars, total text longer than ~500
// chars" heuristics.
const (
	voiceLongThreshold = 1000
	textLongThreshold  = 500
)

// multiIntentMarkers and complexMarkers are translated directly from
// original_source/src/ai/model_selector.py's ModelSelector.
var multiIntentMarkers = []string{
	" и ", " а также ", " плюс ", " ещё ", "\n",
	"во-первых", "во-вторых", "1.", "2.", "1)", "2)",
}

var complexMarkers = []string{
	"с одной стороны", "с другой стороны",
	"если", "то", "потому что", "следовательно",
}

// SelectModel chooses between the fast and capable model names based on
// cheap heuristics over (text, source), exactly mirroring
// ModelSelector.select. Returns one of fastModel/capableModel.
func SelectModel(text, source, fastModel, capableModel string) string {
	chars := utf8.RuneCountInString(text)
	if source == "voice" && chars > voiceLongThreshold {
		return capableModel
	}
	if chars > textLongThreshold {
		return capableModel
	}

	lower := strings.ToLower(text)

	multiIntentCount := 0
	for _, marker := range multiIntentMarkers {
		if strings.Contains(lower, marker) {
			multiIntentCount++
		}
	}
	if multiIntentCount >= 2 {
		return capableModel
	}

	for _, marker := range complexMarkers {
		if strings.Contains(lower, marker) {
			return capableModel
		}
	}

	return fastModel
}
