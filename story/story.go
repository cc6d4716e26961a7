package story

import "strings"

// Mood selects one of the five procedural soundscapes and drives the
// visual accent of a scene.
type Mood string

const (
	MoodMechanical Mood = "mechanical"
	MoodEerie      Mood = "eerie"
	MoodNature     Mood = "nature"
	MoodChaos      Mood = "chaos"
	MoodCalm       Mood = "calm"
)

// Moods lists every valid mood tag.
var Moods = []Mood{MoodMechanical, MoodEerie, MoodNature, MoodChaos, MoodCalm}

// ParseMood maps a model-returned tag onto a known mood, falling back to
// calm for anything unrecognised.
func ParseMood(s string) Mood {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Moods {
		if m == known {
			return m
		}
	}
	return MoodCalm
}

// Option is one of the 2-3 choices attached to a scene.
type Option struct {
	Label        string `json:"label"`
	ActionPrompt string `json:"actionPrompt"`
}

// Scene is one generated narrative+image+options+mood unit. Immutable once
// appended to the session history.
type Scene struct {
	ID           string   `json:"id"`
	Narrative    string   `json:"narrative"`
	VisualPrompt string   `json:"visualPrompt"`
	ImageURI     string   `json:"imageUri,omitempty"`
	Options      []Option `json:"options"`
	Mood         Mood     `json:"mood"`
}
