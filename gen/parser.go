package gen

import (
	"encoding/json"
	"fmt"
	"strings"

	"dreamstream/story"
)

// sceneResponse matches the JSON structure we expect from the text model.
type sceneResponse struct {
	Narrative    string `json:"narrative"`
	VisualPrompt string `json:"visualPrompt"`
	Mood         string `json:"mood"`
	Options      []struct {
		Label        string `json:"label"`
		ActionPrompt string `json:"actionPrompt"`
	} `json:"options"`
}

// ParseScene unmarshals and validates one text-model response. The model
// might sometimes wrap the JSON in markdown fences, so those are stripped
// first. Any missing required field makes the whole call a failure.
func ParseScene(raw string) (Scene, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var resp sceneResponse
	if err := json.Unmarshal([]byte(clean), &resp); err != nil {
		return Scene{}, fmt.Errorf("scene response is not valid JSON: %w", err)
	}

	if strings.TrimSpace(resp.Narrative) == "" {
		return Scene{}, fmt.Errorf("scene response is missing narrative")
	}
	if strings.TrimSpace(resp.VisualPrompt) == "" {
		return Scene{}, fmt.Errorf("scene response is missing visualPrompt")
	}
	if n := len(resp.Options); n < 2 || n > 3 {
		return Scene{}, fmt.Errorf("scene response has %d options, want 2-3", n)
	}

	scene := Scene{
		Narrative:    strings.TrimSpace(resp.Narrative),
		VisualPrompt: strings.TrimSpace(resp.VisualPrompt),
		Mood:         story.ParseMood(resp.Mood),
	}
	for i, opt := range resp.Options {
		if strings.TrimSpace(opt.Label) == "" || strings.TrimSpace(opt.ActionPrompt) == "" {
			return Scene{}, fmt.Errorf("scene response option %d is incomplete", i)
		}
		scene.Options = append(scene.Options, story.Option{
			Label:        strings.TrimSpace(opt.Label),
			ActionPrompt: strings.TrimSpace(opt.ActionPrompt),
		})
	}
	return scene, nil
}
