package templates

import (
	"fmt"
	"time"

	"github.com/a-h/templ"

	"dreamstream/archive"
	"dreamstream/story"
)

// MoodAccent returns the accent color for a mood.
func MoodAccent(m story.Mood) string {
	switch m {
	case story.MoodMechanical:
		return "#fd971f" // Orange
	case story.MoodEerie:
		return "#ae81ff" // Violet
	case story.MoodNature:
		return "#a6e22e" // Lime Green
	case story.MoodChaos:
		return "#f92672" // Pink/Red
	default:
		return "#66d9ef" // Calm Blue
	}
}

// AccentStyle builds the inline CSS custom property for a scene's mood.
func AccentStyle(m story.Mood) string {
	return "--accent: " + MoodAccent(m)
}

// SceneClass marks the newest scene so the stylesheet can cross-fade it in
// over whatever is still on stage underneath.
func SceneClass(top bool) string {
	if top {
		return "scene scene-top"
	}
	return "scene"
}

// HUDClass hides the interactive layer while a transition is entering.
func HUDClass(visible bool) string {
	if visible {
		return "hud"
	}
	return "hud hud-hidden"
}

// ImageSrc wraps the scene's data URI so templ does not sanitize it away.
func ImageSrc(sc story.Scene) templ.SafeURL {
	return templ.SafeURL(sc.ImageURI)
}

// FormatWhen renders an archive timestamp for display.
func FormatWhen(t time.Time) string {
	return t.Local().Format("Jan 2, 2006 15:04")
}

// activeScene returns the scene rendered as current: the last one.
func activeScene(scenes []story.Scene) (story.Scene, bool) {
	if len(scenes) == 0 {
		return story.Scene{}, false
	}
	return scenes[len(scenes)-1], true
}

// activeMood is the mood tag of the active scene, empty off-stage.
func activeMood(scenes []story.Scene) string {
	sc, ok := activeScene(scenes)
	if !ok {
		return ""
	}
	return string(sc.Mood)
}

// archiveMeta summarizes one saved story for the archive list.
func archiveMeta(e archive.Entry) string {
	return fmt.Sprintf("%d scenes, %s", e.SceneCount, FormatWhen(e.CreatedAt))
}
