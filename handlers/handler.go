// Package handlers exposes the game over HTTP: server-rendered views,
// SSE for the typewriter reveal, and WAV endpoints for the procedural
// audio.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"dreamstream/archive"
	"dreamstream/audio"
	"dreamstream/export"
	"dreamstream/game"
	"dreamstream/stage"
	"dreamstream/story"
	"dreamstream/templates"
)

// Handler wires the orchestrator, audio engine, and archive to routes.
type Handler struct {
	Orchestrator *game.Orchestrator
	Engine       *audio.Engine
	Archive      *archive.Store
	Typewriter   *stage.Typewriter
	Logger       *zap.Logger

	mu      sync.Mutex
	premise string
}

// Index serves the application shell.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	templates.Index("DreamStream").Render(r.Context(), w)
}

// StartStory opens a new play-through from the submitted premise. The
// request is a user gesture, so it also unlocks the audio engine.
func (h *Handler) StartStory(w http.ResponseWriter, r *http.Request) {
	premise := strings.TrimSpace(r.FormValue("premise"))
	if premise == "" {
		http.Error(w, "A premise is required to begin.", http.StatusBadRequest)
		return
	}

	h.Engine.Init()
	h.Engine.Resume()

	if err := h.Orchestrator.Start(r.Context(), premise); err != nil {
		if errors.Is(err, story.ErrBusy) {
			http.Error(w, "A scene is already being dreamt.", http.StatusConflict)
			return
		}
		// The session carries the fixed user-facing message; render it.
		h.renderScene(w, r)
		return
	}

	h.mu.Lock()
	h.premise = premise
	h.mu.Unlock()
	h.restartTypewriter()
	h.renderScene(w, r)
}

// Choose advances the story through one of the current scene's options.
func (h *Handler) Choose(w http.ResponseWriter, r *http.Request) {
	action := r.FormValue("action")
	opt, ok := h.findOption(action)
	if !ok {
		http.Error(w, "That choice is not part of the current scene.", http.StatusBadRequest)
		return
	}

	if err := h.Orchestrator.Advance(r.Context(), opt); err != nil {
		if errors.Is(err, story.ErrBusy) {
			http.Error(w, "A scene is already being dreamt.", http.StatusConflict)
			return
		}
		h.renderScene(w, r)
		return
	}

	h.restartTypewriter()
	h.renderScene(w, r)
}

// Reset wakes the player up: audio stops and the session clears.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.Orchestrator.Reset()
	h.mu.Lock()
	h.premise = ""
	h.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// renderScene writes the current stage as an HTML partial.
func (h *Handler) renderScene(w http.ResponseWriter, r *http.Request) {
	st := h.Orchestrator.Stage()
	sess := h.Orchestrator.Session()
	templates.SceneView(st.OnStage(), st.UIVisible(), sess.Err()).Render(r.Context(), w)
}

// findOption looks the action prompt up in the active scene, so a stale
// or forged form value cannot advance the story.
func (h *Handler) findOption(action string) (story.Option, bool) {
	cur, ok := h.Orchestrator.Session().Current()
	if !ok {
		return story.Option{}, false
	}
	for _, opt := range cur.Options {
		if opt.ActionPrompt == action {
			return opt, true
		}
	}
	return story.Option{}, false
}

// restartTypewriter points the reveal at the new active narrative,
// cancelling any in-flight reveal of the previous scene.
func (h *Handler) restartTypewriter() {
	if cur, ok := h.Orchestrator.Session().Current(); ok {
		h.Typewriter.Restart(cur.Narrative)
	}
}

// tickEvent is one SSE payload of the typewriter stream.
type tickEvent struct {
	Prefix string `json:"prefix"`
	Done   bool   `json:"done"`
}

// Stream reveals the active narrative over SSE, one character per tick.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	emit := func(ev tickEvent) {
		data, err := json.Marshal(ev)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	h.Typewriter.Run(r.Context(),
		func(prefix string) { emit(tickEvent{Prefix: prefix}) },
		func() { emit(tickEvent{Done: true}) },
	)
}

// Ambience serves the loop for the mood currently playing. 204 when the
// engine is silent.
func (h *Handler) Ambience(w http.ResponseWriter, r *http.Request) {
	wav, mood, ok := h.Engine.Ambience()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("X-Mood", string(mood))
	writeWAV(w, wav)
}

// Click serves the UI click one-shot.
func (h *Handler) Click(w http.ResponseWriter, r *http.Request) {
	wav, ok := h.Engine.Click()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeWAV(w, wav)
}

// Swoosh serves the scene-transition one-shot.
func (h *Handler) Swoosh(w http.ResponseWriter, r *http.Request) {
	wav, ok := h.Engine.Swoosh()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeWAV(w, wav)
}

func writeWAV(w http.ResponseWriter, wav []byte) {
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(wav)))
	w.Write(wav)
}

// DownloadStory exports the current history as a PDF transcript.
func (h *Handler) DownloadStory(w http.ResponseWriter, r *http.Request) {
	history := h.Orchestrator.Session().History()
	if len(history) == 0 {
		http.Error(w, "There is no story to download yet.", http.StatusBadRequest)
		return
	}

	out, err := export.Transcript(h.storyTitle(), history)
	if err != nil {
		h.Logger.Error("pdf export failed", zap.Error(err))
		http.Error(w, "Failed to build the PDF.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="dreamstream.pdf"`)
	w.Write(out)
}

// SaveStory archives the current history under the premise as title.
func (h *Handler) SaveStory(w http.ResponseWriter, r *http.Request) {
	history := h.Orchestrator.Session().History()
	if len(history) == 0 {
		http.Error(w, "There is no story to save yet.", http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = h.storyTitle()
	}

	id, err := h.Archive.Save(r.Context(), title, history)
	if err != nil {
		h.Logger.Error("archive save failed", zap.Error(err))
		http.Error(w, "Failed to save the story.", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	fmt.Fprint(w, id)
}

// ListArchive renders the saved-stories panel.
func (h *Handler) ListArchive(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Archive.List(r.Context())
	if err != nil {
		h.Logger.Error("archive list failed", zap.Error(err))
		http.Error(w, "Failed to load past dreams.", http.StatusInternalServerError)
		return
	}
	templates.ArchiveView(entries).Render(r.Context(), w)
}

func (h *Handler) storyTitle() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.premise == "" {
		return "DreamStream"
	}
	return h.premise
}
