package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dreamstream/archive"
	"dreamstream/audio"
	"dreamstream/game"
	"dreamstream/gen"
	"dreamstream/stage"
	"dreamstream/story"
)

type fakeModels struct {
	sceneErr error
	imageErr error
}

func (f *fakeModels) GenerateScene(_ context.Context, _, _ string) (gen.Scene, error) {
	if f.sceneErr != nil {
		return gen.Scene{}, f.sceneErr
	}
	return gen.Scene{
		Narrative:    "You wake strapped into a cockpit seat.",
		VisualPrompt: "cockpit",
		Mood:         story.MoodChaos,
		Options: []story.Option{
			{Label: "Pull the lever", ActionPrompt: "pull lever"},
			{Label: "Let go", ActionPrompt: "let go"},
		},
	}, nil
}

func (f *fakeModels) GenerateImage(_ context.Context, _ string) (string, error) {
	if f.imageErr != nil {
		return "", f.imageErr
	}
	return "data:image/png;base64,AAAA", nil
}

func newTestHandler(t *testing.T, models *fakeModels) *Handler {
	t.Helper()

	engine := audio.NewEngine(nil)
	controller := stage.NewController(func(sc story.Scene) { engine.SetAmbience(sc.Mood) })
	session := story.NewSession()
	orch := game.New(session, models, models, engine, controller, nil)

	store, err := archive.Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return &Handler{
		Orchestrator: orch,
		Engine:       engine,
		Archive:      store,
		Typewriter:   stage.NewTypewriter(),
		Logger:       zap.NewNop(),
	}
}

func postForm(h http.HandlerFunc, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestStartStoryRendersSceneAndUnlocksAudio(t *testing.T) {
	h := newTestHandler(t, &fakeModels{})

	w := postForm(h.StartStory, "/start", url.Values{"premise": {"Waking up in a falling airplane..."}})
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Pull the lever")
	assert.Contains(t, body, `data-mood="chaos"`)
	assert.Equal(t, 1, h.Orchestrator.Session().Len())

	// The scene's mood drives the ambience the audio endpoint serves.
	req := httptest.NewRequest(http.MethodGet, "/audio/ambience", nil)
	aw := httptest.NewRecorder()
	h.Ambience(aw, req)
	require.Equal(t, http.StatusOK, aw.Code)
	assert.Equal(t, "audio/wav", aw.Header().Get("Content-Type"))
	assert.Equal(t, "chaos", aw.Header().Get("X-Mood"))
}

func TestStartStoryRequiresPremise(t *testing.T) {
	h := newTestHandler(t, &fakeModels{})
	w := postForm(h.StartStory, "/start", url.Values{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartFailureShowsFixedMessage(t *testing.T) {
	h := newTestHandler(t, &fakeModels{sceneErr: errors.New("model down")})
	w := postForm(h.StartStory, "/start", url.Values{"premise": {"a dream"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), game.StartErrMessage)
	assert.Equal(t, 0, h.Orchestrator.Session().Len())
}

func TestChooseValidatesAction(t *testing.T) {
	h := newTestHandler(t, &fakeModels{})
	postForm(h.StartStory, "/start", url.Values{"premise": {"a dream"}})

	w := postForm(h.Choose, "/choose", url.Values{"action": {"forge the story"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postForm(h.Choose, "/choose", url.Values{"action": {"pull lever"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, h.Orchestrator.Session().Len())
}

func TestChooseFailureLeavesHistory(t *testing.T) {
	models := &fakeModels{}
	h := newTestHandler(t, models)
	postForm(h.StartStory, "/start", url.Values{"premise": {"a dream"}})

	models.imageErr = errors.New("no image")
	w := postForm(h.Choose, "/choose", url.Values{"action": {"pull lever"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), game.AdvanceErrMessage)
	assert.Equal(t, 1, h.Orchestrator.Session().Len())
}

func TestResetClearsSession(t *testing.T) {
	h := newTestHandler(t, &fakeModels{})
	postForm(h.StartStory, "/start", url.Values{"premise": {"a dream"}})

	w := postForm(h.Reset, "/reset", url.Values{})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, h.Orchestrator.Session().Len())
	assert.False(t, h.Orchestrator.Session().Active())
}

func TestAudioEndpointsBeforeUnlock(t *testing.T) {
	h := newTestHandler(t, &fakeModels{})

	for _, fn := range []http.HandlerFunc{h.Ambience, h.Click, h.Swoosh} {
		w := httptest.NewRecorder()
		fn(w, httptest.NewRequest(http.MethodGet, "/audio", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestDownloadStory(t *testing.T) {
	h := newTestHandler(t, &fakeModels{})

	w := httptest.NewRecorder()
	h.DownloadStory(w, httptest.NewRequest(http.MethodGet, "/download", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code, "nothing to download before a story starts")

	postForm(h.StartStory, "/start", url.Values{"premise": {"a dream"}})
	w = httptest.NewRecorder()
	h.DownloadStory(w, httptest.NewRequest(http.MethodGet, "/download", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF", w.Body.String()[:4])
}

func TestSaveAndListArchive(t *testing.T) {
	h := newTestHandler(t, &fakeModels{})
	postForm(h.StartStory, "/start", url.Values{"premise": {"The falling airplane"}})

	w := postForm(h.SaveStory, "/archive", url.Values{})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Body.String())

	lw := httptest.NewRecorder()
	h.ListArchive(lw, httptest.NewRequest(http.MethodGet, "/archive", nil))
	require.Equal(t, http.StatusOK, lw.Code)
	assert.Contains(t, lw.Body.String(), "The falling airplane")
}

func TestStreamRevealsNarrative(t *testing.T) {
	h := newTestHandler(t, &fakeModels{})
	h.Typewriter.Restart("abc")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/stream", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	h.Stream(w, req)

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, body, `{"prefix":"a","done":false}`)
	assert.Contains(t, body, `{"prefix":"abc","done":false}`)
	assert.Contains(t, body, `{"prefix":"","done":true}`)
}
