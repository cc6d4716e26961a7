// Package game drives the request/response cycle against the two hosted
// models and owns the linear history of scenes.
package game

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dreamstream/gen"
	"dreamstream/stage"
	"dreamstream/story"
)

// User-facing error messages. Internal errors are logged, never shown.
const (
	StartErrMessage   = "The dream refused to begin. Try another premise."
	AdvanceErrMessage = "The dream slipped away. Choose again."
)

// Sound is the slice of the audio engine the orchestrator needs.
type Sound interface {
	Stop()
}

// Orchestrator sequences narrative and image generation for one session.
// Within a round the narrative result is a strict precondition for the
// image request; a failure anywhere discards the whole round.
type Orchestrator struct {
	session *story.Session
	stories gen.StoryModel
	images  gen.ImageModel
	sound   Sound
	stage   *stage.Controller
	logger  *zap.Logger
}

// New wires an orchestrator. sound may be nil when audio is unavailable.
func New(session *story.Session, stories gen.StoryModel, images gen.ImageModel, sound Sound, st *stage.Controller, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		session: session,
		stories: stories,
		images:  images,
		sound:   sound,
		stage:   st,
		logger:  logger,
	}
}

// Session exposes the play-session state for rendering.
func (o *Orchestrator) Session() *story.Session { return o.session }

// Stage exposes the transition controller for rendering.
func (o *Orchestrator) Stage() *stage.Controller { return o.stage }

// Start opens a fresh play-through from a free-text premise. History is
// replaced with the single opening scene.
func (o *Orchestrator) Start(ctx context.Context, premise string) error {
	if err := o.session.Begin(); err != nil {
		return err
	}

	sc, err := o.generateRound(ctx, premise, "")
	if err != nil {
		o.logger.Warn("start round failed", zap.Error(err))
		o.session.Fail(StartErrMessage)
		return err
	}

	o.session.Replace(sc)
	o.stage.Enter(sc)
	o.logger.Info("story started", zap.String("scene_id", sc.ID), zap.String("mood", string(sc.Mood)))
	return nil
}

// Advance continues the story through a chosen option, feeding the model a
// short summary of the recent history. The new scene is appended; on any
// failure the history is left exactly as it was.
func (o *Orchestrator) Advance(ctx context.Context, opt story.Option) error {
	if err := o.session.Begin(); err != nil {
		return err
	}

	sc, err := o.generateRound(ctx, opt.ActionPrompt, o.session.ContextSummary())
	if err != nil {
		o.logger.Warn("advance round failed", zap.Error(err))
		o.session.Fail(AdvanceErrMessage)
		return err
	}

	o.session.Append(sc)
	o.stage.Enter(sc)
	o.logger.Info("story advanced",
		zap.String("scene_id", sc.ID),
		zap.String("mood", string(sc.Mood)),
		zap.Int("history_len", o.session.Len()))
	return nil
}

// Reset stops audio and returns the session and stage to the idle landing
// state.
func (o *Orchestrator) Reset() {
	if o.sound != nil {
		o.sound.Stop()
	}
	o.stage.Reset()
	o.session.Reset()
	o.logger.Info("session reset")
}

// generateRound runs the strictly sequential narrative-then-image cycle
// and assembles the resulting scene. There is no partial success: if the
// image fails after the narrative succeeded, the round is discarded.
func (o *Orchestrator) generateRound(ctx context.Context, action, summary string) (story.Scene, error) {
	beat, err := o.stories.GenerateScene(ctx, action, summary)
	if err != nil {
		return story.Scene{}, err
	}

	imageURI, err := o.images.GenerateImage(ctx, beat.VisualPrompt)
	if err != nil {
		return story.Scene{}, err
	}

	return story.Scene{
		ID:           uuid.NewString(),
		Narrative:    beat.Narrative,
		VisualPrompt: beat.VisualPrompt,
		ImageURI:     imageURI,
		Options:      beat.Options,
		Mood:         beat.Mood,
	}, nil
}
