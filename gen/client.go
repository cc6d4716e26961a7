// Package gen talks to the two hosted Gemini models: one for the structured
// scene JSON, one for the matching illustration.
package gen

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"

	"dreamstream/prompts"
	"dreamstream/story"
)

// Scene is the validated payload of one text-model response.
type Scene struct {
	Narrative    string
	VisualPrompt string
	Mood         story.Mood
	Options      []story.Option
}

// StoryModel produces the next narrative beat for an action plus a short
// summary of the story so far.
type StoryModel interface {
	GenerateScene(ctx context.Context, action, summary string) (Scene, error)
}

// ImageModel renders a visual prompt into an inline image, returned as a
// data URI ready for an <img> tag.
type ImageModel interface {
	GenerateImage(ctx context.Context, visualPrompt string) (string, error)
}

var (
	// ErrEmptyResponse covers responses with no usable candidate parts.
	ErrEmptyResponse = errors.New("model returned no content")
	// ErrNoImage covers image responses that carry no inline image data.
	ErrNoImage = errors.New("model returned no image data")
)

// Client implements StoryModel and ImageModel on top of the genai SDK.
type Client struct {
	text   *genai.GenerativeModel
	image  *genai.GenerativeModel
	logger *zap.Logger
}

// NewClient wires the two generative models. The text model is configured
// for JSON output so the scene parser sees as few markdown fences as
// possible.
func NewClient(gc *genai.Client, textModel, imageModel string, logger *zap.Logger) *Client {
	text := gc.GenerativeModel(textModel)
	text.ResponseMIMEType = "application/json"

	return &Client{
		text:   text,
		image:  gc.GenerativeModel(imageModel),
		logger: logger,
	}
}

// GenerateScene asks the text model for the next beat and validates the
// structured response. A context summary of "" means a fresh start.
func (c *Client) GenerateScene(ctx context.Context, action, summary string) (Scene, error) {
	prompt := prompts.ScenePrompt
	if summary != "" {
		prompt += "\nThe story so far:\n" + summary + "\n"
	}
	prompt += "\nThe player's action:\n" + action + "\n"

	resp, err := c.text.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return Scene{}, fmt.Errorf("scene generation: %w", err)
	}

	raw, err := firstText(resp)
	if err != nil {
		return Scene{}, err
	}

	scene, err := ParseScene(raw)
	if err != nil {
		c.logger.Warn("scene response failed validation", zap.Error(err))
		return Scene{}, err
	}
	return scene, nil
}

// GenerateImage renders the visual prompt, prefixed with the shared
// cinematic style, and returns the inline result as a data URI.
func (c *Client) GenerateImage(ctx context.Context, visualPrompt string) (string, error) {
	resp, err := c.image.GenerateContent(ctx, genai.Text(prompts.ImageStylePrefix+visualPrompt))
	if err != nil {
		return "", fmt.Errorf("image generation: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if blob, ok := part.(genai.Blob); ok && len(blob.Data) > 0 {
				return DataURI(blob.MIMEType, blob.Data), nil
			}
		}
	}
	return "", ErrNoImage
}

// DataURI encodes inline image bytes as a browser-ready data URI.
func DataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// firstText pulls the first text part out of a response.
func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok && text != "" {
				return string(text), nil
			}
		}
	}
	return "", ErrEmptyResponse
}
