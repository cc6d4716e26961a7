// Package export renders a finished play-through as a PDF transcript.
package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"dreamstream/story"
)

// Transcript lays out the scene history as a printable story book: one
// block per scene with its illustration (when present) and narrative.
func Transcript(title string, scenes []story.Scene) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.MultiCell(0, 10, title, "", "C", false)
	pdf.Ln(6)

	for i, sc := range scenes {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 7, fmt.Sprintf("Scene %d (%s)", i+1, sc.Mood), "", "L", false)

		if name, ok := registerSceneImage(pdf, sc); ok {
			pdf.ImageOptions(name, 0, 0, 120, 0, true, gofpdf.ImageOptions{ImageType: "", ReadDpi: true}, 0, "")
			pdf.Ln(3)
		}

		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, sc.Narrative, "", "L", false)
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

// registerSceneImage decodes a scene's data-URI illustration into the pdf.
// A scene without a usable image is simply laid out without one.
func registerSceneImage(pdf *gofpdf.Fpdf, sc story.Scene) (string, bool) {
	data, imageType, err := decodeDataURI(sc.ImageURI)
	if err != nil {
		return "", false
	}
	// Probe the bytes before handing them to gofpdf: a failed registration
	// latches an error on the whole document.
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", false
	}
	name := "scene-" + sc.ID
	opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	return name, pdf.Ok()
}

// decodeDataURI splits a base64 image data URI into raw bytes and a
// gofpdf image type.
func decodeDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, "", fmt.Errorf("unsupported data URI encoding")
	}

	mime := strings.TrimSuffix(meta, ";base64")
	var imageType string
	switch mime {
	case "image/png":
		imageType = "PNG"
	case "image/jpeg", "image/jpg":
		imageType = "JPG"
	case "image/gif":
		imageType = "GIF"
	default:
		return nil, "", fmt.Errorf("unsupported image MIME type %q", mime)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode data URI: %w", err)
	}
	return data, imageType, nil
}
