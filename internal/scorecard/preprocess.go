// Package scorecard prepares photographed scorecards for the vision model and reads the
// per-hole scores out of its reply.
package scorecard

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Filter strengths applied to every scorecard.
const (
	ContrastBoost = 50  // percent; doubles the distance from mid-gray
	SharpenSigma  = 1.0
)

// ContentType is the MIME type of the preprocessed image.
const ContentType = "image/png"

// Preprocess normalizes a scorecard photo: EXIF orientation applied, portrait shots
// turned to landscape (90° clockwise), converted to grayscale, contrast and sharpness
// raised, then re-encoded as PNG.
func Preprocess(raw []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode scorecard: %w", err)
	}

	b := img.Bounds()
	if b.Dy() > b.Dx() {
		img = imaging.Rotate270(img)
	}

	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, ContrastBoost)
	out = imaging.Sharpen(out, SharpenSigma)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode scorecard: %w", err)
	}
	return buf.Bytes(), nil
}
