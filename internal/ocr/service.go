// Package ocr provides the per-page text recognition pipeline: polymorphic
// recognition providers, the primary/fallback cascade, and the supporting
// image probes.
//
// Two provider tiers exist. The primary tier (Google Cloud Vision or
// Google Document AI) is accurate and returns real per-word bounding boxes
// in the image's pixel space. The fallback tier (a local Tesseract engine)
// is line-oriented and returns text only; its boxes are synthesized by the
// geometry package. The PageRecognizer coordinates both tiers under a
// per-page timeout and never fails: every error degrades into an empty
// page result.
//
// Required Environment Variables (primary tier only):
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//   - GOOGLE_CLOUD_PROJECT: Google Cloud project ID (Document AI)
//
// When no credentials are configured the primary tier binds to a null
// provider that always fails, and the cascade runs on the fallback alone.
package ocr

import (
	"context"
	"strings"

	"docscan/pkg/models"
)

// Result is a single provider's answer for one page image. Word boxes are
// in pixel space with the origin at the top-left.
type Result struct {
	FullText    string
	Words       []models.OcrWord
	ImageWidth  int
	ImageHeight int
}

// Provider is the primary-tier recognition contract: one page image in,
// full text plus per-word geometry out. Failures are classified into the
// package's sentinel errors.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string

	// Recognize runs text recognition over the image at the given
	// filesystem path.
	Recognize(ctx context.Context, imagePath string) (*Result, error)
}

// LineProvider is the fallback-tier contract: line-oriented recognition
// with no geometry. Failures are plain errors with no structured kind.
type LineProvider interface {
	// Name identifies the provider in logs.
	Name() string

	// RecognizeLines returns the recognized text lines of the image, in
	// reading order. The path may be scheme-qualified (file://) or plain.
	RecognizeLines(ctx context.Context, imagePath string) ([]string, error)
}

// imagePaths holds the two representations of a page image location that
// the providers need: scheme-qualified (file://...) and plain filesystem.
type imagePaths struct {
	withScheme string
	plain      string
}

const fileScheme = "file://"

// resolvePaths normalizes an image location into both path forms.
func resolvePaths(imagePath string) imagePaths {
	plain := strings.TrimPrefix(imagePath, fileScheme)
	return imagePaths{
		withScheme: fileScheme + plain,
		plain:      plain,
	}
}
