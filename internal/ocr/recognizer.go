package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"docscan/internal/geometry"
	"docscan/internal/logger"
	"docscan/pkg/models"
)

// DefaultTimeout is the per-provider deadline for recognizing one page.
const DefaultTimeout = 30 * time.Second

// DimensionProbe reads the pixel dimensions of an image. It is injected so
// tests can run the fallback path without real image files.
type DimensionProbe func(imagePath string) (width, height int, err error)

// PageRecognizer orchestrates the provider cascade for a single page: the
// primary provider under a timeout, then the line-oriented fallback with
// synthesized geometry, then a degraded empty result.
type PageRecognizer struct {
	primary  Provider
	fallback LineProvider
	probe    DimensionProbe
	timeout  time.Duration
	log      zerolog.Logger
}

// RecognizerOption customizes a PageRecognizer.
type RecognizerOption func(*PageRecognizer)

// WithTimeout overrides the per-provider deadline.
func WithTimeout(d time.Duration) RecognizerOption {
	return func(r *PageRecognizer) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithDimensionProbe overrides the image-dimension probe.
func WithDimensionProbe(probe DimensionProbe) RecognizerOption {
	return func(r *PageRecognizer) {
		r.probe = probe
	}
}

// NewPageRecognizer creates a recognizer over the given provider tiers.
func NewPageRecognizer(primary Provider, fallback LineProvider, opts ...RecognizerOption) *PageRecognizer {
	r := &PageRecognizer{
		primary:  primary,
		fallback: fallback,
		probe:    ProbeImageSize,
		timeout:  DefaultTimeout,
		log:      logger.WithComponent("recognizer"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecognizePage runs the provider cascade over one page image. It never
// returns an error: any failure degrades into an empty result with zero
// image dimensions, which the job runner records and moves past.
func (r *PageRecognizer) RecognizePage(ctx context.Context, imagePath string) models.OcrPage {
	start := time.Now()
	paths := resolvePaths(imagePath)

	result, err := raceTimeout(ctx, r.timeout, func() (*Result, error) {
		return r.primary.Recognize(ctx, paths.plain)
	})
	if err == nil {
		r.log.Info().
			Str("provider", r.primary.Name()).
			Str("image", imagePath).
			Int("words", len(result.Words)).
			Int("text_length", len(result.FullText)).
			Dur("duration", time.Since(start)).
			Msg("page recognized")
		return models.OcrPage{
			FullText:    result.FullText,
			Words:       result.Words,
			ImageWidth:  result.ImageWidth,
			ImageHeight: result.ImageHeight,
		}
	}

	r.log.Warn().
		Err(err).
		Str("provider", r.primary.Name()).
		Str("image", imagePath).
		Msg("primary recognition failed, falling back")

	// The fallback recognizer reports no dimensions, so measure the image
	// before synthesizing boxes against it.
	width, height, err := r.probe(paths.withScheme)
	if err != nil {
		r.log.Error().
			Err(err).
			Str("image", imagePath).
			Dur("duration", time.Since(start)).
			Msg("page recognition failed on every tier")
		return models.OcrPage{}
	}

	lines, err := raceTimeout(ctx, r.timeout, func() ([]string, error) {
		lines, err := r.fallback.RecognizeLines(ctx, paths.withScheme)
		if err != nil || len(lines) == 0 {
			return r.fallback.RecognizeLines(ctx, paths.plain)
		}
		return lines, nil
	})
	if err != nil {
		r.log.Error().
			Err(err).
			Str("provider", r.fallback.Name()).
			Str("image", imagePath).
			Dur("duration", time.Since(start)).
			Msg("page recognition failed on every tier")
		return models.OcrPage{}
	}

	r.log.Info().
		Str("provider", r.fallback.Name()).
		Str("image", imagePath).
		Int("lines", len(lines)).
		Dur("duration", time.Since(start)).
		Msg("page recognized with estimated boxes")

	return models.OcrPage{
		FullText:    strings.Join(lines, "\n"),
		Words:       geometry.EstimateLineBoxes(lines, width, height),
		ImageWidth:  width,
		ImageHeight: height,
	}
}

// raceTimeout runs fn against a timer and returns whichever finishes
// first. The losing call is not canceled: if the timer wins, fn keeps
// running in the background and its eventual result is discarded.
func raceTimeout[T any](ctx context.Context, d time.Duration, fn func() (T, error)) (T, error) {
	type outcome struct {
		val T
		err error
	}

	ch := make(chan outcome, 1)
	go func() {
		val, err := fn()
		ch <- outcome{val: val, err: err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	var zero T
	select {
	case o := <-ch:
		return o.val, o.err
	case <-timer.C:
		return zero, NewOCRError("raceTimeout", ErrTimeout, fmt.Sprintf("no result after %s", d))
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
