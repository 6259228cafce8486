package ocr_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"docscan/internal/geometry"
	"docscan/internal/ocr"
	"docscan/pkg/models"
)

type fakePrimary struct {
	result *ocr.Result
	err    error
	delay  time.Duration
	calls  atomic.Int32
}

func (f *fakePrimary) Name() string { return "fake-primary" }

func (f *fakePrimary) Recognize(ctx context.Context, imagePath string) (*ocr.Result, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.result, f.err
}

type fakeFallback struct {
	lines []string
	err   error
	// failScheme makes calls with a file:// path fail, mirroring engines
	// that only accept plain filesystem paths.
	failScheme bool
	calls      atomic.Int32
	paths      []string
}

func (f *fakeFallback) Name() string { return "fake-fallback" }

func (f *fakeFallback) RecognizeLines(ctx context.Context, imagePath string) ([]string, error) {
	f.calls.Add(1)
	f.paths = append(f.paths, imagePath)
	if f.failScheme && strings.HasPrefix(imagePath, "file://") {
		return nil, errors.New("unsupported path scheme")
	}
	return f.lines, f.err
}

func staticProbe(width, height int) ocr.DimensionProbe {
	return func(imagePath string) (int, int, error) {
		return width, height, nil
	}
}

func TestRecognizePage_PrimarySuccess(t *testing.T) {
	words := []models.OcrWord{
		{Text: "Hello", X: 10, Y: 20, Width: 100, Height: 30, Confidence: 0.97},
		{Text: "world", X: 120, Y: 20, Width: 110, Height: 30, Confidence: 0.95},
	}
	primary := &fakePrimary{result: &ocr.Result{
		FullText:    "Hello world",
		Words:       words,
		ImageWidth:  2000,
		ImageHeight: 3000,
	}}
	fallback := &fakeFallback{lines: []string{"should not be used"}}

	r := ocr.NewPageRecognizer(primary, fallback, ocr.WithDimensionProbe(staticProbe(2000, 3000)))
	page := r.RecognizePage(context.Background(), "/tmp/page.jpg")

	require.Equal(t, "Hello world", page.FullText)
	require.Equal(t, words, page.Words)
	require.Equal(t, 2000, page.ImageWidth)
	require.Equal(t, 3000, page.ImageHeight)

	// The fallback tier is never touched when the primary succeeds.
	require.Zero(t, fallback.calls.Load())
}

func TestRecognizePage_PrimaryFailureFallsBack(t *testing.T) {
	primary := &fakePrimary{err: ocr.ErrRecognition}
	fallback := &fakeFallback{lines: []string{"Hello world", "", "Second line"}}

	r := ocr.NewPageRecognizer(primary, fallback, ocr.WithDimensionProbe(staticProbe(1000, 1400)))
	page := r.RecognizePage(context.Background(), "/tmp/page.jpg")

	require.Equal(t, int32(1), fallback.calls.Load())
	require.Equal(t, "Hello world\n\nSecond line", page.FullText)
	require.Equal(t, 1000, page.ImageWidth)
	require.Equal(t, 1400, page.ImageHeight)

	// Blank lines are omitted from the synthesized boxes.
	require.Len(t, page.Words, 2)
	for _, w := range page.Words {
		require.InDelta(t, geometry.EstimatedConfidence, w.Confidence, 1e-9)
		require.LessOrEqual(t, w.X+w.Width, 1000.0)
		require.LessOrEqual(t, w.Y+w.Height, 1400.0)
	}
}

func TestRecognizePage_PrimaryTimeoutFallsBack(t *testing.T) {
	primary := &fakePrimary{
		result: &ocr.Result{FullText: "too late"},
		delay:  200 * time.Millisecond,
	}
	fallback := &fakeFallback{lines: []string{"fallback text"}}

	r := ocr.NewPageRecognizer(primary, fallback,
		ocr.WithTimeout(20*time.Millisecond),
		ocr.WithDimensionProbe(staticProbe(800, 600)))

	start := time.Now()
	page := r.RecognizePage(context.Background(), "/tmp/page.jpg")

	require.Less(t, time.Since(start), 150*time.Millisecond)
	require.Equal(t, "fallback text", page.FullText)
	require.Equal(t, int32(1), fallback.calls.Load())
}

func TestRecognizePage_FallbackRetriesPlainPath(t *testing.T) {
	primary := &fakePrimary{err: ocr.ErrProviderUnavailable}
	fallback := &fakeFallback{lines: []string{"plain path worked"}, failScheme: true}

	r := ocr.NewPageRecognizer(primary, fallback, ocr.WithDimensionProbe(staticProbe(1000, 1400)))
	page := r.RecognizePage(context.Background(), "/tmp/page.jpg")

	require.Equal(t, "plain path worked", page.FullText)
	require.Equal(t, []string{"file:///tmp/page.jpg", "/tmp/page.jpg"}, fallback.paths)
}

func TestRecognizePage_AllTiersFailIsDegraded(t *testing.T) {
	primary := &fakePrimary{err: ocr.ErrRecognition}
	fallback := &fakeFallback{err: errors.New("engine crashed")}

	r := ocr.NewPageRecognizer(primary, fallback, ocr.WithDimensionProbe(staticProbe(1000, 1400)))
	page := r.RecognizePage(context.Background(), "/tmp/page.jpg")

	require.Empty(t, page.FullText)
	require.Empty(t, page.Words)
	require.Zero(t, page.ImageWidth)
	require.Zero(t, page.ImageHeight)
}

func TestRecognizePage_ProbeFailureIsDegraded(t *testing.T) {
	primary := &fakePrimary{err: ocr.ErrRecognition}
	fallback := &fakeFallback{lines: []string{"never reached"}}

	r := ocr.NewPageRecognizer(primary, fallback,
		ocr.WithDimensionProbe(func(string) (int, int, error) {
			return 0, 0, ocr.ErrImageLoad
		}))
	page := r.RecognizePage(context.Background(), "/tmp/missing.jpg")

	require.Equal(t, models.OcrPage{}, page)
	require.Zero(t, fallback.calls.Load())
}

func TestRecognizePage_NullProviderGoesStraightToFallback(t *testing.T) {
	fallback := &fakeFallback{lines: []string{"only tier"}}

	r := ocr.NewPageRecognizer(ocr.NullProvider{}, fallback,
		ocr.WithDimensionProbe(staticProbe(500, 700)))
	page := r.RecognizePage(context.Background(), "/tmp/page.jpg")

	require.Equal(t, "only tier", page.FullText)
	require.Len(t, page.Words, 1)
}
