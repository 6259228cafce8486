package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"

	"docscan/internal/logger"
)

// TesseractProvider implements LineProvider using a local Tesseract engine
// via gosseract. It is the low-fidelity fallback tier: text lines only, no
// geometry, no structured error kinds.
type TesseractProvider struct {
	languages     []string
	clientFactory func() *gosseract.Client
	log           zerolog.Logger
}

// NewTesseractProvider constructs a Tesseract-backed line recognizer.
// Languages are Tesseract trained-data names (e.g., "eng", "deu"); empty
// means the engine default.
func NewTesseractProvider(languages ...string) *TesseractProvider {
	return &TesseractProvider{
		languages:     languages,
		clientFactory: gosseract.NewClient,
		log:           logger.WithComponent("tesseract"),
	}
}

// Name identifies the provider in logs.
func (p *TesseractProvider) Name() string { return "tesseract" }

// RecognizeLines returns the recognized text lines of the image. If the
// given path is scheme-qualified and fails, it retries once with the plain
// filesystem path before giving up.
func (p *TesseractProvider) RecognizeLines(ctx context.Context, imagePath string) ([]string, error) {
	lines, err := p.recognize(ctx, imagePath)
	if err == nil {
		return lines, nil
	}

	paths := resolvePaths(imagePath)
	if paths.plain == imagePath {
		return nil, err
	}

	p.log.Warn().
		Err(err).
		Str("image", imagePath).
		Msg("recognition failed, retrying with plain path")

	return p.recognize(ctx, paths.plain)
}

func (p *TesseractProvider) recognize(ctx context.Context, imagePath string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := p.clientFactory()
	defer client.Close()

	if err := client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	if len(p.languages) > 0 {
		if err := client.SetLanguage(p.languages...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no text recognized in %s", imagePath)
	}

	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"), nil
}
