package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	vision "cloud.google.com/go/vision/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"docscan/internal/logger"
)

// GoogleVisionProvider implements Provider using the Google Cloud Vision
// document text detection API. It returns real per-word bounding boxes in
// the image's pixel space.
type GoogleVisionProvider struct {
	client *vision.ImageAnnotatorClient
	log    zerolog.Logger
}

// NewGoogleVisionProvider creates a provider with credentials from environment.
// It expects either GOOGLE_APPLICATION_CREDENTIALS path or GOOGLE_CREDENTIALS JSON in env.
func NewGoogleVisionProvider(ctx context.Context) (*GoogleVisionProvider, error) {
	const op = "NewGoogleVisionProvider"

	var client *vision.ImageAnnotatorClient
	var err error

	// Check for inline credentials first
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		// Try default credentials as fallback
		client, err = vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return &GoogleVisionProvider{
		client: client,
		log:    logger.WithComponent("vision"),
	}, nil
}

// NewGoogleVisionProviderWithClient creates a provider with an explicit client (for testing).
func NewGoogleVisionProviderWithClient(client *vision.ImageAnnotatorClient) *GoogleVisionProvider {
	return &GoogleVisionProvider{
		client: client,
		log:    logger.WithComponent("vision"),
	}
}

// Name identifies the provider in logs.
func (g *GoogleVisionProvider) Name() string { return "google-vision" }

// Recognize runs document text detection over the image at imagePath.
func (g *GoogleVisionProvider) Recognize(ctx context.Context, imagePath string) (*Result, error) {
	const op = "Recognize"

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, NewOCRError(op, ErrImageLoad, fmt.Sprintf("read %s: %v", imagePath, err))
	}

	img, err := vision.NewImageFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, NewOCRError(op, ErrImageDecode, err.Error())
	}

	annotation, err := g.client.DetectDocumentText(ctx, img, nil)
	if err != nil {
		return nil, NewOCRError(op, ErrRecognition, fmt.Sprintf("Vision API call failed: %v", err))
	}
	if annotation == nil || len(annotation.Pages) == 0 {
		return nil, NewOCRError(op, ErrNoResults, "no text annotation returned")
	}

	result, err := g.processAnnotation(annotation, data)
	if err != nil {
		return nil, WrapOCRError(op, err, "failed to process Vision API response")
	}

	g.log.Debug().
		Str("image", imagePath).
		Int("words", len(result.Words)).
		Int("text_length", len(result.FullText)).
		Msg("Vision recognition completed")

	return result, nil
}

// processAnnotation flattens the page/block/paragraph/word hierarchy of the
// annotation into a word list with pixel-space boxes.
func (g *GoogleVisionProvider) processAnnotation(annotation *visionpb.TextAnnotation, data []byte) (*Result, error) {
	page := annotation.Pages[0]
	width := int(page.Width)
	height := int(page.Height)

	// Some pipelines report zero page dimensions; measure the image locally
	// so box conversion and downstream invariants still hold.
	if width <= 0 || height <= 0 {
		w, h, err := decodeImageSize(bytes.NewReader(data))
		if err != nil {
			return nil, NewOCRError("processAnnotation", ErrImageDecode, err.Error())
		}
		width, height = w, h
	}

	result := &Result{
		ImageWidth:  width,
		ImageHeight: height,
	}

	for _, block := range page.Blocks {
		for _, paragraph := range block.Paragraphs {
			for _, word := range paragraph.Words {
				text := symbolsText(word.Symbols)
				if text == "" {
					continue
				}
				box := boxFromPoly(word.BoundingBox, width, height)
				box.Text = text
				box.Confidence = float64(word.Confidence)
				result.Words = append(result.Words, box)
			}
		}
	}

	if len(result.Words) == 0 {
		return nil, ErrNoResults
	}

	texts := make([]string, len(result.Words))
	for i, w := range result.Words {
		texts[i] = w.Text
	}
	result.FullText = strings.Join(texts, " ")

	return result, nil
}

func symbolsText(symbols []*visionpb.Symbol) string {
	var b strings.Builder
	for _, s := range symbols {
		b.WriteString(s.Text)
	}
	return b.String()
}
