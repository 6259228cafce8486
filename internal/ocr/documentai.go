package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"docscan/internal/logger"
	"docscan/pkg/models"
)

// DocumentAIConfig holds the processor coordinates for Document AI.
type DocumentAIConfig struct {
	ProjectID   string
	Location    string
	ProcessorID string
}

// DocumentAIProvider implements Provider using a Google Document AI OCR
// processor. Token boxes arrive as normalized vertices and are converted
// into pixel space against the page dimensions.
type DocumentAIProvider struct {
	client *documentai.DocumentProcessorClient
	config DocumentAIConfig
	log    zerolog.Logger
}

// NewDocumentAIProvider creates a provider with credentials from environment.
// Expects: GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS
// Requires: GOOGLE_CLOUD_PROJECT, DOCUMENT_AI_PROCESSOR_ID
// Optional: GOOGLE_CLOUD_LOCATION (e.g., "us" or "eu", default "us")
func NewDocumentAIProvider(ctx context.Context) (*DocumentAIProvider, error) {
	const op = "NewDocumentAIProvider"

	config := DocumentAIConfig{
		ProjectID:   os.Getenv("GOOGLE_CLOUD_PROJECT"),
		Location:    os.Getenv("GOOGLE_CLOUD_LOCATION"),
		ProcessorID: os.Getenv("DOCUMENT_AI_PROCESSOR_ID"),
	}
	if config.ProjectID == "" {
		return nil, NewOCRError(op, ErrProviderUnavailable, "GOOGLE_CLOUD_PROJECT is required")
	}
	if config.ProcessorID == "" {
		return nil, NewOCRError(op, ErrProviderUnavailable, "DOCUMENT_AI_PROCESSOR_ID is required")
	}
	if config.Location == "" {
		config.Location = "us"
	}

	var clientOptions []option.ClientOption

	// Regional endpoint for non-US processors
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if len(clientOptions) == 0 {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapOCRError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return &DocumentAIProvider{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}, nil
}

// NewDocumentAIProviderWithClient creates a provider with explicit config and client (for testing).
func NewDocumentAIProviderWithClient(config DocumentAIConfig, client *documentai.DocumentProcessorClient) *DocumentAIProvider {
	return &DocumentAIProvider{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}
}

// Name identifies the provider in logs.
func (p *DocumentAIProvider) Name() string { return "document-ai" }

// Recognize processes the image at imagePath through the configured OCR processor.
func (p *DocumentAIProvider) Recognize(ctx context.Context, imagePath string) (*Result, error) {
	const op = "Recognize"

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, NewOCRError(op, ErrImageLoad, fmt.Sprintf("read %s: %v", imagePath, err))
	}

	req := &documentaipb.ProcessRequest{
		Name: fmt.Sprintf("projects/%s/locations/%s/processors/%s",
			p.config.ProjectID, p.config.Location, p.config.ProcessorID),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: imageMimeType(imagePath),
			},
		},
	}

	resp, err := p.client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, NewOCRError(op, ErrRecognition, fmt.Sprintf("Document AI call failed: %v", err))
	}

	doc := resp.GetDocument()
	if doc == nil || len(doc.Pages) == 0 {
		return nil, NewOCRError(op, ErrNoResults, "no document returned")
	}

	result, err := p.processDocument(doc)
	if err != nil {
		return nil, WrapOCRError(op, err, "failed to process Document AI response")
	}

	p.log.Debug().
		Str("image", imagePath).
		Int("words", len(result.Words)).
		Int("text_length", len(result.FullText)).
		Msg("Document AI recognition completed")

	return result, nil
}

// processDocument extracts per-token boxes and text from the first page.
func (p *DocumentAIProvider) processDocument(doc *documentaipb.Document) (*Result, error) {
	page := doc.Pages[0]

	var width, height int
	if dim := page.GetDimension(); dim != nil {
		width = int(dim.Width)
		height = int(dim.Height)
	}
	if width <= 0 || height <= 0 {
		return nil, NewOCRError("processDocument", ErrNoResults, "page has no dimensions")
	}

	result := &Result{
		ImageWidth:  width,
		ImageHeight: height,
	}

	for _, token := range page.Tokens {
		layout := token.GetLayout()
		if layout == nil {
			continue
		}
		text := strings.TrimSpace(textFromAnchor(layout.GetTextAnchor(), doc.Text))
		if text == "" {
			continue
		}
		box := boxFromNormalizedPoly(layout.GetBoundingPoly(), width, height)
		box.Text = text
		box.Confidence = float64(layout.Confidence)
		result.Words = append(result.Words, box)
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

// boxFromNormalizedPoly converts a Document AI normalized bounding poly
// (top-left origin, unit coordinates) into a pixel-space word box.
func boxFromNormalizedPoly(poly *documentaipb.BoundingPoly, imageWidth, imageHeight int) models.OcrWord {
	vertices := poly.GetNormalizedVertices()
	if len(vertices) == 0 {
		return models.OcrWord{}
	}

	minX, minY := float64(vertices[0].X), float64(vertices[0].Y)
	maxX, maxY := minX, minY
	for _, v := range vertices[1:] {
		minX = min(minX, float64(v.X))
		minY = min(minY, float64(v.Y))
		maxX = max(maxX, float64(v.X))
		maxY = max(maxY, float64(v.Y))
	}

	return pixelWord(minX, minY, maxX, maxY, imageWidth, imageHeight)
}

// textFromAnchor slices the document text covered by a layout's text anchor.
func textFromAnchor(anchor *documentaipb.Document_TextAnchor, text string) string {
	if anchor == nil || len(anchor.TextSegments) == 0 {
		return ""
	}

	var b strings.Builder
	for _, segment := range anchor.TextSegments {
		start := int(segment.StartIndex)
		end := int(segment.EndIndex)
		if start < 0 || end > len(text) || start >= end {
			continue
		}
		b.WriteString(text[start:end])
	}
	return b.String()
}

// imageMimeType maps a file extension to the MIME type Document AI expects.
func imageMimeType(imagePath string) string {
	switch strings.ToLower(filepath.Ext(imagePath)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
