package ocr

import (
	"context"

	"docscan/internal/logger"
)

// Primary provider names accepted by NewPrimaryProvider.
const (
	ProviderVision     = "vision"
	ProviderDocumentAI = "documentai"
	ProviderNone       = "none"
)

// NewPrimaryProvider binds the configured primary recognizer, probing its
// availability once at startup. When the provider cannot be constructed
// (missing credentials, unknown name) the null provider is bound instead,
// so the page cascade runs unchanged on the fallback tier alone.
func NewPrimaryProvider(ctx context.Context, name string) Provider {
	log := logger.WithComponent("ocr")

	switch name {
	case ProviderVision, "":
		p, err := NewGoogleVisionProvider(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Vision provider unavailable, OCR will rely on fallback recognizer")
			return NullProvider{}
		}
		return p

	case ProviderDocumentAI:
		p, err := NewDocumentAIProvider(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Document AI provider unavailable, OCR will rely on fallback recognizer")
			return NullProvider{}
		}
		return p

	case ProviderNone:
		return NullProvider{}

	default:
		log.Warn().Str("provider", name).Msg("unknown primary provider, OCR will rely on fallback recognizer")
		return NullProvider{}
	}
}
