package ocr

import "context"

// NullProvider is bound as the primary tier when no real primary
// recognizer is available, so the cascade needs no conditional branching:
// it simply fails every page straight into the fallback tier.
type NullProvider struct{}

// Name identifies the provider in logs.
func (NullProvider) Name() string { return "null" }

// Recognize always fails with ErrProviderUnavailable.
func (NullProvider) Recognize(ctx context.Context, imagePath string) (*Result, error) {
	return nil, NewOCRError("Recognize", ErrProviderUnavailable, "no primary recognizer configured")
}
