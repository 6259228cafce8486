package ocr

import (
	"errors"
	"fmt"
)

// Common recognition errors. Providers classify their failures into these
// sentinels so the cascade can treat every tier uniformly.
var (
	// ErrImageLoad is returned when the image file cannot be opened or read.
	ErrImageLoad = errors.New("image could not be loaded")

	// ErrImageDecode is returned when the image data is not a decodable raster format.
	ErrImageDecode = errors.New("image could not be decoded")

	// ErrRecognition is returned when the recognition engine itself fails.
	ErrRecognition = errors.New("text recognition failed")

	// ErrNoResults is returned when recognition succeeds but yields no text.
	ErrNoResults = errors.New("recognition returned no results")

	// ErrTimeout is returned when a provider does not answer within the
	// per-page deadline. The underlying call is not canceled; its eventual
	// result is simply discarded.
	ErrTimeout = errors.New("recognition timed out")

	// ErrMissingCredentials is returned when neither GOOGLE_APPLICATION_CREDENTIALS
	// nor GOOGLE_CREDENTIALS environment variables are configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrProviderUnavailable is returned by the null provider bound in place
	// of a primary recognizer that failed its startup probe.
	ErrProviderUnavailable = errors.New("recognition provider unavailable")
)

// OCRError wraps errors with additional context about the recognition failure.
type OCRError struct {
	// Op is the operation that failed (e.g., "Recognize", "ProbeImageSize").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *OCRError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *OCRError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *OCRError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewOCRError creates a new OCRError with the specified operation and underlying error.
func NewOCRError(op string, err error, details string) *OCRError {
	return &OCRError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapOCRError wraps an error as an OCRError if it isn't already one.
func WrapOCRError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var ocrErr *OCRError
	if errors.As(err, &ocrErr) {
		return err // Already wrapped
	}

	return NewOCRError(op, err, details)
}
