package ocr_test

import (
	"context"
	"fmt"
	"time"

	"docscan/internal/ocr"
)

// Example demonstrates basic usage of the page recognizer.
func Example() {
	// Load .env file (using godotenv in main)
	// This should be done in your main() function:
	//
	// if err := godotenv.Load(); err != nil {
	//     log.Printf("Warning: Could not load .env file: %v", err)
	// }

	ctx := context.Background()

	// Bind the primary tier once at startup. Without Google credentials
	// this yields the null provider and recognition runs on Tesseract.
	primary := ocr.NewPrimaryProvider(ctx, ocr.ProviderVision)
	fallback := ocr.NewTesseractProvider("eng")

	recognizer := ocr.NewPageRecognizer(primary, fallback)

	// RecognizePage never fails; the worst case is an empty result with
	// zero image dimensions.
	page := recognizer.RecognizePage(ctx, "page-001.jpg")

	fmt.Printf("Recognized %d words (%d chars) on a %dx%d page\n",
		len(page.Words), len(page.FullText), page.ImageWidth, page.ImageHeight)
}

// ExampleWithTimeout demonstrates overriding the per-provider deadline.
func ExampleWithTimeout() {
	ctx := context.Background()

	recognizer := ocr.NewPageRecognizer(
		ocr.NewPrimaryProvider(ctx, ocr.ProviderDocumentAI),
		ocr.NewTesseractProvider(),
		ocr.WithTimeout(10*time.Second),
	)

	page := recognizer.RecognizePage(ctx, "page-001.jpg")
	fmt.Println(page.FullText)
}
