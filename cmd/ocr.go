package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"docscan/internal/config"
	"docscan/internal/logger"
	"docscan/pkg/models"
)

var ocrCmd = &cobra.Command{
	Use:   "ocr [image-file]",
	Short: "Recognize text in a single page image",
	Long: `Run the recognition cascade over one page image and print the result.

The primary provider (Google Cloud Vision by default) is tried first under
the per-page timeout; on failure or timeout the local Tesseract fallback is
used with estimated bounding boxes. The command never fails on recognition
errors: the worst case is an empty result.

Optional environment variables for the primary provider:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Example: `  # Recognize a page and print its text
  docscan ocr page-001.jpg

  # Full result with word boxes as JSON
  docscan ocr page-001.jpg --json -o result.json

  # Force the fallback recognizer
  DOCSCAN_PRIMARY_PROVIDER=none docscan ocr page-001.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runOCR,
}

// OCROutput represents the JSON output structure when --json flag is used
type OCROutput struct {
	FullText           string           `json:"full_text"`
	Words              []models.OcrWord `json:"words"`
	ImageWidth         int              `json:"image_width"`
	ImageHeight        int              `json:"image_height"`
	FileName           string           `json:"file_name"`
	FileSize           int64            `json:"file_size"`
	ProcessingDuration string           `json:"processing_duration"`
}

func init() {
	rootCmd.AddCommand(ocrCmd)

	ocrCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	ocrCmd.Flags().Bool("json", false, "Output as JSON with word boxes")
	ocrCmd.Flags().Int("timeout", 0, "Per-provider timeout in seconds (default: from config)")
}

func runOCR(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("ocr")

	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	imagePath := args[0]

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if timeoutSecs > 0 {
		cfg.OCRTimeoutSeconds = timeoutSecs
	}

	log.Info().
		Str("file", imagePath).
		Str("output", outputPath).
		Bool("json", jsonOutput).
		Str("primary", cfg.PrimaryProvider).
		Int("timeout", cfg.OCRTimeoutSeconds).
		Msg("Starting page recognition")

	fileInfo, err := validateImageFile(imagePath, log)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(log)
	defer cancel()

	recognizer := buildRecognizer(ctx, cfg)

	startTime := time.Now()
	page := recognizer.RecognizePage(ctx, imagePath)
	processingDuration := time.Since(startTime)

	log.Info().
		Int("words", len(page.Words)).
		Int("text_length", len(page.FullText)).
		Dur("duration", processingDuration).
		Msg("Page recognition completed")

	if page.ImageWidth == 0 && page.ImageHeight == 0 {
		log.Warn().Str("file", imagePath).Msg("No provider produced a result for this page")
	}

	return outputPage(page, fileInfo, outputPath, jsonOutput, processingDuration)
}

// validateImageFile checks that the file exists, is regular and non-empty.
func validateImageFile(imagePath string, log zerolog.Logger) (os.FileInfo, error) {
	fileInfo, err := os.Stat(imagePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().
				Str("file", imagePath).
				Msg("Image file not found")
			return nil, fmt.Errorf("image file not found: %s", imagePath)
		}
		if os.IsPermission(err) {
			log.Error().
				Str("file", imagePath).
				Msg("Permission denied accessing image file")
			return nil, fmt.Errorf("permission denied accessing image file: %s", imagePath)
		}
		return nil, fmt.Errorf("error accessing image file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		log.Error().
			Str("file", imagePath).
			Msg("Path is not a regular file")
		return nil, fmt.Errorf("path is not a regular file: %s", imagePath)
	}

	if fileInfo.Size() == 0 {
		log.Error().
			Str("file", imagePath).
			Msg("Image file is empty")
		return nil, fmt.Errorf("image file is empty: %s", imagePath)
	}

	return fileInfo, nil
}

// signalContext creates a context canceled on interrupt signals.
func signalContext(log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// outputPage writes the recognition result as text or JSON.
func outputPage(page models.OcrPage, fileInfo os.FileInfo, outputPath string, jsonOutput bool, duration time.Duration) error {
	var content []byte

	if jsonOutput {
		out := OCROutput{
			FullText:           page.FullText,
			Words:              roundedWords(page.Words),
			ImageWidth:         page.ImageWidth,
			ImageHeight:        page.ImageHeight,
			FileName:           fileInfo.Name(),
			FileSize:           fileInfo.Size(),
			ProcessingDuration: duration.String(),
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		content = data
	} else {
		content = []byte(page.FullText + "\n")
	}

	if outputPath == "" {
		_, err := os.Stdout.Write(content)
		return err
	}
	if err := os.WriteFile(outputPath, content, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// roundedWords snaps box coordinates to whole pixels for output. This is
// the serialization boundary: coordinates stay floating point everywhere
// upstream.
func roundedWords(words []models.OcrWord) []models.OcrWord {
	out := make([]models.OcrWord, len(words))
	for i, w := range words {
		out[i] = w
		out[i].X = float64(int(w.X + 0.5))
		out[i].Y = float64(int(w.Y + 0.5))
		out[i].Width = float64(int(w.Width + 0.5))
		out[i].Height = float64(int(w.Height + 0.5))
	}
	return out
}
