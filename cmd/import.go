package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"docscan/internal/config"
	"docscan/internal/logger"
	"docscan/internal/queue"
	"docscan/pkg/models"
)

var importCmd = &cobra.Command{
	Use:   "import [image-file...]",
	Short: "Create a document from page images and run OCR over it",
	Long: `Create a new document whose pages are the given images, persist it,
and process it through the OCR queue. The document is written back after
every recognized page, so an interrupted run leaves partial results behind.`,
	Example: `  # Import a three page scan
  docscan import page-001.jpg page-002.jpg page-003.jpg --title "Contract"

  # Import without waiting on the primary provider
  DOCSCAN_PRIMARY_PROVIDER=none docscan import scan.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("title", "t", "", "Document title (default: derived from the first image)")
}

func runImport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("import")

	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		title = filepath.Base(args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	doc := models.NewDocument(title)
	for _, imagePath := range args {
		if _, err := validateImageFile(imagePath, log); err != nil {
			return err
		}
		abs, err := filepath.Abs(imagePath)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", imagePath, err)
		}
		doc.AddPage(abs)
	}

	ctx, cancel := signalContext(log)
	defer cancel()

	q, documents := buildQueue(ctx, cfg)
	if err := documents.SaveDocument(doc); err != nil {
		return err
	}

	log.Info().
		Str("doc_id", doc.ID).
		Str("title", doc.Title).
		Int("pages", len(doc.Pages)).
		Msg("document created, enqueueing for OCR")

	q.Start(ctx)
	resumeOnActivation(q)
	q.Enqueue(doc.ID)
	q.Wait()

	processed, err := documents.LoadDocument(doc.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Document %s (%s)\n", processed.ID, processed.Title)
	fmt.Printf("  Status:   %s\n", processed.OcrStatus)
	fmt.Printf("  Progress: %d/%d pages\n", processed.OcrProgress.Processed, processed.OcrProgress.Total)
	if processed.OcrExcerpt != "" {
		fmt.Printf("  Excerpt:  %s\n", processed.OcrExcerpt)
	}
	return nil
}

// resumeOnActivation wires the host lifecycle signal into the queue:
// SIGCONT after a suspension nudges the worker to continue draining.
func resumeOnActivation(q *queue.Queue) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGCONT)

	go func() {
		for range sigChan {
			q.Resume()
		}
	}()
}
