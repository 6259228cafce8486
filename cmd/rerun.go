package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"docscan/internal/config"
	"docscan/internal/logger"
)

var rerunCmd = &cobra.Command{
	Use:   "rerun [doc-id...]",
	Short: "Re-run OCR over stored documents",
	Long: `Enqueue stored documents for a fresh OCR pass and drain the queue.

Documents are reprocessed from scratch regardless of their previous status;
ids already pending in this invocation are deduplicated.`,
	Example: `  # Re-run a single document
  docscan rerun 2f6b7c1e-9d6c-4a41-b7a7-1f2f4de2c9a8

  # Re-run everything in the store
  docscan rerun --all`,
	RunE: runRerun,
}

func init() {
	rootCmd.AddCommand(rerunCmd)

	rerunCmd.Flags().Bool("all", false, "Re-run every document in the store")
}

func runRerun(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("rerun")

	all, _ := cmd.Flags().GetBool("all")
	if !all && len(args) == 0 {
		return fmt.Errorf("provide document ids or --all")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(log)
	defer cancel()

	q, documents := buildQueue(ctx, cfg)

	ids := args
	if all {
		ids = ids[:0]
		for _, doc := range documents.ListDocuments() {
			ids = append(ids, doc.ID)
		}
	}
	if len(ids) == 0 {
		fmt.Println("Nothing to process.")
		return nil
	}

	q.Start(ctx)
	resumeOnActivation(q)
	for _, id := range ids {
		q.Enqueue(id)
	}
	q.Wait()

	for _, id := range ids {
		doc, err := documents.LoadDocument(id)
		if err != nil {
			fmt.Printf("%s: %v\n", id, err)
			continue
		}
		fmt.Printf("%s: %s (%d/%d pages)\n", doc.ID, doc.OcrStatus,
			doc.OcrProgress.Processed, doc.OcrProgress.Total)
	}
	return nil
}
