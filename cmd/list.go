package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"docscan/internal/config"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents and their OCR status",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	documents := openStore(cfg)

	docs := documents.ListDocuments()
	if len(docs) == 0 {
		fmt.Println("No documents in store.")
		return nil
	}

	for _, doc := range docs {
		fmt.Printf("%s  %-24s  %d pages  %s (%d/%d)\n",
			doc.ID, doc.Title, len(doc.Pages),
			doc.OcrStatus, doc.OcrProgress.Processed, doc.OcrProgress.Total)
		if doc.OcrExcerpt != "" {
			fmt.Printf("    %s\n", doc.OcrExcerpt)
		}
	}
	return nil
}
