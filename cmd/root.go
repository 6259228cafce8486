package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docscan/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "docscan",
	Short: "docscan - background OCR pipeline for scanned documents",
	Long: `docscan runs text recognition over the pages of scanned documents.

Each page goes through a provider cascade: an accurate primary recognizer
(Google Cloud Vision or Document AI) with real word bounding boxes, and a
local Tesseract fallback whose boxes are estimated. Documents are processed
one at a time through a background queue, with progress persisted after
every page so interrupted runs leave usable partial results.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("docscan executed")

		fmt.Println("Welcome to docscan!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
