package cmd

import (
	"context"
	"time"

	"docscan/internal/config"
	"docscan/internal/logger"
	"docscan/internal/ocr"
	"docscan/internal/queue"
	"docscan/internal/store"
)

// buildRecognizer wires the provider cascade from configuration. The
// primary tier is probed once here; if it is unavailable the cascade runs
// on the Tesseract fallback alone.
func buildRecognizer(ctx context.Context, cfg *config.Config) *ocr.PageRecognizer {
	primary := ocr.NewPrimaryProvider(ctx, cfg.PrimaryProvider)
	fallback := ocr.NewTesseractProvider(cfg.TesseractLanguages...)

	return ocr.NewPageRecognizer(primary, fallback,
		ocr.WithTimeout(time.Duration(cfg.OCRTimeoutSeconds)*time.Second))
}

// openStore opens the file-backed document store, falling back to an
// in-memory store when the file cannot be opened so commands still run
// (without durability).
func openStore(cfg *config.Config) *store.DocumentStore {
	log := logger.WithComponent("store")

	kv, err := store.OpenFileKV(cfg.StorePath)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.StorePath).Msg("failed to open store, falling back to memory")
		return store.NewDocumentStore(store.NewMemoryKV())
	}
	return store.NewDocumentStore(kv)
}

// buildQueue assembles the full pipeline: store, recognizer, job runner
// and scheduler.
func buildQueue(ctx context.Context, cfg *config.Config) (*queue.Queue, *store.DocumentStore) {
	documents := openStore(cfg)
	runner := queue.NewRunner(documents, buildRecognizer(ctx, cfg))
	q := queue.New(runner)
	return q, documents
}
