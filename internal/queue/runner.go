// Package queue drives background OCR over whole documents: a job runner
// that processes one document page by page, and a FIFO queue that
// serializes runs so only one document is recognized at a time.
package queue

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"docscan/internal/logger"
	"docscan/pkg/models"
)

// DocumentStore is the persistence collaborator the runner needs.
type DocumentStore interface {
	LoadDocument(id string) (*models.Document, error)
	SaveDocument(doc *models.Document) error
}

// PageRecognizer recognizes a single page image. It never fails: errors
// degrade into an empty page result.
type PageRecognizer interface {
	RecognizePage(ctx context.Context, imagePath string) models.OcrPage
}

// Runner processes one document: every page through the recognizer in
// order, with the document written back after each page so progress is
// observable and survives interruption. It is the sole writer of the
// document's OCR fields.
type Runner struct {
	store      DocumentStore
	recognizer PageRecognizer
	log        zerolog.Logger
}

// NewRunner creates a job runner over the given store and recognizer.
func NewRunner(store DocumentStore, recognizer PageRecognizer) *Runner {
	return &Runner{
		store:      store,
		recognizer: recognizer,
		log:        logger.WithComponent("runner"),
	}
}

// Run recognizes every page of the document with the given id and persists
// the results. The only failure it reports is being unable to load the
// document; page-level failures are recorded as degraded page results and
// the run still completes as done.
func (r *Runner) Run(ctx context.Context, docID string) error {
	log := r.log.With().Str("doc_id", docID).Logger()

	doc, err := r.store.LoadDocument(docID)
	if err != nil {
		return fmt.Errorf("run %s: %w", docID, err)
	}

	doc.OcrStatus = models.OcrStatusRunning
	doc.OcrProgress = models.OcrProgress{Processed: 0, Total: len(doc.Pages)}
	doc.OcrPages = nil
	doc.OcrExcerpt = ""
	r.save(doc, log)

	log.Info().Int("pages", len(doc.Pages)).Msg("document OCR started")

	for i, page := range doc.Pages {
		result := r.recognizer.RecognizePage(ctx, page.URI)

		doc.OcrPages = append(doc.OcrPages, result)
		doc.OcrProgress.Processed = i + 1
		r.save(doc, log)

		log.Debug().
			Int("page", i+1).
			Int("pages", len(doc.Pages)).
			Int("text_length", len(result.FullText)).
			Msg("page processed")
	}

	doc.OcrStatus = models.OcrStatusDone
	doc.OcrExcerpt = models.Excerpt(doc.OcrPages, models.ExcerptLength)
	r.save(doc, log)

	log.Info().
		Int("pages", len(doc.Pages)).
		Int("excerpt_length", len(doc.OcrExcerpt)).
		Msg("document OCR completed")

	return nil
}

// save writes the document back. Persistence write failures are logged and
// swallowed: the run keeps going and the next write retries the full state.
func (r *Runner) save(doc *models.Document, log zerolog.Logger) {
	if err := r.store.SaveDocument(doc); err != nil {
		log.Error().Err(err).Msg("failed to persist document state")
	}
}
