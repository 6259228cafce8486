package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// OcrStatus tracks the document-level OCR lifecycle.
type OcrStatus string

const (
	// OcrStatusIdle means the document has never been processed (or was reset).
	OcrStatusIdle OcrStatus = "idle"

	// OcrStatusRunning means the job runner is currently working on the document.
	OcrStatusRunning OcrStatus = "running"

	// OcrStatusDone means every page has been attempted, successfully or not.
	OcrStatusDone OcrStatus = "done"

	// OcrStatusError means the job runner faulted before attempting any page.
	OcrStatusError OcrStatus = "error"
)

// ExcerptLength is the approximate number of characters kept in OcrExcerpt.
const ExcerptLength = 200

// OcrProgress reports how many pages of a document have been attempted.
type OcrProgress struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// OcrWord is a recognized text unit with its bounding box in image pixel
// coordinates, origin at the top-left. Coordinates stay floating point;
// rounding to whole pixels is left to consumers at their own boundary.
type OcrWord struct {
	Text       string  `json:"text"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Confidence float64 `json:"confidence"`
}

// OcrPage is the recognition result for a single page.
//
// ImageWidth and ImageHeight of zero signal total failure for the page: no
// provider tier produced a usable result. Words may be empty even on success
// when the page contains no text.
type OcrPage struct {
	FullText    string    `json:"full_text"`
	Words       []OcrWord `json:"words"`
	ImageWidth  int       `json:"image_width"`
	ImageHeight int       `json:"image_height"`
}

// Page is a single scanned page of a document. Rotation and Filter are
// display metadata set by the capture flow; OCR never touches them.
type Page struct {
	URI      string `json:"uri"`
	Rotation int    `json:"rotation"`
	Filter   string `json:"filter"`
}

// Document is a scanned document with its pages and aggregate OCR state.
//
// OcrPages, once populated, holds exactly one entry per page in page order.
// The job runner is the sole writer of the OCR fields.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Pages     []Page    `json:"pages"`

	OcrStatus   OcrStatus   `json:"ocr_status"`
	OcrProgress OcrProgress `json:"ocr_progress"`
	OcrExcerpt  string      `json:"ocr_excerpt,omitempty"`
	OcrPages    []OcrPage   `json:"ocr_pages,omitempty"`

	PDFPath string `json:"pdf_path,omitempty"`
}

// NewDocument creates an empty document in the idle state.
func NewDocument(title string) *Document {
	if title == "" {
		title = "Untitled"
	}
	return &Document{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now(),
		OcrStatus: OcrStatusIdle,
	}
}

// AddPage appends a page image to the document.
func (d *Document) AddPage(uri string) {
	d.Pages = append(d.Pages, Page{URI: uri, Filter: "color"})
}

// Excerpt returns the first maxLen runes of the pages' full texts joined
// with newlines, for display in document lists.
func Excerpt(pages []OcrPage, maxLen int) string {
	texts := make([]string, 0, len(pages))
	for _, p := range pages {
		if p.FullText != "" {
			texts = append(texts, p.FullText)
		}
	}
	joined := strings.TrimSpace(strings.Join(texts, "\n"))
	runes := []rune(joined)
	if len(runes) <= maxLen {
		return joined
	}
	return string(runes[:maxLen])
}
