package models_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"docscan/pkg/models"
)

func TestNewDocument(t *testing.T) {
	doc := models.NewDocument("Invoice March")
	require.NotEmpty(t, doc.ID)
	require.Equal(t, "Invoice March", doc.Title)
	require.Equal(t, models.OcrStatusIdle, doc.OcrStatus)
	require.Empty(t, doc.Pages)
	require.Empty(t, doc.OcrPages)

	untitled := models.NewDocument("")
	require.Equal(t, "Untitled", untitled.Title)
	require.NotEqual(t, doc.ID, untitled.ID)
}

func TestExcerpt_JoinsPagesAndSkipsEmpty(t *testing.T) {
	pages := []models.OcrPage{
		{FullText: "first page"},
		{FullText: ""},
		{FullText: "third page"},
	}

	require.Equal(t, "first page\nthird page", models.Excerpt(pages, models.ExcerptLength))
}

func TestExcerpt_TruncatesToLimit(t *testing.T) {
	long := strings.Repeat("ä", 500)
	pages := []models.OcrPage{{FullText: long}}

	excerpt := models.Excerpt(pages, models.ExcerptLength)
	require.Len(t, []rune(excerpt), models.ExcerptLength)
	require.True(t, strings.HasPrefix(long, excerpt))
}

func TestExcerpt_Empty(t *testing.T) {
	require.Empty(t, models.Excerpt(nil, models.ExcerptLength))
	require.Empty(t, models.Excerpt([]models.OcrPage{{FullText: "  "}}, models.ExcerptLength))
}
