package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"docscan/internal/store"
	"docscan/pkg/models"
)

func TestDocumentStore_SaveAndLoad(t *testing.T) {
	s := store.NewDocumentStore(store.NewMemoryKV())

	doc := models.NewDocument("Receipt")
	doc.AddPage("/docs/p1.jpg")
	doc.OcrStatus = models.OcrStatusDone
	doc.OcrPages = []models.OcrPage{{
		FullText:    "Total 12.50",
		Words:       []models.OcrWord{{Text: "Total", X: 50, Y: 70, Width: 120, Height: 30, Confidence: 0.9}},
		ImageWidth:  1000,
		ImageHeight: 1400,
	}}

	require.NoError(t, s.SaveDocument(doc))

	loaded, err := s.LoadDocument(doc.ID)
	require.NoError(t, err)
	require.Equal(t, doc.ID, loaded.ID)
	require.Equal(t, doc.Title, loaded.Title)
	require.Equal(t, doc.OcrStatus, loaded.OcrStatus)
	require.Equal(t, doc.OcrPages, loaded.OcrPages)
}

func TestDocumentStore_LoadMissingIsNotFound(t *testing.T) {
	s := store.NewDocumentStore(store.NewMemoryKV())

	_, err := s.LoadDocument("no-such-id")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDocumentStore_LoadCorruptRecordFails(t *testing.T) {
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set("doc:broken", "{not json"))

	s := store.NewDocumentStore(kv)
	_, err := s.LoadDocument("broken")
	require.Error(t, err)
	require.NotErrorIs(t, err, store.ErrNotFound)
}

func TestDocumentStore_ListKeepsCreationOrder(t *testing.T) {
	s := store.NewDocumentStore(store.NewMemoryKV())

	first := models.NewDocument("first")
	second := models.NewDocument("second")
	require.NoError(t, s.SaveDocument(first))
	require.NoError(t, s.SaveDocument(second))

	// Re-saving must not duplicate the index entry.
	require.NoError(t, s.SaveDocument(first))

	docs := s.ListDocuments()
	require.Len(t, docs, 2)
	require.Equal(t, first.ID, docs[0].ID)
	require.Equal(t, second.ID, docs[1].ID)
}

func TestDocumentStore_Delete(t *testing.T) {
	s := store.NewDocumentStore(store.NewMemoryKV())

	doc := models.NewDocument("gone soon")
	require.NoError(t, s.SaveDocument(doc))
	require.NoError(t, s.DeleteDocument(doc.ID))

	_, err := s.LoadDocument(doc.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.Empty(t, s.ListDocuments())

	// Deleting an unknown id is a no-op.
	require.NoError(t, s.DeleteDocument("never-existed"))
}

func TestFileKV_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	kv, err := store.OpenFileKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set("doc:1", `{"id":"1"}`))
	require.NoError(t, kv.Set("docs-index", `["1"]`))

	reopened, err := store.OpenFileKV(path)
	require.NoError(t, err)

	v, ok := reopened.GetString("doc:1")
	require.True(t, ok)
	require.Equal(t, `{"id":"1"}`, v)

	_, ok = reopened.GetString("missing")
	require.False(t, ok)
}

func TestFileKV_CorruptFileFailsToOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	kv, err := store.OpenFileKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set("k", "v"))

	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0o644))
	_, err = store.OpenFileKV(path)
	require.Error(t, err)
}
