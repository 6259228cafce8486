// Package store persists documents through an opaque key-value collaborator.
//
// The pipeline does not depend on the store's internal format: documents
// are JSON-encoded strings under per-document keys, plus a single index key
// listing the known document ids in creation order.
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"docscan/pkg/models"
)

// ErrNotFound is returned when a document id has no persisted record.
var ErrNotFound = errors.New("document not found")

const (
	indexKey     = "docs-index"
	docKeyPrefix = "doc:"
)

// KV is the minimal key-value contract the store needs: get and set of
// opaque strings.
type KV interface {
	// GetString returns the value for key and whether it exists.
	GetString(key string) (string, bool)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
}

// DocumentStore reads and writes documents over a KV collaborator.
type DocumentStore struct {
	kv KV
}

// NewDocumentStore creates a store over the given key-value backend.
func NewDocumentStore(kv KV) *DocumentStore {
	return &DocumentStore{kv: kv}
}

// LoadDocument returns the persisted document with the given id.
// It returns ErrNotFound when no record exists and a wrapped decode error
// when the record cannot be parsed.
func (s *DocumentStore) LoadDocument(id string) (*models.Document, error) {
	raw, ok := s.kv.GetString(docKeyPrefix + id)
	if !ok || raw == "" {
		return nil, fmt.Errorf("load document %s: %w", id, ErrNotFound)
	}

	var doc models.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("load document %s: decode: %w", id, err)
	}
	return &doc, nil
}

// SaveDocument persists the document and registers its id in the index.
func (s *DocumentStore) SaveDocument(doc *models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("save document %s: encode: %w", doc.ID, err)
	}
	if err := s.kv.Set(docKeyPrefix+doc.ID, string(data)); err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}

	ids := s.index()
	for _, id := range ids {
		if id == doc.ID {
			return nil
		}
	}
	return s.setIndex(append(ids, doc.ID))
}

// DeleteDocument removes the document's record and index entry. Deleting
// an unknown id is a no-op.
func (s *DocumentStore) DeleteDocument(id string) error {
	if err := s.kv.Set(docKeyPrefix+id, ""); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}

	ids := s.index()
	kept := ids[:0]
	for _, known := range ids {
		if known != id {
			kept = append(kept, known)
		}
	}
	return s.setIndex(kept)
}

// ListDocuments returns every indexed document in creation order. Index
// entries whose records are missing or corrupt are skipped.
func (s *DocumentStore) ListDocuments() []*models.Document {
	var docs []*models.Document
	for _, id := range s.index() {
		doc, err := s.LoadDocument(id)
		if err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

func (s *DocumentStore) index() []string {
	raw, ok := s.kv.GetString(indexKey)
	if !ok || raw == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil
	}
	return ids
}

func (s *DocumentStore) setIndex(ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if err := s.kv.Set(indexKey, string(data)); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	return nil
}
