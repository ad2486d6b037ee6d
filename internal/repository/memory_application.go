package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/bjarke-xyz/startup-dashboard/internal/domain"
	"github.com/bjarke-xyz/startup-dashboard/internal/normalize"
)

type memoryAppRepository struct {
	docs []domain.Document
}

// NewMemoryApp serves a fixed set of documents. Documents without an _id get
// a random one.
func NewMemoryApp(docs []domain.Document) domain.ApplicationRepository {
	stored := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		copied := make(domain.Document, len(doc)+1)
		for k, v := range doc {
			copied[k] = v
		}
		if copied["_id"] == nil && copied["id"] == nil {
			copied["_id"] = uuid.NewString()
		}
		stored = append(stored, copied)
	}
	return &memoryAppRepository{docs: stored}
}

// LoadSeedFile reads a JSON or YAML array of raw documents.
func LoadSeedFile(path string) ([]domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read seed file: %w", domain.ErrStoreUnavailable, err)
	}
	var docs []domain.Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &docs)
	default:
		err = json.Unmarshal(data, &docs)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode seed file %v: %w", domain.ErrStoreUnavailable, path, err)
	}
	return docs, nil
}

// Find implements domain.ApplicationRepository.
func (m *memoryAppRepository) Find(ctx context.Context, search string) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreQuery, err)
	}
	search = strings.TrimSpace(search)
	docs := make([]domain.Document, 0, len(m.docs))
	for _, doc := range m.docs {
		if domain.MatchesSearch(normalize.Normalize(doc), search) {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// GetByID implements domain.ApplicationRepository.
func (m *memoryAppRepository) GetByID(ctx context.Context, id string) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreQuery, err)
	}
	for _, doc := range m.docs {
		if normalize.Normalize(doc).ID == id {
			return doc, nil
		}
	}
	return nil, domain.ErrNotFound
}
