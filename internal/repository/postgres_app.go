package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bjarke-xyz/startup-dashboard/internal/domain"
)

type postgresAppRepository struct {
	conn Connection
}

// NewPostgresApp reads applications stored as JSONB documents in the
// applications table.
func NewPostgresApp(conn Connection) domain.ApplicationRepository {
	return &postgresAppRepository{conn: conn}
}

type applicationDto struct {
	ID  string
	Doc map[string]any
}

func (dto applicationDto) document() domain.Document {
	doc := domain.Document(dto.Doc)
	if doc == nil {
		doc = domain.Document{}
	}
	if doc["_id"] == nil {
		doc["_id"] = dto.ID
	}
	return doc
}

// searchQuery builds the select for Find. The search text is always a bind
// parameter; only the fixed store keys are interpolated.
func searchQuery(search string) (string, []any) {
	query := "SELECT id, doc FROM applications"
	if search == "" {
		return query, nil
	}
	conds := make([]string, 0, len(domain.SearchFields))
	for _, key := range domain.SearchStoreKeys() {
		conds = append(conds, fmt.Sprintf("strpos(lower(doc->>'%s'), lower($1)) > 0", key))
	}
	return query + " WHERE " + strings.Join(conds, " OR "), []any{search}
}

// Find implements domain.ApplicationRepository.
func (p *postgresAppRepository) Find(ctx context.Context, search string) ([]domain.Document, error) {
	dtos := make([]applicationDto, 0)
	query, args := searchQuery(strings.TrimSpace(search))
	err := pgxscan.Select(ctx, p.conn, &dtos, query, args...)
	if err != nil {
		return nil, classifyPostgresError(err)
	}
	docs := make([]domain.Document, 0, len(dtos))
	for _, dto := range dtos {
		docs = append(docs, dto.document())
	}
	return docs, nil
}

// GetByID implements domain.ApplicationRepository.
func (p *postgresAppRepository) GetByID(ctx context.Context, id string) (domain.Document, error) {
	var dto applicationDto
	err := pgxscan.Get(ctx, p.conn, &dto, "SELECT id, doc FROM applications WHERE id = $1", id)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, classifyPostgresError(err)
	}
	return dto.document(), nil
}

func classifyPostgresError(err error) error {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreQuery, err)
}
