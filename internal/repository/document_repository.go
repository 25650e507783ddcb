package repository

import (
	"context"

	"github.com/Masomatta/Afg-egov-portal/internal/domain"
)

// DocumentRepository stores upload metadata; the bytes live behind the
// storage locator.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	ListByRequest(ctx context.Context, requestID string) ([]domain.Document, error)
}

type documentRepository struct {
	q Querier
}

// NewDocumentRepository builds the repository.
func NewDocumentRepository(q Querier) DocumentRepository {
	return &documentRepository{q: q}
}

func (r *documentRepository) Create(ctx context.Context, doc *domain.Document) error {
	const query = `
        INSERT INTO documents (request_id, file_name, locator)
        VALUES ($1,$2,$3)
        RETURNING id, uploaded_at`
	return r.q.QueryRow(ctx, query,
		doc.RequestID,
		doc.FileName,
		doc.Locator,
	).Scan(&doc.ID, &doc.UploadedAt)
}

func (r *documentRepository) ListByRequest(ctx context.Context, requestID string) ([]domain.Document, error) {
	const query = `
        SELECT id, request_id, file_name, locator, uploaded_at
        FROM documents WHERE request_id=$1 ORDER BY uploaded_at DESC`
	rows, err := r.q.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Document
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(&doc.ID, &doc.RequestID, &doc.FileName, &doc.Locator, &doc.UploadedAt); err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	return result, rows.Err()
}
