package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/sections-api/internal/domain"
	"github.com/jackc/pgx/v5"
)

type DocumentRepository struct {
	db DB
}

func NewDocumentRepository(db DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Upsert stores content as the owner's only document in a single statement.
// xmax is zero only on a freshly inserted tuple, which tells us whether the
// row was created or replaced.
func (r *DocumentRepository) Upsert(ctx context.Context, ownerID domain.UserID, content json.RawMessage) (domain.SaveResult, error) {
	query := `
		INSERT INTO section_data (user_id, data)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET data = EXCLUDED.data, updated_at = NOW()
		RETURNING id, user_id, data, created_at, updated_at, (xmax = 0) AS inserted`

	var res domain.SaveResult
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		var d domain.Document
		err := tx.QueryRow(ctx, query, int64(ownerID), []byte(content)).
			Scan(&d.ID, &d.OwnerID, &d.Content, &d.CreatedAt, &d.UpdatedAt, &res.Created)
		if err != nil {
			return fmt.Errorf("scan document: %w", err)
		}
		res.Document = &d
		return nil
	})
	if err != nil {
		return domain.SaveResult{}, fmt.Errorf("upsert document: %w", err)
	}
	return res, nil
}

func (r *DocumentRepository) GetByOwner(ctx context.Context, ownerID domain.UserID) (*domain.Document, error) {
	query := `SELECT id, user_id, data, created_at, updated_at FROM section_data WHERE user_id = $1`

	var d domain.Document
	err := r.db.QueryRow(ctx, query, int64(ownerID)).
		Scan(&d.ID, &d.OwnerID, &d.Content, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &d, nil
}
