package repository

import (
	"context"
	"encoding/json"

	"github.com/ErlanBelekov/sections-api/internal/domain"
)

type DocumentRepository interface {
	// Upsert stores content as the owner's only document, creating it on the
	// first call and replacing it afterwards. Must be atomic per owner.
	Upsert(ctx context.Context, ownerID domain.UserID, content json.RawMessage) (domain.SaveResult, error)

	// GetByOwner returns domain.ErrDocumentNotFound when nothing was saved yet.
	GetByOwner(ctx context.Context, ownerID domain.UserID) (*domain.Document, error)
}
