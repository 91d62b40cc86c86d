package domain

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrDocumentNotFound = errors.New("no saved data found for this user")
	ErrSampleNotFound   = errors.New("sample data file not found")
)

type DocumentID int64

// Document is the single per-user record. Content is stored and returned
// verbatim; its shape belongs to the client.
type Document struct {
	ID        DocumentID
	OwnerID   UserID
	Content   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaveResult reports whether an upsert inserted the owner's first document.
type SaveResult struct {
	Document *Document
	Created  bool
}
