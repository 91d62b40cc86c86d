package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ErlanBelekov/sections-api/internal/domain"
	"github.com/ErlanBelekov/sections-api/internal/metrics"
	"github.com/ErlanBelekov/sections-api/internal/repository"
)

type sampleSource interface {
	Load(ctx context.Context) (json.RawMessage, error)
}

type DocumentUsecase struct {
	repo    repository.DocumentRepository
	samples sampleSource
}

func NewDocumentUsecase(repo repository.DocumentRepository, samples sampleSource) *DocumentUsecase {
	return &DocumentUsecase{repo: repo, samples: samples}
}

// Save makes content the owner's current document.
func (u *DocumentUsecase) Save(ctx context.Context, owner *domain.User, content json.RawMessage) (domain.SaveResult, error) {
	res, err := u.repo.Upsert(ctx, owner.ID, content)
	if err != nil {
		return domain.SaveResult{}, fmt.Errorf("save document: %w", err)
	}

	outcome := "updated"
	if res.Created {
		outcome = "created"
	}
	metrics.DocumentSavesTotal.WithLabelValues(outcome).Inc()
	metrics.DocumentSizeBytes.Observe(float64(len(content)))
	return res, nil
}

func (u *DocumentUsecase) Get(ctx context.Context, owner *domain.User) (*domain.Document, error) {
	doc, err := u.repo.GetByOwner(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Sample returns the bundled example document. Returns domain.ErrSampleNotFound
// when the sample file is absent.
func (u *DocumentUsecase) Sample(ctx context.Context) (json.RawMessage, error) {
	data, err := u.samples.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sample: %w", err)
	}
	return data, nil
}
