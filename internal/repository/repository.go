package repository

import (
	"context"

	"github.com/qqtong-pm/mall/internal/domain"
)

// BrandFilter defines filter criteria for a paged brand listing.
type BrandFilter struct {
	// Keyword matches brand names case-insensitively as a substring.
	Keyword string
	// ShowStatus, when set, keeps only brands with that visibility.
	ShowStatus *int
	Offset     int
	Limit      int
}

// BrandRepository defines brand persistence. Mutations report the number of
// rows they touched; a missing row is a count of 0, not an error.
type BrandRepository interface {
	// ListAll returns every brand ordered by sort descending.
	ListAll(ctx context.Context) ([]domain.Brand, error)

	// Create inserts b and sets b.ID.
	Create(ctx context.Context, b *domain.Brand) (int64, error)

	// Update overwrites the editable columns of the brand with b.ID.
	Update(ctx context.Context, b *domain.Brand) (int64, error)

	// Delete removes one brand.
	Delete(ctx context.Context, id int64) (int64, error)

	// DeleteBatch removes every brand whose id is in ids.
	DeleteBatch(ctx context.Context, ids []int64) (int64, error)

	// List returns one page of brands matching filter and the total match count.
	List(ctx context.Context, filter BrandFilter) ([]domain.Brand, int64, error)

	// GetByID returns the brand or an error wrapping errors.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Brand, error)

	// UpdateStatus sets field to value on every brand whose id is in ids.
	UpdateStatus(ctx context.Context, ids []int64, field domain.StatusField, value int) (int64, error)
}
