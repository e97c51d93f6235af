package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/qqtong-pm/mall/internal/domain"
	"github.com/qqtong-pm/mall/internal/repository"
	apperrors "github.com/qqtong-pm/mall/pkg/errors"
	"github.com/qqtong-pm/mall/pkg/pagination"
)

// EventPublisher publishes brand domain events. *event.Producer implements it.
type EventPublisher interface {
	PublishBrandCreated(ctx context.Context, b *domain.Brand) error
	PublishBrandUpdated(ctx context.Context, b *domain.Brand) error
	PublishBrandsDeleted(ctx context.Context, ids []int64) error
	PublishBrandStatusChanged(ctx context.Context, ids []int64, field domain.StatusField, value int) error
}

// BrandService implements the business logic for brand operations. Every
// mutation reports the number of brands it changed.
type BrandService struct {
	repo     repository.BrandRepository
	producer EventPublisher
	logger   *slog.Logger
}

// NewBrandService creates a new brand service.
func NewBrandService(repo repository.BrandRepository, producer EventPublisher, logger *slog.Logger) *BrandService {
	return &BrandService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// ListAllBrand returns every brand.
func (s *BrandService) ListAllBrand(ctx context.Context) ([]domain.Brand, error) {
	brands, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all brands: %w", err)
	}
	return brands, nil
}

// CreateBrand stores a new brand built from param.
func (s *BrandService) CreateBrand(ctx context.Context, param domain.BrandParam) (int64, error) {
	param.Normalize()

	var brand domain.Brand
	param.Apply(&brand)

	count, err := s.repo.Create(ctx, &brand)
	if err != nil {
		return 0, fmt.Errorf("create brand: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	if err := s.producer.PublishBrandCreated(ctx, &brand); err != nil {
		s.publishFailed(ctx, "brand.created", err)
	}

	s.logger.InfoContext(ctx, "brand created",
		slog.Int64("brand_id", brand.ID),
		slog.String("name", brand.Name),
	)

	return count, nil
}

// UpdateBrand overwrites the brand with the given id.
func (s *BrandService) UpdateBrand(ctx context.Context, id int64, param domain.BrandParam) (int64, error) {
	param.Normalize()

	brand := domain.Brand{ID: id}
	param.Apply(&brand)

	count, err := s.repo.Update(ctx, &brand)
	if err != nil {
		return 0, fmt.Errorf("update brand: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	if err := s.producer.PublishBrandUpdated(ctx, &brand); err != nil {
		s.publishFailed(ctx, "brand.updated", err)
	}

	s.logger.InfoContext(ctx, "brand updated", slog.Int64("brand_id", id))

	return count, nil
}

// DeleteBrand removes one brand.
func (s *BrandService) DeleteBrand(ctx context.Context, id int64) (int64, error) {
	count, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete brand: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	if err := s.producer.PublishBrandsDeleted(ctx, []int64{id}); err != nil {
		s.publishFailed(ctx, "brand.deleted", err)
	}

	s.logger.InfoContext(ctx, "brand deleted", slog.Int64("brand_id", id))

	return count, nil
}

// DeleteBrands removes every listed brand. An empty list deletes nothing.
func (s *BrandService) DeleteBrands(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	count, err := s.repo.DeleteBatch(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete brands: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	if err := s.producer.PublishBrandsDeleted(ctx, ids); err != nil {
		s.publishFailed(ctx, "brand.deleted", err)
	}

	s.logger.InfoContext(ctx, "brands deleted",
		slog.Int("requested", len(ids)),
		slog.Int64("deleted", count),
	)

	return count, nil
}

// ListBrand returns one page of brands whose name contains keyword and, when
// showStatus is set, whose visibility matches it.
func (s *BrandService) ListBrand(ctx context.Context, keyword string, showStatus *int, page pagination.Params) ([]domain.Brand, int64, error) {
	brands, total, err := s.repo.List(ctx, repository.BrandFilter{
		Keyword:    keyword,
		ShowStatus: showStatus,
		Offset:     page.Offset,
		Limit:      page.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list brands: %w", err)
	}
	return brands, total, nil
}

// GetBrand returns the brand with the given id, or nil when it does not exist.
func (s *BrandService) GetBrand(ctx context.Context, id int64) (*domain.Brand, error) {
	brand, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get brand by id: %w", err)
	}
	return brand, nil
}

// UpdateShowStatus sets the visibility of every listed brand.
func (s *BrandService) UpdateShowStatus(ctx context.Context, ids []int64, showStatus int) (int64, error) {
	return s.updateStatus(ctx, ids, domain.StatusFieldShow, showStatus)
}

// UpdateFactoryStatus sets the manufacturer flag of every listed brand.
func (s *BrandService) UpdateFactoryStatus(ctx context.Context, ids []int64, factoryStatus int) (int64, error) {
	return s.updateStatus(ctx, ids, domain.StatusFieldFactory, factoryStatus)
}

func (s *BrandService) updateStatus(ctx context.Context, ids []int64, field domain.StatusField, value int) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	count, err := s.repo.UpdateStatus(ctx, ids, field, value)
	if err != nil {
		return 0, fmt.Errorf("update brand %s: %w", field, err)
	}
	if count == 0 {
		return 0, nil
	}

	if err := s.producer.PublishBrandStatusChanged(ctx, ids, field, value); err != nil {
		s.publishFailed(ctx, "brand.status_changed", err)
	}

	s.logger.InfoContext(ctx, "brand status updated",
		slog.String("field", string(field)),
		slog.Int("value", value),
		slog.Int64("updated", count),
	)

	return count, nil
}

// publishFailed logs a failed event publish. The write it describes has
// already been committed, so the caller still reports success.
func (s *BrandService) publishFailed(ctx context.Context, eventType string, err error) {
	s.logger.ErrorContext(ctx, "failed to publish "+eventType+" event",
		slog.String("error", err.Error()),
	)
}
