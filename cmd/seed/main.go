// Command seed populates the brands table with a fixed set of sample brands.
// It is idempotent: brands whose name already exists are skipped.
//
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/qqtong-pm/mall/internal/config"
	"github.com/qqtong-pm/mall/internal/domain"
	"github.com/qqtong-pm/mall/internal/repository/postgres"
	"github.com/qqtong-pm/mall/internal/service"
	"github.com/qqtong-pm/mall/migrations"
	"github.com/qqtong-pm/mall/pkg/database"
	apperrors "github.com/qqtong-pm/mall/pkg/errors"
	"github.com/qqtong-pm/mall/pkg/logger"
)

var sampleBrands = []domain.BrandParam{
	{Name: "Nike", Category: "sportswear", Sort: 100, FactoryStatus: 1, ShowStatus: 1, Logo: "https://cdn.example.com/brands/nike.png", BrandStory: "Just do it."},
	{Name: "Adidas", Category: "sportswear", Sort: 90, FactoryStatus: 1, ShowStatus: 1, Logo: "https://cdn.example.com/brands/adidas.png"},
	{Name: "Apple", Category: "electronics", Sort: 80, FactoryStatus: 1, ShowStatus: 1, Logo: "https://cdn.example.com/brands/apple.png"},
	{Name: "Huawei", Category: "electronics", Sort: 70, FactoryStatus: 1, ShowStatus: 1, Logo: "https://cdn.example.com/brands/huawei.png"},
	{Name: "Xiaomi", Category: "electronics", Sort: 60, FactoryStatus: 1, ShowStatus: 1, Logo: "https://cdn.example.com/brands/xiaomi.png"},
	{Name: "Uniqlo", Category: "apparel", Sort: 50, ShowStatus: 1, Logo: "https://cdn.example.com/brands/uniqlo.png"},
	{Name: "Muji", Category: "home", Sort: 40, ShowStatus: 1, Logo: "https://cdn.example.com/brands/muji.png"},
	{Name: "Lego", Category: "toys", Sort: 30, FactoryStatus: 1, Logo: "https://cdn.example.com/brands/lego.png"},
}

// brandCreator is the part of the brand service the seeder needs.
type brandCreator interface {
	CreateBrand(ctx context.Context, param domain.BrandParam) (int64, error)
}

// nopPublisher drops events; seeding is not a user action worth announcing.
type nopPublisher struct{}

func (nopPublisher) PublishBrandCreated(context.Context, *domain.Brand) error { return nil }
func (nopPublisher) PublishBrandUpdated(context.Context, *domain.Brand) error { return nil }
func (nopPublisher) PublishBrandsDeleted(context.Context, []int64) error      { return nil }
func (nopPublisher) PublishBrandStatusChanged(context.Context, []int64, domain.StatusField, int) error {
	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Options{Service: "brand-seed", Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, ".", log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	svc := service.NewBrandService(postgres.NewBrandRepository(pool), nopPublisher{}, log)

	created, skipped, err := seedBrands(ctx, svc, sampleBrands, log)
	if err != nil {
		return err
	}

	log.Info("seed complete", slog.Int("created", created), slog.Int("skipped", skipped))
	return nil
}

// seedBrands creates every brand in params, skipping names that already exist.
func seedBrands(ctx context.Context, store brandCreator, params []domain.BrandParam, log *slog.Logger) (created, skipped int, err error) {
	for _, p := range params {
		count, err := store.CreateBrand(ctx, p)
		switch {
		case errors.Is(err, apperrors.ErrAlreadyExists):
			skipped++
			log.Debug("brand exists", slog.String("name", p.Name))
		case err != nil:
			return created, skipped, fmt.Errorf("seed brand %q: %w", p.Name, err)
		case count == 1:
			created++
			log.Info("brand seeded", slog.String("name", p.Name))
		}
	}
	return created, skipped, nil
}
