package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/qqtong-pm/mall/internal/domain"
	"github.com/qqtong-pm/mall/internal/repository"
	"github.com/qqtong-pm/mall/pkg/database"
	apperrors "github.com/qqtong-pm/mall/pkg/errors"
)

const brandColumns = `id, name, first_letter, category, sort, factory_status, show_status,
		product_count, product_comment_count, logo, big_pic, brand_story`

// BrandRepository implements brand persistence operations using PostgreSQL.
type BrandRepository struct {
	db database.DBTX
}

// NewBrandRepository creates a new PostgreSQL-backed brand repository.
func NewBrandRepository(db database.DBTX) *BrandRepository {
	return &BrandRepository{db: db}
}

var _ repository.BrandRepository = (*BrandRepository)(nil)

// ListAll returns all brands ordered by sort descending.
func (r *BrandRepository) ListAll(ctx context.Context) (_ []domain.Brand, err error) {
	query := `SELECT ` + brandColumns + `
		FROM brands
		ORDER BY sort DESC, id DESC`

	ctx, end := database.TraceQuery(ctx, "brand.ListAll", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	brands := []domain.Brand{}
	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(brandDest(&b)...); err != nil {
			return nil, fmt.Errorf("scan brand row: %w", err)
		}
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brand rows: %w", err)
	}

	return brands, nil
}

// Create inserts a new brand and stores the generated id on b.
func (r *BrandRepository) Create(ctx context.Context, b *domain.Brand) (_ int64, err error) {
	query := `
		INSERT INTO brands (name, first_letter, category, sort, factory_status, show_status,
			product_count, product_comment_count, logo, big_pic, brand_story)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	ctx, end := database.TraceQuery(ctx, "brand.Create", query)
	defer func() { end(err) }()

	err = r.db.QueryRow(ctx, query,
		b.Name, b.FirstLetter, b.Category, b.Sort, b.FactoryStatus, b.ShowStatus,
		b.ProductCount, b.ProductCommentCount, b.Logo, b.BigPic, b.BrandStory,
	).Scan(&b.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.AlreadyExists("brand", "name", b.Name)
		}
		return 0, fmt.Errorf("insert brand: %w", err)
	}

	return 1, nil
}

// Update overwrites the editable columns of the brand identified by b.ID.
// The product counters are owned by the product side and never written here.
func (r *BrandRepository) Update(ctx context.Context, b *domain.Brand) (_ int64, err error) {
	query := `
		UPDATE brands
		SET name = $1, first_letter = $2, category = $3, sort = $4, factory_status = $5,
			show_status = $6, logo = $7, big_pic = $8, brand_story = $9, updated_at = NOW()
		WHERE id = $10`

	ctx, end := database.TraceQuery(ctx, "brand.Update", query)
	defer func() { end(err) }()

	tag, err := r.db.Exec(ctx, query,
		b.Name, b.FirstLetter, b.Category, b.Sort, b.FactoryStatus,
		b.ShowStatus, b.Logo, b.BigPic, b.BrandStory, b.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.AlreadyExists("brand", "name", b.Name)
		}
		return 0, fmt.Errorf("update brand: %w", err)
	}

	return tag.RowsAffected(), nil
}

// Delete removes a brand by id.
func (r *BrandRepository) Delete(ctx context.Context, id int64) (_ int64, err error) {
	query := `DELETE FROM brands WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "brand.Delete", query)
	defer func() { end(err) }()

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete brand: %w", err)
	}

	return tag.RowsAffected(), nil
}

// DeleteBatch removes every brand whose id is listed.
func (r *BrandRepository) DeleteBatch(ctx context.Context, ids []int64) (_ int64, err error) {
	query := `DELETE FROM brands WHERE id = ANY($1)`

	ctx, end := database.TraceQuery(ctx, "brand.DeleteBatch", query)
	defer func() { end(err) }()

	tag, err := r.db.Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("delete brands: %w", err)
	}

	return tag.RowsAffected(), nil
}

// List returns a page of brands matching filter together with the total count.
func (r *BrandRepository) List(ctx context.Context, filter repository.BrandFilter) (_ []domain.Brand, _ int64, err error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Keyword != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIndex))
		args = append(args, "%"+escapeLike(filter.Keyword)+"%")
		argIndex++
	}

	if filter.ShowStatus != nil {
		conditions = append(conditions, fmt.Sprintf("show_status = $%d", argIndex))
		args = append(args, *filter.ShowStatus)
		argIndex++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s,
			   count(*) OVER() AS total_count
		FROM brands
		%s
		ORDER BY sort DESC, id DESC
		LIMIT $%d OFFSET $%d`, brandColumns, where, argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	ctx, end := database.TraceQuery(ctx, "brand.List", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	var total int64
	brands := []domain.Brand{}
	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(append(brandDest(&b), &total)...); err != nil {
			return nil, 0, fmt.Errorf("scan brand row: %w", err)
		}
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate brand rows: %w", err)
	}

	// An offset past the last row yields no rows and therefore no window total.
	if len(brands) == 0 && filter.Offset > 0 {
		total, err = r.count(ctx, where, args[:len(args)-2])
		if err != nil {
			return nil, 0, err
		}
	}

	return brands, total, nil
}

func (r *BrandRepository) count(ctx context.Context, where string, args []any) (int64, error) {
	var total int64
	query := `SELECT count(*) FROM brands ` + where
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count brands: %w", err)
	}
	return total, nil
}

// GetByID retrieves a brand by its id.
func (r *BrandRepository) GetByID(ctx context.Context, id int64) (_ *domain.Brand, err error) {
	query := `SELECT ` + brandColumns + `
		FROM brands
		WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "brand.GetByID", query)
	defer func() {
		if errors.Is(err, apperrors.ErrNotFound) {
			end(nil)
			return
		}
		end(err)
	}()

	var b domain.Brand
	if err := r.db.QueryRow(ctx, query, id).Scan(brandDest(&b)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("brand", id)
		}
		return nil, fmt.Errorf("get brand by id: %w", err)
	}

	return &b, nil
}

// UpdateStatus sets one of the 0/1 status columns on every listed brand.
func (r *BrandRepository) UpdateStatus(ctx context.Context, ids []int64, field domain.StatusField, value int) (_ int64, err error) {
	if !field.Valid() {
		return 0, apperrors.InvalidInput(fmt.Sprintf("unknown status field %q", field))
	}

	query := fmt.Sprintf(`UPDATE brands SET %s = $1, updated_at = NOW() WHERE id = ANY($2)`, field)

	ctx, end := database.TraceQuery(ctx, "brand.UpdateStatus", query)
	defer func() { end(err) }()

	tag, err := r.db.Exec(ctx, query, value, ids)
	if err != nil {
		return 0, fmt.Errorf("update brand %s: %w", field, err)
	}

	return tag.RowsAffected(), nil
}

func brandDest(b *domain.Brand) []any {
	return []any{
		&b.ID, &b.Name, &b.FirstLetter, &b.Category, &b.Sort, &b.FactoryStatus, &b.ShowStatus,
		&b.ProductCount, &b.ProductCommentCount, &b.Logo, &b.BigPic, &b.BrandStory,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes a user keyword match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
