package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qqtong-pm/mall/internal/domain"
	"github.com/qqtong-pm/mall/internal/repository"
	"github.com/qqtong-pm/mall/pkg/database"
	apperrors "github.com/qqtong-pm/mall/pkg/errors"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

func intPtr(n int) *int { return &n }

var brandCols = []string{
	"id", "name", "first_letter", "category", "sort", "factory_status", "show_status",
	"product_count", "product_comment_count", "logo", "big_pic", "brand_story",
}

var brandColsWithCount = append(append([]string{}, brandCols...), "total_count")

func sampleBrand() domain.Brand {
	return domain.Brand{
		ID:                  1,
		Name:                "Nike",
		FirstLetter:         "N",
		Category:            "shoes",
		Sort:                10,
		FactoryStatus:       1,
		ShowStatus:          1,
		ProductCount:        12,
		ProductCommentCount: 3,
		Logo:                "https://cdn.example.com/nike.png",
		BigPic:              "https://cdn.example.com/nike-big.png",
		BrandStory:          "Just do it.",
	}
}

func brandRow(b domain.Brand) []any {
	return []any{
		b.ID, b.Name, b.FirstLetter, b.Category, b.Sort, b.FactoryStatus, b.ShowStatus,
		b.ProductCount, b.ProductCommentCount, b.Logo, b.BigPic, b.BrandStory,
	}
}

func TestBrandRepository_ListAll(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewBrandRepository(mock)

	first := sampleBrand()
	second := sampleBrand()
	second.ID, second.Name, second.Sort = 2, "Adidas", 5

	mock.ExpectQuery("SELECT .+ FROM brands ORDER BY sort DESC").
		WillReturnRows(pgxmock.NewRows(brandCols).
			AddRow(brandRow(first)...).
			AddRow(brandRow(second)...))

	brands, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Brand{first, second}, brands)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_ListAll_EmptyIsNotNil(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewBrandRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM brands").
		WillReturnRows(pgxmock.NewRows(brandCols))

	brands, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, brands)
	assert.Empty(t, brands)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_ListAll_QueryError(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewBrandRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM brands").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.ListAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list brands")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_Create(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewBrandRepository(mock)

	b := sampleBrand()
	b.ID = 0

	mock.ExpectQuery("INSERT INTO brands").
		WithArgs(
			b.Name, b.FirstLetter, b.Category, b.Sort, b.FactoryStatus, b.ShowStatus,
			b.ProductCount, b.ProductCommentCount, b.Logo, b.BigPic, b.BrandStory,
		).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	count, err := repo.Create(context.Background(), &b)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, int64(42), b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_Create_UniqueViolation(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewBrandRepository(mock)

	b := sampleBrand()
	mock.ExpectQuery("INSERT INTO brands").
		WithArgs(
			b.Name, b.FirstLetter, b.Category, b.Sort, b.FactoryStatus, b.ShowStatus,
			b.ProductCount, b.ProductCommentCount, b.Logo, b.BigPic, b.BrandStory,
		).
		WillReturnError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	count, err := repo.Create(context.Background(), &b)
	require.Error(t, err)
	assert.Zero(t, count)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_Update(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewBrandRepository(mock)

	b := sampleBrand()
	mock.ExpectExec("UPDATE brands SET name").
		WithArgs(
			b.Name, b.FirstLetter, b.Category, b.Sort, b.FactoryStatus,
			b.ShowStatus, b.Logo, b.BigPic, b.BrandStory, b.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	count, err := repo.Update(context.Background(), &b)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_Update_Missing(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewBrandRepository(mock)

	b := sampleBrand()
	b.ID = 999
	mock.ExpectExec("UPDATE brands").
		WithArgs(
			b.Name, b.FirstLetter, b.Category, b.Sort, b.FactoryStatus,
			b.ShowStatus, b.Logo, b.BigPic, b.BrandStory, b.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	count, err := repo.Update(context.Background(), &b)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_Update_UniqueViolation(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewBrandRepository(mock)

	b := sampleBrand()
	mock.ExpectExec("UPDATE brands").
		WithArgs(
			b.Name, b.FirstLetter, b.Category, b.Sort, b.FactoryStatus,
			b.ShowStatus, b.Logo, b.BigPic, b.BrandStory, b.ID,
		).
		WillReturnError(errors.New("SQLSTATE 23505"))

	_, err := repo.Update(context.Background(), &b)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_Delete(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewBrandRepository(mock)

	mock.ExpectExec("DELETE FROM brands WHERE id =").
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	count, err := repo.Delete(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_Delete_Error(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewBrandRepository(mock)

	mock.ExpectExec("DELETE FROM brands").
		WithArgs(int64(7)).
		WillReturnError(errors.New("boom"))

	_, err := repo.Delete(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete brand")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_DeleteBatch(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewBrandRepository(mock)

	ids := []int64{1, 2, 3}
	mock.ExpectExec("DELETE FROM brands WHERE id = ANY").
		WithArgs(ids).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	count, err := repo.DeleteBatch(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_List_NoFilters(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewBrandRepository(mock)

	b := sampleBrand()
	mock.ExpectQuery("SELECT .+ FROM brands ORDER BY sort DESC, id DESC LIMIT").
		WithArgs(5, 0).
		WillReturnRows(pgxmock.NewRows(brandColsWithCount).
			AddRow(append(brandRow(b), int64(11))...))

	brands, total, err := repo.List(context.Background(), repository.BrandFilter{Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	assert.Equal(t, []domain.Brand{b}, brands)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_List_WithFilters(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewBrandRepository(mock)

	b := sampleBrand()
	mock.ExpectQuery("SELECT .+ FROM brands WHERE name ILIKE .+ AND show_status = ").
		WithArgs("%ni\\_ke%", 1, 10, 20).
		WillReturnRows(pgxmock.NewRows(brandColsWithCount).
			AddRow(append(brandRow(b), int64(21))...))

	brands, total, err := repo.List(context.Background(), repository.BrandFilter{
		Keyword:    "ni_ke",
		ShowStatus: intPtr(1),
		Offset:     20,
		Limit:      10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(21), total)
	assert.Len(t, brands, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_List_PastLastPageCountsSeparately(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewBrandRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM brands WHERE show_status").
		WithArgs(0, 5, 50).
		WillReturnRows(pgxmock.NewRows(brandColsWithCount))
	mock.ExpectQuery("SELECT count.+ FROM brands WHERE show_status").
		WithArgs(0).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(8)))

	brands, total, err := repo.List(context.Background(), repository.BrandFilter{
		ShowStatus: intPtr(0),
		Offset:     50,
		Limit:      5,
	})
	require.NoError(t, err)
	assert.Empty(t, brands)
	assert.NotNil(t, brands)
	assert.Equal(t, int64(8), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_GetByID(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewBrandRepository(mock)

	b := sampleBrand()
	mock.ExpectQuery("SELECT .+ FROM brands WHERE id").
		WithArgs(b.ID).
		WillReturnRows(pgxmock.NewRows(brandCols).AddRow(brandRow(b)...))

	got, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, &b, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewBrandRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM brands WHERE id").
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), 404)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_UpdateStatus(t *testing.T) {
	tests := []struct {
		field  domain.StatusField
		column string
	}{
		{domain.StatusFieldShow, "show_status"},
		{domain.StatusFieldFactory, "factory_status"},
	}

	for _, tc := range tests {
		t.Run(tc.column, func(t *testing.T) {
			mock := newMock(t)
			defer mock.Close()
			repo := NewBrandRepository(mock)

			ids := []int64{1, 2}
			mock.ExpectExec("UPDATE brands SET "+tc.column+" = ").
				WithArgs(0, ids).
				WillReturnResult(pgxmock.NewResult("UPDATE", 2))

			count, err := repo.UpdateStatus(context.Background(), ids, tc.field, 0)
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBrandRepository_UpdateStatus_UnknownField(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewBrandRepository(mock)

	_, err := repo.UpdateStatus(context.Background(), []int64{1}, domain.StatusField("name"), 1)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c\\d`, escapeLike(`c\d`))
}
