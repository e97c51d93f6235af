package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qqtong-pm/mall/internal/domain"
	apperrors "github.com/qqtong-pm/mall/pkg/errors"
	"github.com/qqtong-pm/mall/pkg/validator"
)

type fakeCreator struct {
	existing map[string]bool
	fail     string
	names    []string
}

func (f *fakeCreator) CreateBrand(_ context.Context, p domain.BrandParam) (int64, error) {
	if p.Name == f.fail {
		return 0, errors.New("db down")
	}
	if f.existing[p.Name] {
		return 0, apperrors.AlreadyExists("brand", "name", p.Name)
	}
	f.names = append(f.names, p.Name)
	return 1, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSeedBrands_SkipsExisting(t *testing.T) {
	fc := &fakeCreator{existing: map[string]bool{"Apple": true}}

	created, skipped, err := seedBrands(context.Background(), fc, sampleBrands, discard())
	require.NoError(t, err)
	assert.Equal(t, len(sampleBrands)-1, created)
	assert.Equal(t, 1, skipped)
	assert.NotContains(t, fc.names, "Apple")
}

func TestSeedBrands_StopsOnError(t *testing.T) {
	fc := &fakeCreator{fail: "Adidas"}

	created, _, err := seedBrands(context.Background(), fc, sampleBrands, discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `seed brand "Adidas"`)
	assert.Equal(t, 1, created)
}

func TestSampleBrands_AreValid(t *testing.T) {
	for _, p := range sampleBrands {
		assert.NoError(t, validator.Validate(p), p.Name)
	}
}
