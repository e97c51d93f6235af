package pagination

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qqtong-pm/mall/pkg/validator"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams(5)
	assert.Equal(t, 1, p.PageNum)
	assert.Equal(t, 5, p.PageSize)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/brand/list", nil)
	p, err := FromRequest(req, 5)

	require.NoError(t, err)
	assert.Equal(t, Params{PageNum: 1, PageSize: 5, Offset: 0}, p)
}

func TestFromRequest_CustomValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/brand/list?pageNum=3&pageSize=20", nil)
	p, err := FromRequest(req, 5)

	require.NoError(t, err)
	assert.Equal(t, 3, p.PageNum)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 40, p.Offset)
}

func TestFromRequest_MaxPageSizeAccepted(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/brand/list?pageSize=100", nil)
	p, err := FromRequest(req, 5)

	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, p.PageSize)
}

func TestFromRequest_LargestPageNum(t *testing.T) {
	last := math.MaxInt/5 + 1
	req := httptest.NewRequest(http.MethodGet, "/brand/list?pageSize=5&pageNum="+strconv.Itoa(last), nil)
	p, err := FromRequest(req, 5)

	require.NoError(t, err)
	assert.Equal(t, last, p.PageNum)
	assert.Equal(t, (last-1)*5, p.Offset)
	assert.Positive(t, p.Offset)
}

func TestFromRequest_Invalid(t *testing.T) {
	tests := []struct {
		query string
		field string
	}{
		{"pageNum=0", "pageNum"},
		{"pageNum=-2", "pageNum"},
		{"pageNum=abc", "pageNum"},
		{"pageSize=0", "pageSize"},
		{"pageSize=x", "pageSize"},
		{"pageSize=500", "pageSize"},
		{"pageNum=2305843009213693953&pageSize=5", "pageNum"},
		{"pageNum=9223372036854775807", "pageNum"},
		{"pageNum=99999999999999999999", "pageNum"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/brand/list?"+tt.query, nil)
			_, err := FromRequest(req, 5)

			var valErr *validator.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Contains(t, valErr.Fields(), tt.field)
		})
	}
}

func TestNewPage(t *testing.T) {
	page := NewPage([]string{"a", "b"}, 12, Params{PageNum: 2, PageSize: 5})

	assert.Equal(t, 2, page.PageNum)
	assert.Equal(t, 5, page.PageSize)
	assert.Equal(t, 3, page.TotalPage)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, []string{"a", "b"}, page.List)
}

func TestNewPage_ExactMultiple(t *testing.T) {
	page := NewPage([]int{1}, 10, Params{PageNum: 1, PageSize: 5})
	assert.Equal(t, 2, page.TotalPage)
}

func TestNewPage_NilList(t *testing.T) {
	page := NewPage[int](nil, 0, Params{PageNum: 1, PageSize: 5})
	assert.NotNil(t, page.List)
	assert.Empty(t, page.List)
	assert.Equal(t, 0, page.TotalPage)
}
