package pagination

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/qqtong-pm/mall/pkg/validator"
)

// MaxPageSize is the largest pageSize a client may request.
const MaxPageSize = 100

// Params holds pagination parameters extracted from query strings.
type Params struct {
	PageNum  int `json:"pageNum"`
	PageSize int `json:"pageSize"`
	Offset   int `json:"-"`
}

// DefaultParams returns page 1 with the given page size.
func DefaultParams(pageSize int) Params {
	return Params{PageNum: 1, PageSize: pageSize}
}

// FromRequest reads pageNum and pageSize from the query string. Missing
// values take the defaults. Non-numeric or non-positive values, a pageSize
// above MaxPageSize and a pageNum whose offset overflows int are rejected
// with a *validator.ValidationError.
func FromRequest(r *http.Request, defaultPageSize int) (Params, error) {
	p := DefaultParams(defaultPageSize)
	q := r.URL.Query()

	if raw := q.Get("pageNum"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return Params{}, validator.NewFieldError("pageNum", "must be a positive integer")
		}
		p.PageNum = v
	}

	if raw := q.Get("pageSize"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return Params{}, validator.NewFieldError("pageSize", "must be a positive integer")
		}
		if v > MaxPageSize {
			return Params{}, validator.NewFieldError("pageSize", fmt.Sprintf("must not exceed %d", MaxPageSize))
		}
		p.PageSize = v
	}

	if p.PageSize > 0 && p.PageNum-1 > math.MaxInt/p.PageSize {
		return Params{}, validator.NewFieldError("pageNum", "is too large")
	}

	p.Offset = (p.PageNum - 1) * p.PageSize
	return p, nil
}

// Page is one page of a listing together with the totals needed to render a pager.
type Page[T any] struct {
	PageNum   int   `json:"pageNum"`
	PageSize  int   `json:"pageSize"`
	TotalPage int   `json:"totalPage"`
	Total     int64 `json:"total"`
	List      []T   `json:"list"`
}

// NewPage builds a Page. A nil list is rendered as an empty array.
func NewPage[T any](list []T, total int64, params Params) Page[T] {
	if list == nil {
		list = []T{}
	}

	var totalPage int
	if params.PageSize > 0 {
		totalPage = int(total / int64(params.PageSize))
		if total%int64(params.PageSize) > 0 {
			totalPage++
		}
	}

	return Page[T]{
		PageNum:   params.PageNum,
		PageSize:  params.PageSize,
		TotalPage: totalPage,
		Total:     total,
		List:      list,
	}
}
