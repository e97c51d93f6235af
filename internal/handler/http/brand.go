package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/qqtong-pm/mall/internal/domain"
	"github.com/qqtong-pm/mall/pkg/httputil"
	"github.com/qqtong-pm/mall/pkg/pagination"
)

// BrandStore is the brand back end the handler delegates to. Mutations report
// how many brands they changed; that count is the only success signal.
type BrandStore interface {
	ListAllBrand(ctx context.Context) ([]domain.Brand, error)
	CreateBrand(ctx context.Context, param domain.BrandParam) (int64, error)
	UpdateBrand(ctx context.Context, id int64, param domain.BrandParam) (int64, error)
	DeleteBrand(ctx context.Context, id int64) (int64, error)
	DeleteBrands(ctx context.Context, ids []int64) (int64, error)
	ListBrand(ctx context.Context, keyword string, showStatus *int, page pagination.Params) ([]domain.Brand, int64, error)
	// GetBrand returns nil, nil when the brand does not exist.
	GetBrand(ctx context.Context, id int64) (*domain.Brand, error)
	UpdateShowStatus(ctx context.Context, ids []int64, showStatus int) (int64, error)
	UpdateFactoryStatus(ctx context.Context, ids []int64, factoryStatus int) (int64, error)
}

// BrandHandler handles HTTP requests for brand endpoints.
type BrandHandler struct {
	store           BrandStore
	logger          *slog.Logger
	defaultPageSize int
}

// NewBrandHandler creates a new brand HTTP handler. A non-positive
// defaultPageSize means 5.
func NewBrandHandler(store BrandStore, logger *slog.Logger, defaultPageSize int) *BrandHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = 5
	}
	return &BrandHandler{
		store:           store,
		logger:          logger,
		defaultPageSize: defaultPageSize,
	}
}

// route is one entry of the brand route table.
type route struct {
	method  string
	pattern string
	handler http.HandlerFunc
	// jsonBody routes require an application/json request body.
	jsonBody bool
}

func (h *BrandHandler) routes() []route {
	return []route{
		{method: http.MethodGet, pattern: "/brand/listAll", handler: h.ListAll},
		{method: http.MethodPost, pattern: "/brand/create", handler: h.Create, jsonBody: true},
		{method: http.MethodPost, pattern: "/brand/update/{id}", handler: h.Update, jsonBody: true},
		{method: http.MethodGet, pattern: "/brand/delete/{id}", handler: h.Delete},
		{method: http.MethodGet, pattern: "/brand/list", handler: h.List},
		{method: http.MethodGet, pattern: "/brand/{id}", handler: h.Get},
		{method: http.MethodPost, pattern: "/brand/delete/batch", handler: h.DeleteBatch},
		{method: http.MethodPost, pattern: "/brand/update/showStatus", handler: h.UpdateShowStatus},
		{method: http.MethodPost, pattern: "/brand/update/factoryStatus", handler: h.UpdateFactoryStatus},
	}
}

// threshold decides whether a reported row count means success.
type threshold func(count int64) bool

func exactlyOne(count int64) bool { return count == 1 }
func atLeastOne(count int64) bool { return count > 0 }

// countOutcome turns a row count into the response envelope: data on
// success, the generic failure otherwise.
func countOutcome(count int64, ok threshold, data any) httputil.Outcome {
	if !ok(count) {
		return httputil.Failed()
	}
	return httputil.OK(data)
}

// ListAll handles GET /brand/listAll
// @Summary List every brand
// @Tags brand
// @Produce json
// @Success 200 {object} httputil.CommonResult
// @Router /brand/listAll [get]
func (h *BrandHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	brands, err := h.store.ListAllBrand(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.Write(w, httputil.OK(brands))
}

// Create handles POST /brand/create
// @Summary Create a brand
// @Tags brand
// @Accept json
// @Produce json
// @Param body body domain.BrandParam true "Brand"
// @Success 200 {object} httputil.CommonResult
// @Failure 400 {object} httputil.CommonResult
// @Router /brand/create [post]
func (h *BrandHandler) Create(w http.ResponseWriter, r *http.Request) {
	var param domain.BrandParam
	if err := decodeBody(w, r, &param); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	count, err := h.store.CreateBrand(r.Context(), param)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.Write(w, countOutcome(count, exactlyOne, count))
}

// Update handles POST /brand/update/{id}
// @Summary Update a brand
// @Tags brand
// @Accept json
// @Produce json
// @Param id path int true "Brand ID"
// @Param body body domain.BrandParam true "Brand"
// @Success 200 {object} httputil.CommonResult
// @Failure 400 {object} httputil.CommonResult
// @Router /brand/update/{id} [post]
func (h *BrandHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	var param domain.BrandParam
	if err := decodeBody(w, r, &param); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	count, err := h.store.UpdateBrand(r.Context(), id, param)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.Write(w, countOutcome(count, exactlyOne, count))
}

// Delete handles GET /brand/delete/{id}
// @Summary Delete a brand
// @Tags brand
// @Produce json
// @Param id path int true "Brand ID"
// @Success 200 {object} httputil.CommonResult
// @Router /brand/delete/{id} [get]
func (h *BrandHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	count, err := h.store.DeleteBrand(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.Write(w, countOutcome(count, exactlyOne, nil))
}

// List handles GET /brand/list
// @Summary List brands page by page
// @Tags brand
// @Produce json
// @Param keyword query string false "Name contains"
// @Param showStatus query int false "Visibility filter"
// @Param pageNum query int false "Page number" default(1)
// @Param pageSize query int false "Page size (max 100)" default(5)
// @Success 200 {object} httputil.CommonResult
// @Failure 400 {object} httputil.CommonResult
// @Router /brand/list [get]
func (h *BrandHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.FromRequest(r, h.defaultPageSize)
	if err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	showStatus, err := optionalInt(r, "showStatus")
	if err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	keyword := r.URL.Query().Get("keyword")

	brands, total, err := h.store.ListBrand(r.Context(), keyword, showStatus, page)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.Write(w, httputil.OK(pagination.NewPage(brands, total, page)))
}

// Get handles GET /brand/{id}
// @Summary Get a brand
// @Description Responds with null data when the brand does not exist.
// @Tags brand
// @Produce json
// @Param id path int true "Brand ID"
// @Success 200 {object} httputil.CommonResult
// @Router /brand/{id} [get]
func (h *BrandHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	brand, err := h.store.GetBrand(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if brand == nil {
		httputil.Write(w, httputil.OK(nil))
		return
	}
	httputil.Write(w, httputil.OK(brand))
}

// DeleteBatch handles POST /brand/delete/batch
// @Summary Delete several brands
// @Tags brand
// @Produce json
// @Param ids query []int true "Brand IDs" collectionFormat(multi)
// @Success 200 {object} httputil.CommonResult
// @Failure 400 {object} httputil.CommonResult
// @Router /brand/delete/batch [post]
func (h *BrandHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	ids, err := idList(r)
	if err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	if len(ids) == 0 {
		httputil.WriteValidationError(w, fieldError("ids", "must not be empty"))
		return
	}

	count, err := h.store.DeleteBrands(r.Context(), ids)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.Write(w, countOutcome(count, atLeastOne, count))
}

// UpdateShowStatus handles POST /brand/update/showStatus
// @Summary Show or hide several brands
// @Tags brand
// @Produce json
// @Param ids query []int true "Brand IDs" collectionFormat(multi)
// @Param showStatus query int true "0 hidden, 1 shown"
// @Success 200 {object} httputil.CommonResult
// @Failure 400 {object} httputil.CommonResult
// @Router /brand/update/showStatus [post]
func (h *BrandHandler) UpdateShowStatus(w http.ResponseWriter, r *http.Request) {
	ids, status, err := statusParams(r, "showStatus")
	if err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	count, err := h.store.UpdateShowStatus(r.Context(), ids, status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.Write(w, countOutcome(count, atLeastOne, count))
}

// UpdateFactoryStatus handles POST /brand/update/factoryStatus
// @Summary Mark several brands as manufacturers or not
// @Tags brand
// @Produce json
// @Param ids query []int true "Brand IDs" collectionFormat(multi)
// @Param factoryStatus query int true "0 or 1"
// @Success 200 {object} httputil.CommonResult
// @Failure 400 {object} httputil.CommonResult
// @Router /brand/update/factoryStatus [post]
func (h *BrandHandler) UpdateFactoryStatus(w http.ResponseWriter, r *http.Request) {
	ids, status, err := statusParams(r, "factoryStatus")
	if err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	count, err := h.store.UpdateFactoryStatus(r.Context(), ids, status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.Write(w, countOutcome(count, atLeastOne, count))
}
