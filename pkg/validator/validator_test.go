package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brandLike struct {
	Name       string `json:"name" validate:"required,min=1,max=8"`
	Logo       string `json:"logo" validate:"required"`
	Sort       int    `json:"sort" validate:"gte=0"`
	ShowStatus int    `json:"showStatus" validate:"flag"`
	Internal   string `json:"-" validate:"max=2"`
}

func valid() brandLike {
	return brandLike{Name: "Nike", Logo: "http://img/nike.png", ShowStatus: 1}
}

func TestValidate_Success(t *testing.T) {
	assert.NoError(t, Validate(valid()))
}

func TestValidate_MissingRequired_UsesJSONName(t *testing.T) {
	s := valid()
	s.Name = ""

	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "is required", valErr.Fields()["name"])
	assert.Equal(t, "name is required", valErr.First())
}

func TestValidate_Flag(t *testing.T) {
	s := valid()
	s.ShowStatus = 2

	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be 0 or 1", valErr.Fields()["showStatus"])

	s.ShowStatus = 0
	assert.NoError(t, Validate(s))
}

func TestValidate_GteAndMax(t *testing.T) {
	s := valid()
	s.Sort = -1
	s.Name = "much too long"

	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields["sort"], "greater than or equal to 0")
	assert.Contains(t, fields["name"], "at most 8")
}

func TestValidate_DashTagFallsBackToFieldName(t *testing.T) {
	s := valid()
	s.Internal = "abc"

	err := Validate(s)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields(), "Internal")
}

func TestValidate_ViolationsKeepOrder(t *testing.T) {
	err := Validate(brandLike{})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	require.Len(t, valErr.Violations, 2)
	assert.Equal(t, "name", valErr.Violations[0].Field)
	assert.Equal(t, "logo", valErr.Violations[1].Field)
	assert.Contains(t, err.Error(), "field 'name' is required; field 'logo' is required")
}

func TestNewFieldError(t *testing.T) {
	err := NewFieldError("ids", "is required")
	assert.Equal(t, map[string]string{"ids": "is required"}, err.Fields())
	assert.Equal(t, "ids is required", err.First())
	assert.Equal(t, "", (&ValidationError{}).First())
}

func TestDecodeAndValidate_Success(t *testing.T) {
	body := `{"name":"Nike","logo":"http://img/nike.png","sort":3}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

	var s brandLike
	require.NoError(t, DecodeAndValidate(req, &s))
	assert.Equal(t, "Nike", s.Name)
	assert.Equal(t, 3, s.Sort)
}

func TestDecodeAndValidate_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{invalid"))

	var s brandLike
	err := DecodeAndValidate(req, &s)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "body must be valid JSON", valErr.First())
}

func TestDecodeAndValidate_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))

	var s brandLike
	err := DecodeAndValidate(req, &s)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, map[string]string{"body": "is required"}, valErr.Fields())
}

func TestDecodeAndValidate_TooLarge(t *testing.T) {
	body := `{"name":"` + strings.Repeat("x", 64) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Body = http.MaxBytesReader(httptest.NewRecorder(), req.Body, 16)

	var s brandLike
	err := DecodeAndValidate(req, &s)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "body must not exceed 16 bytes", valErr.First())
}

type trimmed struct {
	Name string `json:"name" validate:"required"`
}

func (t *trimmed) Normalize() { t.Name = strings.TrimSpace(t.Name) }

func TestDecodeAndValidate_NormalizesBeforeValidating(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"   "}`))

	var s trimmed
	err := DecodeAndValidate(req, &s)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "name is required", valErr.First())
}

func TestDecodeAndValidate_ValidationFails(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":""}`))

	var s brandLike
	err := DecodeAndValidate(req, &s)
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}
