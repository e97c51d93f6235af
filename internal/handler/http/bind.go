package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/qqtong-pm/mall/pkg/validator"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

func fieldError(field, message string) error {
	return validator.NewFieldError(field, message)
}

// decodeBody decodes and validates a size-limited JSON body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return validator.DecodeAndValidate(r, dst)
}

// pathID parses the {id} path parameter as a positive integer.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fieldError("id", "must be a positive integer")
	}
	return id, nil
}

// idList reads the required ids parameter from the query string or a form
// body. Both ids=1&ids=2 and ids=1,2 are accepted. A present but blank
// parameter yields an empty list.
func idList(r *http.Request) ([]int64, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fieldError("ids", "could not be read")
	}

	raw, ok := r.Form["ids"]
	if !ok {
		return nil, fieldError("ids", "is required")
	}

	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fieldError("ids", "must be a list of integers")
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// optionalInt parses an optional integer query parameter; nil means absent.
func optionalInt(r *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fieldError(name, "must be an integer")
	}
	return &v, nil
}

// statusParams binds the ids list and the named 0/1 status flag of a bulk
// status update.
func statusParams(r *http.Request, name string) ([]int64, int, error) {
	ids, err := idList(r)
	if err != nil {
		return nil, 0, err
	}

	raw := strings.TrimSpace(r.Form.Get(name))
	if raw == "" {
		return nil, 0, fieldError(name, "is required")
	}
	v, err := strconv.Atoi(raw)
	if err != nil || (v != 0 && v != 1) {
		return nil, 0, fieldError(name, "must be 0 or 1")
	}
	return ids, v, nil
}
