package http

import (
	"mime"
	"net/http"

	"github.com/qqtong-pm/mall/pkg/httputil"
)

// ContentTypeJSON rejects requests whose body is not declared as JSON.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			httputil.Write(w, httputil.Failure{
				Status:  http.StatusUnsupportedMediaType,
				Code:    http.StatusUnsupportedMediaType,
				Message: "Content-Type must be application/json",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeStatus writes an envelope whose code and message mirror an HTTP status.
func writeStatus(w http.ResponseWriter, status int) {
	httputil.Write(w, httputil.Failure{
		Status:  status,
		Code:    status,
		Message: http.StatusText(status),
	})
}
