package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/qqtong-pm/mall/pkg/httputil"
	"github.com/qqtong-pm/mall/pkg/logger"
)

// Recovery turns a panic into a 500 envelope and logs the stack.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.WithContext(r.Context(), l).ErrorContext(r.Context(), "panic recovered",
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)

				httputil.Write(w, httputil.Failure{
					Status:  http.StatusInternalServerError,
					Code:    http.StatusInternalServerError,
					Message: "an internal error occurred",
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
