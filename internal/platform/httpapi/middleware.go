package httpapi

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
)

// accessLog logs one line per request.
func accessLog(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"dur", time.Since(start),
				"req_id", chimid.GetReqID(r.Context()),
			)
		})
	}
}

// compress gzips responses for clients that accept it.
func compress(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}
