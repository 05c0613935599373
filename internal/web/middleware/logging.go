package middleware

import (
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kozaktomas/looksmaxxer/internal/logging"
)

// RequestLogger logs one structured line per request. Server errors log at
// error level, client errors at warn, everything else at info.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		requestID := chiMiddleware.GetReqID(r.Context())
		if requestID == "" {
			requestID = "unknown"
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		fields := logging.Fields{
			"request_id":    requestID,
			"method":        r.Method,
			"path":          r.URL.Path,
			"status":        status,
			"latency_ms":    time.Since(start).Milliseconds(),
			"ip":            r.RemoteAddr,
			"user_agent":    r.UserAgent(),
			"response_size": ww.BytesWritten(),
		}

		switch {
		case status >= 500:
			logging.Error(fields, "Server error")
		case status >= 400:
			logging.Warn(fields, "Client error")
		default:
			logging.Info(fields, "Success")
		}
	})
}
