package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestIdHeader = "X-Request-Id"
	maxBodyBytes    = 1 << 20
)

type loggerKey struct{}

// LoggerFromContext returns the request-scoped logger, or the global one.
func LoggerFromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return logger
	}
	return zap.L()
}

// RequestLogger tags each request with a short id and logs the request and
// response bodies under it.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqId := uuid.New().String()[:6]
		logger := zap.L().With(zap.String("req_id", reqId))

		var reqBody []byte
		if r.Body != nil {
			var err error
			reqBody, err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				logger.Warn("Failed to read request body", zap.Error(err))
			}
			r.Body = io.NopCloser(bytes.NewReader(reqBody))
		}

		logger.Info("Request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.ByteString("body", reqBody))

		w.Header().Set(RequestIdHeader, reqId)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		var resBody bytes.Buffer
		ww.Tee(&resBody)

		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), loggerKey{}, logger)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logger.Info("Response",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.ByteString("body", bytes.TrimSpace(resBody.Bytes())),
			zap.Duration("duration", time.Since(start)))
	})
}
