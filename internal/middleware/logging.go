package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder はhttp.ResponseWriterをラップし、最初に確定した
// ステータスコードを記録する。
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

// Write はWriteHeader未呼び出しの場合に200を暗黙確定させてから書き込む。
func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// NewLoggingMiddleware はリクエスト1件につき1行のJSON構造化ログを出力する
// ミドルウェアを返す。method、path、status、duration_ms、認証済みの場合は
// user_idを記録する。ログレベルはステータスコードのクラスに応じて
// Info/Warn/Errorへ昇格する。
func NewLoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			logRequest(r.Context(), logger, r, rec.statusCode, time.Since(start))
		})
	}
}

func logRequest(ctx context.Context, logger *slog.Logger, r *http.Request, status int, duration time.Duration) {
	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.Float64("duration_ms", float64(duration.Nanoseconds())/float64(time.Millisecond)),
	}

	if userID, err := UserIDFromContext(ctx); err == nil && userID != "" {
		attrs = append(attrs, slog.String("user_id", userID))
	}

	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}

	logger.LogAttrs(ctx, level, "http_request", attrs...)
}
