package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/hitoshi/cakery/internal/model"
)

// NewRecoveryMiddleware はハンドラー内のpanicを捕捉し、プロセスを落とさずに
// 500レスポンスを返すミドルウェアを生成する。panicの内容はスタックトレース
// 付きでログに残し、レスポンスには含めない。
func NewRecoveryMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("panic recovered",
						slog.Any("panic", rec),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())),
					)
					WriteErrorResponse(w, http.StatusInternalServerError, model.NewInternalError())
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
