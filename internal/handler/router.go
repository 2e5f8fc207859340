package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/cakery/internal/middleware"
)

// DBPinger はヘルスチェックが必要とするデータベース疎通確認のインターフェース。
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	CSRFConfig        middleware.CSRFConfig
	RateLimiter       *middleware.RateLimiter

	// RequireAuthがfalseの場合、/api以下を未認証で公開する
	// （社内ネットワーク等、前段で守られたデプロイ向け）。
	RequireAuth bool

	// 認証
	AuthService   AuthServiceInterface
	AuthConfig    AuthHandlerConfig
	LoginRecorder LoginRecorder

	// リソース
	CakeService     CakeServiceInterface
	ConsumerService ConsumerServiceInterface

	// 可観測性
	HTTPMetrics    func(next http.Handler) http.Handler
	MetricsHandler http.Handler

	// ヘルスチェック
	DB DBPinger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// 全ルート共通のミドルウェアスタック（外側から順に）:
//
//	Recovery → Logging → SecurityHeaders → CORS → HTTPMetrics
//
// /api以下にはさらに CSRF → SessionResolver → RateLimit(General) を適用し、
// RequireAuthが有効な場合はRequireAuthで未認証リクエストを401で短絡する。
// 書き込み操作（POST/PUT/DELETE）には書き込み専用レート制限を追加する。
//
// 認証ルート（/auth/github等）はOAuthのリダイレクトフローのため
// CSRF・認証要求の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.HTTPMetrics != nil {
		r.Use(deps.HTTPMetrics)
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig, deps.LoginRecorder)
	cakeHandler := NewCakeHandler(deps.CakeService)
	consumerHandler := NewConsumerHandler(deps.ConsumerService)

	// --- 認証不要のルート ---

	// GitHub OAuthフローとセッション管理
	r.Get("/auth/github", authHandler.Login)
	r.Get("/auth/github/callback", authHandler.Callback)
	r.Get("/logout", authHandler.Logout)
	r.Get("/protected", authHandler.Protected)

	// ヘルスチェック
	r.Get("/healthz", newHealthzHandler(deps.DB))

	// Prometheusスクレイプ
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- APIルート ---
	// ミドルウェアスタック: CSRF → SessionResolver → RateLimit(General) [→ RequireAuth]
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(middleware.NewSessionResolver(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())
		if deps.RequireAuth {
			r.Use(middleware.NewRequireAuth())
		}

		writeMW := deps.RateLimiter.WriteMiddleware()

		// CSRFトークン取得
		r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

		// ケーキ管理
		r.Route("/api/cakes", func(r chi.Router) {
			r.Get("/", cakeHandler.ListCakes)
			r.With(writeMW).Post("/", cakeHandler.CreateCake)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cakeHandler.GetCake)
				r.With(writeMW).Put("/", cakeHandler.UpdateCake)
				r.With(writeMW).Delete("/", cakeHandler.DeleteCake)
			})
		})

		// 顧客管理
		r.Route("/api/consumers", func(r chi.Router) {
			r.Get("/", consumerHandler.ListConsumers)
			r.With(writeMW).Post("/", consumerHandler.CreateConsumer)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", consumerHandler.GetConsumer)
				r.With(writeMW).Put("/", consumerHandler.UpdateConsumer)
				r.With(writeMW).Delete("/", consumerHandler.DeleteConsumer)
			})
		})
	})

	return r
}

// newHealthzHandler はデータベース疎通を確認するヘルスチェックハンドラーを返す。
func newHealthzHandler(db DBPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				slog.Error("healthcheck failed", slog.String("error", err.Error()))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
