package middleware

import "net/http"

// NewCORSMiddleware は指定された単一オリジンに対するCORSミドルウェアを返す。
// セッションCookieを伴うリクエストと共存させるため、ワイルドカード(*)は
// 使用せず、Access-Control-Allow-Credentialsを常に付与する。
// CSRFトークンヘッダーを許可ヘッダーに含めないと、書き込みAPIへの
// クロスオリジンリクエストがプリフライトで弾かれる。
func NewCORSMiddleware(allowedOrigin string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowedOrigin != "" {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", allowedOrigin)
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, "+csrfHeaderName)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Max-Age", "86400")
				h.Add("Vary", "Origin")
			}

			// OPTIONSプリフライトはここで完結させる
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
