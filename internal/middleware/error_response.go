package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/cakery/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// 原因カテゴリと対処方法を含む。バリデーション失敗時はerrorsに
// フィールド単位の違反が全件入る。
type ErrorResponseBody struct {
	Code     string                 `json:"code"`
	Message  string                 `json:"message"`
	Category string                 `json:"category"`
	Action   string                 `json:"action"`
	Errors   []model.FieldViolation `json:"errors,omitempty"`
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// すべてのAPIエンドポイントで一貫したエラーレスポンスを提供する。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
		Errors:   apiErr.Violations,
	})
}

// WriteInternalServerError は永続化層エラーの統一レスポンスを書き込む。
// ストア由来のメッセージをそのまま呼び出し元に返す。
func WriteInternalServerError(w http.ResponseWriter, err error) {
	WriteErrorResponse(w, http.StatusInternalServerError, model.NewPersistenceError(err))
}
