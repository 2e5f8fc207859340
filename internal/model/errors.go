// Package model はドメインモデルを定義する。
package model

import "fmt"

// FieldViolation はバリデーション違反1件を表す。
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
// バリデーション失敗時はViolationsに全件の違反が入る。
type APIError struct {
	Code       string           // エラーコード
	Message    string           // エラーメッセージ
	Category   string           // カテゴリ: auth, validation, resource, system
	Action     string           // ユーザー向け対処方法
	Violations []FieldViolation // フィールド単位の違反一覧（バリデーション失敗時のみ）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeInvalidBody      = "INVALID_BODY"
	ErrCodeCakeNotFound     = "CAKE_NOT_FOUND"
	ErrCodeConsumerNotFound = "CONSUMER_NOT_FOUND"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodePersistence      = "PERSISTENCE_ERROR"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// NewValidationFailedError はバリデーション失敗エラーを生成する。
// 検出された違反を全件保持する（最初の1件で打ち切らない）。
func NewValidationFailedError(violations []FieldViolation) *APIError {
	return &APIError{
		Code:       ErrCodeValidationFailed,
		Message:    "入力内容に誤りがあります。",
		Category:   "validation",
		Action:     "errorsに挙がった各フィールドを修正して再送してください。",
		Violations: violations,
	}
}

// NewInvalidBodyError はリクエストボディが解析できない場合のエラーを生成する。
func NewInvalidBodyError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidBody,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// NewCakeNotFoundError はケーキ未検出エラーを生成する。
func NewCakeNotFoundError(cakeID string) *APIError {
	return &APIError{
		Code:     ErrCodeCakeNotFound,
		Message:  fmt.Sprintf("指定されたケーキが見つかりません: %s", cakeID),
		Category: "resource",
		Action:   "ケーキIDを確認してください。",
	}
}

// NewConsumerNotFoundError は顧客未検出エラーを生成する。
func NewConsumerNotFoundError(consumerID string) *APIError {
	return &APIError{
		Code:     ErrCodeConsumerNotFound,
		Message:  fmt.Sprintf("指定された顧客が見つかりません: %s", consumerID),
		Category: "resource",
		Action:   "顧客IDを確認してください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewInternalError は予期しない内部エラーを生成する。
// panic回復経路で使用するため、詳細はレスポンスに含めない。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewPersistenceError は永続化層のエラーを生成する。
// ストア由来のメッセージをそのまま呼び出し元に伝搬する。
func NewPersistenceError(err error) *APIError {
	return &APIError{
		Code:     ErrCodePersistence,
		Message:  err.Error(),
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
