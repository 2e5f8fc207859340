// Package model はドメインモデルを定義する。
package model

import "time"

// User はGitHub OAuthで認証されたサービス利用ユーザーを表す。
// GithubIDがIdPとの紐付けキーであり、システム内で一意。
type User struct {
	ID          string
	GithubID    string
	Username    string
	DisplayName string
	Email       string
	AvatarURL   string
	CreatedAt   time.Time
}

// Session はユーザーのログインセッションを表す。
// セッションにはユーザーIDのみを保持し、リクエストごとに
// フルのUserレコードをDBから引き直す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
