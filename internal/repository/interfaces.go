// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/cakery/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByGithubID はGitHubのユーザーIDでユーザーを検索する。見つからない場合はnilを返す。
	FindByGithubID(ctx context.Context, githubID string) (*model.User, error)

	// Create はユーザーを作成する。github_idの一意性制約により、
	// 同一githubIDでの同時作成は片方のみ成功する。
	Create(ctx context.Context, user *model.User) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。存在しないIDでもエラーにしない（冪等）。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// CakeRepository はケーキデータの永続化インターフェース。
type CakeRepository interface {
	// List は全ケーキを作成日時昇順で返す。
	List(ctx context.Context) ([]*model.Cake, error)

	// FindByID は指定IDのケーキを取得する。見つからない場合はnilを返す。
	// 不正な形式のIDも「見つからない」として扱う。
	FindByID(ctx context.Context, id string) (*model.Cake, error)

	// Create はケーキを作成する。
	Create(ctx context.Context, cake *model.Cake) error

	// Update はケーキを全フィールド上書きで更新する。
	// 対象が存在しない場合はfalseを返す（upsertしない）。
	Update(ctx context.Context, cake *model.Cake) (bool, error)

	// DeleteByID は指定IDのケーキを削除する。
	// 対象が存在しない場合はfalseを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// ConsumerRepository は顧客データの永続化インターフェース。
type ConsumerRepository interface {
	// List は全顧客を作成日時昇順で返す。
	List(ctx context.Context) ([]*model.Consumer, error)

	// FindByID は指定IDの顧客を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Consumer, error)

	// Create は顧客を作成する。
	Create(ctx context.Context, consumer *model.Consumer) error

	// Update は顧客を全フィールド上書きで更新する。
	// 対象が存在しない場合はfalseを返す（upsertしない）。
	Update(ctx context.Context, consumer *model.Consumer) (bool, error)

	// DeleteByID は指定IDの顧客を削除する。
	// 対象が存在しない場合はfalseを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)
}
