package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/hitoshi/cakery/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	// UUID列への不正形式ID問い合わせはドライバエラーになるため先に弾く
	if uuid.Validate(id) != nil {
		return nil, nil
	}

	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, github_id, username, display_name, email, avatar_url, created_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.GithubID, &user.Username, &user.DisplayName, &user.Email, &user.AvatarURL, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// FindByGithubID はGitHubのユーザーIDでユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByGithubID(ctx context.Context, githubID string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, github_id, username, display_name, email, avatar_url, created_at
		 FROM users WHERE github_id = $1`,
		githubID,
	).Scan(&user.ID, &user.GithubID, &user.Username, &user.DisplayName, &user.Email, &user.AvatarURL, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by github ID: %w", err)
	}

	return user, nil
}

// Create はユーザーを作成する。
// github_idの一意性制約により、同一githubIDが既に存在する場合は挿入せず戻る。
// 呼び出し側（find-or-create）は再検索で既存レコードを解決すること。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, github_id, username, display_name, email, avatar_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (github_id) DO NOTHING`,
		user.ID, user.GithubID, user.Username, user.DisplayName, user.Email, user.AvatarURL, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
