// Package auth はOAuth認証フロー、セッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/cakery/internal/model"
	"github.com/hitoshi/cakery/internal/repository"
)

// OAuthUserInfo はOAuthプロバイダーから取得したユーザー情報を表す。
type OAuthUserInfo struct {
	GithubID    string
	Username    string
	DisplayName string
	Email       string
	AvatarURL   string
}

// OAuthProvider はOAuth認証プロバイダーのインターフェース。
type OAuthProvider interface {
	// GetLoginURL はOAuth認証URLを生成する。
	GetLoginURL(state string) string
	// ExchangeCode は認可コードをトークンに交換し、ユーザー情報を取得する。
	ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	oauth       OAuthProvider
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	oauth OAuthProvider,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		oauth:       oauth,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// GetLoginURL はOAuth認証URLを生成する。
func (s *Service) GetLoginURL(state string) string {
	return s.oauth.GetLoginURL(state)
}

// HandleCallback はOAuthコールバックを処理し、セッションを発行する。
// githubIDでのfind-or-create: 未登録ユーザーはプロフィールからUserレコードを
// 自動作成し、登録済みユーザーは既存レコードを解決してログインする。
// プロバイダーの生プロフィールをそのままセッションに信用して載せることはしない。
func (s *Service) HandleCallback(ctx context.Context, code string) (*model.Session, error) {
	// 1. 認可コードをトークンに交換し、ユーザー情報を取得
	userInfo, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	// 2. githubIDで既存ユーザーを解決、なければ作成
	user, err := s.findOrCreateUser(ctx, userInfo)
	if err != nil {
		return nil, err
	}

	// 3. セッションを発行
	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// findOrCreateUser はgithubIDをキーにユーザーを検索し、存在しなければ作成する。
// 同一githubIDの同時コールバックでもgithub_idの一意性制約により
// レコードは高々1件しか作られない。挿入が競合に敗れた場合は再検索で解決する。
func (s *Service) findOrCreateUser(ctx context.Context, userInfo *OAuthUserInfo) (*model.User, error) {
	user, err := s.userRepo.FindByGithubID(ctx, userInfo.GithubID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user != nil {
		slog.Info("existing user logged in",
			slog.String("user_id", user.ID),
			slog.String("github_id", user.GithubID),
		)
		return user, nil
	}

	newUser := &model.User{
		ID:          uuid.New().String(),
		GithubID:    userInfo.GithubID,
		Username:    userInfo.Username,
		DisplayName: userInfo.DisplayName,
		Email:       userInfo.Email,
		AvatarURL:   userInfo.AvatarURL,
		CreatedAt:   time.Now(),
	}

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// 挿入が一意性制約で無視された場合に備えて確定レコードを引き直す
	user, err = s.userRepo.FindByGithubID(ctx, userInfo.GithubID)
	if err != nil {
		return nil, fmt.Errorf("failed to re-find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user disappeared after create: github_id=%s", userInfo.GithubID)
	}

	slog.Info("new user created",
		slog.String("user_id", user.ID),
		slog.String("github_id", user.GithubID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Logout はセッションを破棄する。
// 既に存在しないセッションの破棄はエラーにしない（冪等）。
// セッションストア自体のエラーのみ呼び出し元に返す。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentUser はセッションから現在のユーザーを取得する。
// セッションにはユーザーIDのみが保持されているため、毎回フルのレコードを引く。
// セッションが無効・期限切れ・ユーザー不在の場合は(nil, nil)を返し、
// ストア自体のエラーのみerrorとして返す。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	return user, nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
