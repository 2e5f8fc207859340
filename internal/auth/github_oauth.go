package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultGithubAuthURL   = "https://github.com/login/oauth/authorize"
	defaultGithubTokenURL  = "https://github.com/login/oauth/access_token"
	defaultGithubUserURL   = "https://api.github.com/user"
	defaultGithubEmailsURL = "https://api.github.com/user/emails"
)

// GithubOAuthConfig はGitHub OAuthプロバイダーの設定。
type GithubOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// テスト用にオーバーライド可能なURL
	AuthURL   string
	TokenURL  string
	UserURL   string
	EmailsURL string
}

// GithubOAuthProvider はGitHub OAuth 2.0による認証を提供する。
type GithubOAuthProvider struct {
	config GithubOAuthConfig
}

// NewGithubOAuthProvider はGithubOAuthProviderを生成する。
func NewGithubOAuthProvider(config GithubOAuthConfig) *GithubOAuthProvider {
	if config.AuthURL == "" {
		config.AuthURL = defaultGithubAuthURL
	}
	if config.TokenURL == "" {
		config.TokenURL = defaultGithubTokenURL
	}
	if config.UserURL == "" {
		config.UserURL = defaultGithubUserURL
	}
	if config.EmailsURL == "" {
		config.EmailsURL = defaultGithubEmailsURL
	}
	return &GithubOAuthProvider{config: config}
}

// GetLoginURL はGitHub OAuthの認証URLを生成する。
// スコープにはメールアドレス読み取り（user:email）を含む。
func (p *GithubOAuthProvider) GetLoginURL(state string) string {
	params := url.Values{
		"client_id":    {p.config.ClientID},
		"redirect_uri": {p.config.RedirectURL},
		"scope":        {"read:user user:email"},
		"state":        {state},
	}
	return p.config.AuthURL + "?" + params.Encode()
}

// githubTokenResponse はGitHubのトークンエンドポイントのレスポンス。
type githubTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
}

// githubProfile はGitHubのユーザー情報エンドポイントのレスポンス。
type githubProfile struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// githubEmail は/user/emailsエンドポイントの1エントリ。
type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// ExchangeCode は認可コードをアクセストークンに交換し、プロフィールを取得する。
// プロフィールのメールアドレスが非公開の場合は/user/emailsからプライマリを補完する。
func (p *GithubOAuthProvider) ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error) {
	// 1. 認可コードをアクセストークンに交換
	tokenResp, err := p.exchangeToken(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	// 2. アクセストークンでプロフィールを取得
	profile, err := p.fetchProfile(ctx, tokenResp.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	// 3. メールアドレスが非公開の場合はプライマリアドレスを取得
	email := profile.Email
	if email == "" {
		email, err = p.fetchPrimaryEmail(ctx, tokenResp.AccessToken)
		if err != nil {
			// メールアドレスはUserレコードの必須キーではないため、取得失敗は致命的にしない
			email = ""
		}
	}

	return &OAuthUserInfo{
		GithubID:    strconv.FormatInt(profile.ID, 10),
		Username:    profile.Login,
		DisplayName: profile.Name,
		Email:       email,
		AvatarURL:   profile.AvatarURL,
	}, nil
}

// exchangeToken は認可コードをアクセストークンに交換する。
func (p *GithubOAuthProvider) exchangeToken(ctx context.Context, code string) (*githubTokenResponse, error) {
	data := url.Values{
		"code":          {code},
		"client_id":     {p.config.ClientID},
		"client_secret": {p.config.ClientSecret},
		"redirect_uri":  {p.config.RedirectURL},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	// GitHubはデフォルトでクエリ文字列形式を返すため、JSONを明示する
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp githubTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("empty access token in response")
	}

	return &tokenResp, nil
}

// fetchProfile はアクセストークンでGitHubのユーザープロフィールを取得する。
func (p *GithubOAuthProvider) fetchProfile(ctx context.Context, accessToken string) (*githubProfile, error) {
	body, err := p.getJSON(ctx, p.config.UserURL, accessToken)
	if err != nil {
		return nil, err
	}

	var profile githubProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile response: %w", err)
	}

	if profile.ID == 0 {
		return nil, fmt.Errorf("empty user id in profile response")
	}

	return &profile, nil
}

// fetchPrimaryEmail は/user/emailsから検証済みプライマリアドレスを取得する。
func (p *GithubOAuthProvider) fetchPrimaryEmail(ctx context.Context, accessToken string) (string, error) {
	body, err := p.getJSON(ctx, p.config.EmailsURL, accessToken)
	if err != nil {
		return "", err
	}

	var emails []githubEmail
	if err := json.Unmarshal(body, &emails); err != nil {
		return "", fmt.Errorf("failed to parse emails response: %w", err)
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, nil
	}
	return "", fmt.Errorf("no email address available")
}

// getJSON はGitHub APIへの認証付きGETを行いボディを返す。
func (p *GithubOAuthProvider) getJSON(ctx context.Context, rawURL, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// compile-time interface check
var _ OAuthProvider = (*GithubOAuthProvider)(nil)
