// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService は書き込みペイロードの自由記述フィールド
// （名前・住所・アレルギー情報・材料名など）からHTMLを除去し、
// JSONとして返却された値がそのままUIに埋め込まれた場合の
// stored XSSからユーザーを保護する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はプレーンテキストフィールドのサニタイズ機能の
// インターフェースを定義する。永続化前に適用される。
type TextSanitizerService interface {
	// Sanitize は入力からHTMLタグをすべて除去したプレーンテキストを返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string

	// SanitizeAll はスライスの各要素をサニタイズした新しいスライスを返す。
	SanitizeAll(raw []string) []string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのStrictPolicy（全タグ除去）を保持し、スレッドセーフに動作する。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// ケーキ・顧客のフィールドはすべてプレーンテキストのため、
// 許可リスト方式ではなく全タグを除去するStrictPolicyを使用する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からHTMLタグをすべて除去したプレーンテキストを返す。
func (s *textSanitizer) Sanitize(raw string) string {
	// StrictPolicyは除去後のテキストをHTMLエスケープするため、
	// プレーンテキストとして保存する際はエスケープを戻す。
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(raw)))
}

// SanitizeAll はスライスの各要素をサニタイズした新しいスライスを返す。
// nilにはnilを返す。
func (s *textSanitizer) SanitizeAll(raw []string) []string {
	if raw == nil {
		return nil
	}
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = s.Sanitize(v)
	}
	return out
}

// compile-time interface check
var _ TextSanitizerService = (*textSanitizer)(nil)
