// Package validation は書き込みペイロードのスキーマ検査を提供する。
//
// 1フィールドにつき1つのタグ付きルール（必須・列挙・正の数値・メール・
// 電話番号・エンティティID・文字列リスト）を宣言し、Evaluateが全ルールを
// 一様に評価する。最初の違反で打ち切らず、検出した違反を全件返す。
package validation

import (
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/hitoshi/cakery/internal/model"
)

// Kind はフィールドに適用する検査の種別を表すタグ。
type Kind int

const (
	// KindString は文字列であることのみを要求する。
	KindString Kind = iota
	// KindNonEmptyString は空白のみでない文字列を要求する。
	KindNonEmptyString
	// KindEnum はEnumに列挙された値のいずれかであることを要求する。
	KindEnum
	// KindPositiveNumber は厳密に正の数値を要求する。
	KindPositiveNumber
	// KindEmail はメールアドレス構文を要求する。
	KindEmail
	// KindPhone は電話番号構文を要求する。
	KindPhone
	// KindEntityID はエンティティ識別子（UUID）構文を要求する。
	KindEntityID
	// KindStringList は文字列のリストであることを要求する。
	KindStringList
)

// Rule は1フィールドに対する検査ルール。
type Rule struct {
	Field    string
	Kind     Kind
	Optional bool
	Enum     []string // KindEnumのときの許容値
	Message  string   // 違反時にそのまま返すメッセージ
}

// Document は検査対象ペイロードのフィールド名→値の表現。
// 値にはstring、float64、[]stringのいずれかを格納する。
// ゼロ値（空文字列、0、空リスト、nil）は「フィールド未指定」として扱う。
type Document map[string]any

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{5,18}[0-9]$`)
)

// Evaluate は全ルールをdocに対して評価し、違反を全件返す。
// 違反がない場合は空のスライスを返す。
func Evaluate(rules []Rule, doc Document) []model.FieldViolation {
	violations := []model.FieldViolation{}

	for _, rule := range rules {
		value, present := doc[rule.Field]
		if !present || isZero(value) {
			if !rule.Optional {
				violations = append(violations, model.FieldViolation{
					Field:   rule.Field,
					Message: rule.Message,
				})
			}
			continue
		}

		if !check(rule, value) {
			violations = append(violations, model.FieldViolation{
				Field:   rule.Field,
				Message: rule.Message,
			})
		}
	}

	return violations
}

// isZero は値が「未指定」とみなせるかを判定する。
func isZero(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case float64:
		return v == 0
	case []string:
		return len(v) == 0
	}
	return false
}

// check はルール種別に応じた単一フィールドの検査を行う。
func check(rule Rule, value any) bool {
	switch rule.Kind {
	case KindString:
		_, ok := value.(string)
		return ok
	case KindNonEmptyString:
		s, ok := value.(string)
		return ok && strings.TrimSpace(s) != ""
	case KindEnum:
		s, ok := value.(string)
		return ok && slices.Contains(rule.Enum, s)
	case KindPositiveNumber:
		n, ok := value.(float64)
		return ok && n > 0
	case KindEmail:
		s, ok := value.(string)
		return ok && emailPattern.MatchString(s)
	case KindPhone:
		s, ok := value.(string)
		return ok && phonePattern.MatchString(s)
	case KindEntityID:
		s, ok := value.(string)
		return ok && uuid.Validate(s) == nil
	case KindStringList:
		_, ok := value.([]string)
		return ok
	}
	return false
}
