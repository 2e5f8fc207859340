// Package model はドメインモデルを定義する。
package model

import "time"

// CakeSize はケーキのサイズを表す閉じた列挙型。
type CakeSize string

// サイズの取りうる値。この3値以外は永続化されない。
const (
	CakeSizeSmall  CakeSize = "small"
	CakeSizeMedium CakeSize = "medium"
	CakeSizeLarge  CakeSize = "large"
)

// Valid はサイズが列挙値のいずれかであるかを判定する。
func (s CakeSize) Valid() bool {
	switch s {
	case CakeSizeSmall, CakeSizeMedium, CakeSizeLarge:
		return true
	}
	return false
}

// CakeSizeValues は列挙値の一覧を文字列スライスで返す。バリデーションルール構築用。
func CakeSizeValues() []string {
	return []string{string(CakeSizeSmall), string(CakeSizeMedium), string(CakeSizeLarge)}
}

// Cake は商品としてのケーキを表す。
type Cake struct {
	ID          string
	Name        string
	Size        CakeSize
	Price       float64
	Ingredients []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
