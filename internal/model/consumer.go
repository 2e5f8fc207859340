// Package model はドメインモデルを定義する。
package model

import "time"

// Consumer は顧客を表す。
// FavoriteCakeはCakeへの弱参照であり、参照先が削除されても
// ぶら下がったまま許容される（カスケード削除しない）。
type Consumer struct {
	ID              string
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Address         string
	PreferredFlavor string
	Allergies       string
	OrderHistory    []string
	FavoriteCake    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
