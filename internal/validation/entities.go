package validation

import "github.com/hitoshi/cakery/internal/model"

// CakeRules はケーキの書き込みペイロードに適用するルール一式を返す。
// 作成・更新で同一のルールを適用する。
func CakeRules() []Rule {
	return []Rule{
		{Field: "name", Kind: KindNonEmptyString, Message: "名前は必須です。"},
		{Field: "size", Kind: KindEnum, Enum: model.CakeSizeValues(), Message: "サイズはsmall・medium・largeのいずれかを指定してください。"},
		{Field: "price", Kind: KindPositiveNumber, Message: "価格は正の数値で指定してください。"},
		{Field: "ingredients", Kind: KindStringList, Optional: true, Message: "材料は文字列の配列で指定してください。"},
	}
}

// ConsumerRules は顧客の書き込みペイロードに適用するルール一式を返す。
func ConsumerRules() []Rule {
	return []Rule{
		{Field: "firstName", Kind: KindNonEmptyString, Message: "名は必須です。"},
		{Field: "lastName", Kind: KindNonEmptyString, Message: "姓は必須です。"},
		{Field: "email", Kind: KindEmail, Message: "有効なメールアドレスを指定してください。"},
		{Field: "phone", Kind: KindPhone, Optional: true, Message: "電話番号の形式が正しくありません。"},
		{Field: "address", Kind: KindString, Optional: true, Message: "住所は文字列で指定してください。"},
		{Field: "preferredFlavor", Kind: KindString, Optional: true, Message: "好みのフレーバーは文字列で指定してください。"},
		{Field: "allergies", Kind: KindString, Optional: true, Message: "アレルギー情報は文字列で指定してください。"},
		{Field: "orderHistory", Kind: KindStringList, Optional: true, Message: "注文履歴は文字列の配列で指定してください。"},
		{Field: "favoriteCake", Kind: KindEntityID, Optional: true, Message: "favoriteCakeは有効なエンティティIDではありません。"},
	}
}

// CakeDocument はケーキのドメインモデルを検査用Documentに変換する。
func CakeDocument(c *model.Cake) Document {
	return Document{
		"name":        c.Name,
		"size":        string(c.Size),
		"price":       c.Price,
		"ingredients": c.Ingredients,
	}
}

// ConsumerDocument は顧客のドメインモデルを検査用Documentに変換する。
func ConsumerDocument(c *model.Consumer) Document {
	return Document{
		"firstName":       c.FirstName,
		"lastName":        c.LastName,
		"email":           c.Email,
		"phone":           c.Phone,
		"address":         c.Address,
		"preferredFlavor": c.PreferredFlavor,
		"allergies":       c.Allergies,
		"orderHistory":    c.OrderHistory,
		"favoriteCake":    c.FavoriteCake,
	}
}
