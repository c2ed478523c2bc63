package auth

import "time"

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// リセットトークンをユーザーに届ける約束（メール送信など）。
// 送信失敗はリクエストを落とさない（列挙耐性を守るため応答は常に同じ）。
type ResetTokenDispatcher interface {
	Dispatch(email string, token string) error
}
