package model

import "time"

// PasswordResetTokenは使い捨て。used_atが入ったら終わり。
// refresh token同様、DBにはhashだけを保存する。
type PasswordResetToken struct {
	ID        string     `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string     `json:"userId" gorm:"type:uuid;not null;index"`
	TokenHash string     `json:"-" gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time  `json:"expiresAt" gorm:"not null;index"`
	UsedAt    *time.Time `json:"usedAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

// IsExpiredは期限切れ判定。
func (t *PasswordResetToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsUsedは使用済み判定。
func (t *PasswordResetToken) IsUsed() bool {
	return t.UsedAt != nil
}
