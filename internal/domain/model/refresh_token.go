package model

import "time"

// RefreshTokenはDBにはhashだけを保存する（平文はクライアントに返すのみ）。
// 有効 = revoked_atがNULL かつ 期限内。revoked_atは一度だけセットする。
type RefreshToken struct {
	ID        string     `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string     `json:"userId" gorm:"type:uuid;not null;index"`
	TokenHash string     `json:"-" gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time  `json:"expiresAt" gorm:"not null;index"`
	RevokedAt *time.Time `json:"revokedAt" gorm:"index"`
	CreatedAt time.Time  `json:"createdAt"`
}

// IsExpiredは期限切れ判定。
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsRevokedは失効済み判定。
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}
