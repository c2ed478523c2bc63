package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Userはアカウント本体。ロック関連のカラムもここに持つ。
type User struct {
	ID    string `gorm:"type:uuid;primaryKey"`
	Email string `gorm:"uniqueIndex;not null"`

	// OAuth専用アカウントは空文字（パスワードログイン不可）
	PasswordHash string `gorm:"column:password_hash"`

	Role Role `gorm:"type:varchar(20);not null;default:'user'"`

	//連続ログイン失敗回数。成功で0に戻す。
	FailedLoginAttempts int `gorm:"not null;default:0"`

	//ロック中フラグ。locked_untilを過ぎたら次のアクセスで解除。
	IsLocked    bool       `gorm:"not null;default:false"`
	LockedUntil *time.Time

	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasPasswordはパスワードログイン可能かどうか。
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
