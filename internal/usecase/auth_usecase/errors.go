package auth

import (
	"errors"
	"fmt"
	"time"
)

var (
	// 競合
	ErrEmailAlreadyExists = errors.New("email already exists")

	// メールまたはパスワードが違う。
	// どちらが違うかは漏らさない（アカウント列挙対策）。
	ErrInvalidCredentials = errors.New("invalid credentials")

	// refresh tokenが存在しない・失効済み
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// refresh tokenの期限切れ（失効とはメッセージを分ける）
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// トークンの持ち主が消えている（参照整合性の異常系）
	ErrUserNotFound = errors.New("user not found")

	// リセットトークンが存在しない・使用済み
	ErrResetTokenInvalid = errors.New("invalid or already used reset token")
	// リセットトークンの期限切れ
	ErrResetTokenExpired = errors.New("reset token expired")
)

// AccountLockedErrorはロック中を表す。残り時間を持つ（423で返す）。
type AccountLockedError struct {
	RetryAfter time.Duration
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked, try again in %d minutes", e.RemainingMinutes())
}

// RemainingMinutesは残りロック時間（分、切り上げ、最低1）。
func (e *AccountLockedError) RemainingMinutes() int {
	m := int((e.RetryAfter + time.Minute - 1) / time.Minute)
	if m < 1 {
		m = 1
	}
	return m
}

// errors.As用のヘルパ。
func AsAccountLocked(err error) (*AccountLockedError, bool) {
	var locked *AccountLockedError
	if errors.As(err, &locked) {
		return locked, true
	}
	return nil, false
}
