package validator

import (
	"errors"
	"net/mail"
	"strings"
	"unicode"
)

var (
	// email形式が不正
	ErrInvalidEmail = errors.New("invalid email format")

	// パスワードが短い（最小8）
	ErrPasswordTooShort = errors.New("password too short")

	// 大文字・数字を含まない、またはよくある弱いパスワード
	ErrWeakPassword = errors.New("weak password")

	// refresh tokenが空
	ErrInvalidRefresh = errors.New("invalid refresh token")
)

// メールチェック
func ValidateEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// パスワード強度チェック（最小8、英大文字＋数字を必須）
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	var hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasDigit {
		return ErrWeakPassword
	}

	if isWeakPassword(password) {
		return ErrWeakPassword
	}

	return nil
}

// refresh 入力を検証
func ValidateRefresh(refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return ErrInvalidRefresh
	}
	return nil
}

// パスワードのよくある弱いパスワード
func isWeakPassword(password string) bool {
	normalized := strings.ToLower(strings.TrimSpace(password))

	weak := map[string]struct{}{
		"password":    {},
		"password1":   {},
		"password123": {},
		"12345678":    {},
		"123456789":   {},
		"1234567890":  {},
		"qwerty123":   {},
		"qwertyuiop":  {},
		"letmein1":    {},
		"admin123":    {},
	}

	_, ok := weak[normalized]
	return ok
}
