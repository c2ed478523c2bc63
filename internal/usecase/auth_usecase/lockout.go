package auth

import (
	"time"

	"app/internal/domain/model"
)

// LockoutPolicyは失敗回数とロック期限の判定だけを持つ。
// userの書き換えはメモリ上で行い、永続化は呼び出し側（AuthService）の仕事。
type LockoutPolicy struct {
	maxAttempts     int
	lockoutDuration time.Duration
}

func NewLockoutPolicy(maxAttempts int, lockoutDuration time.Duration) *LockoutPolicy {
	return &LockoutPolicy{
		maxAttempts:     maxAttempts,
		lockoutDuration: lockoutDuration,
	}
}

// CheckAndMaybeUnlockはロック中かどうかを判定する。
// 期限を過ぎていたら解除して失敗回数も0に戻す（オペレーター不要の自動解除）。
// 戻り値: ロック継続中ならtrueと残り時間、解除・変更があればchanged=true。
func (p *LockoutPolicy) CheckAndMaybeUnlock(user *model.User, now time.Time) (locked bool, retryAfter time.Duration, changed bool) {
	if !user.IsLocked {
		return false, 0, false
	}

	// locked_untilが無いのにロック中は異常系。解除方向に倒す。
	if user.LockedUntil == nil || !now.Before(*user.LockedUntil) {
		user.IsLocked = false
		user.LockedUntil = nil
		user.FailedLoginAttempts = 0
		return false, 0, true
	}

	return true, user.LockedUntil.Sub(now), false
}

// RecordFailureは失敗を1回分カウントする。
// しきい値に達したらロックをかけてjustLocked=trueを返す。
func (p *LockoutPolicy) RecordFailure(user *model.User, now time.Time) (justLocked bool, attemptsLeft int) {
	user.FailedLoginAttempts++

	if user.FailedLoginAttempts >= p.maxAttempts {
		until := now.Add(p.lockoutDuration)
		user.IsLocked = true
		user.LockedUntil = &until
		return true, 0
	}

	return false, p.maxAttempts - user.FailedLoginAttempts
}

// RecordSuccessは成功時に失敗回数を0へ戻す。変更無しならfalse。
func (p *LockoutPolicy) RecordSuccess(user *model.User) (changed bool) {
	if user.FailedLoginAttempts == 0 {
		return false
	}
	user.FailedLoginAttempts = 0
	return true
}

// Durationはロック時間（ロック時のretry算出に使う）。
func (p *LockoutPolicy) Duration() time.Duration {
	return p.lockoutDuration
}
