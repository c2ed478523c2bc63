package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"app/internal/domain/model"
	"app/internal/repository"

	"go.uber.org/zap"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string
	Password string
}

// Loginはログイン処理を実行する。
// 「ユーザーが居ない」「パスワードが違う」は同じErrInvalidCredentialsにする。
func (s *AuthService) Login(ctx context.Context, in LoginInput, meta RequestMeta) (*AuthResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}

	//emailでユーザー取得
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// OAuth専用アカウント（パスワード無し）もInvalidCredentials。
	// 「このemailはOAuth登録です」とは教えない。
	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	now := s.clock.Now()

	//ロック判定。期限切れなら自動解除して続行。
	locked, retryAfter, changed := s.lockout.CheckAndMaybeUnlock(user, now)
	if changed {
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	if locked {
		return nil, &AccountLockedError{RetryAfter: retryAfter}
	}

	//パスワード照合
	if ok := s.verifier.Verify(in.Password, user.PasswordHash); !ok {
		justLocked, attemptsLeft := s.lockout.RecordFailure(user, now)

		// カウンター保存に失敗してもログイン自体は失敗で返す。
		// ロックは抑止でありセキュリティ境界ではない。
		if err := s.users.Update(ctx, user); err != nil {
			s.logger.Warn("login: persisting failed-attempt counter failed",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}

		if justLocked {
			s.audit(ctx, model.AuditActionAccountLocked, &user.ID, meta, map[string]string{
				"failed_attempts": strconv.Itoa(user.FailedLoginAttempts),
			})
			return nil, &AccountLockedError{RetryAfter: s.lockout.Duration()}
		}

		s.audit(ctx, model.AuditActionLoginFailed, &user.ID, meta, map[string]string{
			"attempts_left": strconv.Itoa(attemptsLeft),
		})
		return nil, ErrInvalidCredentials
	}

	//成功。失敗カウンターを0へ戻してlast_login更新。
	s.lockout.RecordSuccess(user)

	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	pair, err := s.issueTokenPair(ctx, user, now)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, model.AuditActionLogin, &user.ID, meta, nil)

	return &AuthResult{
		User:  toUserDTO(user),
		Token: pair,
	}, nil
}
