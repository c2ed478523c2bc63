package auth

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	"app/internal/repository"
)

// Refreshはリフレッシュトークンを新しいペアと交換する（ローテーション）。
// 旧トークンはここで失効させるので使い捨て。再提示はErrInvalidRefreshTokenになる。
func (s *AuthService) Refresh(ctx context.Context, refreshTokenPlain string, meta RequestMeta) (*TokenPair, error) {
	if strings.TrimSpace(refreshTokenPlain) == "" {
		return nil, ErrInvalidRefreshToken
	}

	//DB照合はhashで
	tokenHash := hashToken(refreshTokenPlain)

	rt, err := s.rtRepo.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	//revoked（ローテーション済みの再提示を含む）
	if rt.IsRevoked() {
		return nil, ErrInvalidRefreshToken
	}

	now := s.clock.Now()

	//期限切れは失効とはメッセージを分ける
	if rt.IsExpired(now) {
		return nil, ErrRefreshTokenExpired
	}

	//持ち主を取得。居ないのは参照整合性の異常系（404相当）。
	user, err := s.users.FindByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	//旧トークンを失効させてから新ペアを発行（ローテーション）
	if err := s.rtRepo.Revoke(ctx, rt.ID, now); err != nil {
		return nil, err
	}

	pair, err := s.issueTokenPair(ctx, user, now)
	if err != nil {
		return nil, err
	}

	//セッションハイジャック追跡のためrefreshにも監査を残す
	s.audit(ctx, model.AuditActionTokenRefresh, &user.ID, meta, map[string]string{
		"rotated_token_id": rt.ID,
	})

	return &pair, nil
}
