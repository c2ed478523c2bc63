package auth

import (
	"context"

	"app/internal/domain/model"
)

// Logoutはユーザーの全リフレッシュトークンを失効させる。
// 発行済みアクセストークンは自分の期限まで有効（失効手段が無い）。
func (s *AuthService) Logout(ctx context.Context, userID string, meta RequestMeta) error {
	now := s.clock.Now()

	if err := s.rtRepo.RevokeAllByUserID(ctx, userID, now); err != nil {
		return err
	}

	s.audit(ctx, model.AuditActionLogout, &userID, meta, nil)
	return nil
}
