package auth

import "context"

// PurgeExpiredTokensは期限切れのrefresh/resetトークン行を物理削除する。
// リクエスト経路では呼ばない。main側の定期実行から使う。
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (refreshDeleted int64, resetDeleted int64, err error) {
	now := s.clock.Now()

	refreshDeleted, err = s.rtRepo.DeleteExpired(ctx, now)
	if err != nil {
		return 0, 0, err
	}

	resetDeleted, err = s.resetRepo.DeleteExpired(ctx, now)
	if err != nil {
		return refreshDeleted, 0, err
	}

	return refreshDeleted, resetDeleted, nil
}
