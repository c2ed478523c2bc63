package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
	"time"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// リフレッシュトークンの保存・取得・失効・掃除
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	//token_hashで1件検索。見つからなければErrRefreshTokenNotFound。
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	//revoked_atをセットする。既に失効済みなら何もしない（冪等）。
	Revoke(ctx context.Context, tokenID string, revokedAt time.Time) error
	//ユーザーの未失効トークンを全部失効させる（logout・リセット完了時）
	RevokeAllByUserID(ctx context.Context, userID string, revokedAt time.Time) error
	//期限切れの行を物理削除する。リクエスト経路では呼ばない。
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
