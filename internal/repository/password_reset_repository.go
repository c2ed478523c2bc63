package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
	"time"
)

var ErrResetTokenNotFound = errors.New("password reset token not found")

// 使用済みトークンをもう一度consumeしようとした
var ErrResetTokenAlreadyUsed = errors.New("password reset token already used")

// パスワードリセットトークンの保存・取得・消費・掃除
type PasswordResetTokenRepository interface {
	Create(ctx context.Context, token *model.PasswordResetToken) error
	//token_hashで1件検索。見つからなければErrResetTokenNotFound。
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.PasswordResetToken, error)
	//used_atをセットする。1回だけ成功する。2回目はErrResetTokenAlreadyUsed。
	Consume(ctx context.Context, tokenID string, usedAt time.Time) error
	//期限切れの行を物理削除する。
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
