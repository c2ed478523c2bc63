package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// emailのunique制約違反を統一
var ErrEmailAlreadyExists = errors.New("email already exists")

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID string) (*model.User, error)
	//メールからユーザーを1件取得する。見つからなければErrUserNotFound。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// ユーザー情報の更新=>ロック状態・失敗回数・最終ログインなど
	Update(ctx context.Context, user *model.User) error
	//パスワードハッシュだけを更新する（リセット完了時）
	UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error
}
