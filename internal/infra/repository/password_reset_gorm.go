package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type passwordResetGormRepository struct {
	db *gorm.DB
}

// GORM実装
func NewPasswordResetTokenRepository(db *gorm.DB) repo.PasswordResetTokenRepository {
	return &passwordResetGormRepository{db: db}
}

// リセットトークンを保存します。
func (r *passwordResetGormRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return err
	}
	return nil
}

// token_hashで1件検索します。
func (r *passwordResetGormRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*model.PasswordResetToken, error) {
	var token model.PasswordResetToken

	err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&token).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrResetTokenNotFound
		}
		return nil, err
	}

	return &token, nil
}

// used_atをセットして使用済みにします。
// 条件付きUPDATEなので同じトークンで2回成功することはない。
func (r *passwordResetGormRepository) Consume(ctx context.Context, tokenID string, usedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.PasswordResetToken{}).
		Where("id = ? AND used_at IS NULL", tokenID).
		Update("used_at", &usedAt)

	if result.Error != nil {
		return result.Error
	}

	// 0件更新は「既に使用済み」
	if result.RowsAffected == 0 {
		return repo.ErrResetTokenAlreadyUsed
	}

	return nil
}

// 期限切れの行を削除します。
func (r *passwordResetGormRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&model.PasswordResetToken{})

	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
