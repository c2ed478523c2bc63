package auth

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	"app/internal/repository"
	"app/internal/validator"

	"go.uber.org/zap"
)

// RequestPasswordResetはリセットトークンを発行して配送に回す。
// ユーザーが存在しなくてもエラーにしない（アカウント列挙対策）。
// 応答はhandler側で常に同じ形にする。
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string, meta RequestMeta) error {
	email = strings.TrimSpace(email)
	if err := validator.ValidateEmail(email); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			//存在しないemailにも成功と同じ顔をする
			return nil
		}
		return err
	}

	now := s.clock.Now()

	plain, hash, err := newRandomTokenAndHash()
	if err != nil {
		return err
	}

	token := &model.PasswordResetToken{
		ID:        s.idGen.NewID(),
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: now.Add(s.resetTTL),
		CreatedAt: now,
	}

	if err := s.resetRepo.Create(ctx, token); err != nil {
		return err
	}

	//配送（メール送信）。失敗しても応答は変えない。
	if s.dispatcher != nil {
		if err := s.dispatcher.Dispatch(user.Email, plain); err != nil {
			s.logger.Warn("password reset: dispatch failed",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	//監査は「ユーザーが存在した場合」だけ残す
	s.audit(ctx, model.AuditActionPasswordResetRequested, &user.ID, meta, nil)

	return nil
}

// ConfirmPasswordResetの入力。
type ConfirmPasswordResetInput struct {
	Token       string
	NewPassword string
}

// ConfirmPasswordResetはトークンを消費してパスワードを更新する。
// 完了時にそのユーザーの全リフレッシュトークンを失効させる（全端末で再ログイン）。
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, in ConfirmPasswordResetInput, meta RequestMeta) error {
	if err := validator.ValidatePassword(in.NewPassword); err != nil {
		return err
	}

	if strings.TrimSpace(in.Token) == "" {
		return ErrResetTokenInvalid
	}

	tokenHash := hashToken(in.Token)

	token, err := s.resetRepo.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrResetTokenNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	//使用済みは「invalid/used」、期限切れは「expired」で分ける
	if token.IsUsed() {
		return ErrResetTokenInvalid
	}

	now := s.clock.Now()
	if token.IsExpired(now) {
		return ErrResetTokenExpired
	}

	// 先に消費する。条件付きUPDATEが1回だけ成功するので、
	// 同じトークンの同時提示はここで片方だけが勝つ。
	if err := s.resetRepo.Consume(ctx, token.ID, now); err != nil {
		if errors.Is(err, repository.ErrResetTokenAlreadyUsed) {
			return ErrResetTokenInvalid
		}
		return err
	}

	newHash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePasswordHash(ctx, token.UserID, newHash); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	//既存セッションを全部切る
	if err := s.rtRepo.RevokeAllByUserID(ctx, token.UserID, now); err != nil {
		return err
	}

	s.audit(ctx, model.AuditActionPasswordResetCompleted, &token.UserID, meta, nil)

	return nil
}
