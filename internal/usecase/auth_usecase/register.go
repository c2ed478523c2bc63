package auth

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	"app/internal/repository"
	"app/internal/validator"
)

// 会員登録の入力
type RegisterInput struct {
	Email    string
	Password string
}

// Registerは会員登録を実行してトークンペアまで発行する。
func (s *AuthService) Register(ctx context.Context, in RegisterInput, meta RequestMeta) (*AuthResult, error) {
	email := strings.TrimSpace(in.Email)

	// emailの形式チェック
	if err := validator.ValidateEmail(email); err != nil {
		return nil, err
	}

	// パスワード強度チェック
	if err := validator.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	// email重複チェック。unique制約が最終防衛なのでここはレース許容。
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	user := &model.User{
		ID:           s.idGen.NewID(),
		Email:        email,
		PasswordHash: pwHash,
		Role:         model.RoleUser, // 初期はuser
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	pair, err := s.issueTokenPair(ctx, user, now)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, model.AuditActionRegister, &user.ID, meta, nil)

	return &AuthResult{
		User:  toUserDTO(user),
		Token: pair,
	}, nil
}
