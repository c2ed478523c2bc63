package auth

import (
	"context"
	"errors"

	"app/internal/repository"
)

// Meは認証済みユーザー自身のプロフィールを返す。
func (s *AuthService) Me(ctx context.Context, userID string) (*UserDTO, error) {
	if userID == "" {
		return nil, ErrUserNotFound
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	dto := toUserDTO(user)
	return &dto, nil
}
