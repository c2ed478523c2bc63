package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMe(t *testing.T) {
	ctx := context.Background()

	users := newMemUserRepo(newActiveUser(t, "u1", "alice@example.com", "Secret123"))
	svc, _ := newTestService(users, newMemRefreshRepo(), newMemResetRepo())

	dto, err := svc.Me(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, "u1", dto.ID)
	assert.Equal(t, "alice@example.com", dto.Email)
	assert.Equal(t, "user", dto.Role)

	_, err = svc.Me(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Me(ctx, "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
