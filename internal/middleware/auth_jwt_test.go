package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/domain/model"
	auth "app/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func callWithAuth(t *testing.T, issuer *auth.JWTIssuer, header string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var passed echo.Context
	h := AuthJWT(issuer)(func(c echo.Context) error {
		passed = c
		return c.NoContent(http.StatusOK)
	})
	assert.NoError(t, h(c))
	return rec, passed
}

func TestAuthJWT_ValidToken(t *testing.T) {
	issuer := auth.NewJWTIssuer(testSecret, 15*time.Minute)
	token, _, err := issuer.Issue("u1", "alice@example.com", model.RoleUser, time.Now())
	assert.NoError(t, err)

	rec, passed := callWithAuth(t, issuer, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, passed)
	userID, ok := UserIDFromContext(passed)
	assert.True(t, ok)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "alice@example.com", passed.Get(CtxUserEmailKey))
	assert.Equal(t, "user", passed.Get(CtxUserRoleKey))
}

// scheme名は大文字小文字を区別しない。
func TestAuthJWT_LowercaseBearer(t *testing.T) {
	issuer := auth.NewJWTIssuer(testSecret, 15*time.Minute)
	token, _, err := issuer.Issue("u1", "alice@example.com", model.RoleUser, time.Now())
	assert.NoError(t, err)

	rec, _ := callWithAuth(t, issuer, "bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthJWT_RejectsBadHeaders(t *testing.T) {
	issuer := auth.NewJWTIssuer(testSecret, 15*time.Minute)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"bearer without token", "Bearer "},
		{"token with inner space", "Bearer abc def"},
		{"not a jwt", "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, passed := callWithAuth(t, issuer, tc.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Nil(t, passed)
		})
	}
}

// 期限切れと署名不正でメッセージが分かれること。
func TestAuthJWT_DistinguishesExpiredFromInvalid(t *testing.T) {
	issuer := auth.NewJWTIssuer(testSecret, 15*time.Minute)

	expired, _, err := issuer.Issue("u1", "alice@example.com", model.RoleUser, time.Now().Add(-2*time.Hour))
	assert.NoError(t, err)

	rec, _ := callWithAuth(t, issuer, "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token expired")

	other := auth.NewJWTIssuer("another-secret-another-secret-32", 15*time.Minute)
	forged, _, err := other.Issue("u1", "alice@example.com", model.RoleUser, time.Now())
	assert.NoError(t, err)

	rec, _ = callWithAuth(t, issuer, "Bearer "+forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}
