package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	auth "app/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey    = "user_id"    // string
	CtxUserEmailKey = "user_email" // string
	CtxUserRoleKey  = "user_role"  // string
)

// bearerAuth用のJWT検証ミドルウェア。
// 期限切れと署名不正でメッセージを分ける（どちらも401）。
func AuthJWT(issuer auth.AccessTokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//Bearer形式か確認してtokenを抜く。パース前に形式で弾く。
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" || strings.Contains(rawToken, " ") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//JWTを検証してclaimsを取り出す
			claims, err := issuer.Verify(rawToken, time.Now())
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					return c.JSON(http.StatusUnauthorized, errorJSON("token expired"))
				}
				return c.JSON(http.StatusUnauthorized, errorJSON("invalid token"))
			}

			//contextへ保存
			c.Set(CtxUserIDKey, claims.UserID)
			c.Set(CtxUserEmailKey, claims.Email)
			c.Set(CtxUserRoleKey, string(claims.Role))

			return next(c)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// contextからuser_idを取り出す
func UserIDFromContext(c echo.Context) (string, bool) {
	v, ok := c.Get(CtxUserIDKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
