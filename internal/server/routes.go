package server

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"app/internal/config"
	"app/internal/handler"
	"app/internal/middleware"
	auth "app/internal/usecase/auth_usecase"
)

// RegisterRoutesは全ルートを登録する。
func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	authH *handler.AuthHandler,
	issuer auth.AccessTokenIssuer,
	rdb *redis.Client,
) {
	e.GET("/healthz", handler.Health)

	//認証エンドポイントだけレートリミットをかける
	limiter := middleware.NewTokenBucket(cfg.RateLimit, rdb)
	requireAuth := middleware.AuthJWT(issuer)

	g := e.Group("/auth", limiter)

	g.POST("/register", authH.Register)
	g.POST("/login", authH.Login)
	g.POST("/refresh", authH.Refresh)
	g.POST("/password-reset/request", authH.RequestPasswordReset)
	g.POST("/password-reset/confirm", authH.ConfirmPasswordReset)

	//bearer必須
	g.POST("/logout", authH.Logout, requireAuth)
	g.GET("/verify", authH.Verify, requireAuth)
	g.GET("/me", authH.Me, requireAuth)
}
