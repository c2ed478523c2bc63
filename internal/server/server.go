package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"app/internal/config"
	"app/internal/handler"
	"app/internal/middleware"
	auth "app/internal/usecase/auth_usecase"
)

// Newはechoインスタンスを組み立てて返す。起動はmain側。
func New(
	cfg config.Config,
	authH *handler.AuthHandler,
	issuer auth.AccessTokenIssuer,
	rdb *redis.Client,
	logger *zap.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))

	RegisterRoutes(e, cfg, authH, issuer, rdb)

	return e
}
