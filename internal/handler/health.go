package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Healthは死活監視用。
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
