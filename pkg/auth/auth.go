package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	XUserNameHeader = "X-User-Name"

	userNameKey = "user-name"
)

// MiddlewareUserName requires the mock session header and stashes it on the
// echo context. Real authentication is owned elsewhere; the ledger only
// needs to know who handled an operation.
func MiddlewareUserName(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userName := c.Request().Header.Get(XUserNameHeader)
		if userName == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "No X-User-Name Header")
		}
		c.Set(userNameKey, userName)
		return next(c)
	}
}

func GetUserName(c echo.Context) (string, error) {
	userName, ok := c.Get(userNameKey).(string)
	if !ok || userName == "" {
		return "", errors.New("user-name is empty")
	}
	return userName, nil
}
