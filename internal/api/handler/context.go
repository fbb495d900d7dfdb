package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ctxActor extracts the authenticated account id injected by the Auth
// middleware. Its presence proves the middleware ran; a route wired without
// it is a configuration bug surfaced as 401, not a panic.
func ctxActor(c echo.Context) (int64, error) {
	actorID, ok := c.Get("account_id").(int64)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return actorID, nil
}

// pathAccountID parses the :id path parameter.
func pathAccountID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid account id")
	}
	return id, nil
}
