package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (c *Controller) GetUserLocation(ctx echo.Context) error {
	loc, err := c.locations.LocationForUser(ctx.Request().Context(), ctx.Param("username"))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, loc)
}
