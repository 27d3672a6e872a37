package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type matchDistrictRequest struct {
	Text string `json:"text" form:"text" validate:"required"`
}

func (c *Controller) MatchDistrict(ctx echo.Context) error {
	var req matchDistrictRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	loc, err := c.districts.MatchDistrict(ctx.Request().Context(), req.Text)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, loc)
}
