package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/xformreports/internal/domain"
)

type assignBackendRequest struct {
	Number string `json:"number" form:"number" validate:"required"`
}

type assignBackendResponse struct {
	Number  string          `json:"number"`
	Backend *domain.Backend `json:"backend"`
}

func (c *Controller) AssignBackend(ctx echo.Context) error {
	var req assignBackendRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	number, backend, err := c.backends.AssignBackend(ctx.Request().Context(), req.Number)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, assignBackendResponse{Number: number, Backend: backend})
}
