package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (c *Controller) ListAnswerTypes(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.polls.Types())
}

type parseAnswerRequest struct {
	Type  string `param:"type" json:"-" form:"-" validate:"required"`
	Value string `json:"value" form:"value" validate:"required"`
}

type parseAnswerResponse struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

func (c *Controller) ParseAnswer(ctx echo.Context) error {
	var req parseAnswerRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	value, err := c.polls.Parse(ctx.Request().Context(), req.Type, req.Value)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, parseAnswerResponse{Type: req.Type, Value: value})
}
