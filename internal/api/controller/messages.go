package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type listMessagesRequest struct {
	Limit  uint64 `query:"limit" validate:"lte=1000"`
	Offset uint64 `query:"offset"`
}

func (c *Controller) ListUnhandledMessages(ctx echo.Context) error {
	var req listMessagesRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	messages, err := c.messages.UnhandledIncoming(ctx.Request().Context(), req.Limit, req.Offset)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, messages)
}
