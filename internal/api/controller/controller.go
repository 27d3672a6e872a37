package controller

import (
	"github.com/labstack/echo/v4"
	"github.com/ougirez/xformreports/internal/pkg/constants"
	"github.com/ougirez/xformreports/internal/pkg/utils"
	"github.com/ougirez/xformreports/internal/service/backend"
	"github.com/ougirez/xformreports/internal/service/daterange"
	"github.com/ougirez/xformreports/internal/service/district"
	"github.com/ougirez/xformreports/internal/service/location"
	"github.com/ougirez/xformreports/internal/service/messages"
	"github.com/ougirez/xformreports/internal/service/poll"
	"github.com/ougirez/xformreports/internal/service/report"
)

type Deps struct {
	Dates     *daterange.Resolver
	Reports   *report.Service
	Locations *location.Service
	Districts *district.Matcher
	Polls     *poll.Registry
	Messages  *messages.Service
	Backends  *backend.Service

	ExportEncoding string
}

type Controller struct {
	dates     *daterange.Resolver
	reports   *report.Service
	locations *location.Service
	districts *district.Matcher
	polls     *poll.Registry
	messages  *messages.Service
	backends  *backend.Service

	exportEncoding string
}

func NewController(deps Deps) *Controller {
	return &Controller{
		dates:          deps.Dates,
		reports:        deps.Reports,
		locations:      deps.Locations,
		districts:      deps.Districts,
		polls:          deps.Polls,
		messages:       deps.Messages,
		backends:       deps.Backends,
		exportEncoding: deps.ExportEncoding,
	}
}

// session returns the request session, or a throwaway one when the route
// is not behind the session middleware.
func session(ctx echo.Context) daterange.Session {
	if s, ok := ctx.Get(constants.CtxKeySession).(*utils.Session); ok {
		return s
	}
	return utils.NewSession()
}
