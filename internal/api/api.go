package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/ougirez/xformreports/internal/api/controller"
	"github.com/ougirez/xformreports/internal/config"
	"github.com/ougirez/xformreports/internal/pkg/constants"
	"github.com/ougirez/xformreports/internal/pkg/logger"
	"github.com/ougirez/xformreports/internal/pkg/store"
	"github.com/ougirez/xformreports/internal/service/backend"
	"github.com/ougirez/xformreports/internal/service/daterange"
	"github.com/ougirez/xformreports/internal/service/district"
	"github.com/ougirez/xformreports/internal/service/export"
	"github.com/ougirez/xformreports/internal/service/location"
	"github.com/ougirez/xformreports/internal/service/messages"
	"github.com/ougirez/xformreports/internal/service/poll"
	"github.com/ougirez/xformreports/internal/service/report"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type APIService struct {
	router *echo.Echo
	cfg    *config.Config
}

func (svc *APIService) Serve(addr string) error {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("router.Start: %w", err)
	}
	return nil
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func (svc *APIService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	svc.router.ServeHTTP(w, r)
}

func NewAPIService(cfg *config.Config, store store.Store, registry *poll.Registry) (*APIService, error) {
	if cfg.Session.Secret == "" {
		return nil, errors.New("session secret must not be empty")
	}

	svc := &APIService{router: echo.New(), cfg: cfg}

	svc.router.HideBanner = true
	svc.router.Logger.SetLevel(gommonLevel(cfg.Log.Level))
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.JSONSerializer = NewJSONSerializer()
	svc.router.HTTPErrorHandler = httpErrorHandler

	svc.router.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			ctx := logger.WithFields(c.Request().Context(), "request_id", id)
			c.SetRequest(c.Request().WithContext(ctx))
		},
	}))
	svc.router.Use(middleware.Logger())
	svc.router.Use(middleware.Recover())
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.AllowOrigins,
		AllowMethods:     []string{echo.GET, echo.POST},
		AllowHeaders:     []string{echo.HeaderContentType},
		AllowCredentials: true,
	}))

	matcher := district.NewMatcher(store, cfg.District.Cutoff)
	if _, ok := registry.Lookup(constants.AnswerTypeDistrict); !ok {
		if err := registry.Register(district.AnswerType(matcher)); err != nil {
			return nil, fmt.Errorf("registry.Register: %w", err)
		}
	}

	exporter := export.NewExporter(export.XLSXWriter{}, cfg.Export.MaxSheetRows)

	cntrl := controller.NewController(controller.Deps{
		Dates:          daterange.NewResolver(store),
		Reports:        report.NewReportService(store, exporter),
		Locations:      location.NewLocationService(store),
		Districts:      matcher,
		Polls:          registry,
		Messages:       messages.NewMessagesService(store, cfg.Messages.Applications),
		Backends:       backend.NewBackendService(store, cfg.Country.CallingCode, cfg.Backends.Prefixes),
		ExportEncoding: cfg.Export.Encoding,
	})

	svc.router.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := svc.router.Group("/api/v1")

	dates := api.Group("/dates", svc.SessionMiddleware)
	dates.GET("", cntrl.GetDates)
	dates.POST("", cntrl.PostDates)
	dates.GET("/ranges/:code", cntrl.GetDateRange)

	reports := api.Group("/locations/:id/reports", svc.SessionMiddleware)
	reports.GET("/submissions", cntrl.GetSubmissionsReport)
	reports.GET("/attributes", cntrl.GetAttributesReport)
	reports.GET("/timeseries", cntrl.GetTimeSeries)
	reports.GET("/export", cntrl.ExportReport)

	api.POST("/districts/match", cntrl.MatchDistrict)

	polls := api.Group("/polls/answer-types")
	polls.GET("", cntrl.ListAnswerTypes)
	polls.POST("/:type/parse", cntrl.ParseAnswer)

	api.GET("/messages/unhandled", cntrl.ListUnhandledMessages)
	api.POST("/backends/assign", cntrl.AssignBackend)
	api.GET("/users/:username/location", cntrl.GetUserLocation)

	return svc, nil
}

func gommonLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
