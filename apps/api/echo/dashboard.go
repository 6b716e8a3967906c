package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// statusClientClosedRequest answers dashboards abandoned by the client (nginx convention).
const statusClientClosedRequest = 499

func registerDashboard(e *echo.Echo, loader Dashboard) {
	e.GET("/", func(ctx echo.Context) error {
		html, err := loader.Dashboard(ctx.Request().Context())
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return ctx.NoContent(statusClientClosedRequest)
			}
			return err
		}
		return ctx.HTML(http.StatusOK, html)
	})
}
