package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/homework/core/homework"
)

type (
	homeworkApi struct {
		svc      homework.ServiceInterface
		validate *validator.Validate
	}

	courseRequest struct {
		ID string `param:"id" json:"id" validate:"required,courseid"`
	}

	todayRequest struct {
		IDs string `param:"ids" json:"ids" validate:"required,courseids"`
	}
)

// registerHomeworkAPI mounts the JSON resources the dashboard is built from.
func registerHomeworkAPI(e *echo.Echo, svc homework.ServiceInterface, validate *validator.Validate) {
	api := homeworkApi{
		svc:      svc,
		validate: validate,
	}

	e.GET("/courses.json", api.courses)
	e.GET("/courses/:id/assignments.json", api.assignments)
	e.GET("/courses/:ids/today.json", api.today)
	e.GET("/overdue.json", api.overdue)
}

// Handlers

func (api *homeworkApi) courses(ctx echo.Context) error {
	courses, err := api.svc.Courses(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *homeworkApi) assignments(ctx echo.Context) error {
	var req courseRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding to courseRequest")
	}
	if err := api.validate.Struct(req); err != nil {
		return err
	}
	courseID, _ := strconv.Atoi(req.ID) // validated

	assignments, err := api.svc.Assignments(ctx.Request().Context(), courseID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *homeworkApi) today(ctx echo.Context) error {
	var req todayRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding to todayRequest")
	}
	if err := api.validate.Struct(req); err != nil {
		return err
	}

	events, err := api.svc.Today(ctx.Request().Context(), req.IDs)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *homeworkApi) overdue(ctx echo.Context) error {
	items, err := api.svc.Overdue(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, items)
}
