package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/manumittu/unitracker/core/timetable"
)

type timetableApi struct {
	svc      *timetable.Service
	validate *validator.Validate
}

func registerTimetableAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := timetableApi{svc: deps.TimetableSvc, validate: deps.Validate}

	tg := g.Group("/timetable", jwt)
	tg.GET("", api.retrieve)
	tg.POST("", api.save, adminMiddleware())
	tg.DELETE("", api.clear, adminMiddleware())
}

func (api *timetableApi) retrieve(ctx echo.Context) error {
	tt, err := api.svc.Get(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting timetable")
	}
	return ctx.JSON(http.StatusOK, tt)
}

func (api *timetableApi) save(ctx echo.Context) error {
	var data timetable.SaveTimetable
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveTimetable")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	tt, err := api.svc.Save(ctx.Request().Context(), data, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "saving timetable")
	}
	return ctx.JSON(http.StatusOK, tt)
}

func (api *timetableApi) clear(ctx echo.Context) error {
	if err := api.svc.Clear(ctx.Request().Context()); err != nil {
		if errors.Cause(err) == timetable.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "clearing timetable")
	}
	return ctx.NoContent(http.StatusNoContent)
}
