package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/manumittu/unitracker/core/appeal"
)

type appealApi struct {
	svc      *appeal.Service
	validate *validator.Validate
}

func registerAppealAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := appealApi{svc: deps.AppealSvc, validate: deps.Validate}

	ag := g.Group("/grade-appeals", jwt)
	ag.POST("", api.create)
	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id/status", api.setStatus, adminMiddleware())
}

func (api *appealApi) create(ctx echo.Context) error {
	var data appeal.NewAppeal
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAppeal")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	ap, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating appeal")
	}
	return ctx.JSON(http.StatusCreated, ap)
}

func (api *appealApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	filter := appeal.Filter{SubmittedBy: claims.Subject}
	if claims.IsAdmin() {
		filter.SubmittedBy = ""
	}

	appeals, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying appeals")
	}
	if appeals == nil {
		appeals = []appeal.Appeal{}
	}
	return ctx.JSON(http.StatusOK, appeals)
}

func (api *appealApi) retrieve(ctx echo.Context) error {
	ap, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == appeal.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding appeal by ID")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if !claims.IsAdmin() && ap.SubmittedBy != claims.Subject {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, ap)
}

func (api *appealApi) setStatus(ctx echo.Context) error {
	var data appeal.StatusUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdate")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ap, err := api.svc.SetStatus(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == appeal.ErrNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, ap)
}
