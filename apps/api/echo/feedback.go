package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/manumittu/unitracker/core/feedback"
)

type feedbackApi struct {
	svc      *feedback.Service
	validate *validator.Validate
}

func registerFeedbackAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := feedbackApi{svc: deps.FeedbackSvc, validate: deps.Validate}

	fg := g.Group("/feedback", jwt)
	fg.POST("", api.create)
	fg.GET("", api.query, adminMiddleware())
	fg.GET("/report", api.report, adminMiddleware())
}

func (api *feedbackApi) create(ctx echo.Context) error {
	var data feedback.NewFeedback
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeedback")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	fb, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating feedback")
	}
	return ctx.JSON(http.StatusCreated, fb)
}

func (api *feedbackApi) query(ctx echo.Context) error {
	all, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying feedback")
	}
	if all == nil {
		all = []feedback.Feedback{}
	}
	return ctx.JSON(http.StatusOK, all)
}

func (api *feedbackApi) report(ctx echo.Context) error {
	ratings, err := api.svc.Report(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building feedback report")
	}
	return ctx.JSON(http.StatusOK, ratings)
}
