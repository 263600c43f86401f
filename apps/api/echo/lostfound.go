package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/manumittu/unitracker/core/lostfound"
)

type lostFoundApi struct {
	svc      *lostfound.Service
	validate *validator.Validate
}

func registerLostFoundAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := lostFoundApi{svc: deps.LostFoundSvc, validate: deps.Validate}

	lg := g.Group("/lost-found", jwt)
	lg.GET("", api.query)
	lg.GET("/:id", api.retrieve)
	lg.POST("", api.create)
	lg.PUT("/:id", api.update)
	lg.DELETE("/:id", api.destroy)
}

func (api *lostFoundApi) query(ctx echo.Context) error {
	items, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying lost/found items")
	}
	if items == nil {
		items = []lostfound.Item{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *lostFoundApi) retrieve(ctx echo.Context) error {
	it, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == lostfound.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding lost/found item by ID")
	}
	return ctx.JSON(http.StatusOK, it)
}

func (api *lostFoundApi) create(ctx echo.Context) error {
	var data lostfound.NewItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewItem")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	it, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating lost/found item")
	}
	return ctx.JSON(http.StatusCreated, it)
}

func (api *lostFoundApi) update(ctx echo.Context) error {
	orig, err := api.getOwnedItem(ctx)
	if err != nil {
		return err
	}

	var data lostfound.UpdateItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateItem")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	it, err := api.svc.Update(ctx.Request().Context(), orig, data)
	if err != nil {
		return errors.Wrap(err, "updating lost/found item")
	}
	return ctx.JSON(http.StatusOK, it)
}

func (api *lostFoundApi) destroy(ctx echo.Context) error {
	it, err := api.getOwnedItem(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), it.ID); err != nil {
		return errors.Wrap(err, "deleting lost/found item")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// getOwnedItem fetches the item and enforces owner-or-admin access.
func (api *lostFoundApi) getOwnedItem(ctx echo.Context) (lostfound.Item, error) {
	it, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == lostfound.ErrNotFound {
			return lostfound.Item{}, errHttpNotFound
		}
		return lostfound.Item{}, errors.Wrap(err, "finding lost/found item by ID")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return lostfound.Item{}, errors.Wrap(err, "getting context claims")
	}
	if !claims.IsAdmin() && it.PostedBy != claims.Subject {
		return lostfound.Item{}, errHttpForbidden
	}
	return it, nil
}
