package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/manumittu/unitracker/core/canteen"
	"github.com/manumittu/unitracker/core/user"
)

type canteenApi struct {
	svc      *canteen.Service
	validate *validator.Validate
}

func registerCanteenAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := canteenApi{svc: deps.CanteenSvc, validate: deps.Validate}

	cg := g.Group("/canteen", jwt)
	staff := requireRoles(user.RoleAdmin, user.RoleCanteen)

	cg.GET("/menu", api.queryMenu)
	cg.GET("/menu/:id", api.retrieveMenuItem)
	cg.POST("/menu", api.createMenuItem, staff)
	cg.PUT("/menu/:id", api.updateMenuItem, staff)
	cg.DELETE("/menu/:id", api.destroyMenuItem, staff)

	cg.POST("/bookings", api.createBooking)
	cg.GET("/bookings", api.queryBookings)
	cg.GET("/bookings/:id", api.retrieveBooking)
	cg.PUT("/bookings/:id", api.updateBooking)
	cg.DELETE("/bookings/:id", api.destroyBooking)

	cg.GET("/report", api.report, staff)
}

// Menu handlers

func (api *canteenApi) queryMenu(ctx echo.Context) error {
	items, err := api.svc.QueryMenu(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying menu")
	}
	if items == nil {
		items = []canteen.MenuItem{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *canteenApi) retrieveMenuItem(ctx echo.Context) error {
	item, err := api.svc.GetMenuItemByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == canteen.ErrMenuItemNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding menu item by ID")
	}
	return ctx.JSON(http.StatusOK, item)
}

func (api *canteenApi) createMenuItem(ctx echo.Context) error {
	var data canteen.NewMenuItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMenuItem")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	item, err := api.svc.CreateMenuItem(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating menu item")
	}
	return ctx.JSON(http.StatusCreated, item)
}

func (api *canteenApi) updateMenuItem(ctx echo.Context) error {
	orig, err := api.svc.GetMenuItemByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == canteen.ErrMenuItemNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding menu item by ID")
	}

	var data canteen.NewMenuItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMenuItem")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	item, err := api.svc.UpdateMenuItem(ctx.Request().Context(), orig, data)
	if err != nil {
		return errors.Wrap(err, "updating menu item")
	}
	return ctx.JSON(http.StatusOK, item)
}

func (api *canteenApi) destroyMenuItem(ctx echo.Context) error {
	if err := api.svc.DeleteMenuItem(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == canteen.ErrMenuItemNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting menu item")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Booking handlers

func (api *canteenApi) createBooking(ctx echo.Context) error {
	var data canteen.NewBooking
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBooking")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	bk, err := api.svc.CreateBooking(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating canteen booking")
	}
	return ctx.JSON(http.StatusCreated, bk)
}

func (api *canteenApi) queryBookings(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	filter := canteen.BookingFilter{UserID: claims.Subject}
	if claims.IsAdmin() {
		filter.UserID = ""
	}

	bookings, err := api.svc.FilterBookings(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying canteen bookings")
	}
	if bookings == nil {
		bookings = []canteen.Booking{}
	}
	return ctx.JSON(http.StatusOK, bookings)
}

func (api *canteenApi) retrieveBooking(ctx echo.Context) error {
	bk, err := api.getOwnedBooking(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, bk)
}

func (api *canteenApi) updateBooking(ctx echo.Context) error {
	orig, err := api.getOwnedBooking(ctx)
	if err != nil {
		return err
	}

	var data canteen.UpdateBooking
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateBooking")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	bk, err := api.svc.UpdateBooking(ctx.Request().Context(), orig, data)
	if err != nil {
		return errors.Wrap(err, "updating canteen booking")
	}
	return ctx.JSON(http.StatusOK, bk)
}

func (api *canteenApi) destroyBooking(ctx echo.Context) error {
	bk, err := api.getOwnedBooking(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteBooking(ctx.Request().Context(), bk.ID); err != nil {
		return errors.Wrap(err, "deleting canteen booking")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *canteenApi) report(ctx echo.Context) error {
	groups, err := api.svc.Report(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building canteen report")
	}
	return ctx.JSON(http.StatusOK, groups)
}

// getOwnedBooking fetches the booking and enforces owner-or-admin access.
func (api *canteenApi) getOwnedBooking(ctx echo.Context) (canteen.Booking, error) {
	bk, err := api.svc.GetBookingByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == canteen.ErrBookingNotFound {
			return canteen.Booking{}, errHttpNotFound
		}
		return canteen.Booking{}, errors.Wrap(err, "finding canteen booking by ID")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return canteen.Booking{}, errors.Wrap(err, "getting context claims")
	}
	if !claims.IsAdmin() && bk.UserID != claims.Subject {
		return canteen.Booking{}, errHttpForbidden
	}
	return bk, nil
}
