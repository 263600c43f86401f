package echoapi

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/manumittu/unitracker/core/bus"
	"github.com/manumittu/unitracker/core/user"
)

const busReportTopN = 5

type busApi struct {
	svc      *bus.Service
	validate *validator.Validate
}

func registerBusAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := busApi{svc: deps.BusSvc, validate: deps.Validate}

	bg := g.Group("/bus", jwt)
	staff := requireRoles(user.RoleAdmin, user.RoleBus)

	bg.GET("/routes", api.queryRoutes)
	bg.GET("/routes/:id", api.retrieveRoute)
	bg.POST("/routes", api.createRoute, staff)
	bg.PUT("/routes/:id", api.updateRoute, staff)
	bg.DELETE("/routes/:id", api.destroyRoute, staff)

	bg.POST("/bookings", api.createBooking)
	bg.GET("/bookings", api.queryBookings)
	bg.GET("/bookings/export", api.exportBookings, adminMiddleware())
	bg.DELETE("/bookings/:id", api.cancelBooking)

	bg.GET("/report", api.report, adminMiddleware())
}

// Route handlers

func (api *busApi) queryRoutes(ctx echo.Context) error {
	routes, err := api.svc.QueryAllRoutes(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying routes")
	}
	if routes == nil {
		routes = []bus.Route{}
	}
	return ctx.JSON(http.StatusOK, routes)
}

func (api *busApi) retrieveRoute(ctx echo.Context) error {
	rt, err := api.svc.GetRouteByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == bus.ErrRouteNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding route by ID")
	}
	return ctx.JSON(http.StatusOK, rt)
}

func (api *busApi) createRoute(ctx echo.Context) error {
	var data bus.NewRoute
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRoute")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rt, err := api.svc.CreateRoute(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating route")
	}
	return ctx.JSON(http.StatusCreated, rt)
}

func (api *busApi) updateRoute(ctx echo.Context) error {
	orig, err := api.svc.GetRouteByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == bus.ErrRouteNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding route by ID")
	}

	var data bus.NewRoute
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRoute")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rt, err := api.svc.UpdateRoute(ctx.Request().Context(), orig, data)
	if err != nil {
		return errors.Wrap(err, "updating route")
	}
	return ctx.JSON(http.StatusOK, rt)
}

func (api *busApi) destroyRoute(ctx echo.Context) error {
	if err := api.svc.DeleteRoute(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == bus.ErrRouteNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting route")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Booking handlers

func (api *busApi) createBooking(ctx echo.Context) error {
	var data bus.NewBooking
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

	bk, err := api.svc.Book(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		if errors.Cause(err) == bus.ErrRouteNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusCreated, bk)
}

func (api *busApi) queryBookings(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	filter := bus.BookingFilter{UserID: claims.Subject}
	if claims.IsAdmin() {
		filter.UserID = ""
	}

	bookings, err := api.svc.FilterBookings(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying bus bookings")
	}
	if bookings == nil {
		bookings = []bus.Booking{}
	}
	return ctx.JSON(http.StatusOK, bookings)
}

func (api *busApi) cancelBooking(ctx echo.Context) error {
	bk, err := api.svc.GetBookingByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == bus.ErrBookingNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding bus booking by ID")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if !claims.IsAdmin() && bk.UserID != claims.Subject {
		return errHttpForbidden
	}

	if err := api.svc.Cancel(ctx.Request().Context(), bk); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// exportBookings streams all reservations as a CSV attachment.
func (api *busApi) exportBookings(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	bookings, err := api.svc.FilterBookings(reqCtx, bus.BookingFilter{})
	if err != nil {
		return errors.Wrap(err, "querying bus bookings")
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="reservations.csv"`)
	res.WriteHeader(http.StatusOK)

	w := csv.NewWriter(res)
	if err := w.Write([]string{"id", "route", "from", "to", "date", "seats", "status", "booked_at"}); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}

	routes := make(map[string]bus.Route) // route ID -> route
	for _, bk := range bookings {
		rt, ok := routes[bk.RouteID]
		if !ok {
			rt, err = api.svc.GetRouteByID(reqCtx, bk.RouteID)
			if err != nil && errors.Cause(err) != bus.ErrRouteNotFound {
				return errors.Wrap(err, "finding route by ID")
			}
			routes[bk.RouteID] = rt // zero Route for a deleted route
		}
		record := []string{
			bk.ID,
			rt.RouteName,
			rt.From,
			rt.To,
			bk.Date.Format(time.RFC3339),
			strconv.Itoa(bk.SeatsBooked),
			bk.Status,
			bk.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return errors.Wrap(err, "writing CSV record")
		}
	}

	w.Flush()
	return errors.Wrap(w.Error(), "flushing CSV")
}

func (api *busApi) report(ctx echo.Context) error {
	groups, err := api.svc.Report(ctx.Request().Context(), busReportTopN)
	if err != nil {
		return errors.Wrap(err, "building bus report")
	}
	return ctx.JSON(http.StatusOK, groups)
}
