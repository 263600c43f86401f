package echoapi

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/manumittu/unitracker/core/bus"
	"github.com/manumittu/unitracker/core/report"
	"github.com/manumittu/unitracker/core/user"
)

func Test_busApi_routes(t *testing.T) {
	srv, repos := newTestServer(t)

	operator := createUser(t, repos.usr, "Operator", "bus@test.cd", "secret1", user.RoleBus, user.StatusApproved)
	student := createUser(t, repos.usr, "Student", "student@test.cd", "secret1", user.RoleStudent, user.StatusApproved)
	operatorToken := getToken(t, operator)
	studentToken := getToken(t, student)

	var created bus.Route

	t.Run("student cannot create", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/bus/routes", studentToken,
			[]byte(`{"routeName":"Campus Loop","from":"Main Gate","to":"Library","departureTime":"08:00","availableSeats":40,"fare":1.5}`))
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("bus operator creates", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/bus/routes", operatorToken,
			[]byte(`{"routeName":"Campus Loop","from":"Main Gate","to":"Library","departureTime":"08:00","availableSeats":40,"fare":1.5}`))
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		unmarchallObj(t, rec, &created)
		if created.ID == "" || created.AvailableSeats != 40 {
			t.Errorf("create() = %+v; want a 40-seat route with an ID", created)
		}
	})

	t.Run("any authed user can list", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/bus/routes", studentToken)
		srv.ServeHTTP(rec, req)
		var routes []bus.Route
		unmarchallObj(t, rec, &routes)
		if len(routes) != 1 || routes[0].ID != created.ID {
			t.Errorf("got %d routes; want just %q", len(routes), created.RouteName)
		}
	})

	t.Run("update", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/bus/routes/"+created.ID, operatorToken,
			[]byte(`{"routeName":"Campus Loop","from":"Main Gate","to":"Hostel","departureTime":"08:30","availableSeats":45,"fare":2}`))
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var updated bus.Route
		unmarchallObj(t, rec, &updated)
		if updated.To != "Hostel" || updated.AvailableSeats != 45 {
			t.Errorf("update() = %+v", updated)
		}
	})

	t.Run("delete then retrieve", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/bus/routes/"+created.ID, operatorToken)
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusNoContent)
		}

		getReq, getRec := newAuthRequest(http.MethodGet, "/api/bus/routes/"+created.ID, studentToken)
		srv.ServeHTTP(getRec, getReq)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, getRec)
	})
}

func Test_busApi_bookings(t *testing.T) {
	srv, repos := newTestServer(t)

	admin := createUser(t, repos.usr, "Admin", "admin@test.cd", "secret1", user.RoleAdmin, user.StatusApproved)
	operator := createUser(t, repos.usr, "Operator", "bus@test.cd", "secret1", user.RoleBus, user.StatusApproved)
	student := createUser(t, repos.usr, "Student", "student@test.cd", "secret1", user.RoleStudent, user.StatusApproved)
	other := createUser(t, repos.usr, "Other", "other@test.cd", "secret1", user.RoleStudent, user.StatusApproved)
	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)
	otherToken := getToken(t, other)

	req, rec := newAuthRequest(http.MethodPost, "/api/bus/routes", getToken(t, operator),
		[]byte(`{"routeName":"Campus Loop","from":"Main Gate","to":"Library","departureTime":"08:00","availableSeats":40,"fare":1.5}`))
	srv.ServeHTTP(rec, req)
	var rt bus.Route
	unmarchallObj(t, rec, &rt)

	routeSeats := func(t *testing.T) int {
		req, rec := newAuthRequest(http.MethodGet, "/api/bus/routes/"+rt.ID, studentToken)
		srv.ServeHTTP(rec, req)
		var got bus.Route
		unmarchallObj(t, rec, &got)
		return got.AvailableSeats
	}

	var booking bus.Booking

	t.Run("unknown route", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/bus/bookings", studentToken,
			[]byte(`{"route":"404","date":"2026-09-01T00:00:00Z","seatsBooked":2}`))
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})

	t.Run("booking takes seats", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/bus/bookings", studentToken,
			[]byte(`{"route":"`+rt.ID+`","date":"2026-09-01T00:00:00Z","seatsBooked":5}`))
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		unmarchallObj(t, rec, &booking)
		if booking.Status != bus.StatusConfirmed || booking.SeatsBooked != 5 {
			t.Errorf("booking = %+v; want 5 confirmed seats", booking)
		}
		if got := routeSeats(t); got != 35 {
			t.Errorf("route seats = %d; want 35", got)
		}
	})

	t.Run("oversell is rejected and seats stay put", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/bus/bookings", otherToken,
			[]byte(`{"route":"`+rt.ID+`","date":"2026-09-01T00:00:00Z","seatsBooked":36}`))
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"seatsBooked": bus.ErrNotEnoughSeats.Error()}),
		}, rec)
		if got := routeSeats(t); got != 35 {
			t.Errorf("route seats = %d; want 35 after a failed booking", got)
		}
	})

	t.Run("listings are owner scoped", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/bus/bookings", otherToken)
		srv.ServeHTTP(rec, req)
		var bookings []bus.Booking
		unmarchallObj(t, rec, &bookings)
		if len(bookings) != 0 {
			t.Errorf("got %d bookings for a user with none", len(bookings))
		}

		adminReq, adminRec := newAuthRequest(http.MethodGet, "/api/bus/bookings", adminToken)
		srv.ServeHTTP(adminRec, adminReq)
		unmarchallObj(t, adminRec, &bookings)
		if len(bookings) != 1 {
			t.Errorf("admin got %d bookings; want 1", len(bookings))
		}
	})

	t.Run("only the owner or an admin may cancel", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/bus/bookings/"+booking.ID, otherToken)
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("cancel restores seats", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/bus/bookings/"+booking.ID, studentToken)
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusNoContent, rec.Body.String())
		}
		if got := routeSeats(t); got != 40 {
			t.Errorf("route seats = %d; want 40 after cancellation", got)
		}
	})

	t.Run("cancelling twice", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/bus/bookings/"+booking.ID, studentToken)
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusBadRequest)
		}
		if got := routeSeats(t); got != 40 {
			t.Errorf("route seats = %d; want 40, double cancel must not restore twice", got)
		}
	})

	t.Run("cancel after the route was deleted", func(t *testing.T) {
		bookReq, bookRec := newAuthRequest(http.MethodPost, "/api/bus/bookings", studentToken,
			[]byte(`{"route":"`+rt.ID+`","date":"2026-09-02T00:00:00Z","seatsBooked":2}`))
		srv.ServeHTTP(bookRec, bookReq)
		if bookRec.Code != http.StatusCreated {
			t.Fatalf("booking failed: %s", bookRec.Body.String())
		}
		var bk bus.Booking
		unmarchallObj(t, bookRec, &bk)

		delReq, delRec := newAuthRequest(http.MethodDelete, "/api/bus/routes/"+rt.ID, getToken(t, operator))
		srv.ServeHTTP(delRec, delReq)
		if delRec.Code != http.StatusNoContent {
			t.Fatalf("deleting route failed: %s", delRec.Body.String())
		}

		req, rec := newAuthRequest(http.MethodDelete, "/api/bus/bookings/"+bk.ID, studentToken)
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusNoContent, rec.Body.String())
		}

		againReq, againRec := newAuthRequest(http.MethodDelete, "/api/bus/bookings/"+bk.ID, studentToken)
		srv.ServeHTTP(againRec, againReq)
		if againRec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v on a repeat cancel", againRec.Code, http.StatusBadRequest)
		}
	})
}

func Test_busApi_export(t *testing.T) {
	srv, repos := newTestServer(t)

	admin := createUser(t, repos.usr, "Admin", "admin@test.cd", "secret1", user.RoleAdmin, user.StatusApproved)
	student := createUser(t, repos.usr, "Student", "student@test.cd", "secret1", user.RoleStudent, user.StatusApproved)
	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)

	req, rec := newAuthRequest(http.MethodPost, "/api/bus/routes", adminToken,
		[]byte(`{"routeName":"Campus Loop","from":"Main Gate","to":"Library","departureTime":"08:00","availableSeats":40,"fare":1.5}`))
	srv.ServeHTTP(rec, req)
	var rt bus.Route
	unmarchallObj(t, rec, &rt)

	bookReq, bookRec := newAuthRequest(http.MethodPost, "/api/bus/bookings", studentToken,
		[]byte(`{"route":"`+rt.ID+`","date":"2026-09-01T00:00:00Z","seatsBooked":3}`))
	srv.ServeHTTP(bookRec, bookReq)
	var booking bus.Booking
	unmarchallObj(t, bookRec, &booking)

	t.Run("students cannot export", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/bus/bookings/export", studentToken)
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("admin exports CSV", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/bus/bookings/export", adminToken)
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
			t.Errorf("Content-Type = %q; want text/csv", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "reservations.csv") {
			t.Errorf("Content-Disposition = %q; want the reservations.csv attachment", cd)
		}

		records, err := csv.NewReader(rec.Body).ReadAll()
		if err != nil {
			t.Fatalf("reading CSV: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("got %d CSV rows; want header + 1 booking", len(records))
		}
		if records[0][0] != "id" || records[0][1] != "route" {
			t.Errorf("header = %v", records[0])
		}
		row := records[1]
		if row[0] != booking.ID || row[1] != rt.RouteName || row[5] != "3" || row[6] != bus.StatusConfirmed {
			t.Errorf("row = %v; want the booking with its route name", row)
		}
	})
}

func Test_busApi_report(t *testing.T) {
	srv, repos := newTestServer(t)

	admin := createUser(t, repos.usr, "Admin", "admin@test.cd", "secret1", user.RoleAdmin, user.StatusApproved)
	student := createUser(t, repos.usr, "Student", "student@test.cd", "secret1", user.RoleStudent, user.StatusApproved)
	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)

	createRoute := func(t *testing.T, name string) bus.Route {
		req, rec := newAuthRequest(http.MethodPost, "/api/bus/routes", adminToken,
			[]byte(`{"routeName":"`+name+`","from":"A","to":"B","departureTime":"08:00","availableSeats":50,"fare":1}`))
		srv.ServeHTTP(rec, req)
		var rt bus.Route
		unmarchallObj(t, rec, &rt)
		return rt
	}
	book := func(t *testing.T, routeID string, seats string) {
		req, rec := newAuthRequest(http.MethodPost, "/api/bus/bookings", studentToken,
			[]byte(`{"route":"`+routeID+`","date":"2026-09-01T00:00:00Z","seatsBooked":`+seats+`}`))
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("booking failed: %s", rec.Body.String())
		}
	}

	loop := createRoute(t, "Campus Loop")
	express := createRoute(t, "City Express")
	book(t, loop.ID, "2")
	book(t, loop.ID, "3")
	book(t, express.ID, "10")

	t.Run("students cannot see the report", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/bus/report", studentToken)
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("ranks routes by confirmed seats", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/bus/report", adminToken)
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
		}
		var groups []report.Group
		unmarchallObj(t, rec, &groups)
		if len(groups) != 2 {
			t.Fatalf("got %d groups; want 2", len(groups))
		}
		if groups[0].Key != "City Express" || groups[0].Sum != 10 {
			t.Errorf("top group = %+v; want City Express with 10 seats", groups[0])
		}
		if groups[1].Key != "Campus Loop" || groups[1].Sum != 5 || groups[1].Count != 2 {
			t.Errorf("second group = %+v; want Campus Loop with 5 seats over 2 bookings", groups[1])
		}
	})
}
