package echoapi

import (
	"net/http"
	"testing"

	"github.com/manumittu/unitracker/core/timetable"
	"github.com/manumittu/unitracker/core/user"
)

func Test_timetableApi(t *testing.T) {
	srv, repos := newTestServer(t)

	admin := createUser(t, repos.usr, "Admin", "admin@test.cd", "secret1", user.RoleAdmin, user.StatusApproved)
	student := createUser(t, repos.usr, "Student", "student@test.cd", "secret1", user.RoleStudent, user.StatusApproved)
	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)

	t.Run("empty timetable serves the default grid", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/timetable", studentToken)
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
		}
		var tt timetable.Timetable
		unmarchallObj(t, rec, &tt)
		if len(tt.TimeSlots) != len(timetable.DefaultTimeSlots) {
			t.Errorf("got %d time slots; want %d", len(tt.TimeSlots), len(timetable.DefaultTimeSlots))
		}
		lunch := tt.Schedule["Monday"]["12:00-1:00"]
		if !lunch.IsBreak || lunch.Subject != "LUNCH BREAK" {
			t.Errorf("Monday lunch cell = %+v; want the lunch break", lunch)
		}
	})

	t.Run("student cannot save", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/timetable", studentToken,
			[]byte(`{"schedule":{"Monday":{"9:00-10:00":{"subject":"Math"}}}}`))
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("schedule is required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/timetable", adminToken, []byte(`{}`))
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"schedule": "this field is required"}),
		}, rec)
	})

	t.Run("unknown day is rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/timetable", adminToken,
			[]byte(`{"schedule":{"Saturday":{"9:00-10:00":{"subject":"Math"}}}}`))
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"schedule": "days must be Monday through Friday"}),
		}, rec)
	})

	t.Run("save then read back", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/timetable", adminToken,
			[]byte(`{"schedule":{"Monday":{"9:00-10:00":{"subject":"Math","teacher":"Dr. Awe","room":"B12"}}}}`))
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var saved timetable.Timetable
		unmarchallObj(t, rec, &saved)
		if saved.CreatedBy != admin.ID {
			t.Errorf("created_by = %q; want %q", saved.CreatedBy, admin.ID)
		}

		getReq, getRec := newAuthRequest(http.MethodGet, "/api/timetable", studentToken)
		srv.ServeHTTP(getRec, getReq)
		var got timetable.Timetable
		unmarchallObj(t, getRec, &got)
		if got.Schedule["Monday"]["9:00-10:00"].Subject != "Math" {
			t.Errorf("read back schedule = %+v; want the saved grid", got.Schedule)
		}
	})

	t.Run("saving again replaces the grid", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/timetable", adminToken,
			[]byte(`{"timeSlots":["8:00-9:00"],"schedule":{"Tuesday":{"8:00-9:00":{"subject":"Physics"}}}}`))
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		getReq, getRec := newAuthRequest(http.MethodGet, "/api/timetable", studentToken)
		srv.ServeHTTP(getRec, getReq)
		var got timetable.Timetable
		unmarchallObj(t, getRec, &got)
		if len(got.TimeSlots) != 1 || got.TimeSlots[0] != "8:00-9:00" {
			t.Errorf("timeSlots = %v; want the replacement slots", got.TimeSlots)
		}
		if _, ok := got.Schedule["Monday"]; ok {
			t.Error("old grid survived the save")
		}
	})

	t.Run("student cannot clear", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/timetable", studentToken)
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("clear restores the default grid", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/timetable", adminToken)
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusNoContent)
		}

		getReq, getRec := newAuthRequest(http.MethodGet, "/api/timetable", studentToken)
		srv.ServeHTTP(getRec, getReq)
		var got timetable.Timetable
		unmarchallObj(t, getRec, &got)
		if got.Schedule["Tuesday"]["8:00-9:00"].Subject == "Physics" {
			t.Error("cleared timetable still serves the saved grid")
		}
	})

	t.Run("clearing twice", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/timetable", adminToken)
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})
}
