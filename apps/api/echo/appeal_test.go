package echoapi

import (
	"net/http"
	"testing"

	"github.com/manumittu/unitracker/core/appeal"
	"github.com/manumittu/unitracker/core/user"
)

func Test_appealApi(t *testing.T) {
	srv, repos := newTestServer(t)

	admin := createUser(t, repos.usr, "Admin", "admin@test.cd", "secret1", user.RoleAdmin, user.StatusApproved)
	student := createUser(t, repos.usr, "Student", "student@test.cd", "secret1", user.RoleStudent, user.StatusApproved)
	other := createUser(t, repos.usr, "Other", "other@test.cd", "secret1", user.RoleStudent, user.StatusApproved)
	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)
	otherToken := getToken(t, other)

	var created appeal.Appeal

	t.Run("create starts pending", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/grade-appeals", studentToken,
			[]byte(`{"courseName":"CS101","currentGrade":"C","expectedGrade":"B","reason":"The final was misgraded"}`))
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		unmarchallObj(t, rec, &created)
		if created.Status != appeal.StatusPending || created.SubmittedBy != student.ID {
			t.Errorf("create() = %+v; want a pending appeal owned by the caller", created)
		}
	})

	t.Run("listings are owner scoped", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/grade-appeals", otherToken)
		srv.ServeHTTP(rec, req)
		var appeals []appeal.Appeal
		unmarchallObj(t, rec, &appeals)
		if len(appeals) != 0 {
			t.Errorf("got %d appeals for a user with none", len(appeals))
		}

		adminReq, adminRec := newAuthRequest(http.MethodGet, "/api/grade-appeals", adminToken)
		srv.ServeHTTP(adminRec, adminReq)
		unmarchallObj(t, adminRec, &appeals)
		if len(appeals) != 1 {
			t.Errorf("admin got %d appeals; want 1", len(appeals))
		}
	})

	t.Run("non-owner reads get 404, not 403", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/grade-appeals/"+created.ID, otherToken)
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})

	t.Run("student cannot decide", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/grade-appeals/"+created.ID+"/status", studentToken,
			[]byte(`{"status":"approved"}`))
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("admin moves to under review", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/grade-appeals/"+created.ID+"/status", adminToken,
			[]byte(`{"status":"under_review"}`))
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var updated appeal.Appeal
		unmarchallObj(t, rec, &updated)
		if updated.Status != appeal.StatusUnderReview {
			t.Errorf("status = %q; want %q", updated.Status, appeal.StatusUnderReview)
		}
	})

	t.Run("under review cannot go back to pending", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/grade-appeals/"+created.ID+"/status", adminToken,
			[]byte(`{"status":"pending"}`))
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"status": "invalid status transition"}),
		}, rec)
	})

	t.Run("verdict with response", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/grade-appeals/"+created.ID+"/status", adminToken,
			[]byte(`{"status":"approved","adminResponse":"Regrade confirmed the B"}`))
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var updated appeal.Appeal
		unmarchallObj(t, rec, &updated)
		if updated.Status != appeal.StatusApproved || updated.AdminResponse != "Regrade confirmed the B" {
			t.Errorf("update() = %+v", updated)
		}
	})

	t.Run("approved is terminal", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/grade-appeals/"+created.ID+"/status", adminToken,
			[]byte(`{"status":"rejected"}`))
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("unknown appeal", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/grade-appeals/404/status", adminToken,
			[]byte(`{"status":"approved"}`))
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})
}
