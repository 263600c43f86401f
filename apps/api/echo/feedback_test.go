package echoapi

import (
	"net/http"
	"testing"

	"github.com/manumittu/unitracker/core/feedback"
	"github.com/manumittu/unitracker/core/user"
)

func Test_feedbackApi(t *testing.T) {
	srv, repos := newTestServer(t)

	admin := createUser(t, repos.usr, "Admin", "admin@test.cd", "secret1", user.RoleAdmin, user.StatusApproved)
	student := createUser(t, repos.usr, "Student", "student@test.cd", "secret1", user.RoleStudent, user.StatusApproved)
	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)

	t.Run("rating must be 1 through 5", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/feedback", studentToken,
			[]byte(`{"facultyName":"Dr. Awe","subject":"Algorithms","rating":7}`))
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("students submit feedback", func(t *testing.T) {
		for _, payload := range []string{
			`{"facultyName":"Dr. Awe","subject":"Algorithms","rating":5,"comments":"Great lecturer"}`,
			`{"facultyName":"Dr. Awe","subject":"Algorithms","rating":4}`,
			`{"facultyName":"Dr. King","subject":"Databases","rating":2}`,
		} {
			req, rec := newAuthRequest(http.MethodPost, "/api/feedback", studentToken, []byte(payload))
			srv.ServeHTTP(rec, req)
			if rec.Code != http.StatusCreated {
				t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
			}
			var fb feedback.Feedback
			unmarchallObj(t, rec, &fb)
			if fb.SubmittedBy != student.ID {
				t.Errorf("submitted_by = %q; want the caller", fb.SubmittedBy)
			}
		}
	})

	t.Run("students cannot list submissions", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/feedback", studentToken)
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("admin lists all submissions", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/feedback", adminToken)
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
		}
		var all []feedback.Feedback
		unmarchallObj(t, rec, &all)
		if len(all) != 3 {
			t.Errorf("got %d submissions; want 3", len(all))
		}
	})

	t.Run("report averages per faculty", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/feedback/report", adminToken)
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
		}
		var ratings []feedback.FacultyRating
		unmarchallObj(t, rec, &ratings)
		if len(ratings) != 2 {
			t.Fatalf("got %d faculty; want 2", len(ratings))
		}
		byName := make(map[string]feedback.FacultyRating, len(ratings))
		for _, r := range ratings {
			byName[r.FacultyName] = r
		}
		if r := byName["Dr. Awe"]; r.Count != 2 || r.AverageRating != 4.5 {
			t.Errorf("Dr. Awe = %+v; want 2 ratings averaging 4.5", r)
		}
		if r := byName["Dr. King"]; r.Count != 1 || r.AverageRating != 2 {
			t.Errorf("Dr. King = %+v; want 1 rating of 2", r)
		}
	})
}
