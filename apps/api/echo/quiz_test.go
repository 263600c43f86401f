package echoapi

import (
	"net/http"
	"testing"

	"github.com/manumittu/unitracker/core/quiz"
	"github.com/manumittu/unitracker/core/user"
)

var quizPayload = []byte(`{
	"name": "Go Basics",
	"questions": [
		{"question": "What keyword declares a variable?", "options": ["var", "let", "def", "dim"], "correct": 0},
		{"question": "Which type holds text?", "options": ["int", "string", "bool", "rune"], "correct": 1},
		{"question": "What starts a goroutine?", "options": ["run", "spawn", "go", "fork"], "correct": 2}
	]
}`)

func Test_quizApi_crud(t *testing.T) {
	srv, repos := newTestServer(t)

	admin := createUser(t, repos.usr, "Admin", "admin@test.cd", "secret1", user.RoleAdmin, user.StatusApproved)
	student := createUser(t, repos.usr, "Student", "student@test.cd", "secret1", user.RoleStudent, user.StatusApproved)
	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)

	var created quiz.Quiz

	t.Run("student cannot create", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/quizzes", studentToken, quizPayload)
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("questions need exactly four options", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/quizzes", adminToken,
			[]byte(`{"name":"Bad","questions":[{"question":"Q?","options":["a","b"],"correct":0}]}`))
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"questions[0]": "exactly 4 options are required"}),
		}, rec)
	})

	t.Run("correct option must be in range", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/quizzes", adminToken,
			[]byte(`{"name":"Bad","questions":[{"question":"Q?","options":["a","b","c","d"],"correct":7}]}`))
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"questions[0]": "correct option must index one of the options"}),
		}, rec)
	})

	t.Run("admin creates", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/quizzes", adminToken, quizPayload)
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		unmarchallObj(t, rec, &created)
		if created.ID == "" || len(created.Questions) != 3 {
			t.Errorf("create() = %+v; want a 3-question quiz with an ID", created)
		}
		if created.CreatedBy != admin.ID {
			t.Errorf("created_by = %q; want %q", created.CreatedBy, admin.ID)
		}
	})

	t.Run("student lists and retrieves", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/quizzes", studentToken)
		srv.ServeHTTP(rec, req)
		var quizzes []quiz.Quiz
		unmarchallObj(t, rec, &quizzes)
		if len(quizzes) != 1 {
			t.Fatalf("got %d quizzes; want 1", len(quizzes))
		}

		getReq, getRec := newAuthRequest(http.MethodGet, "/api/quizzes/"+created.ID, studentToken)
		srv.ServeHTTP(getRec, getReq)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, created)}, getRec)
	})

	t.Run("update replaces wholesale", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/quizzes/"+created.ID, adminToken,
			[]byte(`{"name":"Go Basics v2","questions":[{"question":"Q?","options":["a","b","c","d"],"correct":3}]}`))
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var updated quiz.Quiz
		unmarchallObj(t, rec, &updated)
		if updated.Name != "Go Basics v2" || len(updated.Questions) != 1 {
			t.Errorf("update() = %+v; want the replacement quiz", updated)
		}
	})

	t.Run("delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/quizzes/"+created.ID, adminToken)
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusNoContent)
		}

		getReq, getRec := newAuthRequest(http.MethodGet, "/api/quizzes/"+created.ID, studentToken)
		srv.ServeHTTP(getRec, getReq)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, getRec)
	})
}

func Test_quizApi_submit(t *testing.T) {
	srv, repos := newTestServer(t)

	admin := createUser(t, repos.usr, "Admin", "admin@test.cd", "secret1", user.RoleAdmin, user.StatusApproved)
	student := createUser(t, repos.usr, "Student", "student@test.cd", "secret1", user.RoleStudent, user.StatusApproved)
	other := createUser(t, repos.usr, "Other", "other@test.cd", "secret1", user.RoleStudent, user.StatusApproved)
	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)
	otherToken := getToken(t, other)

	req, rec := newAuthRequest(http.MethodPost, "/api/quizzes", adminToken, quizPayload)
	srv.ServeHTTP(rec, req)
	var qz quiz.Quiz
	unmarchallObj(t, rec, &qz)

	t.Run("unknown quiz", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/quizzes/404/submit", studentToken,
			[]byte(`{"answers":{"0":0}}`))
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})

	t.Run("scores correct answers only", func(t *testing.T) {
		// 0 and 2 are right, 1 is wrong
		req, rec := newAuthRequest(http.MethodPost, "/api/quizzes/"+qz.ID+"/submit", studentToken,
			[]byte(`{"answers":{"0":0,"1":3,"2":2}}`))
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var res quiz.Result
		unmarchallObj(t, rec, &res)
		if res.Score != 2 || res.Total != 3 {
			t.Errorf("score = %d/%d; want 2/3", res.Score, res.Total)
		}
		if res.UserID != student.ID || res.QuizID != qz.ID {
			t.Errorf("result = %+v; want it keyed to the submitting user and quiz", res)
		}
	})

	t.Run("second attempt is rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/quizzes/"+qz.ID+"/submit", studentToken,
			[]byte(`{"answers":{"0":0,"1":1,"2":2}}`))
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: quiz.ErrAlreadySubmitted.Error()}),
		}, rec)
	})

	t.Run("unanswered questions score zero", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/quizzes/"+qz.ID+"/submit", otherToken,
			[]byte(`{"answers":{"1":1}}`))
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var res quiz.Result
		unmarchallObj(t, rec, &res)
		if res.Score != 1 || res.Total != 3 {
			t.Errorf("score = %d/%d; want 1/3", res.Score, res.Total)
		}
	})

	t.Run("own results are scoped to the caller", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/quizzes/"+qz.ID+"/results", studentToken)
		srv.ServeHTTP(rec, req)
		var results []quiz.Result
		unmarchallObj(t, rec, &results)
		if len(results) != 1 || results[0].UserID != student.ID {
			t.Errorf("got %d results; want just the caller's", len(results))
		}
	})

	t.Run("student cannot list all results", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/quizzes/results/all", studentToken)
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("admin lists all results", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/quizzes/results/all", adminToken)
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
		}
		var results []quiz.Result
		unmarchallObj(t, rec, &results)
		if len(results) != 2 {
			t.Errorf("got %d results; want 2", len(results))
		}
	})
}
