package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/manumittu/unitracker/core"
	"github.com/manumittu/unitracker/core/appeal"
	"github.com/manumittu/unitracker/core/bus"
	"github.com/manumittu/unitracker/core/canteen"
	"github.com/manumittu/unitracker/core/course"
	"github.com/manumittu/unitracker/core/feedback"
	"github.com/manumittu/unitracker/core/lostfound"
	"github.com/manumittu/unitracker/core/project"
	"github.com/manumittu/unitracker/core/quiz"
	"github.com/manumittu/unitracker/core/timetable"
	"github.com/manumittu/unitracker/core/user"
	emailsvc "github.com/manumittu/unitracker/services/email"
	inmemrepos "github.com/manumittu/unitracker/storage/database/inmem"
)

var (
	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}
)

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

type testRepos struct {
	usr       *inmemrepos.UserRepository
	course    *inmemrepos.CourseRepository
	timetable *inmemrepos.TimetableRepository
	quiz      *inmemrepos.QuizRepository
	canteen   *inmemrepos.CanteenRepository
	bus       *inmemrepos.BusRepository
	lostfound *inmemrepos.LostFoundRepository
	appeal    *inmemrepos.AppealRepository
	project   *inmemrepos.ProjectRepository
	feedback  *inmemrepos.FeedbackRepository
}

type testLogger struct {
	t *testing.T
}

func (l testLogger) Debug(msg string, args ...interface{}) {}
func (l testLogger) Info(msg string, args ...interface{})  {}
func (l testLogger) Warn(msg string, args ...interface{})  {}
func (l testLogger) Error(msg string, args ...interface{}) { l.t.Logf("ERROR: %s %v", msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.t.Fatalf("FATAL: %s %v", msg, args) }

func newTestServer(t *testing.T) (Server, testRepos) {
	conf := &core.Config{
		TestMode:  true,
		AppName:   "UniTracker",
		SecretKey: []byte("secret"),
		Server:    core.ServerConfig{JWTExpirationDelta: 10 * time.Minute},
	}

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	repos := testRepos{
		usr:       inmemrepos.NewUserRepository(),
		course:    inmemrepos.NewCourseRepository(),
		timetable: inmemrepos.NewTimetableRepository(),
		quiz:      inmemrepos.NewQuizRepository(),
		canteen:   inmemrepos.NewCanteenRepository(),
		bus:       inmemrepos.NewBusRepository(),
		lostfound: inmemrepos.NewLostFoundRepository(),
		appeal:    inmemrepos.NewAppealRepository(),
		project:   inmemrepos.NewProjectRepository(),
		feedback:  inmemrepos.NewFeedbackRepository(),
	}
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	srv := NewServer(ServerDeps{
		Conf:         conf,
		Logger:       testLogger{t: t},
		Validate:     validate,
		Translator:   translator,
		UserSvc:      user.NewService(repos.usr, mailSvc, conf),
		CourseSvc:    course.NewService(repos.course),
		TimetableSvc: timetable.NewService(repos.timetable),
		QuizSvc:      quiz.NewService(repos.quiz),
		CanteenSvc:   canteen.NewService(repos.canteen),
		BusSvc:       bus.NewService(repos.bus),
		LostFoundSvc: lostfound.NewService(repos.lostfound),
		AppealSvc:    appeal.NewService(repos.appeal),
		ProjectSvc:   project.NewService(repos.project),
		FeedbackSvc:  feedback.NewService(repos.feedback),
	})
	return srv, repos
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func createUser(t *testing.T, repo user.Repository, name, email, pwd, role, status string) user.User {
	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func unmarchallObj(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("unmarchallObj() failed: %v; body %s", err, rec.Body.String())
	}
}

