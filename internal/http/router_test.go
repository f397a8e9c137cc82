package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/badziek/logitrans-app/internal/board"
	"github.com/badziek/logitrans-app/internal/config"
	"github.com/badziek/logitrans-app/internal/db"
	"github.com/badziek/logitrans-app/internal/http/middleware"
	"github.com/badziek/logitrans-app/internal/models"
	"github.com/badziek/logitrans-app/internal/repo"
	"github.com/badziek/logitrans-app/internal/services"
)

type testApp struct {
	router *gin.Engine
	users  *repo.UserRepo
	loads  *repo.LoadRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	gormDB, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&models.User{}, &models.Load{}))
	require.NoError(t, db.EnsureAdmin(gormDB, "admin@example.com", "Admin123!"))

	cfg := &config.Config{
		Env:            "test",
		SessionSecret:  "test-secret",
		RequestTimeout: time.Second,
		TemplateGlob:   "../../web/templates/*.html",
	}

	users := repo.NewUserRepo(gormDB, cfg.RequestTimeout)
	loads := repo.NewLoadRepo(gormDB, cfg.RequestTimeout)
	userSvc := services.NewUserService(users)

	admin, err := users.GetActiveByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	_, err = userSvc.CreateUser(context.Background(), admin, "sup@example.com", "Supervisor", "Sup123", models.RoleSupervisor)
	require.NoError(t, err)
	_, err = userSvc.CreateUser(context.Background(), admin, "user@example.com", "Plain User", "User123", models.RoleUser)
	require.NoError(t, err)

	router := NewRouter(Dependencies{
		Config:      cfg,
		UserRepo:    users,
		LoadRepo:    loads,
		AuthService: services.NewAuthService(users),
		UserService: userSvc,
		Logger:      newTestLogger(),
		RateLimiter: middleware.NewRateLimiter(1000),
	})

	return &testApp{router: router, users: users, loads: loads}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (a *testApp) login(t *testing.T, email, password string) string {
	t.Helper()

	w := a.postForm("", "/login", url.Values{
		"email":    {email},
		"password": {password},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/loads", w.Header().Get("Location"))

	for _, c := range w.Result().Cookies() {
		if c.Name == "logitrans_session" {
			return c.Name + "=" + c.Value
		}
	}
	t.Fatal("no session cookie issued")
	return ""
}

func (a *testApp) get(path, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) postForm(cookie, path string, form url.Values, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	w := app.get("/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBoardRedirectsAnonymousToLogin(t *testing.T) {
	app := newTestApp(t)
	w := app.get("/loads", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := newTestApp(t)
	w := app.postForm("", "/login", url.Values{
		"email":    {"admin@example.com"},
		"password": {"wrong"},
	}, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestBoardCarriesNoCacheHeaders(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "admin@example.com", "Admin123!")

	w := app.get("/loads", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
	assert.Equal(t, "0", w.Header().Get("Expires"))
}

func TestCreateLoadRoundTrip(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "admin@example.com", "Admin123!")

	w := app.postForm(cookie, "/loads", url.Values{
		"time_slot": {"17:00"},
		"lane":      {"l02"},
		"seq":       {"2"},
		"planned":   {"abc"},
		"lo_code":   {"LO-B"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/loads?time_slot=")

	w = app.postForm(cookie, "/loads", url.Values{
		"time_slot": {"17:00"},
		"lane":      {"L02"},
		"seq":       {"1"},
		"lo_code":   {"LO-A"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)

	rows, err := app.loads.List(context.Background(), "17:00")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	b := board.Assemble(rows)
	lane := b.Slots["17:00"].Lanes["L02"]
	require.Len(t, lane, 2, "created loads surface under the uppercased lane")
	assert.Equal(t, "LO-A", lane[0].LoCode, "rows ordered by seq")
	assert.Equal(t, "LO-B", lane[1].LoCode)
	assert.Nil(t, lane[1].Planned, "non-digit numeric input is stored absent")
}

func seedColumn(t *testing.T, app *testApp, creator string) []models.Load {
	t.Helper()

	admin, err := app.users.GetActiveByEmail(context.Background(), creator)
	require.NoError(t, err)

	seq1, seq2 := 1, 2
	planned := 10
	rows := []models.Load{
		{TimeSlot: "17:00", Lane: "L01", Seq: &seq1, Planned: &planned, LoCode: "LO1", Picker: "P1", TrailerNo: "TR001", Status: "PL", Shift: models.ShiftA, CreatedByID: admin.ID},
		{TimeSlot: "17:00", Lane: "L01", Seq: &seq2, Planned: &planned, LoCode: "LO2", Picker: "P2", TrailerNo: "TR001", Status: "PL", Shift: models.ShiftA, CreatedByID: admin.ID},
		{TimeSlot: "17:00", Lane: "L02", Seq: &seq1, Planned: &planned, LoCode: "LO3", Picker: "P3", TrailerNo: "TR002", Status: "PA", Shift: models.ShiftA, CreatedByID: admin.ID},
	}
	require.NoError(t, app.loads.CreateBatch(context.Background(), rows))

	stored, err := app.loads.List(context.Background(), "")
	require.NoError(t, err)
	return stored
}

func TestUpdateHeaderTouchesOnlyMatchingColumn(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "admin@example.com", "Admin123!")
	seedColumn(t, app, "admin@example.com")

	w := app.postForm(cookie, "/loads/update_header", url.Values{
		"orig_time_slot": {"17:00"},
		"lane":           {"L01"},
		"trailer_no":     {"TRX"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)

	rows, err := app.loads.List(context.Background(), "")
	require.NoError(t, err)
	for _, r := range rows {
		if r.Lane == "L01" {
			assert.Equal(t, "TRX", r.TrailerNo)
			assert.Equal(t, "PL", r.Status, "empty submitted fields do not overwrite")
		} else {
			assert.Equal(t, "TR002", r.TrailerNo, "other lanes are unaffected")
		}
	}
}

func TestUpdateHeaderMovesColumnToNewSlot(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "admin@example.com", "Admin123!")
	seedColumn(t, app, "admin@example.com")

	w := app.postForm(cookie, "/loads/update_header", url.Values{
		"orig_time_slot": {"17:00"},
		"lane":           {"L01"},
		"time_slot":      {"18:00"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "18%3A00")

	moved, err := app.loads.List(context.Background(), "18:00")
	require.NoError(t, err)
	assert.Len(t, moved, 2)
}

func TestClearLaneKeepsHeaderFields(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "admin@example.com", "Admin123!")
	seedColumn(t, app, "admin@example.com")

	w := app.postForm(cookie, "/loads/clear_lane", url.Values{
		"time_slot": {"17:00"},
		"lane":      {"L01"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)

	rows, err := app.loads.List(context.Background(), "17:00")
	require.NoError(t, err)
	for _, r := range rows {
		if r.Lane != "L01" {
			continue
		}
		assert.Nil(t, r.Planned)
		assert.Empty(t, r.LoCode)
		assert.Empty(t, r.Picker)
		assert.Equal(t, "TR001", r.TrailerNo, "header fields survive a clear")
	}
}

func TestPlainUserForbiddenFromEditing(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "user@example.com", "User123")

	w := app.postForm(cookie, "/loads/update_header", url.Values{
		"orig_time_slot": {"17:00"},
		"lane":           {"L01"},
	}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.get("/users", cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.get("/clear_all_data", cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSupervisorCannotCreateAdminAccount(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "sup@example.com", "Sup123")

	w := app.postForm(cookie, "/users", url.Values{
		"action":    {"add"},
		"email":     {"evil@example.com"},
		"full_name": {"Evil"},
		"password":  {"Abc123"},
		"role":      {"ADMIN"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)

	exists, err := app.users.ExistsByEmail(context.Background(), "evil@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAdminCannotDeleteOwnAccount(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "admin@example.com", "Admin123!")

	admin, err := app.users.GetActiveByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)

	w := app.postForm(cookie, "/users", url.Values{
		"action":  {"delete"},
		"user_id": {fmt.Sprint(admin.ID)},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)

	_, err = app.users.GetByID(context.Background(), admin.ID)
	assert.NoError(t, err, "self-deletion must be rejected")
}

func TestEditLoadAJAX(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "sup@example.com", "Sup123")
	rows := seedColumn(t, app, "admin@example.com")

	ajax := map[string]string{"X-Requested-With": "XMLHttpRequest"}

	w := app.postForm(cookie, fmt.Sprintf("/loads/%d/edit", rows[0].ID), url.Values{
		"planned": {"7"},
		"picker":  {""},
	}, ajax)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])

	updated, err := app.loads.GetByID(context.Background(), rows[0].ID)
	require.NoError(t, err)
	require.NotNil(t, updated.Planned)
	assert.Equal(t, 7, *updated.Planned)
	assert.Empty(t, updated.Picker, "empty string clears the field")

	w = app.postForm(cookie, "/loads/99999/edit", url.Values{"planned": {"7"}}, ajax)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteLoadNotFoundIsNonFatal(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "admin@example.com", "Admin123!")

	w := app.postForm(cookie, "/loads/99999/delete", url.Values{}, nil)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestClearAllDataAndAddTestData(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "admin@example.com", "Admin123!")

	w := app.get("/add_test_data", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	count, err := app.loads.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	w = app.get("/add_test_data", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "skipping")

	w = app.get("/clear_all_data", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	count, err = app.loads.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
