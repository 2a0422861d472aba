package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sj140497/SJ-InfloTechTest/internal/domain"
	"github.com/sj140497/SJ-InfloTechTest/internal/dto"
	"github.com/sj140497/SJ-InfloTechTest/internal/infra/persistence/memory"
	"github.com/sj140497/SJ-InfloTechTest/internal/service"
)

var fixedNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

type webEnv struct {
	router *gin.Engine
	users  *service.UserService
	logs   *service.UserLogService
}

func newWebEnv(t *testing.T) *webEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, dto.RegisterValidators())

	clock := fixedNow.Add(-time.Hour)
	logs := service.NewUserLogService(memory.NewUserLogRepository(), service.WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	users := service.NewUserService(memory.NewUserRepository(), logs)

	renderer, err := NewRenderer()
	require.NoError(t, err)
	r := gin.New()
	r.HTMLRender = renderer
	RegisterRoutes(r, NewHandler(users, logs, WithClock(func() time.Time { return fixedNow })))
	return &webEnv{router: r, users: users, logs: logs}
}

func (e *webEnv) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func (e *webEnv) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *webEnv) seed(t *testing.T, forename, email string, active bool) *domain.User {
	t.Helper()
	u, err := e.users.Create(context.Background(), &domain.User{
		Forename:    forename,
		Surname:     "Smith",
		Email:       email,
		DateOfBirth: time.Date(1990, time.June, 16, 0, 0, 0, 0, time.UTC),
		IsActive:    active,
	})
	require.NoError(t, err)
	return u
}

func flash(t *testing.T, w *httptest.ResponseRecorder) (path, key, message string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	q := loc.Query()
	if m := q.Get("msg"); m != "" {
		return loc.Path, "msg", m
	}
	return loc.Path, "err", q.Get("err")
}

func userForm(forename, email string, active bool) url.Values {
	form := url.Values{
		"forename":    {forename},
		"surname":     {"Smith"},
		"email":       {email},
		"dateOfBirth": {"1990-06-16"},
	}
	if active {
		form.Set("isActive", "true")
	}
	return form
}

func TestRootRedirectsToList(t *testing.T) {
	env := newWebEnv(t)
	w := env.get("/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/users/list", w.Header().Get("Location"))
}

func TestListUsers_Filters(t *testing.T) {
	env := newWebEnv(t)
	env.seed(t, "Alice", "alice@example.com", true)
	env.seed(t, "Bob", "bob@example.com", false)

	w := env.get("/users/list")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Alice")
	assert.Contains(t, w.Body.String(), "Bob")

	w = env.get("/users/list?isActive=false")
	assert.NotContains(t, w.Body.String(), "Alice")
	assert.Contains(t, w.Body.String(), "Bob")

	w = env.get("/users/list?msg=Saved")
	assert.Contains(t, w.Body.String(), "Saved")
}

func TestCreate_SuccessRedirects(t *testing.T) {
	env := newWebEnv(t)

	w := env.post("/users/create", userForm("Alice", "alice@example.com", false))

	path, key, msg := flash(t, w)
	assert.Equal(t, "/users/list", path)
	assert.Equal(t, "msg", key)
	assert.Equal(t, "User created successfully!", msg)

	all, err := env.users.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	// 未勾选的复选框表示未启用
	assert.False(t, all[0].IsActive)
}

func TestCreate_InvalidFormRerenders(t *testing.T) {
	env := newWebEnv(t)

	w := env.post("/users/create", userForm("", "bad-email", true))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "First name is required")
	assert.Contains(t, body, "Email must be valid")
	assert.Contains(t, body, `value="bad-email"`)
}

func TestCreate_DuplicateEmailRerenders(t *testing.T) {
	env := newWebEnv(t)
	env.seed(t, "Alice", "alice@example.com", true)

	w := env.post("/users/create", userForm("Other", "ALICE@example.com", true))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Email address is already in use")
}

func TestEdit(t *testing.T) {
	env := newWebEnv(t)
	u := env.seed(t, "Alice", "alice@example.com", true)

	w := env.get("/users/edit/1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="alice@example.com"`)

	w = env.post("/users/edit/1", userForm("Alicia", "alice@example.com", true))
	_, key, msg := flash(t, w)
	assert.Equal(t, "msg", key)
	assert.Equal(t, "User 'Alicia Smith' updated successfully!", msg)

	got, err := env.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.Forename)

	w = env.post("/users/edit/99", userForm("X", "x@example.com", true))
	_, key, msg = flash(t, w)
	assert.Equal(t, "err", key)
	assert.Equal(t, "User not found.", msg)
}

func TestDetails_ShowsAgeAndRecentLogs(t *testing.T) {
	env := newWebEnv(t)
	u := env.seed(t, "Alice", "alice@example.com", true)
	for i := 0; i < 12; i++ {
		_, err := env.users.GetByID(context.Background(), u.ID)
		require.NoError(t, err)
	}

	w := env.get("/users/details/1")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	// 1990-06-16 出生，2024-06-15 还差一天满 34 岁
	assert.Contains(t, body, "<dd>33</dd>")
	assert.Equal(t, recentLogLimit, strings.Count(body, `href="/logs/details/`))
	assert.NotContains(t, body, "Created</td>")
}

func TestDetails_NotFoundRedirects(t *testing.T) {
	env := newWebEnv(t)

	_, key, msg := flash(t, env.get("/users/details/5"))
	assert.Equal(t, "err", key)
	assert.Equal(t, "User not found.", msg)

	assert.Equal(t, http.StatusNotFound, env.get("/users/details/abc").Code)
}

func TestDelete(t *testing.T) {
	env := newWebEnv(t)
	env.seed(t, "Alice", "alice@example.com", true)

	w := env.get("/users/delete/1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="name" value="Alice Smith"`)

	w = env.post("/users/delete/1", url.Values{"name": {"Alice Smith"}})
	_, key, msg := flash(t, w)
	assert.Equal(t, "msg", key)
	assert.Equal(t, "User 'Alice Smith' has been successfully deleted.", msg)

	w = env.post("/users/delete/1", url.Values{})
	_, key, msg = flash(t, w)
	assert.Equal(t, "err", key)
	assert.Equal(t, "User not found.", msg)
}

func TestListLogs_FiltersAndUnknownUser(t *testing.T) {
	env := newWebEnv(t)
	env.seed(t, "Alice", "alice@example.com", true)
	env.seed(t, "Bob", "bob@example.com", true)
	require.NoError(t, env.users.Delete(context.Background(), 2))

	w := env.get("/logs")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Showing 3 of 3 entries.")
	assert.Contains(t, body, dto.UnknownUserName)

	w = env.get("/logs?action=dele")
	assert.Contains(t, w.Body.String(), "Showing 1 of 1 entries.")

	w = env.get("/logs?userId=1")
	body = w.Body.String()
	assert.Contains(t, body, "Showing 1 of 1 entries.")
	assert.Contains(t, body, "Alice Smith")
}

func TestLogDetailsAndUserLogs(t *testing.T) {
	env := newWebEnv(t)
	env.seed(t, "Alice", "alice@example.com", true)

	w := env.get("/logs/details/1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "New user created: Alice Smith")
	assert.Contains(t, w.Body.String(), "59 minutes ago")

	_, key, msg := flash(t, env.get("/logs/details/50"))
	assert.Equal(t, "err", key)
	assert.Equal(t, "Log entry not found.", msg)

	w = env.get("/logs/user/1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Activity Log for Alice Smith")

	path, key, msg := flash(t, env.get("/logs/user/9"))
	assert.Equal(t, "/logs", path)
	assert.Equal(t, "err", key)
	assert.Equal(t, "User not found.", msg)
}

func TestTimeAgoAndAge(t *testing.T) {
	assert.Equal(t, "Just now", timeAgo(30*time.Second))
	assert.Equal(t, "1 minute ago", timeAgo(time.Minute))
	assert.Equal(t, "2 hours ago", timeAgo(150*time.Minute))
	assert.Equal(t, "1 day ago", timeAgo(30*time.Hour))

	dob := time.Date(2000, time.February, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 23, age(dob, time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 24, age(dob, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)))
}
