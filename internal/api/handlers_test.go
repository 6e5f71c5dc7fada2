package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest-api/internal/api"
	apimw "github.com/tasknest/tasknest-api/internal/api/middleware"
	"github.com/tasknest/tasknest-api/internal/mocks"
	"github.com/tasknest/tasknest-api/internal/service"
	"github.com/tasknest/tasknest-api/internal/service/auth"
)

const testJWTSecret = "integration-test-secret-key-32-bytes!"

type testEnv struct {
	handler http.Handler
	jwt     auth.JWTService
	users   *mocks.UserStore
	tasks   *mocks.TaskStore
}

// newTestEnv wires the full HTTP surface against in-memory stores.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	taskStore := mocks.NewTaskStore()
	userStore := mocks.NewUserStore().LinkTaskStore(taskStore)
	hasher := auth.NewBcryptHasher()
	jwtService := auth.NewTestJWTService(testJWTSecret, time.Hour, time.Now)

	userService := service.NewUserService(userStore, hasher, hasher, jwtService, nil)
	profileService := service.NewProfileService(userStore, taskStore, nil)
	taskService := service.NewTaskService(taskStore, nil)

	userHandler := api.NewUserHandler(userService, profileService, nil)
	taskHandler := api.NewTaskHandler(taskService, nil)
	authMiddleware := apimw.NewAuthMiddleware(jwtService)

	r := chi.NewRouter()
	r.Use(apimw.TraceMiddleware)

	r.Route("/user", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/", userHandler.Profile)
			r.Get("/productivity", userHandler.Productivity)
			r.Put("/", userHandler.Update)
			r.Delete("/", userHandler.Delete)
		})
	})
	r.Route("/task", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Post("/create", taskHandler.Create)
		r.Get("/listAll", taskHandler.ListAll)
		r.Get("/{id}", taskHandler.GetByID)
		r.Put("/{id}", taskHandler.Update)
		r.Patch("/{id}/complete", taskHandler.Complete)
		r.Delete("/{id}", taskHandler.Delete)
	})

	return &testEnv{handler: r, jwt: jwtService, users: userStore, tasks: taskStore}
}

// do sends a request through the router. A non-empty token goes into the
// Authorization header.
func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

// register creates an account over HTTP and returns its ID.
func (env *testEnv) register(t *testing.T, name, email, password string) uint {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/user/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotZero(t, body.ID)
	return body.ID
}

// login authenticates over HTTP and returns the issued token.
func (env *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/user/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("creates an account without leaking the password", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		rec := env.do(t, http.MethodPost, "/user/register", "", map[string]string{
			"name": "Ana", "email": "ana@example.com", "password": "password123",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")
		assert.Contains(t, rec.Body.String(), "ana@example.com")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.register(t, "Ana", "dup@example.com", "password123")

		rec := env.do(t, http.MethodPost, "/user/register", "", map[string]string{
			"name": "Bob", "email": "dup@example.com", "password": "password456",
		})
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Email already exists", errorMessage(t, rec))
	})

	t.Run("invalid payloads are rejected", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		tests := []struct {
			name    string
			payload map[string]string
		}{
			{"missing email", map[string]string{"name": "Ana", "password": "password123"}},
			{"malformed email", map[string]string{"name": "Ana", "email": "nope", "password": "password123"}},
			{"short password", map[string]string{"name": "Ana", "email": "a@example.com", "password": "123"}},
		}
		for _, tc := range tests {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()
				rec := env.do(t, http.MethodPost, "/user/register", "", tc.payload)
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			})
		}
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("sets the token cookie on success", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.register(t, "Ana", "ana@example.com", "password123")

		rec := env.do(t, http.MethodPost, "/user/login", "", map[string]string{
			"email": "ana@example.com", "password": "password123",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.NotEmpty(t, cookies)
		var tokenCookie *http.Cookie
		for _, c := range cookies {
			if c.Name == apimw.TokenCookieName {
				tokenCookie = c
			}
		}
		require.NotNil(t, tokenCookie)
		assert.True(t, tokenCookie.HttpOnly)
		assert.NotEmpty(t, tokenCookie.Value)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.register(t, "Ana", "ana@example.com", "password123")

		unknown := env.do(t, http.MethodPost, "/user/login", "", map[string]string{
			"email": "nobody@example.com", "password": "password123",
		})
		wrong := env.do(t, http.MethodPost, "/user/login", "", map[string]string{
			"email": "ana@example.com", "password": "wrong-password",
		})

		require.Equal(t, http.StatusUnauthorized, unknown.Code)
		require.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, errorMessage(t, unknown), errorMessage(t, wrong))
	})
}

func TestAuthMiddlewareOverHTTP(t *testing.T) {
	t.Parallel()

	t.Run("missing token is unauthorized", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		rec := env.do(t, http.MethodGet, "/user/", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		rec := env.do(t, http.MethodGet, "/user/", "not.a.jwt", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid token", errorMessage(t, rec))
	})

	t.Run("cookie is accepted when the header is absent", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.register(t, "Ana", "ana@example.com", "password123")
		token := env.login(t, "ana@example.com", "password123")

		req := httptest.NewRequest(http.MethodGet, "/user/", nil)
		req.AddCookie(&http.Cookie{Name: apimw.TokenCookieName, Value: token})
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})
}

func TestTaskEndpoints(t *testing.T) {
	t.Parallel()
	today := time.Now().Format("2006-01-02")

	createTask := func(t *testing.T, env *testEnv, token string) uint {
		t.Helper()
		rec := env.do(t, http.MethodPost, "/task/create", token, map[string]any{
			"title": "Water plants", "description": "All of them", "date": today,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var body struct {
			ID uint `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body.ID
	}

	t.Run("create then list", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.register(t, "Ana", "ana@example.com", "password123")
		token := env.login(t, "ana@example.com", "password123")

		createTask(t, env, token)

		rec := env.do(t, http.MethodGet, "/task/listAll", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var tasks []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
		require.Len(t, tasks, 1)
		assert.Equal(t, "Water plants", tasks[0]["title"])
	})

	t.Run("invalid filter is a bad request", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.register(t, "Ana", "ana@example.com", "password123")
		token := env.login(t, "ana@example.com", "password123")

		rec := env.do(t, http.MethodGet, "/task/listAll?filter=yesterday", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("another user's task reads as not found", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.register(t, "Ana", "ana@example.com", "password123")
		env.register(t, "Bob", "bob@example.com", "password123")
		anaToken := env.login(t, "ana@example.com", "password123")
		bobToken := env.login(t, "bob@example.com", "password123")

		taskID := createTask(t, env, anaToken)

		rec := env.do(t, http.MethodGet, fmt.Sprintf("/task/%d", taskID), bobToken, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Task not found", errorMessage(t, rec))
	})

	t.Run("malformed task id is a bad request", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.register(t, "Ana", "ana@example.com", "password123")
		token := env.login(t, "ana@example.com", "password123")

		rec := env.do(t, http.MethodGet, "/task/abc", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("complete toggles status", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.register(t, "Ana", "ana@example.com", "password123")
		token := env.login(t, "ana@example.com", "password123")

		taskID := createTask(t, env, token)

		rec := env.do(t, http.MethodPatch, fmt.Sprintf("/task/%d/complete", taskID), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var task map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
		assert.Equal(t, "COMPLETED", task["status"])

		rec = env.do(t, http.MethodPatch, fmt.Sprintf("/task/%d/complete", taskID), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
		assert.Equal(t, "PENDING", task["status"])
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.register(t, "Ana", "ana@example.com", "password123")
		token := env.login(t, "ana@example.com", "password123")

		taskID := createTask(t, env, token)

		rec := env.do(t, http.MethodDelete, fmt.Sprintf("/task/%d", taskID), token, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = env.do(t, http.MethodDelete, fmt.Sprintf("/task/%d", taskID), token, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("update rewrites only the provided fields", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.register(t, "Ana", "ana@example.com", "password123")
		token := env.login(t, "ana@example.com", "password123")

		taskID := createTask(t, env, token)

		rec := env.do(t, http.MethodPut, fmt.Sprintf("/task/%d", taskID), token, map[string]any{
			"title": "Water the garden",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var task map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
		assert.Equal(t, "Water the garden", task["title"])
		assert.Equal(t, "All of them", task["description"])
	})
}

func TestUserEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("profile returns stats and recent tasks", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.register(t, "Ana", "ana@example.com", "password123")
		token := env.login(t, "ana@example.com", "password123")

		rec := env.do(t, http.MethodGet, "/user/", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var profile map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
		assert.Contains(t, profile, "task_stats")
		assert.Contains(t, profile, "recent_tasks")
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("productivity returns every window", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.register(t, "Ana", "ana@example.com", "password123")
		token := env.login(t, "ana@example.com", "password123")

		rec := env.do(t, http.MethodGet, "/user/productivity", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var report struct {
			Daily   []any          `json:"daily"`
			Weekly  []any          `json:"weekly"`
			Monthly []any          `json:"monthly"`
			Summary map[string]any `json:"summary"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.Len(t, report.Daily, 30)
		assert.Len(t, report.Weekly, 4)
		assert.Len(t, report.Monthly, 6)
		assert.Contains(t, report.Summary, "streak")
	})

	t.Run("account update and delete", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.register(t, "Ana", "ana@example.com", "password123")
		token := env.login(t, "ana@example.com", "password123")

		rec := env.do(t, http.MethodPut, "/user/", token, map[string]string{"name": "Ana Maria"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Ana Maria")

		rec = env.do(t, http.MethodDelete, "/user/", token, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = env.do(t, http.MethodGet, "/user/", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
