package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaommmadureira/challenges-ignite/internal/config"
	"github.com/joaommmadureira/challenges-ignite/internal/dto"
	"github.com/joaommmadureira/challenges-ignite/internal/logging"
)

func newTestApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Config{
		App:     config.AppConfig{Env: "test", Version: "v-test"},
		Storage: config.StorageConfig{Driver: config.StorageMemory},
	}
	a, err := New(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a.Router()
}

func do(t *testing.T, r http.Handler, method, path, username string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if username != "" {
		req.Header.Set("username", username)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestEndToEnd_TodoLifecycle(t *testing.T) {
	r := newTestApp(t)

	w := do(t, r, http.MethodPost, "/users", "", gin.H{"name": "A", "username": "a"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode[dto.UserResponse](t, w)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "A", user.Name)
	assert.Equal(t, "a", user.Username)
	assert.Contains(t, w.Body.String(), `"todos":[]`)

	before := time.Now().UTC().Truncate(time.Second)
	w = do(t, r, http.MethodPost, "/todos", "a", gin.H{"title": "t", "deadline": "2024-01-01"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	todo := decode[dto.TodoResponse](t, w)
	assert.False(t, todo.Done)
	assert.Equal(t, "t", todo.Title)
	assert.True(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Equal(todo.Deadline))
	assert.False(t, todo.CreatedAt.Before(before))
	assert.Contains(t, w.Body.String(), `"deadline":"2024-01-01T00:00:00Z"`)

	w = do(t, r, http.MethodPatch, "/todos/"+todo.ID.String()+"/done", "a", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[dto.TodoResponse](t, w).Done)

	w = do(t, r, http.MethodDelete, "/todos/"+todo.ID.String(), "a", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(t, r, http.MethodGet, "/todos", "a", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateUser_Duplicate(t *testing.T) {
	r := newTestApp(t)

	w := do(t, r, http.MethodPost, "/users", "", gin.H{"name": "A", "username": "a"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodPost, "/users", "", gin.H{"name": "B", "username": "a"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"User already exists"}`, w.Body.String())
}

func TestCreateUser_MissingFields(t *testing.T) {
	r := newTestApp(t)

	w := do(t, r, http.MethodPost, "/users", "", gin.H{"name": "A"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[dto.ErrorResponse](t, w).Error, "Username")
}

func TestTodoRoutes_UnknownUser(t *testing.T) {
	r := newTestApp(t)
	id := uuid.NewString()
	body := gin.H{"title": "t", "deadline": "2024-01-01"}

	tests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/todos", nil},
		{http.MethodPost, "/todos", body},
		{http.MethodPut, "/todos/" + id, body},
		{http.MethodPatch, "/todos/" + id + "/done", nil},
		{http.MethodDelete, "/todos/" + id, nil},
		{http.MethodPost, "/todos", gin.H{"garbage": true}},
	}
	for _, tc := range tests {
		for _, username := range []string{"ghost", ""} {
			t.Run(tc.method+" "+tc.path+" username="+username, func(t *testing.T) {
				w := do(t, r, tc.method, tc.path, username, tc.body)
				assert.Equal(t, http.StatusNotFound, w.Code)
				assert.JSONEq(t, `{"error":"User not found"}`, w.Body.String())
			})
		}
	}
}

func TestTodoRoutes_UnknownTodo(t *testing.T) {
	r := newTestApp(t)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/users", "", gin.H{"name": "A", "username": "a"}).Code)
	w := do(t, r, http.MethodPost, "/todos", "a", gin.H{"title": "keep", "deadline": "2024-01-01"})
	require.Equal(t, http.StatusCreated, w.Code)

	body := gin.H{"title": "t", "deadline": "2024-01-01"}
	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		for _, tc := range []struct {
			method string
			path   string
			body   any
		}{
			{http.MethodPut, "/todos/" + id, body},
			{http.MethodPatch, "/todos/" + id + "/done", nil},
			{http.MethodDelete, "/todos/" + id, nil},
		} {
			w := do(t, r, tc.method, tc.path, "a", tc.body)
			assert.Equal(t, http.StatusNotFound, w.Code, tc.method+" "+tc.path)
			assert.JSONEq(t, `{"error":"To-do not found"}`, w.Body.String())
		}
	}

	w = do(t, r, http.MethodGet, "/todos", "a", nil)
	list := decode[[]dto.TodoResponse](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "keep", list[0].Title)
}

func TestUpdateTodo_ReplacesTitleAndDeadline(t *testing.T) {
	r := newTestApp(t)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/users", "", gin.H{"name": "A", "username": "a"}).Code)
	created := decode[dto.TodoResponse](t, do(t, r, http.MethodPost, "/todos", "a", gin.H{"title": "t", "deadline": "2024-01-01"}))
	require.Equal(t, http.StatusOK, do(t, r, http.MethodPatch, "/todos/"+created.ID.String()+"/done", "a", nil).Code)

	w := do(t, r, http.MethodPut, "/todos/"+created.ID.String(), "a", gin.H{"title": "new", "deadline": "2025-06-30T12:00:00Z"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[dto.TodoResponse](t, w)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "new", got.Title)
	assert.True(t, time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC).Equal(got.Deadline))
	assert.True(t, got.Done)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestCreateTodo_BadBody(t *testing.T) {
	r := newTestApp(t)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/users", "", gin.H{"name": "A", "username": "a"}).Code)

	for _, body := range []any{
		gin.H{"deadline": "2024-01-01"},
		gin.H{"title": "t"},
		gin.H{"title": "t", "deadline": "someday"},
	} {
		w := do(t, r, http.MethodPost, "/todos", "a", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	}

	w := do(t, r, http.MethodGet, "/todos", "a", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestTodos_AreScopedPerUser(t *testing.T) {
	r := newTestApp(t)
	for _, u := range []string{"a", "b"} {
		require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/users", "", gin.H{"name": u, "username": u}).Code)
	}
	td := decode[dto.TodoResponse](t, do(t, r, http.MethodPost, "/todos", "a", gin.H{"title": "mine", "deadline": "2024-01-01"}))

	assert.JSONEq(t, `[]`, do(t, r, http.MethodGet, "/todos", "b", nil).Body.String())
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodDelete, "/todos/"+td.ID.String(), "b", nil).Code)
	assert.Len(t, decode[[]dto.TodoResponse](t, do(t, r, http.MethodGet, "/todos", "a", nil)), 1)
}

func TestCORS_AnyOrigin(t *testing.T) {
	r := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/todos", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "username")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestOperationalRoutes(t *testing.T) {
	r := newTestApp(t)

	w := do(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"env":"test"}`, w.Body.String())

	w = do(t, r, http.MethodGet, "/version", "", nil)
	assert.JSONEq(t, `{"version":"v-test"}`, w.Body.String())

	w = do(t, r, http.MethodGet, "/", "", nil)
	assert.Equal(t, "memory", decode[map[string]any](t, w)["storage"])

	w = do(t, r, http.MethodGet, "/swagger-doc.json", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := decode[map[string]any](t, w)
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/todos/{id}/done")
}
