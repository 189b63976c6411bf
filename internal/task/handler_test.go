package task

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/taskapi/internal/auth"
	"github.com/redmonkez12/taskapi/internal/database/dbtest"
	"github.com/redmonkez12/taskapi/internal/httputil"
)

// newTestRouter mounts the handlers with a fixed identity instead of a token check.
func newTestRouter(t *testing.T) (http.Handler, func(uuid.UUID)) {
	t.Helper()

	db := dbtest.NewSQLite(t)
	h := NewHandler(NewService(NewRepository(db)))

	var current auth.Identity
	setUser := func(id uuid.UUID) { current = auth.Identity{UserID: id, Username: "test"} }

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithIdentity(req.Context(), current)))
		})
	})
	r.Get("/tasks", h.List)
	r.Post("/tasks", h.Create)
	r.Patch("/tasks/{id}", h.Update)
	r.Delete("/tasks/{id}", h.Delete)

	alice := newUser(t, db, "alice")
	setUser(alice)
	return r, setUser
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Lifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/tasks", `{"title":"  buy milk "}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "buy milk", created.Task.Title)
	assert.False(t, created.Task.Done)
	assert.NotContains(t, rec.Body.String(), "userId")

	rec = do(t, router, http.MethodPatch, "/tasks/"+created.Task.ID.String(), `{"done":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.Task.Done)

	rec = do(t, router, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Tasks, 1)
	assert.True(t, list.Tasks[0].Done)

	rec = do(t, router, http.MethodDelete, "/tasks/"+created.Task.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, router, http.MethodDelete, "/tasks/"+created.Task.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_EmptyList(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tasks":[]}`, rec.Body.String())
}

func TestHandler_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPatch, "/tasks/not-a-uuid", `{"done":true}`},
		{http.MethodDelete, "/tasks/not-a-uuid", ""},
		{http.MethodPatch, "/tasks/" + uuid.NewString(), `{"done":true}`},
		{http.MethodDelete, "/tasks/" + uuid.NewString(), ""},
	} {
		rec := do(t, router, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.path)
		assert.JSONEq(t, `{"error":"TASK_NOT_FOUND","message":"Task not found"}`, rec.Body.String())
	}
}

func TestHandler_InvalidBodies(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/tasks", `{"title":"keep"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	path := "/tasks/" + created.Task.ID.String()

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPost, "/tasks", `{"title":"   "}`},
		{http.MethodPost, "/tasks", `{"title":`},
		{http.MethodPost, "/tasks", `{"title":"` + strings.Repeat("x", 256) + `"}`},
		{http.MethodPatch, path, `{}`},
		{http.MethodPatch, path, `{"title":""}`},
		{http.MethodPatch, path, `{"done":"yes"}`},
	} {
		rec := do(t, router, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.body)

		var resp httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, httputil.CodeInvalidBody, resp.Error)
	}

	rec = do(t, router, http.MethodPatch, path, `{}`)
	assert.Contains(t, rec.Body.String(), "At least one field must be provided")
}

func TestHandler_OwnershipIsolation(t *testing.T) {
	router, setUser := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/tasks", `{"title":"alice's"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	path := "/tasks/" + created.Task.ID.String()

	setUser(uuid.New())

	rec = do(t, router, http.MethodGet, "/tasks", "")
	assert.JSONEq(t, `{"tasks":[]}`, rec.Body.String())

	rec = do(t, router, http.MethodPatch, path, `{"title":"mine now"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
