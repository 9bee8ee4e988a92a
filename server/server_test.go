package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/famtodo/internal/db"
	"github.com/existflow/famtodo/internal/model"
)

// Test helpers
func setupTestServer(t *testing.T) *Server {
	t.Helper()
	database, err := db.Open(db.DriverSQLite, filepath.Join(t.TempDir(), "todo.db"))
	require.NoError(t, err)
	s := NewWithDB(database)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createProfile(t *testing.T, s *Server, name string) model.Profile {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/v1/profiles", CreateProfileRequest{Name: name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.Profile](t, rec)
}

func createTask(t *testing.T, s *Server, profile string, req CreateTaskRequest) model.TaskDetails {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/v1/profiles/"+profile+"/tasks", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.TaskDetails](t, rec)
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestLookups(t *testing.T) {
	s := setupTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/lookups", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[LookupsResponse](t, rec)
	assert.Len(t, resp.Priorities, 5)
	assert.Len(t, resp.Threats, 3)
	assert.Len(t, resp.Statuses, 6)
}

func TestProfiles(t *testing.T) {
	s := setupTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/profiles", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	dad := createProfile(t, s, "Dad")
	assert.Equal(t, "Dad", dad.Name)

	rec = do(t, s, http.MethodPost, "/api/v1/profiles", CreateProfileRequest{Name: "Dad"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/profiles", CreateProfileRequest{Name: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/profiles/Nobody/tasks", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, s, http.MethodGet, "/api/v1/profiles/42/tasks", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategories(t *testing.T) {
	s := setupTestServer(t)
	createProfile(t, s, "Dad")
	createProfile(t, s, "Mum")

	rec := do(t, s, http.MethodPost, "/api/v1/profiles/Dad/categories", CreateCategoryRequest{Name: "Work"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	work := decode[model.Category](t, rec)

	rec = do(t, s, http.MethodPost, "/api/v1/profiles/Dad/categories", CreateCategoryRequest{Name: "Meetings", ParentID: &work.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// A parent from another profile is not visible
	rec = do(t, s, http.MethodPost, "/api/v1/profiles/Mum/categories", CreateCategoryRequest{Name: "Errands", ParentID: &work.ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/profiles/Dad/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	categories := decode[[]model.Category](t, rec)
	require.Len(t, categories, 2)
	paths := []string{categories[0].FullPath, categories[1].FullPath}
	assert.ElementsMatch(t, []string{"Work", "Work > Meetings"}, paths)

	rec = do(t, s, http.MethodDelete, "/api/v1/profiles/Mum/categories/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/v1/profiles/Dad/categories/1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode[db.CategoryDeletion](t, rec)
	assert.True(t, result.Deleted)
	assert.Contains(t, result.Message, "Category 'Work' deleted")

	rec = do(t, s, http.MethodGet, "/api/v1/profiles/Dad/categories", nil)
	categories = decode[[]model.Category](t, rec)
	require.Len(t, categories, 1)
	assert.Equal(t, "Meetings", categories[0].FullPath)
	assert.Nil(t, categories[0].ParentID)
}

func TestTaskTree(t *testing.T) {
	s := setupTestServer(t)
	createProfile(t, s, "Dad")

	rec := do(t, s, http.MethodPost, "/api/v1/profiles/Dad/categories", CreateCategoryRequest{Name: "Work"})
	require.Equal(t, http.StatusCreated, rec.Code)
	work := decode[model.Category](t, rec)

	standup := createTask(t, s, "Dad", CreateTaskRequest{Title: "Standup", CategoryID: &work.ID})
	assert.Equal(t, model.StatusNotStarted, standup.CurrentStatus)
	assert.Equal(t, "Work", standup.CategoryPath)

	notes := createTask(t, s, "Dad", CreateTaskRequest{Title: "Write notes", ParentID: &standup.ID, DueDate: "2026-05-01"})
	require.NotNil(t, notes.CategoryID, "subtask inherits the parent category")
	assert.Equal(t, work.ID, *notes.CategoryID)

	createTask(t, s, "Dad", CreateTaskRequest{Title: "Water plants"})

	rec = do(t, s, http.MethodGet, "/api/v1/profiles/Dad/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tree := decode[TaskTreeResponse](t, rec)
	assert.Len(t, tree.Tasks, 3)
	require.Len(t, tree.Groups, 2)
	assert.Equal(t, "Work", tree.Groups[0].Title)
	require.Len(t, tree.Groups[0].Roots, 1)
	assert.Equal(t, "Standup", tree.Groups[0].Roots[0].Title)
	assert.Equal(t, 1, tree.Groups[0].Roots[0].NumSubtasks)
	require.Len(t, tree.Groups[0].Roots[0].Children, 1)
	assert.Equal(t, "Write notes", tree.Groups[0].Roots[0].Children[0].Title)
	assert.Equal(t, "Uncategorized", tree.Groups[1].Title)
	assert.Nil(t, tree.Groups[1].CategoryID)

	// Category filter drops the Uncategorized group
	rec = do(t, s, http.MethodGet, "/api/v1/profiles/Dad/tasks?category=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tree = decode[TaskTreeResponse](t, rec)
	assert.Len(t, tree.Tasks, 2)
	require.Len(t, tree.Groups, 1)
	assert.Equal(t, "Work", tree.Groups[0].Title)

	// Closing a task hides it unless completed=true
	rec = do(t, s, http.MethodPost, "/api/v1/profiles/Dad/tasks/3/status", SetStatusRequest{Status: model.StatusCompleted})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/api/v1/profiles/Dad/tasks", nil)
	tree = decode[TaskTreeResponse](t, rec)
	assert.Len(t, tree.Tasks, 2)

	rec = do(t, s, http.MethodGet, "/api/v1/profiles/Dad/tasks?completed=true&sort=due", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tree = decode[TaskTreeResponse](t, rec)
	require.Len(t, tree.Tasks, 3)
	assert.Equal(t, "Write notes", tree.Tasks[0].Title)

	rec = do(t, s, http.MethodGet, "/api/v1/profiles/Dad/tasks?sort=sideways", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, s, http.MethodGet, "/api/v1/profiles/Dad/tasks?category=work", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, s, http.MethodGet, "/api/v1/profiles/Dad/tasks?completed=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTaskValidation(t *testing.T) {
	s := setupTestServer(t)
	createProfile(t, s, "Dad")

	rec := do(t, s, http.MethodPost, "/api/v1/profiles/Dad/tasks", CreateTaskRequest{Title: " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/profiles/Dad/tasks", CreateTaskRequest{Title: "Trip", DueDate: "next week"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	missing := int64(99)
	rec = do(t, s, http.MethodPost, "/api/v1/profiles/Dad/tasks", CreateTaskRequest{Title: "Orphan", ParentID: &missing})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateTaskAndStatus(t *testing.T) {
	s := setupTestServer(t)
	createProfile(t, s, "Dad")
	createProfile(t, s, "Mum")
	task := createTask(t, s, "Dad", CreateTaskRequest{Title: "Taxes", DueDate: "2026-04-15"})

	desc := "  receipts in the drawer "
	rec := do(t, s, http.MethodPatch, "/api/v1/profiles/Dad/tasks/1", UpdateTaskRequest{Description: &desc})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	details := decode[model.TaskDetails](t, rec)
	assert.Equal(t, "receipts in the drawer", details.Description)
	require.NotNil(t, details.DueDate)

	rec = do(t, s, http.MethodPatch, "/api/v1/profiles/Dad/tasks/1", UpdateTaskRequest{ClearDue: true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[model.TaskDetails](t, rec).DueDate)

	due := "2026-06-30"
	rec = do(t, s, http.MethodPatch, "/api/v1/profiles/Dad/tasks/1", UpdateTaskRequest{DueDate: &due})
	require.Equal(t, http.StatusOK, rec.Code)
	details = decode[model.TaskDetails](t, rec)
	require.NotNil(t, details.DueDate)
	assert.Equal(t, due, details.DueDate.Format("2006-01-02"))

	// Tasks of another profile are invisible
	rec = do(t, s, http.MethodGet, "/api/v1/profiles/Mum/tasks/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, s, http.MethodPatch, "/api/v1/profiles/Mum/tasks/1", UpdateTaskRequest{ClearDue: true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, s, http.MethodPost, "/api/v1/profiles/Mum/tasks/1/status", SetStatusRequest{Status: model.StatusCompleted})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, s, http.MethodGet, "/api/v1/profiles/Dad/tasks/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/profiles/Dad/tasks/1/status", SetStatusRequest{Status: "Paused"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, s, http.MethodPost, "/api/v1/profiles/Dad/tasks/1/status", SetStatusRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/profiles/Dad/tasks/1/status",
		SetStatusRequest{Status: model.StatusBlocked, Reason: "waiting on forms", ExtraInfo: "HMRC"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	entry := decode[model.StatusLogEntry](t, rec)
	assert.Equal(t, task.ID, entry.TaskID)
	assert.Equal(t, model.StatusBlocked, entry.Status)

	rec = do(t, s, http.MethodGet, "/api/v1/profiles/Dad/tasks/1/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[[]model.StatusLogEntry](t, rec)
	require.Len(t, history, 2)
	statuses := []string{history[0].Status, history[1].Status}
	assert.ElementsMatch(t, []string{model.StatusNotStarted, model.StatusBlocked}, statuses)

	rec = do(t, s, http.MethodGet, "/api/v1/profiles/Dad/tasks/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.StatusBlocked, decode[model.TaskDetails](t, rec).CurrentStatus)
}

func TestUpdateTaskRejectedLeavesTaskUnchanged(t *testing.T) {
	s := setupTestServer(t)
	createProfile(t, s, "Dad")
	createTask(t, s, "Dad", CreateTaskRequest{Title: "Taxes", Description: "old", DueDate: "2026-04-15"})

	desc := "new"
	bad := "not-a-date"
	rec := do(t, s, http.MethodPatch, "/api/v1/profiles/Dad/tasks/1", UpdateTaskRequest{Description: &desc, DueDate: &bad})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "due_date")

	rec = do(t, s, http.MethodGet, "/api/v1/profiles/Dad/tasks/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	details := decode[model.TaskDetails](t, rec)
	assert.Equal(t, "old", details.Description)
	require.NotNil(t, details.DueDate)
	assert.Equal(t, "2026-04-15", details.DueDate.Format("2006-01-02"))

	// A valid combined update changes both fields
	good := "2026-05-01"
	rec = do(t, s, http.MethodPatch, "/api/v1/profiles/Dad/tasks/1", UpdateTaskRequest{Description: &desc, DueDate: &good})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	details = decode[model.TaskDetails](t, rec)
	assert.Equal(t, "new", details.Description)
	require.NotNil(t, details.DueDate)
	assert.Equal(t, good, details.DueDate.Format("2006-01-02"))
}

func TestExport(t *testing.T) {
	s := setupTestServer(t)
	createProfile(t, s, "Dad")
	createTask(t, s, "Dad", CreateTaskRequest{Title: "Taxes"})

	rec := do(t, s, http.MethodGet, "/api/v1/profiles/Dad/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=\"Dad_todo_")
	assert.Contains(t, rec.Body.String(), "# Dad's Todo List")
	assert.Contains(t, rec.Body.String(), "**Taxes**")
}
