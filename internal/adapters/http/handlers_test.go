package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentum/core/internal/application/services"
	"github.com/momentum/core/internal/domain/entities"
	"github.com/momentum/core/internal/infrastructure/logger"
)

type nopRepo struct{}

func (nopRepo) Load(ctx context.Context) (*entities.Workspace, string) { return nil, "" }
func (nopRepo) Save(ws *entities.Workspace)                            {}
func (nopRepo) SaveNow(ws *entities.Workspace) error                   { return nil }
func (nopRepo) Flush()                                                 {}
func (nopRepo) Close()                                                 {}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func newTestHandler(t *testing.T) (*echo.Echo, *WorkspaceHandler, *services.WorkspaceService) {
	t.Helper()

	ws := &entities.Workspace{
		ActiveTabID: "tab-1",
		Tabs: []*entities.Tab{
			{
				ID:        "tab-1",
				Title:     "Work",
				MainTitle: entities.DefaultMainTitle,
				Sections: []*entities.Section{
					{ID: "sec-1", Title: "Today", Tasks: []*entities.Task{}},
				},
			},
		},
		Events: map[string][]*entities.Event{},
	}

	svc := services.NewWorkspaceService(ws, nopRepo{}, logger.NewNop())
	handler := NewWorkspaceHandler(svc, logger.NewNop())

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e, handler, svc
}

func doJSON(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestGetWorkspace(t *testing.T) {
	e, h, _ := newTestHandler(t)

	c, rec := doJSON(e, http.MethodGet, "/api/v1/workspace", "")
	require.NoError(t, h.GetWorkspace(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got entities.Workspace
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "tab-1", got.ActiveTabID)
	require.Len(t, got.Tabs, 1)
}

func TestCreateTab(t *testing.T) {
	e, h, svc := newTestHandler(t)

	c, rec := doJSON(e, http.MethodPost, "/api/v1/tabs", `{"title":"Home"}`)
	require.NoError(t, h.CreateTab(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var tab entities.Tab
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tab))
	assert.Equal(t, "Home", tab.Title)
	assert.Equal(t, tab.ID, svc.Snapshot().ActiveTabID)

	// Missing title fails validation.
	c, _ = doJSON(e, http.MethodPost, "/api/v1/tabs", `{}`)
	err := h.CreateTab(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestDeleteLastTabConflict(t *testing.T) {
	e, h, _ := newTestHandler(t)

	c, _ := doJSON(e, http.MethodDelete, "/api/v1/tabs/tab-1", "")
	c.SetParamNames("id")
	c.SetParamValues("tab-1")

	err := h.DeleteTab(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestDeleteMissingTabNotFound(t *testing.T) {
	e, h, _ := newTestHandler(t)

	c, rec := doJSON(e, http.MethodDelete, "/api/v1/tabs/tab-missing", "")
	c.SetParamNames("id")
	c.SetParamValues("tab-missing")

	require.NoError(t, h.DeleteTab(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestImportTabValidation(t *testing.T) {
	e, h, _ := newTestHandler(t)

	c, _ := doJSON(e, http.MethodPost, "/api/v1/tabs/import", `{"title":"broken"}`)
	err := h.ImportTab(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)

	valid := `{"title":"Imported","sections":[{"title":"Inbox","tasks":[{"text":"triage"}]}]}`
	c, rec := doJSON(e, http.MethodPost, "/api/v1/tabs/import", valid)
	require.NoError(t, h.ImportTab(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var tab entities.Tab
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tab))
	assert.NotEmpty(t, tab.ID)
	require.Len(t, tab.Sections, 1)
	assert.NotEmpty(t, tab.Sections[0].Tasks[0].ID)
}

func TestExportTab(t *testing.T) {
	e, h, _ := newTestHandler(t)

	c, rec := doJSON(e, http.MethodGet, "/api/v1/tabs/tab-1/export", "")
	c.SetParamNames("id")
	c.SetParamValues("tab-1")

	require.NoError(t, h.ExportTab(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "Work-export.json")

	var doc entities.TabDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "Work", doc.Title)

	c, rec = doJSON(e, http.MethodGet, "/api/v1/tabs/tab-missing/export", "")
	c.SetParamNames("id")
	c.SetParamValues("tab-missing")
	require.NoError(t, h.ExportTab(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	e, h, svc := newTestHandler(t)

	c, rec := doJSON(e, http.MethodPost, "/api/v1/tasks", `{"sectionId":"sec-1","text":"Buy milk"}`)
	require.NoError(t, h.CreateTask(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var task entities.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.False(t, task.Completed)

	c, rec = doJSON(e, http.MethodPatch, "/api/v1/tasks/"+task.ID, `{"completed":true}`)
	c.SetParamNames("id")
	c.SetParamValues(task.ID)
	require.NoError(t, h.UpdateTask(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated entities.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.Completed)

	c, rec = doJSON(e, http.MethodDelete, "/api/v1/tasks/"+task.ID, "")
	c.SetParamNames("id")
	c.SetParamValues(task.ID)
	require.NoError(t, h.DeleteTask(c))
	require.Equal(t, http.StatusOK, rec.Code)

	_, ok := svc.FindTaskInfo(task.ID)
	assert.False(t, ok)

	// Unknown section yields 404.
	c, rec = doJSON(e, http.MethodPost, "/api/v1/tasks", `{"sectionId":"sec-missing","text":"lost"}`)
	require.NoError(t, h.CreateTask(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveAndListEvents(t *testing.T) {
	e, h, _ := newTestHandler(t)

	body := `{"date":"2025-03-07","title":"Standup","startTime":"09:00","endTime":"09:15","color":"green"}`
	c, rec := doJSON(e, http.MethodPut, "/api/v1/events", body)
	require.NoError(t, h.SaveEvent(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var ev entities.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ev))
	assert.NotEmpty(t, ev.ID)

	c, rec = doJSON(e, http.MethodGet, "/api/v1/events/2025-03-07", "")
	c.SetParamNames("date")
	c.SetParamValues("2025-03-07")
	require.NoError(t, h.GetEvents(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var events []entities.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Standup", events[0].Title)

	// Malformed date key fails validation.
	c, _ = doJSON(e, http.MethodPut, "/api/v1/events", `{"date":"07/03/2025","title":"x"}`)
	err := h.SaveEvent(c)
	require.Error(t, err)
}

func TestDeleteEventRequiresDate(t *testing.T) {
	e, h, _ := newTestHandler(t)

	c, _ := doJSON(e, http.MethodDelete, "/api/v1/events/evt-1", "")
	c.SetParamNames("id")
	c.SetParamValues("evt-1")

	err := h.DeleteEvent(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
