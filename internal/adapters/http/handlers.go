package http

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/momentum/core/internal/domain/entities"
	"github.com/momentum/core/internal/infrastructure/logger"
	"github.com/momentum/core/internal/ports"
)

// WorkspaceHandler exposes the workspace action layer over REST. A nil
// result from the action layer maps to 404 with an empty body.
type WorkspaceHandler struct {
	workspace ports.WorkspaceService
	logger    *logger.Logger
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(workspace ports.WorkspaceService, logger *logger.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspace: workspace,
		logger:    logger,
	}
}

// GetWorkspace returns the full workspace snapshot
func (h *WorkspaceHandler) GetWorkspace(c echo.Context) error {
	return c.JSON(http.StatusOK, h.workspace.Snapshot())
}

// CreateTab handles tab creation
func (h *WorkspaceHandler) CreateTab(c echo.Context) error {
	var req CreateTabRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tab := h.workspace.AddTab(req.Title)
	return c.JSON(http.StatusCreated, tab)
}

// UpdateTab handles shallow tab updates
func (h *WorkspaceHandler) UpdateTab(c echo.Context) error {
	var patch ports.TabPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tab := h.workspace.UpdateTab(c.Param("id"), patch)
	if tab == nil {
		return c.NoContent(http.StatusNotFound)
	}

	return c.JSON(http.StatusOK, tab)
}

// DeleteTab handles tab deletion; deleting the last tab is refused
func (h *WorkspaceHandler) DeleteTab(c echo.Context) error {
	tab, err := h.workspace.DeleteTab(c.Param("id"))
	if err != nil {
		if err == entities.ErrLastTab {
			return echo.NewHTTPError(http.StatusConflict, "Cannot delete the last tab")
		}
		h.logger.Errorw("Delete tab failed", "error", err, "tab_id", c.Param("id"))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete tab")
	}
	if tab == nil {
		return c.NoContent(http.StatusNotFound)
	}

	return c.JSON(http.StatusOK, tab)
}

// ReorderTabs moves a tab from one position to another
func (h *WorkspaceHandler) ReorderTabs(c echo.Context) error {
	var req ReorderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	h.workspace.ReorderTabs(req.FromIndex, req.ToIndex)
	return c.JSON(http.StatusOK, h.workspace.Snapshot().Tabs)
}

// ActivateTab switches the active tab
func (h *WorkspaceHandler) ActivateTab(c echo.Context) error {
	id := c.Param("id")
	if h.workspace.FindTab(id) == nil {
		return c.NoContent(http.StatusNotFound)
	}

	h.workspace.SetActiveTab(id)
	return c.JSON(http.StatusOK, MessageResponse{Message: "Tab activated"})
}

// ImportTab creates a tab from an exported document
func (h *WorkspaceHandler) ImportTab(c echo.Context) error {
	var doc entities.TabDocument
	if err := c.Bind(&doc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tab, err := h.workspace.ImportTab(&doc)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, tab)
}

// ExportTab returns a tab as an id-stripped JSON attachment
func (h *WorkspaceHandler) ExportTab(c echo.Context) error {
	doc := h.workspace.ExportTab(c.Param("id"))
	if doc == nil {
		return c.NoContent(http.StatusNotFound)
	}

	filename := fmt.Sprintf("%s-export.json", doc.Title)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.JSON(http.StatusOK, doc)
}

// CreateSection adds a section to the active tab
func (h *WorkspaceHandler) CreateSection(c echo.Context) error {
	var req CreateSectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	section := h.workspace.AddSection(req.Title)
	return c.JSON(http.StatusCreated, section)
}

// UpdateSection handles shallow section updates
func (h *WorkspaceHandler) UpdateSection(c echo.Context) error {
	var patch ports.SectionPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	section := h.workspace.UpdateSection(c.Param("id"), patch)
	if section == nil {
		return c.NoContent(http.StatusNotFound)
	}

	return c.JSON(http.StatusOK, section)
}

// DeleteSection removes a section and all its tasks
func (h *WorkspaceHandler) DeleteSection(c echo.Context) error {
	section := h.workspace.DeleteSection(c.Param("id"))
	if section == nil {
		return c.NoContent(http.StatusNotFound)
	}

	return c.JSON(http.StatusOK, section)
}

// ReorderSections moves a section within a tab
func (h *WorkspaceHandler) ReorderSections(c echo.Context) error {
	var req ReorderSectionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.workspace.ReorderSections(req.TabID, req.FromIndex, req.ToIndex)
	return c.JSON(http.StatusOK, MessageResponse{Message: "Sections reordered"})
}

// CreateTask adds a task to a section
func (h *WorkspaceHandler) CreateTask(c echo.Context) error {
	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task := h.workspace.AddTask(req.SectionID, ports.TaskInput{Text: req.Text, Info: req.Info})
	if task == nil {
		return c.NoContent(http.StatusNotFound)
	}

	return c.JSON(http.StatusCreated, task)
}

// UpdateTask handles shallow task updates
func (h *WorkspaceHandler) UpdateTask(c echo.Context) error {
	var patch ports.TaskPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	task := h.workspace.UpdateTask(c.Param("id"), patch)
	if task == nil {
		return c.NoContent(http.StatusNotFound)
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task and its linked deadline event
func (h *WorkspaceHandler) DeleteTask(c echo.Context) error {
	task := h.workspace.DeleteTask(c.Param("id"))
	if task == nil {
		return c.NoContent(http.StatusNotFound)
	}

	return c.JSON(http.StatusOK, task)
}

// ReorderTask moves a task within or across sections
func (h *WorkspaceHandler) ReorderTask(c echo.Context) error {
	var req ReorderTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.workspace.ReorderTask(req.StartSectionID, req.EndSectionID, req.FromIndex, req.ToIndex)
	return c.JSON(http.StatusOK, MessageResponse{Message: "Task reordered"})
}

// SaveEvent upserts a calendar event
func (h *WorkspaceHandler) SaveEvent(c echo.Context) error {
	var input ports.EventInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event := h.workspace.SaveEvent(input)
	if event == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid event payload")
	}

	return c.JSON(http.StatusOK, event)
}

// DeleteEvent removes an event from its date bucket
func (h *WorkspaceHandler) DeleteEvent(c echo.Context) error {
	dateKey := c.QueryParam("date")
	if dateKey == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing date parameter")
	}

	event := h.workspace.DeleteEvent(c.Param("id"), dateKey)
	if event == nil {
		return c.NoContent(http.StatusNotFound)
	}

	return c.JSON(http.StatusOK, event)
}

// GetEvents returns the events on a given date
func (h *WorkspaceHandler) GetEvents(c echo.Context) error {
	events := h.workspace.EventsOn(c.Param("date"))
	if events == nil {
		events = []*entities.Event{}
	}

	return c.JSON(http.StatusOK, events)
}

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService ports.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService ports.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register handles account creation
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Registration failed", "error", err, "email", req.Email)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	return c.JSON(http.StatusCreated, response)
}

// Login handles user login
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Login failed", "error", err, "username", req.Username)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	return c.JSON(http.StatusOK, response)
}

// RefreshToken handles token refresh
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	response, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		h.logger.Errorw("Token refresh failed", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
	}

	return c.JSON(http.StatusOK, response)
}

// Logout revokes the caller's refresh tokens
func (h *AuthHandler) Logout(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	if err := h.authService.Logout(c.Request().Context(), userID); err != nil {
		h.logger.Errorw("Logout failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Logout failed")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// Utility functions and helper types

func getUserIDFromContext(c echo.Context) uuid.UUID {
	user := c.Get("user")
	if user == nil {
		return uuid.Nil
	}

	if userStr, ok := user.(string); ok {
		userID, _ := uuid.Parse(userStr)
		return userID
	}

	return uuid.Nil
}

// CreateTabRequest is the tab creation payload
type CreateTabRequest struct {
	Title string `json:"title" validate:"required"`
}

// CreateSectionRequest is the section creation payload
type CreateSectionRequest struct {
	Title string `json:"title" validate:"required"`
}

// CreateTaskRequest is the task creation payload
type CreateTaskRequest struct {
	SectionID string `json:"sectionId" validate:"required"`
	Text      string `json:"text" validate:"required"`
	Info      string `json:"info,omitempty"`
}

// ReorderRequest carries a same-sequence move
type ReorderRequest struct {
	FromIndex int `json:"fromIndex"`
	ToIndex   int `json:"toIndex"`
}

// ReorderSectionsRequest carries a section move within a tab
type ReorderSectionsRequest struct {
	TabID     string `json:"tabId" validate:"required"`
	FromIndex int    `json:"fromIndex"`
	ToIndex   int    `json:"toIndex"`
}

// ReorderTaskRequest carries a task move within or across sections
type ReorderTaskRequest struct {
	StartSectionID string `json:"startSectionId" validate:"required"`
	EndSectionID   string `json:"endSectionId" validate:"required"`
	FromIndex      int    `json:"fromIndex"`
	ToIndex        int    `json:"toIndex"`
}

// RefreshTokenRequest carries a refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// MessageResponse is a simple message payload
type MessageResponse struct {
	Message string `json:"message"`
}
