package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/momentum/core/internal/domain/entities"
)

// WorkspaceService is the action layer: the exclusive, validated mutation
// surface over the workspace. Every mutation rebuilds the lookup indices
// and schedules a debounced persist. Operations on a missing id return nil
// and mutate nothing; callers must check the result.
type WorkspaceService interface {
	// Read accessors
	Snapshot() *entities.Workspace
	ActiveTab() *entities.Tab
	FindTab(id string) *entities.Tab
	FindSectionInfo(id string) (entities.SectionInfo, bool)
	FindTaskInfo(id string) (entities.TaskInfo, bool)
	EventsOn(dateKey string) []*entities.Event

	// Tab operations
	AddTab(title string) *entities.Tab
	UpdateTab(id string, patch TabPatch) *entities.Tab
	DeleteTab(id string) (*entities.Tab, error)
	ReorderTabs(fromIndex, toIndex int)
	SetActiveTab(id string)
	ImportTab(doc *entities.TabDocument) (*entities.Tab, error)
	ExportTab(id string) *entities.TabDocument

	// Section operations (scoped to the active tab, as in the UI)
	AddSection(title string) *entities.Section
	UpdateSection(id string, patch SectionPatch) *entities.Section
	DeleteSection(id string) *entities.Section
	ReorderSections(tabID string, fromIndex, toIndex int)

	// Task operations
	AddTask(sectionID string, input TaskInput) *entities.Task
	UpdateTask(id string, patch TaskPatch) *entities.Task
	DeleteTask(id string) *entities.Task
	ReorderTask(startSectionID, endSectionID string, fromIndex, toIndex int)

	// Event operations
	SaveEvent(input EventInput) *entities.Event
	DeleteEvent(id, dateKey string) *entities.Event
}

// TabPatch carries the fields of a shallow tab update; nil means untouched
type TabPatch struct {
	Title     *string `json:"title,omitempty"`
	MainTitle *string `json:"mainTitle,omitempty"`
}

// SectionPatch carries the fields of a shallow section update
type SectionPatch struct {
	Title     *string `json:"title,omitempty"`
	Collapsed *bool   `json:"collapsed,omitempty"`
}

// TaskInput carries the fields of a new task
type TaskInput struct {
	Text string `json:"text" validate:"required"`
	Info string `json:"info,omitempty"`
}

// TaskPatch carries the fields of a shallow task update
type TaskPatch struct {
	Text      *string `json:"text,omitempty"`
	Info      *string `json:"info,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// EventInput is the upsert payload for a calendar event. An empty ID means
// create; a known ID means update, merging the provided fields into the
// stored record (absent fields, including a nil AllDay, are kept as
// stored). TaskID links the event to a task's deadline.
type EventInput struct {
	ID        string `json:"id,omitempty"`
	TaskID    string `json:"taskId,omitempty"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Title     string `json:"title"`
	AllDay    *bool  `json:"allDay,omitempty"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
	Color     string `json:"color,omitempty"`
}

// AuthService handles the register/login veneer; it is not connected to
// workspace data in any way.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ValidateToken(tokenString string) (*Claims, error)
}

// RegisterRequest is the account creation payload
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the issued tokens
type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int64          `json:"expires_in"`
	User         *entities.User `json:"user"`
}

// Claims are the validated JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
