package entities

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrTabNotFound     = errors.New("tab not found")
	ErrSectionNotFound = errors.New("section not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrEventNotFound   = errors.New("event not found")
	ErrLastTab         = errors.New("cannot delete the last tab")
	ErrInvalidImport   = errors.New("invalid list document")
	ErrUserNotFound    = errors.New("user not found")
)

// DefaultMainTitle is the secondary heading a tab gets when none was provided.
const DefaultMainTitle = "Today's Momentum"

// EventColor is the display tag attached to a calendar event
type EventColor string

const (
	EventColorBlue   EventColor = "blue"
	EventColorGreen  EventColor = "green"
	EventColorRed    EventColor = "red"
	EventColorYellow EventColor = "yellow"
	EventColorPurple EventColor = "purple"
)

// Workspace is the root of the data model: the ordered tab collection plus
// the date-keyed event table. There is exactly one per process.
type Workspace struct {
	ActiveTabID string              `json:"activeTabId"`
	Tabs        []*Tab              `json:"tabs"`
	Events      map[string][]*Event `json:"events"`
}

// Tab is a named, independently ordered to-do list
type Tab struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	MainTitle string     `json:"mainTitle"`
	Sections  []*Section `json:"sections"`
}

// Section is a collapsible group of tasks within a tab
type Section struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Collapsed bool    `json:"collapsed"`
	Tasks     []*Task `json:"tasks"`
}

// Task is a single checklist item. Deadline and DeadlineEventID are set
// together when a calendar event is linked to the task, and cleared together.
type Task struct {
	ID              string `json:"id"`
	Text            string `json:"text"`
	Info            string `json:"info,omitempty"`
	Completed       bool   `json:"completed"`
	Deadline        string `json:"deadline,omitempty"`
	DeadlineEventID string `json:"deadlineEventId,omitempty"`
}

// Event is a calendar entry for a specific date. TaskID is a weak
// back-reference to the task whose deadline this event represents; the
// event is owned by its date bucket, never by the task.
type Event struct {
	ID        string     `json:"id"`
	TaskID    string     `json:"taskId,omitempty"`
	Title     string     `json:"title"`
	AllDay    bool       `json:"allDay"`
	StartTime string     `json:"startTime"`
	EndTime   string     `json:"endTime"`
	Color     EventColor `json:"color"`
}

// DateKey formats a time as the YYYY-MM-DD partition key of the event table.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DeadlineFor derives a task's deadline string from the linked event.
func DeadlineFor(dateKey string, allDay bool, startTime string) string {
	if allDay {
		return dateKey + "T00:00"
	}
	return dateKey + "T" + startTime
}

// EnsureEvents guarantees the event table exists
func (w *Workspace) EnsureEvents() {
	if w.Events == nil {
		w.Events = map[string][]*Event{}
	}
}

// Clone returns a deep copy of the workspace. The persistence gateway
// serializes clones so a pending debounced write never races a mutation.
func (w *Workspace) Clone() *Workspace {
	out := &Workspace{
		ActiveTabID: w.ActiveTabID,
		Tabs:        make([]*Tab, 0, len(w.Tabs)),
		Events:      make(map[string][]*Event, len(w.Events)),
	}
	for _, tab := range w.Tabs {
		out.Tabs = append(out.Tabs, tab.Clone())
	}
	for key, bucket := range w.Events {
		copied := make([]*Event, 0, len(bucket))
		for _, ev := range bucket {
			dup := *ev
			copied = append(copied, &dup)
		}
		out.Events[key] = copied
	}
	return out
}

// Clone returns a deep copy of the tab
func (t *Tab) Clone() *Tab {
	out := &Tab{
		ID:        t.ID,
		Title:     t.Title,
		MainTitle: t.MainTitle,
		Sections:  make([]*Section, 0, len(t.Sections)),
	}
	for _, sec := range t.Sections {
		out.Sections = append(out.Sections, sec.Clone())
	}
	return out
}

// Clone returns a deep copy of the section
func (s *Section) Clone() *Section {
	out := &Section{
		ID:        s.ID,
		Title:     s.Title,
		Collapsed: s.Collapsed,
		Tasks:     make([]*Task, 0, len(s.Tasks)),
	}
	for _, task := range s.Tasks {
		dup := *task
		out.Tasks = append(out.Tasks, &dup)
	}
	return out
}

// Normalize forces the fixed all-day time window onto an all-day event.
func (e *Event) Normalize() {
	if e.AllDay {
		e.StartTime = "00:00"
		e.EndTime = "23:59"
	}
	if !e.Color.IsValid() {
		e.Color = EventColorBlue
	}
}

// IsValid checks whether the color is a known display tag
func (c EventColor) IsValid() bool {
	switch c {
	case EventColorBlue, EventColorGreen, EventColorRed, EventColorYellow, EventColorPurple:
		return true
	default:
		return false
	}
}
