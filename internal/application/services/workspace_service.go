package services

import (
	"sync"

	"github.com/momentum/core/internal/domain/entities"
	"github.com/momentum/core/internal/infrastructure/logger"
	"github.com/momentum/core/internal/ports"
)

// WorkspaceService is the action layer: it owns the single workspace
// instance and its lookup indices, and is the only writer of either.
// Every mutation runs under the lock, rebuilds the lookups, and schedules
// a debounced persist of a snapshot. Operations on a missing id return
// nil and leave the workspace untouched.
type WorkspaceService struct {
	mu      sync.Mutex
	ws      *entities.Workspace
	lookups *entities.Lookups
	repo    ports.WorkspaceRepository
	logger  *logger.Logger
}

// NewWorkspaceService wraps a loaded workspace, building its indices
func NewWorkspaceService(ws *entities.Workspace, repo ports.WorkspaceRepository, log *logger.Logger) *WorkspaceService {
	ws.EnsureEvents()
	return &WorkspaceService{
		ws:      ws,
		lookups: entities.BuildLookups(ws),
		repo:    repo,
		logger:  log.WithComponent("workspace_service"),
	}
}

var _ ports.WorkspaceService = (*WorkspaceService)(nil)

// persist rebuilds the indices and schedules a save. Must be called with
// the lock held, after every structural mutation.
func (s *WorkspaceService) persist() {
	s.lookups = entities.BuildLookups(s.ws)
	s.repo.Save(s.ws.Clone())
}

// Snapshot returns a deep copy of the workspace for read-only consumers
func (s *WorkspaceService) Snapshot() *entities.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ws.Clone()
}

// ActiveTab returns the currently active tab, or nil
func (s *WorkspaceService) ActiveTab() *entities.Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeTabLocked()
}

func (s *WorkspaceService) activeTabLocked() *entities.Tab {
	if s.ws.ActiveTabID == "" {
		return nil
	}
	return s.lookups.Tabs[s.ws.ActiveTabID]
}

// FindTab resolves a tab id through the lookup index
func (s *WorkspaceService) FindTab(id string) *entities.Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups.Tabs[id]
}

// FindSectionInfo resolves a section id to the section and its parent tab
func (s *WorkspaceService) FindSectionInfo(id string) (entities.SectionInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.lookups.Sections[id]
	return info, ok
}

// FindTaskInfo resolves a task id to the task and both ancestors
func (s *WorkspaceService) FindTaskInfo(id string) (entities.TaskInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.lookups.Tasks[id]
	return info, ok
}

// EventsOn returns the events scheduled on the given date key
func (s *WorkspaceService) EventsOn(dateKey string) []*entities.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.ws.Events[dateKey]
	out := make([]*entities.Event, 0, len(bucket))
	for _, ev := range bucket {
		dup := *ev
		out = append(out, &dup)
	}
	return out
}

// AddTab creates an empty tab, appends it, and makes it active
func (s *WorkspaceService) AddTab(title string) *entities.Tab {
	s.mu.Lock()
	defer s.mu.Unlock()

	tab := &entities.Tab{
		ID:        entities.NewID("tab"),
		Title:     title,
		MainTitle: entities.DefaultMainTitle,
		Sections:  []*entities.Section{},
	}
	s.ws.Tabs = append(s.ws.Tabs, tab)
	s.ws.ActiveTabID = tab.ID
	s.persist()

	s.logger.Infow("Tab added", "tab_id", tab.ID, "title", title)
	return tab
}

// UpdateTab shallow-merges the patch into the tab, if found
func (s *WorkspaceService) UpdateTab(id string, patch ports.TabPatch) *entities.Tab {
	s.mu.Lock()
	defer s.mu.Unlock()

	tab := s.lookups.Tabs[id]
	if tab == nil {
		return nil
	}
	if patch.Title != nil {
		tab.Title = *patch.Title
	}
	if patch.MainTitle != nil {
		tab.MainTitle = *patch.MainTitle
	}
	s.persist()
	return tab
}

// DeleteTab removes the tab. Deleting the last remaining tab is refused
// with ErrLastTab and nothing is mutated. When the active tab is removed,
// the first remaining tab becomes active.
func (s *WorkspaceService) DeleteTab(id string) (*entities.Tab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, tab := range s.ws.Tabs {
		if tab.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil
	}
	if len(s.ws.Tabs) <= 1 {
		return nil, entities.ErrLastTab
	}

	removed := s.ws.Tabs[idx]
	s.ws.Tabs = append(s.ws.Tabs[:idx], s.ws.Tabs[idx+1:]...)
	if s.ws.ActiveTabID == id {
		s.ws.ActiveTabID = s.ws.Tabs[0].ID
	}
	s.persist()

	s.logger.Infow("Tab deleted", "tab_id", id, "title", removed.Title)
	return removed, nil
}

// ReorderTabs relocates the tab at fromIndex to toIndex
func (s *WorkspaceService) ReorderTabs(fromIndex, toIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ws.Tabs, _ = relocate(s.ws.Tabs, fromIndex, s.ws.Tabs, toIndex, true)
	s.persist()
}

// SetActiveTab switches the active tab; a no-op when already active or
// when the id does not resolve
func (s *WorkspaceService) SetActiveTab(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ws.ActiveTabID == id {
		return
	}
	if s.lookups.Tabs[id] == nil {
		return
	}
	s.ws.ActiveTabID = id
	s.persist()
}

// ImportTab validates an externally supplied document, deep-clones it
// with fresh ids for every entity, appends and activates the result
func (s *WorkspaceService) ImportTab(doc *entities.TabDocument) (*entities.Tab, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tab := doc.Materialize()
	s.ws.Tabs = append(s.ws.Tabs, tab)
	s.ws.ActiveTabID = tab.ID
	s.persist()

	s.logger.Infow("Tab imported", "tab_id", tab.ID, "title", tab.Title, "sections", len(tab.Sections))
	return tab, nil
}

// ExportTab produces the id-stripped download document for a tab
func (s *WorkspaceService) ExportTab(id string) *entities.TabDocument {
	s.mu.Lock()
	defer s.mu.Unlock()

	tab := s.lookups.Tabs[id]
	if tab == nil {
		return nil
	}
	return tab.Export()
}

// AddSection appends a section to the active tab
func (s *WorkspaceService) AddSection(title string) *entities.Section {
	s.mu.Lock()
	defer s.mu.Unlock()

	tab := s.activeTabLocked()
	if tab == nil {
		return nil
	}

	section := &entities.Section{
		ID:    entities.NewID("sec"),
		Title: title,
		Tasks: []*entities.Task{},
	}
	tab.Sections = append(tab.Sections, section)
	s.persist()
	return section
}

// UpdateSection shallow-merges the patch into the section, if found
func (s *WorkspaceService) UpdateSection(id string, patch ports.SectionPatch) *entities.Section {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.lookups.Sections[id]
	if !ok {
		return nil
	}
	if patch.Title != nil {
		info.Section.Title = *patch.Title
	}
	if patch.Collapsed != nil {
		info.Section.Collapsed = *patch.Collapsed
	}
	s.persist()
	return info.Section
}

// DeleteSection removes the section and all its tasks
func (s *WorkspaceService) DeleteSection(id string) *entities.Section {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.lookups.Sections[id]
	if !ok {
		return nil
	}
	tab := info.Tab
	for i, section := range tab.Sections {
		if section.ID == id {
			tab.Sections = append(tab.Sections[:i], tab.Sections[i+1:]...)
			break
		}
	}
	s.persist()
	return info.Section
}

// ReorderSections relocates a section within one tab's sequence
func (s *WorkspaceService) ReorderSections(tabID string, fromIndex, toIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tab := s.lookups.Tabs[tabID]
	if tab == nil {
		return
	}
	tab.Sections, _ = relocate(tab.Sections, fromIndex, tab.Sections, toIndex, true)
	s.persist()
}

// AddTask appends a task to the given section
func (s *WorkspaceService) AddTask(sectionID string, input ports.TaskInput) *entities.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.lookups.Sections[sectionID]
	if !ok {
		return nil
	}

	task := &entities.Task{
		ID:   entities.NewID("task"),
		Text: input.Text,
		Info: input.Info,
	}
	info.Section.Tasks = append(info.Section.Tasks, task)
	s.persist()
	return task
}

// UpdateTask shallow-merges the patch into the task, if found
func (s *WorkspaceService) UpdateTask(id string, patch ports.TaskPatch) *entities.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.lookups.Tasks[id]
	if !ok {
		return nil
	}
	if patch.Text != nil {
		info.Task.Text = *patch.Text
	}
	if patch.Info != nil {
		info.Task.Info = *patch.Info
	}
	if patch.Completed != nil {
		info.Task.Completed = *patch.Completed
	}
	s.persist()
	return info.Task
}

// DeleteTask removes the task from its section. A linked deadline event
// is removed with it, keeping the cross-link consistent.
func (s *WorkspaceService) DeleteTask(id string) *entities.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.lookups.Tasks[id]
	if !ok {
		return nil
	}

	if info.Task.DeadlineEventID != "" && len(info.Task.Deadline) >= 10 {
		s.removeEventLocked(info.Task.DeadlineEventID, info.Task.Deadline[:10])
	}

	section := info.Section
	for i, task := range section.Tasks {
		if task.ID == id {
			section.Tasks = append(section.Tasks[:i], section.Tasks[i+1:]...)
			break
		}
	}
	s.persist()
	return info.Task
}

// ReorderTask relocates a task within a section or across two sections
// of the same tab, transferring ownership without duplication
func (s *WorkspaceService) ReorderTask(startSectionID, endSectionID string, fromIndex, toIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start, ok := s.lookups.Sections[startSectionID]
	if !ok {
		return
	}
	end, ok := s.lookups.Sections[endSectionID]
	if !ok {
		return
	}

	same := startSectionID == endSectionID
	start.Section.Tasks, end.Section.Tasks = relocate(start.Section.Tasks, fromIndex, end.Section.Tasks, toIndex, same)
	s.persist()
}

// SaveEvent upserts an event into its date bucket. On update the payload
// is merged into the stored record so a partial edit never drops fields.
// When the event carries a task reference, the task's deadline fields are
// written so the cross-link stays consistent both ways.
func (s *WorkspaceService) SaveEvent(input ports.EventInput) *entities.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ev *entities.Event
	for _, candidate := range s.ws.Events[input.Date] {
		if input.ID != "" && candidate.ID == input.ID {
			ev = candidate
			break
		}
	}

	if ev == nil {
		ev = &entities.Event{ID: input.ID}
		if ev.ID == "" {
			ev.ID = entities.NewID("evt")
		}
		s.ws.Events[input.Date] = append(s.ws.Events[input.Date], ev)
	}

	// Merge: absent fields of a partial edit keep the stored values.
	if input.Title != "" {
		ev.Title = input.Title
	}
	if input.TaskID != "" && input.TaskID != ev.TaskID {
		// The event moved to another task; the old task's deadline
		// would otherwise keep pointing at it.
		if prev, ok := s.lookups.Tasks[ev.TaskID]; ok && prev.Task.DeadlineEventID == ev.ID {
			prev.Task.Deadline = ""
			prev.Task.DeadlineEventID = ""
		}
		ev.TaskID = input.TaskID
	}
	if input.AllDay != nil {
		ev.AllDay = *input.AllDay
	}
	if input.StartTime != "" {
		ev.StartTime = input.StartTime
	}
	if input.EndTime != "" {
		ev.EndTime = input.EndTime
	}
	if input.Color != "" {
		ev.Color = entities.EventColor(input.Color)
	}
	ev.Normalize()

	if ev.TaskID != "" {
		if info, ok := s.lookups.Tasks[ev.TaskID]; ok {
			info.Task.Deadline = entities.DeadlineFor(input.Date, ev.AllDay, ev.StartTime)
			info.Task.DeadlineEventID = ev.ID
		}
	}

	s.persist()
	result := *ev
	return &result
}

// DeleteEvent removes an event from its date bucket, deleting the bucket
// when it empties. A task deadline linked to the event is cleared,
// severing the cross-link on both sides.
func (s *WorkspaceService) DeleteEvent(id, dateKey string) *entities.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.removeEventLocked(id, dateKey)
	if removed == nil {
		return nil
	}
	s.persist()
	return removed
}

func (s *WorkspaceService) removeEventLocked(id, dateKey string) *entities.Event {
	bucket := s.ws.Events[dateKey]
	for i, ev := range bucket {
		if ev.ID != id {
			continue
		}
		bucket = append(bucket[:i], bucket[i+1:]...)
		if len(bucket) == 0 {
			delete(s.ws.Events, dateKey)
		} else {
			s.ws.Events[dateKey] = bucket
		}

		if ev.TaskID != "" {
			if info, ok := s.lookups.Tasks[ev.TaskID]; ok {
				info.Task.Deadline = ""
				info.Task.DeadlineEventID = ""
			}
		}
		return ev
	}
	return nil
}

// Close flushes the pending save so shutdown never loses a mutation
func (s *WorkspaceService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repo.Flush()
}
