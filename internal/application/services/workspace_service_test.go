package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentum/core/internal/domain/entities"
	"github.com/momentum/core/internal/infrastructure/logger"
	"github.com/momentum/core/internal/ports"
)

// memoryRepo captures saved snapshots without touching the filesystem
type memoryRepo struct {
	saved   *entities.Workspace
	saves   int
	flushed bool
}

func (m *memoryRepo) Load(ctx context.Context) (*entities.Workspace, string) { return nil, "" }
func (m *memoryRepo) Save(ws *entities.Workspace) {
	m.saved = ws
	m.saves++
}
func (m *memoryRepo) SaveNow(ws *entities.Workspace) error {
	m.saved = ws
	m.saves++
	return nil
}
func (m *memoryRepo) Flush() { m.flushed = true }
func (m *memoryRepo) Close() {}

func newTestService(t *testing.T) (*WorkspaceService, *memoryRepo) {
	t.Helper()

	task := &entities.Task{ID: "task-1", Text: "write report"}
	ws := &entities.Workspace{
		ActiveTabID: "tab-1",
		Tabs: []*entities.Tab{
			{
				ID:        "tab-1",
				Title:     "Work",
				MainTitle: entities.DefaultMainTitle,
				Sections: []*entities.Section{
					{ID: "sec-1", Title: "Today", Tasks: []*entities.Task{task}},
					{ID: "sec-2", Title: "Later", Tasks: []*entities.Task{}},
				},
			},
		},
		Events: map[string][]*entities.Event{},
	}

	repo := &memoryRepo{}
	return NewWorkspaceService(ws, repo, logger.NewNop()), repo
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestAddTabActivates(t *testing.T) {
	svc, repo := newTestService(t)

	tab := svc.AddTab("Home")

	require.NotNil(t, tab)
	assert.NotEmpty(t, tab.ID)
	assert.Equal(t, entities.DefaultMainTitle, tab.MainTitle)
	assert.Equal(t, tab.ID, svc.Snapshot().ActiveTabID)
	assert.Same(t, tab, svc.FindTab(tab.ID))
	assert.Equal(t, 1, repo.saves)
}

func TestUpdateTab(t *testing.T) {
	svc, _ := newTestService(t)

	tab := svc.UpdateTab("tab-1", ports.TabPatch{Title: strPtr("Renamed")})
	require.NotNil(t, tab)
	assert.Equal(t, "Renamed", tab.Title)
	assert.Equal(t, entities.DefaultMainTitle, tab.MainTitle)

	assert.Nil(t, svc.UpdateTab("tab-missing", ports.TabPatch{Title: strPtr("x")}))
}

func TestDeleteLastTabRefused(t *testing.T) {
	svc, repo := newTestService(t)

	tab, err := svc.DeleteTab("tab-1")
	assert.Nil(t, tab)
	assert.ErrorIs(t, err, entities.ErrLastTab)

	assert.Len(t, svc.Snapshot().Tabs, 1)
	assert.Equal(t, 0, repo.saves)
}

func TestDeleteActiveTabActivatesFirst(t *testing.T) {
	svc, _ := newTestService(t)
	second := svc.AddTab("Home")
	require.Equal(t, second.ID, svc.Snapshot().ActiveTabID)

	removed, err := svc.DeleteTab(second.ID)
	require.NoError(t, err)
	require.NotNil(t, removed)

	assert.Equal(t, "tab-1", svc.Snapshot().ActiveTabID)
	assert.Nil(t, svc.FindTab(second.ID))
}

func TestDeleteMissingTab(t *testing.T) {
	svc, _ := newTestService(t)

	tab, err := svc.DeleteTab("tab-missing")
	assert.Nil(t, tab)
	assert.NoError(t, err)
}

func TestSetActiveTab(t *testing.T) {
	svc, repo := newTestService(t)
	second := svc.AddTab("Home")
	savesBefore := repo.saves

	// Unknown id is a no-op.
	svc.SetActiveTab("tab-missing")
	assert.Equal(t, second.ID, svc.Snapshot().ActiveTabID)
	assert.Equal(t, savesBefore, repo.saves)

	// Already active is a no-op too.
	svc.SetActiveTab(second.ID)
	assert.Equal(t, savesBefore, repo.saves)

	svc.SetActiveTab("tab-1")
	assert.Equal(t, "tab-1", svc.Snapshot().ActiveTabID)
	assert.Equal(t, savesBefore+1, repo.saves)
}

func TestReorderTabs(t *testing.T) {
	svc, _ := newTestService(t)
	b := svc.AddTab("B")
	c := svc.AddTab("C")
	d := svc.AddTab("D")

	svc.ReorderTabs(0, 3)

	tabs := svc.Snapshot().Tabs
	require.Len(t, tabs, 4)
	assert.Equal(t, []string{b.ID, c.ID, d.ID, "tab-1"}, []string{tabs[0].ID, tabs[1].ID, tabs[2].ID, tabs[3].ID})

	svc.ReorderTabs(3, 0)
	tabs = svc.Snapshot().Tabs
	assert.Equal(t, "tab-1", tabs[0].ID)
}

func TestImportTab(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ImportTab(&entities.TabDocument{Title: "broken"})
	assert.ErrorIs(t, err, entities.ErrInvalidImport)

	doc := &entities.TabDocument{
		Title: "Imported",
		Sections: []*entities.SectionDocument{
			{Title: "Inbox", Tasks: []*entities.TaskDocument{{Text: "triage"}}},
		},
	}

	tab, err := svc.ImportTab(doc)
	require.NoError(t, err)
	require.NotNil(t, tab)

	assert.Equal(t, tab.ID, svc.Snapshot().ActiveTabID)
	assert.NotEqual(t, "tab-1", tab.ID)

	// Imported entities are reachable through fresh ids.
	info, ok := svc.FindTaskInfo(tab.Sections[0].Tasks[0].ID)
	require.True(t, ok)
	assert.Equal(t, "triage", info.Task.Text)
}

func TestExportTab(t *testing.T) {
	svc, _ := newTestService(t)

	doc := svc.ExportTab("tab-1")
	require.NotNil(t, doc)
	assert.Equal(t, "Work", doc.Title)
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "write report", doc.Sections[0].Tasks[0].Text)

	assert.Nil(t, svc.ExportTab("tab-missing"))
}

func TestAddSectionScopedToActiveTab(t *testing.T) {
	svc, _ := newTestService(t)

	section := svc.AddSection("Archive")
	require.NotNil(t, section)

	info, ok := svc.FindSectionInfo(section.ID)
	require.True(t, ok)
	assert.Equal(t, "tab-1", info.Tab.ID)

	home := svc.AddTab("Home")
	other := svc.AddSection("Chores")
	info, ok = svc.FindSectionInfo(other.ID)
	require.True(t, ok)
	assert.Equal(t, home.ID, info.Tab.ID)
}

func TestDeleteSection(t *testing.T) {
	svc, _ := newTestService(t)

	section := svc.DeleteSection("sec-1")
	require.NotNil(t, section)

	_, ok := svc.FindSectionInfo("sec-1")
	assert.False(t, ok)
	// Tasks inside the section drop out of the index with it.
	_, ok = svc.FindTaskInfo("task-1")
	assert.False(t, ok)

	assert.Nil(t, svc.DeleteSection("sec-1"))
}

func TestTaskLifecycle(t *testing.T) {
	svc, _ := newTestService(t)

	task := svc.AddTask("sec-2", ports.TaskInput{Text: "Buy milk"})
	require.NotNil(t, task)
	assert.False(t, task.Completed)
	assert.NotEmpty(t, task.ID)

	updated := svc.UpdateTask(task.ID, ports.TaskPatch{Completed: boolPtr(true)})
	require.NotNil(t, updated)
	assert.True(t, updated.Completed)

	removed := svc.DeleteTask(task.ID)
	require.NotNil(t, removed)

	_, ok := svc.FindTaskInfo(task.ID)
	assert.False(t, ok)

	info, ok := svc.FindSectionInfo("sec-2")
	require.True(t, ok)
	assert.Empty(t, info.Section.Tasks)
}

func TestAddTaskMissingSection(t *testing.T) {
	svc, _ := newTestService(t)
	assert.Nil(t, svc.AddTask("sec-missing", ports.TaskInput{Text: "lost"}))
}

func TestReorderTaskAcrossSections(t *testing.T) {
	svc, _ := newTestService(t)

	a := svc.AddTask("sec-1", ports.TaskInput{Text: "a"})
	c := svc.AddTask("sec-2", ports.TaskInput{Text: "c"})
	d := svc.AddTask("sec-2", ports.TaskInput{Text: "d"})

	// sec-1 holds [task-1, a], sec-2 holds [c, d]. Move a into sec-2 at 1.
	svc.ReorderTask("sec-1", "sec-2", 1, 1)

	src, ok := svc.FindSectionInfo("sec-1")
	require.True(t, ok)
	dst, ok := svc.FindSectionInfo("sec-2")
	require.True(t, ok)

	require.Len(t, src.Section.Tasks, 1)
	assert.Equal(t, "task-1", src.Section.Tasks[0].ID)

	require.Len(t, dst.Section.Tasks, 3)
	assert.Equal(t, []string{c.ID, a.ID, d.ID}, []string{dst.Section.Tasks[0].ID, dst.Section.Tasks[1].ID, dst.Section.Tasks[2].ID})

	// The moved task resolves to its new parent.
	info, ok := svc.FindTaskInfo(a.ID)
	require.True(t, ok)
	assert.Equal(t, "sec-2", info.Section.ID)
}

func TestSaveEventCreatesCrossLink(t *testing.T) {
	svc, _ := newTestService(t)

	ev := svc.SaveEvent(ports.EventInput{
		TaskID:    "task-1",
		Date:      "2025-03-07",
		Title:     "Report due",
		StartTime: "09:00",
		EndTime:   "10:00",
		Color:     "red",
	})
	require.NotNil(t, ev)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, entities.EventColorRed, ev.Color)

	info, ok := svc.FindTaskInfo("task-1")
	require.True(t, ok)
	assert.Equal(t, "2025-03-07T09:00", info.Task.Deadline)
	assert.Equal(t, ev.ID, info.Task.DeadlineEventID)

	events := svc.EventsOn("2025-03-07")
	require.Len(t, events, 1)
	assert.Equal(t, ev.ID, events[0].ID)
}

func TestSaveEventAllDayDeadline(t *testing.T) {
	svc, _ := newTestService(t)

	ev := svc.SaveEvent(ports.EventInput{
		TaskID: "task-1",
		Date:   "2025-03-07",
		Title:  "Report due",
		AllDay: boolPtr(true),
	})
	require.NotNil(t, ev)
	assert.Equal(t, "00:00", ev.StartTime)
	assert.Equal(t, "23:59", ev.EndTime)

	info, _ := svc.FindTaskInfo("task-1")
	assert.Equal(t, "2025-03-07T00:00", info.Task.Deadline)
}

func TestSaveEventPartialEditMerges(t *testing.T) {
	svc, _ := newTestService(t)

	ev := svc.SaveEvent(ports.EventInput{
		Date:      "2025-03-07",
		Title:     "Standup",
		StartTime: "09:00",
		EndTime:   "09:15",
		Color:     "green",
	})
	require.NotNil(t, ev)

	// A rename-only edit keeps the stored times and color.
	edited := svc.SaveEvent(ports.EventInput{
		ID:    ev.ID,
		Date:  "2025-03-07",
		Title: "Daily standup",
	})
	require.NotNil(t, edited)
	assert.Equal(t, ev.ID, edited.ID)
	assert.Equal(t, "Daily standup", edited.Title)
	assert.Equal(t, "09:00", edited.StartTime)
	assert.Equal(t, "09:15", edited.EndTime)
	assert.Equal(t, entities.EventColorGreen, edited.Color)

	assert.Len(t, svc.EventsOn("2025-03-07"), 1)
}

func TestSaveEventPartialEditKeepsAllDay(t *testing.T) {
	svc, _ := newTestService(t)

	ev := svc.SaveEvent(ports.EventInput{
		TaskID: "task-1",
		Date:   "2025-03-07",
		Title:  "Offsite",
		AllDay: boolPtr(true),
	})
	require.NotNil(t, ev)

	// A rename payload without allDay leaves the flag and the derived
	// deadline untouched.
	edited := svc.SaveEvent(ports.EventInput{
		ID:    ev.ID,
		Date:  "2025-03-07",
		Title: "Team offsite",
	})
	require.NotNil(t, edited)
	assert.True(t, edited.AllDay)
	assert.Equal(t, "00:00", edited.StartTime)
	assert.Equal(t, "23:59", edited.EndTime)

	info, _ := svc.FindTaskInfo("task-1")
	assert.Equal(t, "2025-03-07T00:00", info.Task.Deadline)

	// An explicit allDay=false converts the event to a timed one.
	timed := svc.SaveEvent(ports.EventInput{
		ID:        ev.ID,
		Date:      "2025-03-07",
		AllDay:    boolPtr(false),
		StartTime: "14:00",
		EndTime:   "15:00",
	})
	require.NotNil(t, timed)
	assert.False(t, timed.AllDay)
	assert.Equal(t, "14:00", timed.StartTime)
}

func TestSaveEventReassignTaskClearsOldLink(t *testing.T) {
	svc, _ := newTestService(t)
	other := svc.AddTask("sec-2", ports.TaskInput{Text: "review"})

	ev := svc.SaveEvent(ports.EventInput{
		TaskID:    "task-1",
		Date:      "2025-03-07",
		Title:     "Handoff",
		StartTime: "09:00",
	})
	require.NotNil(t, ev)

	moved := svc.SaveEvent(ports.EventInput{
		ID:     ev.ID,
		TaskID: other.ID,
		Date:   "2025-03-07",
	})
	require.NotNil(t, moved)
	assert.Equal(t, other.ID, moved.TaskID)

	old, ok := svc.FindTaskInfo("task-1")
	require.True(t, ok)
	assert.Empty(t, old.Task.Deadline)
	assert.Empty(t, old.Task.DeadlineEventID)

	linked, ok := svc.FindTaskInfo(other.ID)
	require.True(t, ok)
	assert.Equal(t, "2025-03-07T09:00", linked.Task.Deadline)
	assert.Equal(t, ev.ID, linked.Task.DeadlineEventID)
}

func TestDeleteEventClearsCrossLink(t *testing.T) {
	svc, _ := newTestService(t)

	ev := svc.SaveEvent(ports.EventInput{
		TaskID:    "task-1",
		Date:      "2025-03-07",
		Title:     "Report due",
		StartTime: "09:00",
	})
	require.NotNil(t, ev)

	removed := svc.DeleteEvent(ev.ID, "2025-03-07")
	require.NotNil(t, removed)

	info, ok := svc.FindTaskInfo("task-1")
	require.True(t, ok)
	assert.Empty(t, info.Task.Deadline)
	assert.Empty(t, info.Task.DeadlineEventID)

	// The emptied bucket is gone.
	assert.NotContains(t, svc.Snapshot().Events, "2025-03-07")
	assert.Nil(t, svc.DeleteEvent(ev.ID, "2025-03-07"))
}

func TestDeleteTaskRemovesLinkedEvent(t *testing.T) {
	svc, _ := newTestService(t)

	ev := svc.SaveEvent(ports.EventInput{
		TaskID:    "task-1",
		Date:      "2025-03-07",
		Title:     "Report due",
		StartTime: "09:00",
	})
	require.NotNil(t, ev)

	removed := svc.DeleteTask("task-1")
	require.NotNil(t, removed)

	assert.Empty(t, svc.EventsOn("2025-03-07"))
	assert.NotContains(t, svc.Snapshot().Events, "2025-03-07")
}

func TestSnapshotIsDetached(t *testing.T) {
	svc, _ := newTestService(t)

	snap := svc.Snapshot()
	snap.Tabs[0].Title = "hacked"
	snap.Tabs[0].Sections[0].Tasks[0].Text = "hacked"

	assert.Equal(t, "Work", svc.FindTab("tab-1").Title)
	info, _ := svc.FindTaskInfo("task-1")
	assert.Equal(t, "write report", info.Task.Text)
}

func TestPersistSavesSnapshot(t *testing.T) {
	svc, repo := newTestService(t)

	svc.AddTask("sec-2", ports.TaskInput{Text: "first"})
	saved := repo.saved
	require.NotNil(t, saved)

	// Later mutations must not leak into the already captured snapshot.
	svc.AddTask("sec-2", ports.TaskInput{Text: "second"})

	var sec *entities.Section
	for _, s := range saved.Tabs[0].Sections {
		if s.ID == "sec-2" {
			sec = s
		}
	}
	require.NotNil(t, sec)
	assert.Len(t, sec.Tasks, 1)
}

func TestCloseFlushes(t *testing.T) {
	svc, repo := newTestService(t)
	svc.Close()
	assert.True(t, repo.flushed)
}
