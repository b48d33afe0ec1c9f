package entities

// TaskInfo resolves a task id to the task and both of its ancestors
type TaskInfo struct {
	Task    *Task
	Section *Section
	Tab     *Tab
}

// SectionInfo resolves a section id to the section and its parent tab
type SectionInfo struct {
	Section *Section
	Tab     *Tab
}

// Lookups holds the derived O(1) indices over the nested collections.
// They are a pure function of the workspace: rebuild after every
// structural mutation, never patch incrementally.
type Lookups struct {
	Tasks    map[string]TaskInfo
	Sections map[string]SectionInfo
	Tabs     map[string]*Tab
}

// BuildLookups walks the whole workspace and produces fresh indices,
// fully replacing any prior content. A nil or partially initialized
// workspace yields empty maps.
func BuildLookups(ws *Workspace) *Lookups {
	l := &Lookups{
		Tasks:    map[string]TaskInfo{},
		Sections: map[string]SectionInfo{},
		Tabs:     map[string]*Tab{},
	}
	if ws == nil {
		return l
	}
	for _, tab := range ws.Tabs {
		l.Tabs[tab.ID] = tab
		for _, section := range tab.Sections {
			l.Sections[section.ID] = SectionInfo{Section: section, Tab: tab}
			for _, task := range section.Tasks {
				l.Tasks[task.ID] = TaskInfo{Task: task, Section: section, Tab: tab}
			}
		}
	}
	return l
}
