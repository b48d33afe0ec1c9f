package entities

import "fmt"

// TabDocument is the interchange shape for export and import of a single
// list. Internal ids are deliberately absent: export strips them and
// import always generates fresh ones.
type TabDocument struct {
	Title     string             `json:"title"`
	MainTitle string             `json:"mainTitle,omitempty"`
	Sections  []*SectionDocument `json:"sections"`
}

// SectionDocument is the interchange shape of a section
type SectionDocument struct {
	Title     string          `json:"title"`
	Collapsed bool            `json:"collapsed"`
	Tasks     []*TaskDocument `json:"tasks"`
}

// TaskDocument is the interchange shape of a task
type TaskDocument struct {
	Text      string `json:"text"`
	Info      string `json:"info,omitempty"`
	Completed bool   `json:"completed"`
	Deadline  string `json:"deadline,omitempty"`
}

// Validate rejects documents missing the required title or sections array.
func (d *TabDocument) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidImport)
	}
	if d.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidImport)
	}
	if d.Sections == nil {
		return fmt.Errorf("%w: sections must be a list", ErrInvalidImport)
	}
	return nil
}

// Materialize deep-copies the document into a tab, generating fresh ids
// for every entity so imported data can never collide with existing ids.
func (d *TabDocument) Materialize() *Tab {
	tab := &Tab{
		ID:        NewID("tab"),
		Title:     d.Title,
		MainTitle: d.MainTitle,
		Sections:  make([]*Section, 0, len(d.Sections)),
	}
	if tab.MainTitle == "" {
		tab.MainTitle = DefaultMainTitle
	}
	for _, sd := range d.Sections {
		section := &Section{
			ID:        NewID("sec"),
			Title:     sd.Title,
			Collapsed: sd.Collapsed,
			Tasks:     make([]*Task, 0, len(sd.Tasks)),
		}
		for _, td := range sd.Tasks {
			section.Tasks = append(section.Tasks, &Task{
				ID:        NewID("task"),
				Text:      td.Text,
				Info:      td.Info,
				Completed: td.Completed,
				Deadline:  td.Deadline,
			})
		}
		tab.Sections = append(tab.Sections, section)
	}
	return tab
}

// Export produces the id-stripped document shape for download.
// DeadlineEventID is dropped along with the ids: the event it points at is
// not part of the exported tab.
func (t *Tab) Export() *TabDocument {
	doc := &TabDocument{
		Title:     t.Title,
		MainTitle: t.MainTitle,
		Sections:  make([]*SectionDocument, 0, len(t.Sections)),
	}
	for _, section := range t.Sections {
		sd := &SectionDocument{
			Title:     section.Title,
			Collapsed: section.Collapsed,
			Tasks:     make([]*TaskDocument, 0, len(section.Tasks)),
		}
		for _, task := range section.Tasks {
			sd.Tasks = append(sd.Tasks, &TaskDocument{
				Text:      task.Text,
				Info:      task.Info,
				Completed: task.Completed,
				Deadline:  task.Deadline,
			})
		}
		doc.Sections = append(doc.Sections, sd)
	}
	return doc
}
