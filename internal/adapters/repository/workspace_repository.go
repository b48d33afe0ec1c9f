package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/momentum/core/internal/domain/entities"
	"github.com/momentum/core/internal/infrastructure/config"
	"github.com/momentum/core/internal/infrastructure/logger"
	"github.com/momentum/core/internal/ports"
)

// storedState is the on-disk shape of the workspace document. It also
// accommodates the pre-multi-tab format, which had a bare top-level
// sections array instead of tabs.
type storedState struct {
	ActiveTabID string                       `json:"activeTabId"`
	Tabs        []*entities.Tab              `json:"tabs"`
	Sections    []*entities.Section          `json:"sections,omitempty"`
	Events      map[string][]*entities.Event `json:"events"`
}

// seedDocument is the bundled bootstrap shape
type seedDocument struct {
	Sections []*entities.Section          `json:"sections"`
	Events   map[string][]*entities.Event `json:"events"`
}

// FileWorkspaceRepository persists the workspace as a single JSON document
// per key under a data directory. Saves are debounced and written
// atomically (temp file + rename); write failures are logged and
// swallowed, the in-memory workspace stays the source of truth.
type FileWorkspaceRepository struct {
	cfg       config.StorageConfig
	debouncer *Debouncer
	logger    *logger.Logger
}

// NewFileWorkspaceRepository creates the file-backed workspace store
func NewFileWorkspaceRepository(cfg config.StorageConfig, log *logger.Logger) *FileWorkspaceRepository {
	return &FileWorkspaceRepository{
		cfg:       cfg,
		debouncer: NewDebouncer(cfg.SaveDebounce),
		logger:    log.WithComponent("workspace_repository"),
	}
}

var _ ports.WorkspaceRepository = (*FileWorkspaceRepository)(nil)

func (r *FileWorkspaceRepository) primaryPath() string {
	return filepath.Join(r.cfg.DataDir, r.cfg.WorkspaceFile)
}

func (r *FileWorkspaceRepository) legacyPath() string {
	return filepath.Join(r.cfg.DataDir, r.cfg.LegacyFile)
}

// Load reconstructs the workspace: primary key, then the legacy key
// (migrated forward and removed), then the bundled seed document, then an
// empty single-tab workspace. Whatever path succeeds, the normalized
// result is written back once so the next load takes the fast path.
func (r *FileWorkspaceRepository) Load(ctx context.Context) (*entities.Workspace, string) {
	var warning string

	ws, found, err := r.loadKey(r.primaryPath())
	if err != nil {
		r.logger.Errorw("Failed to load workspace state", "path", r.primaryPath(), "error", err)
		warning = "Saved data could not be read; starting from defaults."
	}

	if ws == nil && err == nil && !found {
		ws, found, err = r.loadKey(r.legacyPath())
		if err != nil {
			r.logger.Errorw("Failed to load legacy state", "path", r.legacyPath(), "error", err)
			warning = "Saved data could not be read; starting from defaults."
		}
		if ws != nil {
			r.logger.Infow("Migrated legacy state", "path", r.legacyPath())
			if err := os.Remove(r.legacyPath()); err != nil && !os.IsNotExist(err) {
				r.logger.Warnw("Failed to remove legacy state file", "error", err)
			}
		}
	}

	if ws == nil {
		ws, err = r.loadSeed()
		if err != nil {
			r.logger.Warnw("Seed document unavailable, starting empty", "error", err)
			ws = emptyWorkspace()
		}
	}

	normalize(ws)

	if err := r.SaveNow(ws); err != nil {
		r.logger.Errorw("Failed to persist loaded workspace", "error", err)
		warning = "Changes may not be saved: storage is unavailable."
	}

	return ws, warning
}

// loadKey reads one durable key. found reports whether the file existed;
// a nil workspace with a non-nil error means the content was unusable.
func (r *FileWorkspaceRepository) loadKey(path string) (*entities.Workspace, bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read state: %w", err)
	}

	var state storedState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, true, fmt.Errorf("parse state: %w", err)
	}

	// Pre-multi-tab shape: wrap the flat sections into a single tab.
	if len(state.Tabs) == 0 && state.Sections != nil {
		r.logger.Infow("Old state format detected, migrating to tabbed structure")
		state.Tabs = []*entities.Tab{{
			ID:        entities.NewID("tab"),
			Title:     "Main",
			MainTitle: entities.DefaultMainTitle,
			Sections:  state.Sections,
		}}
		state.Sections = nil
	}

	if len(state.Tabs) == 0 {
		return nil, true, fmt.Errorf("no tabs in stored state")
	}

	ws := &entities.Workspace{
		ActiveTabID: state.ActiveTabID,
		Tabs:        state.Tabs,
		Events:      state.Events,
	}
	return ws, true, nil
}

// loadSeed bootstraps a workspace from the bundled seed document,
// wrapped into a single default tab.
func (r *FileWorkspaceRepository) loadSeed() (*entities.Workspace, error) {
	raw, err := os.ReadFile(r.cfg.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}

	var seed seedDocument
	if err := json.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	tab := &entities.Tab{
		ID:        entities.NewID("tab"),
		Title:     "Work",
		MainTitle: entities.DefaultMainTitle,
		Sections:  seed.Sections,
	}
	if tab.Sections == nil {
		tab.Sections = []*entities.Section{}
	}

	r.logger.Infow("Loaded workspace from seed document", "path", r.cfg.SeedFile)

	return &entities.Workspace{
		ActiveTabID: tab.ID,
		Tabs:        []*entities.Tab{tab},
		Events:      seed.Events,
	}, nil
}

// Save schedules a debounced write of the snapshot
func (r *FileWorkspaceRepository) Save(ws *entities.Workspace) {
	r.debouncer.Schedule(func() {
		if err := r.write(ws); err != nil {
			r.logger.Errorw("Failed to save workspace state", "error", err)
		}
	})
}

// SaveNow writes the snapshot synchronously
func (r *FileWorkspaceRepository) SaveNow(ws *entities.Workspace) error {
	return r.write(ws)
}

// Flush forces any pending debounced write to run immediately
func (r *FileWorkspaceRepository) Flush() {
	r.debouncer.Flush()
}

// Close flushes pending writes and stops the debounce timer
func (r *FileWorkspaceRepository) Close() {
	r.debouncer.Flush()
	r.debouncer.Stop()
}

func (r *FileWorkspaceRepository) write(ws *entities.Workspace) error {
	data, err := json.MarshalIndent(ws, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := os.MkdirAll(r.cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// Atomic write: never leave a truncated document behind.
	tmp := r.primaryPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, r.primaryPath()); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}

	return nil
}

func emptyWorkspace() *entities.Workspace {
	tab := &entities.Tab{
		ID:        entities.NewID("tab"),
		Title:     "Work",
		MainTitle: entities.DefaultMainTitle,
		Sections:  []*entities.Section{},
	}
	return &entities.Workspace{
		ActiveTabID: tab.ID,
		Tabs:        []*entities.Tab{tab},
		Events:      map[string][]*entities.Event{},
	}
}

// normalize repairs the invariants a loaded document may lack: the event
// table exists, every tab has a mainTitle, and the active tab reference
// points at a tab that is actually present.
func normalize(ws *entities.Workspace) {
	ws.EnsureEvents()

	active := false
	for _, tab := range ws.Tabs {
		if tab.MainTitle == "" {
			tab.MainTitle = entities.DefaultMainTitle
		}
		if tab.Sections == nil {
			tab.Sections = []*entities.Section{}
		}
		for _, section := range tab.Sections {
			if section.Tasks == nil {
				section.Tasks = []*entities.Task{}
			}
		}
		if tab.ID == ws.ActiveTabID {
			active = true
		}
	}
	if !active && len(ws.Tabs) > 0 {
		ws.ActiveTabID = ws.Tabs[0].ID
	}
}
