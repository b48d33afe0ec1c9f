package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/momentum/core/internal/domain/entities"
)

// WorkspaceRepository is the persistence gateway for the workspace
// document. Load never fails outright: corrupted or missing durable state
// degrades through the seed document down to an empty single-tab
// workspace. Save is debounced and fire-and-forget; write errors are
// logged, never surfaced to the caller.
type WorkspaceRepository interface {
	// Load reconstructs the workspace from durable storage, migrating
	// legacy shapes forward and falling back to the seed document. The
	// returned warning, when non-empty, is a user-facing notice that the
	// durable state could not be used.
	Load(ctx context.Context) (ws *entities.Workspace, warning string)

	// Save schedules a coalesced write of the given snapshot. Bursts
	// within the debounce window collapse into a single write.
	Save(ws *entities.Workspace)

	// SaveNow writes the snapshot synchronously, bypassing the debounce.
	SaveNow(ws *entities.Workspace) error

	// Flush forces any pending debounced write to run immediately.
	Flush()

	// Close flushes and releases the debounce timer.
	Close()
}

// UserRepository stores auth veneer accounts
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// AuthRepository stores hashed refresh tokens
type AuthRepository interface {
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*entities.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}
