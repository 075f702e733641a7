package participant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActorConsolidationRepository defines the interface for consolidation persistence
type ActorConsolidationRepository interface {
	// FindByID finds a consolidation by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ActorConsolidation, error)

	// FindAll finds every consolidation, latest scheduled first
	FindAll(ctx context.Context) ([]*ActorConsolidation, error)

	// FindPending finds every pending consolidation
	FindPending(ctx context.Context) ([]*ActorConsolidation, error)

	// FindDue finds pending consolidations scheduled at or before now, oldest first
	FindDue(ctx context.Context, now time.Time) ([]*ActorConsolidation, error)

	// AddOrUpdate inserts or updates the consolidation and returns its ID
	AddOrUpdate(ctx context.Context, consolidation *ActorConsolidation) (uuid.UUID, error)
}
