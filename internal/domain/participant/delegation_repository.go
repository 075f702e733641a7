package participant

import (
	"context"

	"github.com/google/uuid"
)

// DelegationRepository defines the interface for delegation persistence
type DelegationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Delegation, error)

	// FindByDelegatedTo finds the delegations received by any of the actors
	FindByDelegatedTo(ctx context.Context, actorIDs []uuid.UUID) ([]*Delegation, error)

	AddOrUpdate(ctx context.Context, delegation *Delegation) (uuid.UUID, error)
}
