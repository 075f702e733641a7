package participant

import (
	"context"

	"github.com/google/uuid"
)

// OrganizationRepository defines the interface for organization persistence.
// Lookups return shared.ErrNotFound-coded errors when nothing matches.
type OrganizationRepository interface {
	// FindByID finds an organization by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)

	// FindByActorNumber finds the organizations owning a non-inactive actor with the number
	FindByActorNumber(ctx context.Context, number ActorNumber) ([]*Organization, error)

	// FindByBusinessRegisterIdentifier finds active organizations with the identifier
	FindByBusinessRegisterIdentifier(ctx context.Context, bri BusinessRegisterIdentifier) ([]*Organization, error)

	// FindAll finds every organization ordered by name
	FindAll(ctx context.Context) ([]*Organization, error)

	// AddOrUpdate inserts or updates the organization and returns its ID
	AddOrUpdate(ctx context.Context, org *Organization) (uuid.UUID, error)
}
