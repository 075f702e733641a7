package participant

import (
	"context"

	"github.com/google/uuid"
)

// ActorRepository defines the interface for actor persistence
type ActorRepository interface {
	// FindByID finds an actor by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Actor, error)

	// FindByOrganization finds the actors owned by an organization
	FindByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*Actor, error)

	// FindByFunction finds every actor whose market role has the function
	FindByFunction(ctx context.Context, function EicFunction) ([]*Actor, error)

	// FindAll finds every actor
	FindAll(ctx context.Context) ([]*Actor, error)

	// AddOrUpdate inserts or updates the actor, replacing its market role and
	// credentials wholesale. Inserting requires the Actor entity lock. A
	// certificate thumbprint held by another actor yields ErrCertificateThumbprintConflict.
	AddOrUpdate(ctx context.Context, actor *Actor) (uuid.UUID, error)
}
