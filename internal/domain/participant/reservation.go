package participant

import (
	"context"

	"github.com/google/uuid"
)

// MarketRoleGridAreaReservation pins a (function, grid area) pair to one actor.
// The store backs it with a unique index.
type MarketRoleGridAreaReservation struct {
	Function   EicFunction
	GridAreaID uuid.UUID
	ActorID    uuid.UUID
}

// MarketRoleGridAreaReservationRepository persists reservations
type MarketRoleGridAreaReservationRepository interface {
	// Reserve claims the pair for the reservation's actor. It returns false when
	// another actor already holds the pair; holding it already is not a conflict.
	Reserve(ctx context.Context, reservation MarketRoleGridAreaReservation) (bool, error)

	// ReleaseAll drops every reservation held by the actor
	ReleaseAll(ctx context.Context, actorID uuid.UUID) error

	// FindByActor returns the reservations held by the actor
	FindByActor(ctx context.Context, actorID uuid.UUID) ([]MarketRoleGridAreaReservation, error)
}
