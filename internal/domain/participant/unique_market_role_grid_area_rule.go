package participant

import (
	"context"
	"fmt"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
)

// UniqueMarketRoleGridAreaRuleService reserves (function, grid area) pairs for a
// persisted actor. It runs after the actor row exists so the actor's own ID
// takes part in the reservation.
type UniqueMarketRoleGridAreaRuleService struct {
	reservations MarketRoleGridAreaReservationRepository
	entityLock   shared.EntityLock
}

// NewUniqueMarketRoleGridAreaRuleService creates a new UniqueMarketRoleGridAreaRuleService
func NewUniqueMarketRoleGridAreaRuleService(reservations MarketRoleGridAreaReservationRepository, entityLock shared.EntityLock) *UniqueMarketRoleGridAreaRuleService {
	return &UniqueMarketRoleGridAreaRuleService{
		reservations: reservations,
		entityLock:   entityLock,
	}
}

// ValidateAndReserve replaces the actor's reservations with its current market
// role. Inactive actors only release. A pair held by another actor fails.
func (s *UniqueMarketRoleGridAreaRuleService) ValidateAndReserve(ctx context.Context, actor *Actor) error {
	if err := s.entityLock.EnsureLocked(ctx, shared.LockableEntityActor); err != nil {
		return err
	}

	if err := s.reservations.ReleaseAll(ctx, actor.ID); err != nil {
		return fmt.Errorf("release reservations: %w", err)
	}

	function, ok := actor.Function()
	if !ok || actor.IsInactive() {
		return nil
	}

	for _, gridAreaID := range actor.MarketRole.GridAreaIDs() {
		reserved, err := s.reservations.Reserve(ctx, MarketRoleGridAreaReservation{
			Function:   function,
			GridAreaID: gridAreaID,
			ActorID:    actor.ID,
		})
		if err != nil {
			return fmt.Errorf("reserve grid area %s: %w", gridAreaID, err)
		}
		if !reserved {
			return shared.NewDomainErrorf(CodeMarketRoleGridAreaReserved,
				"Market role %s in grid area %s is reserved by another actor", function, gridAreaID)
		}
	}
	return nil
}
