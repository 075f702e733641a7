package participant

import (
	"context"
	"fmt"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// OverlappingEicFunctionsRuleService keeps (function, grid area) pairs disjoint across actors
type OverlappingEicFunctionsRuleService struct {
	actors ActorRepository
}

// NewOverlappingEicFunctionsRuleService creates a new OverlappingEicFunctionsRuleService
func NewOverlappingEicFunctionsRuleService(actors ActorRepository) *OverlappingEicFunctionsRuleService {
	return &OverlappingEicFunctionsRuleService{actors: actors}
}

// ValidateAcrossActors fails if any other non-inactive actor holds the
// candidate's function in any grid area the candidate claims. One shared pair
// is enough to fail.
func (s *OverlappingEicFunctionsRuleService) ValidateAcrossActors(ctx context.Context, candidate *Actor) error {
	function, ok := candidate.Function()
	if !ok || candidate.IsInactive() {
		return nil
	}
	claimed := make(map[uuid.UUID]struct{})
	for _, id := range candidate.MarketRole.GridAreaIDs() {
		claimed[id] = struct{}{}
	}
	if len(claimed) == 0 {
		return nil
	}

	existing, err := s.actors.FindByFunction(ctx, function)
	if err != nil {
		return fmt.Errorf("find actors by function: %w", err)
	}

	for _, other := range existing {
		if other.ID == candidate.ID || other.IsInactive() {
			continue
		}
		otherFunction, ok := other.Function()
		if !ok || otherFunction != function {
			continue
		}
		for _, id := range other.MarketRole.GridAreaIDs() {
			if _, taken := claimed[id]; taken {
				return shared.NewDomainErrorf(CodeOverlappingMarketRoleGridArea,
					"Market role %s in grid area %s is already assigned to actor %s", function, id, other.ActorNumber)
			}
		}
	}
	return nil
}
