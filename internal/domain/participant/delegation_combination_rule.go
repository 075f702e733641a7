package participant

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// OrganizationMarketRoles summarizes the functions an organization holds
// directly and the functions delegated to its actors
type OrganizationMarketRoles struct {
	Held      []EicFunction
	Delegated []EicFunction
}

// IsHeld reports whether one of the organization's actors holds the function
func (r OrganizationMarketRoles) IsHeld(function EicFunction) bool {
	return slices.Contains(r.Held, function)
}

// IsDelegated reports whether the function is delegated to one of the organization's actors
func (r OrganizationMarketRoles) IsDelegated(function EicFunction) bool {
	return slices.Contains(r.Delegated, function)
}

// MarketRoleCombinationPolicy decides which functions may coexist within one organization
type MarketRoleCombinationPolicy interface {
	// AllowsHeld decides whether an actor of the organization may take the function directly
	AllowsHeld(roles OrganizationMarketRoles, function EicFunction) bool
	// AllowsDelegated decides whether the function may be delegated to an actor of the organization
	AllowsDelegated(roles OrganizationMarketRoles, function EicFunction) bool
}

// ExclusiveDelegationPolicy forbids holding a function directly and by delegation in the same organization
type ExclusiveDelegationPolicy struct{}

// AllowsHeld implements MarketRoleCombinationPolicy
func (ExclusiveDelegationPolicy) AllowsHeld(roles OrganizationMarketRoles, function EicFunction) bool {
	return !roles.IsDelegated(function)
}

// AllowsDelegated implements MarketRoleCombinationPolicy
func (ExclusiveDelegationPolicy) AllowsDelegated(roles OrganizationMarketRoles, function EicFunction) bool {
	return !roles.IsHeld(function)
}

// AllowedMarketRoleCombinationsForDelegationRuleService applies the combination
// policy to an organization's current roles and delegations
type AllowedMarketRoleCombinationsForDelegationRuleService struct {
	actors      ActorRepository
	delegations DelegationRepository
	policy      MarketRoleCombinationPolicy
}

// NewAllowedMarketRoleCombinationsForDelegationRuleService creates the rule service.
// A nil policy means ExclusiveDelegationPolicy.
func NewAllowedMarketRoleCombinationsForDelegationRuleService(
	actors ActorRepository,
	delegations DelegationRepository,
	policy MarketRoleCombinationPolicy,
) *AllowedMarketRoleCombinationsForDelegationRuleService {
	if policy == nil {
		policy = ExclusiveDelegationPolicy{}
	}
	return &AllowedMarketRoleCombinationsForDelegationRuleService{
		actors:      actors,
		delegations: delegations,
		policy:      policy,
	}
}

// Validate fails if an actor of the organization may not take the function directly
func (s *AllowedMarketRoleCombinationsForDelegationRuleService) Validate(ctx context.Context, organizationID uuid.UUID, function EicFunction) error {
	roles, err := s.rolesOf(ctx, organizationID)
	if err != nil {
		return err
	}
	if !s.policy.AllowsHeld(roles, function) {
		return shared.NewDomainErrorf(CodeDisallowedDelegationCombination,
			"Market role %s is delegated to the organization and cannot also be held directly", function)
	}
	return nil
}

// ValidateDelegation fails if the function may not be delegated to an actor of the organization
func (s *AllowedMarketRoleCombinationsForDelegationRuleService) ValidateDelegation(ctx context.Context, organizationID uuid.UUID, function EicFunction) error {
	roles, err := s.rolesOf(ctx, organizationID)
	if err != nil {
		return err
	}
	if !s.policy.AllowsDelegated(roles, function) {
		return shared.NewDomainErrorf(CodeDisallowedDelegationCombination,
			"Market role %s is held by the organization and cannot also be delegated to it", function)
	}
	return nil
}

func (s *AllowedMarketRoleCombinationsForDelegationRuleService) rolesOf(ctx context.Context, organizationID uuid.UUID) (OrganizationMarketRoles, error) {
	actors, err := s.actors.FindByOrganization(ctx, organizationID)
	if err != nil {
		return OrganizationMarketRoles{}, fmt.Errorf("find actors by organization: %w", err)
	}

	var roles OrganizationMarketRoles
	actorIDs := make([]uuid.UUID, 0, len(actors))
	for _, actor := range actors {
		if actor.IsInactive() {
			continue
		}
		actorIDs = append(actorIDs, actor.ID)
		if fn, ok := actor.Function(); ok && !roles.IsHeld(fn) {
			roles.Held = append(roles.Held, fn)
		}
	}
	if len(actorIDs) == 0 {
		return roles, nil
	}

	delegations, err := s.delegations.FindByDelegatedTo(ctx, actorIDs)
	if err != nil {
		return OrganizationMarketRoles{}, fmt.Errorf("find delegations: %w", err)
	}
	now := time.Now()
	for _, d := range delegations {
		if d.IsStoppedAt(now) || roles.IsDelegated(d.Function) {
			continue
		}
		roles.Delegated = append(roles.Delegated, d.Function)
	}
	return roles, nil
}
