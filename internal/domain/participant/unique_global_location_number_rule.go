package participant

import (
	"context"
	"fmt"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
)

// UniqueGlobalLocationNumberRuleService keeps an actor number within one organization
type UniqueGlobalLocationNumberRuleService struct {
	organizations OrganizationRepository
	entityLock    shared.EntityLock
}

// NewUniqueGlobalLocationNumberRuleService creates a new UniqueGlobalLocationNumberRuleService
func NewUniqueGlobalLocationNumberRuleService(organizations OrganizationRepository, entityLock shared.EntityLock) *UniqueGlobalLocationNumberRuleService {
	return &UniqueGlobalLocationNumberRuleService{
		organizations: organizations,
		entityLock:    entityLock,
	}
}

// ValidateAvailable fails unless the number is unused or used only by org itself.
// The Actor lock must be held so no concurrent creation can observe the same
// number as available.
func (s *UniqueGlobalLocationNumberRuleService) ValidateAvailable(ctx context.Context, org *Organization, number ActorNumber) error {
	if err := s.entityLock.EnsureLocked(ctx, shared.LockableEntityActor); err != nil {
		return err
	}

	holders, err := s.organizations.FindByActorNumber(ctx, number)
	if err != nil {
		return fmt.Errorf("find organizations by actor number: %w", err)
	}
	for _, holder := range holders {
		if holder.ID != org.ID {
			return shared.NewDomainErrorf(CodeActorNumberTaken, "Actor number %s is already in use by another organization", number)
		}
	}
	return nil
}
