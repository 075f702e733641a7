package participant

import (
	"context"
	"fmt"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
)

// UniqueOrganizationBusinessRegisterIdentifierRuleService keeps business
// register identifiers unique among active organizations
type UniqueOrganizationBusinessRegisterIdentifierRuleService struct {
	organizations OrganizationRepository
}

// NewUniqueOrganizationBusinessRegisterIdentifierRuleService creates the rule service
func NewUniqueOrganizationBusinessRegisterIdentifierRuleService(organizations OrganizationRepository) *UniqueOrganizationBusinessRegisterIdentifierRuleService {
	return &UniqueOrganizationBusinessRegisterIdentifierRuleService{organizations: organizations}
}

// ValidateAvailable fails if another active organization has org's identifier
func (s *UniqueOrganizationBusinessRegisterIdentifierRuleService) ValidateAvailable(ctx context.Context, org *Organization) error {
	holders, err := s.organizations.FindByBusinessRegisterIdentifier(ctx, org.BusinessRegisterIdentifier)
	if err != nil {
		return fmt.Errorf("find organizations by business register identifier: %w", err)
	}
	for _, holder := range holders {
		if holder.ID != org.ID && holder.IsActive() {
			return shared.NewDomainErrorf(CodeBusinessRegisterIdentifierTaken,
				"Business register identifier %s is already used by organization %s", org.BusinessRegisterIdentifier, holder.Name)
		}
	}
	return nil
}
