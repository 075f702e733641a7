package participant

import (
	"context"
	"errors"
	"fmt"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// OrganizationService handles organization-related business operations
type OrganizationService struct {
	organizations participant.OrganizationRepository
	actors        participant.ActorRepository
	uowProvider   shared.UnitOfWorkProvider
	domainEvents  shared.DomainEventRepository
	uniqueBRI     *participant.UniqueOrganizationBusinessRegisterIdentifierRuleService
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(
	organizations participant.OrganizationRepository,
	actors participant.ActorRepository,
	uowProvider shared.UnitOfWorkProvider,
	domainEvents shared.DomainEventRepository,
	uniqueBRI *participant.UniqueOrganizationBusinessRegisterIdentifierRuleService,
) *OrganizationService {
	return &OrganizationService{
		organizations: organizations,
		actors:        actors,
		uowProvider:   uowProvider,
		domainEvents:  domainEvents,
		uniqueBRI:     uniqueBRI,
	}
}

// Create creates a new organization
func (s *OrganizationService) Create(ctx context.Context, req CreateOrganizationRequest) (*OrganizationResponse, error) {
	bri, err := participant.NewBusinessRegisterIdentifier(req.BusinessRegisterIdentifier, req.Address.Country)
	if err != nil {
		return nil, err
	}
	org, err := participant.NewOrganization(req.Name, bri, req.Address.toDomain(), req.Domains)
	if err != nil {
		return nil, err
	}

	uow, err := s.uowProvider.NewUnitOfWork(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() { _ = uow.Close() }()
	ctx = uow.Context()

	if err := s.uniqueBRI.ValidateAvailable(ctx, org); err != nil {
		return nil, err
	}
	if _, err := s.organizations.AddOrUpdate(ctx, org); err != nil {
		return nil, err
	}
	if err := s.domainEvents.Enqueue(ctx, org); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit organization: %w", err)
	}

	resp := ToOrganizationResponse(org)
	return &resp, nil
}

// Get returns an organization by ID
func (s *OrganizationService) Get(ctx context.Context, id uuid.UUID) (*OrganizationResponse, error) {
	org, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrganizationResponse(org)
	return &resp, nil
}

// List returns every organization
func (s *OrganizationService) List(ctx context.Context) ([]OrganizationResponse, error) {
	orgs, err := s.organizations.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToOrganizationResponses(orgs), nil
}

// Update changes name, address and domains
func (s *OrganizationService) Update(ctx context.Context, id uuid.UUID, req UpdateOrganizationRequest) (*OrganizationResponse, error) {
	uow, err := s.uowProvider.NewUnitOfWork(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() { _ = uow.Close() }()
	ctx = uow.Context()

	org, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := org.Update(req.Name, req.Address.toDomain(), req.Domains); err != nil {
		return nil, err
	}
	if _, err := s.organizations.AddOrUpdate(ctx, org); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit organization: %w", err)
	}

	resp := ToOrganizationResponse(org)
	return &resp, nil
}

// Deactivate marks an organization deleted. Every actor it owns must be inactive.
func (s *OrganizationService) Deactivate(ctx context.Context, id uuid.UUID) error {
	uow, err := s.uowProvider.NewUnitOfWork(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() { _ = uow.Close() }()
	ctx = uow.Context()

	org, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	actors, err := s.actors.FindByOrganization(ctx, id)
	if err != nil {
		return err
	}
	for _, a := range actors {
		if !a.IsInactive() {
			return shared.NewDomainErrorf(participant.CodeOrganizationHasActiveActors,
				"Organization still owns actor %s in status %s", a.ActorNumber, a.Status)
		}
	}
	if err := org.Deactivate(); err != nil {
		return err
	}
	if _, err := s.organizations.AddOrUpdate(ctx, org); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *OrganizationService) load(ctx context.Context, id uuid.UUID) (*participant.Organization, error) {
	org, err := s.organizations.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, participant.NewOrganizationNotFoundError(id)
	}
	return org, err
}
