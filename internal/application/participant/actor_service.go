package participant

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ClientSecretLifetime is how long an issued client secret stays valid
const ClientSecretLifetime = 365 * 24 * time.Hour

// ActorService handles actor operations other than the creation rules
type ActorService struct {
	actors          participant.ActorRepository
	organizations   participant.OrganizationRepository
	gridAreas       participant.GridAreaRepository
	delegations     participant.DelegationRepository
	uowProvider     shared.UnitOfWorkProvider
	entityLock      shared.EntityLock
	domainEvents    shared.DomainEventRepository
	factory         *ActorFactoryService
	uniqueGridAreas *participant.UniqueMarketRoleGridAreaRuleService
	combinations    *participant.AllowedMarketRoleCombinationsForDelegationRuleService
}

// ActorServiceDeps groups the collaborators of ActorService
type ActorServiceDeps struct {
	Actors                 participant.ActorRepository
	Organizations          participant.OrganizationRepository
	GridAreas              participant.GridAreaRepository
	Delegations            participant.DelegationRepository
	UnitOfWorkProvider     shared.UnitOfWorkProvider
	EntityLock             shared.EntityLock
	DomainEvents           shared.DomainEventRepository
	Factory                *ActorFactoryService
	UniqueGridAreas        *participant.UniqueMarketRoleGridAreaRuleService
	DelegationCombinations *participant.AllowedMarketRoleCombinationsForDelegationRuleService
}

// NewActorService creates a new ActorService
func NewActorService(deps ActorServiceDeps) *ActorService {
	return &ActorService{
		actors:          deps.Actors,
		organizations:   deps.Organizations,
		gridAreas:       deps.GridAreas,
		delegations:     deps.Delegations,
		uowProvider:     deps.UnitOfWorkProvider,
		entityLock:      deps.EntityLock,
		domainEvents:    deps.DomainEvents,
		factory:         deps.Factory,
		uniqueGridAreas: deps.UniqueGridAreas,
		combinations:    deps.DelegationCombinations,
	}
}

// Create resolves the request and hands it to the actor factory
func (s *ActorService) Create(ctx context.Context, req CreateActorRequest) (*ActorResponse, error) {
	org, err := s.organizations.FindByID(ctx, req.OrganizationID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, participant.NewOrganizationNotFoundError(req.OrganizationID)
	}
	if err != nil {
		return nil, err
	}

	number, err := participant.NewActorNumber(req.ActorNumber)
	if err != nil {
		return nil, err
	}

	var role *participant.ActorMarketRole
	if req.MarketRole != nil {
		role, err = s.buildMarketRole(ctx, *req.MarketRole)
		if err != nil {
			return nil, err
		}
	}

	actor, err := s.factory.Create(ctx, org, number, req.Name, role)
	if err != nil {
		return nil, err
	}
	resp := ToActorResponse(actor)
	return &resp, nil
}

func (s *ActorService) buildMarketRole(ctx context.Context, dto MarketRoleDTO) (*participant.ActorMarketRole, error) {
	function, err := participant.ParseEicFunction(dto.Function)
	if err != nil {
		return nil, err
	}

	gridAreas := make([]participant.ActorGridArea, 0, len(dto.GridAreas))
	for _, ga := range dto.GridAreas {
		if _, err := s.gridAreas.FindByID(ctx, ga.GridAreaID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, participant.NewGridAreaNotFoundError(ga.GridAreaID)
			}
			return nil, err
		}
		types := make([]participant.MeteringPointType, 0, len(ga.MeteringPointTypes))
		for _, t := range ga.MeteringPointTypes {
			mpt, err := participant.ParseMeteringPointType(t)
			if err != nil {
				return nil, err
			}
			types = append(types, mpt)
		}
		actorGridArea, err := participant.NewActorGridArea(ga.GridAreaID, types)
		if err != nil {
			return nil, err
		}
		gridAreas = append(gridAreas, actorGridArea)
	}

	return participant.NewActorMarketRole(function, gridAreas, dto.Comment)
}

// Get returns an actor by ID
func (s *ActorService) Get(ctx context.Context, id uuid.UUID) (*ActorResponse, error) {
	actor, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToActorResponse(actor)
	return &resp, nil
}

// ListByOrganization returns the actors of an organization
func (s *ActorService) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]ActorResponse, error) {
	if _, err := s.organizations.FindByID(ctx, organizationID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, participant.NewOrganizationNotFoundError(organizationID)
		}
		return nil, err
	}
	actors, err := s.actors.FindByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return ToActorResponses(actors), nil
}

// Rename changes the display name of an actor
func (s *ActorService) Rename(ctx context.Context, id uuid.UUID, req RenameActorRequest) (*ActorResponse, error) {
	return s.update(ctx, id, func(actor *participant.Actor) error {
		return actor.Rename(req.Name)
	})
}

// SetExternalActorID links the actor to an identity-provider application
func (s *ActorService) SetExternalActorID(ctx context.Context, id uuid.UUID, req SetExternalActorIDRequest) (*ActorResponse, error) {
	return s.update(ctx, id, func(actor *participant.Actor) error {
		actor.SetExternalActorID(req.ExternalActorID)
		return nil
	})
}

// AssignCertificate assigns certificate credentials. A thumbprint used by
// another actor fails with participant.ErrCertificateThumbprintConflict.
func (s *ActorService) AssignCertificate(ctx context.Context, id uuid.UUID, req AssignCertificateRequest) (*ActorResponse, error) {
	credentials, err := participant.NewCertificateCredentials(req.Thumbprint, req.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, id, func(actor *participant.Actor) error {
		return actor.AssignCredentials(credentials)
	})
}

// AssignClientSecret issues a new client secret. Only its bcrypt hash is stored.
func (s *ActorService) AssignClientSecret(ctx context.Context, id uuid.UUID) (*ClientSecretResponse, error) {
	secret, err := generateClientSecret()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash client secret: %w", err)
	}
	identifier := uuid.NewString()
	expiresAt := time.Now().UTC().Add(ClientSecretLifetime)

	credentials, err := participant.NewClientSecretCredentials(identifier, string(hash), expiresAt)
	if err != nil {
		return nil, err
	}
	if _, err := s.update(ctx, id, func(actor *participant.Actor) error {
		return actor.AssignCredentials(credentials)
	}); err != nil {
		return nil, err
	}

	return &ClientSecretResponse{Identifier: identifier, Secret: secret, ExpiresAt: expiresAt}, nil
}

// RemoveCredentials clears the credentials of an actor
func (s *ActorService) RemoveCredentials(ctx context.Context, id uuid.UUID) (*ActorResponse, error) {
	return s.update(ctx, id, func(actor *participant.Actor) error {
		actor.RemoveCredentials()
		return nil
	})
}

// Deactivate makes an actor inactive and releases its grid area reservations
func (s *ActorService) Deactivate(ctx context.Context, id uuid.UUID) (*ActorResponse, error) {
	uow, err := s.uowProvider.NewUnitOfWork(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() { _ = uow.Close() }()
	ctx = uow.Context()

	if err := s.entityLock.Lock(ctx, shared.LockableEntityActor); err != nil {
		return nil, fmt.Errorf("acquire actor lock: %w", err)
	}

	actor, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.Deactivate(); err != nil {
		return nil, err
	}
	if _, err := s.actors.AddOrUpdate(ctx, actor); err != nil {
		return nil, err
	}
	if err := s.uniqueGridAreas.ValidateAndReserve(ctx, actor); err != nil {
		return nil, err
	}
	if err := s.domainEvents.Enqueue(ctx, actor); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit actor: %w", err)
	}

	resp := ToActorResponse(actor)
	return &resp, nil
}

// CreateDelegation delegates a market role of one actor to another
func (s *ActorService) CreateDelegation(ctx context.Context, req CreateDelegationRequest) (*DelegationResponse, error) {
	function, err := participant.ParseEicFunction(req.Function)
	if err != nil {
		return nil, err
	}

	uow, err := s.uowProvider.NewUnitOfWork(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() { _ = uow.Close() }()
	ctx = uow.Context()

	delegatedBy, err := s.load(ctx, req.DelegatedByActorID)
	if err != nil {
		return nil, err
	}
	if fn, ok := delegatedBy.Function(); !ok || fn != function {
		return nil, shared.NewDomainErrorf(participant.CodeInvalidDelegation,
			"Actor %s does not hold market role %s", delegatedBy.ActorNumber, function)
	}
	delegatedTo, err := s.load(ctx, req.DelegatedToActorID)
	if err != nil {
		return nil, err
	}
	if err := s.combinations.ValidateDelegation(ctx, delegatedTo.OrganizationID, function); err != nil {
		return nil, err
	}

	delegation, err := participant.NewDelegation(delegatedBy.ID, delegatedTo.ID, function, req.StartsAt)
	if err != nil {
		return nil, err
	}
	if _, err := s.delegations.AddOrUpdate(ctx, delegation); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit delegation: %w", err)
	}

	resp := ToDelegationResponse(delegation)
	return &resp, nil
}

// StopDelegation ends a delegation
func (s *ActorService) StopDelegation(ctx context.Context, id uuid.UUID, req StopDelegationRequest) (*DelegationResponse, error) {
	delegation, err := s.delegations.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainErrorf(participant.CodeDelegationNotFound, "Delegation %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	if err := delegation.Stop(req.StopsAt); err != nil {
		return nil, err
	}
	if _, err := s.delegations.AddOrUpdate(ctx, delegation); err != nil {
		return nil, err
	}
	resp := ToDelegationResponse(delegation)
	return &resp, nil
}

// update saves the whole actor, so it reads under the Actor lock like every
// other writer of actors
func (s *ActorService) update(ctx context.Context, id uuid.UUID, mutate func(*participant.Actor) error) (*ActorResponse, error) {
	uow, err := s.uowProvider.NewUnitOfWork(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() { _ = uow.Close() }()
	ctx = uow.Context()

	if err := s.entityLock.Lock(ctx, shared.LockableEntityActor); err != nil {
		return nil, fmt.Errorf("acquire actor lock: %w", err)
	}

	actor, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(actor); err != nil {
		return nil, err
	}
	if _, err := s.actors.AddOrUpdate(ctx, actor); err != nil {
		return nil, err
	}
	if err := s.domainEvents.Enqueue(ctx, actor); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit actor: %w", err)
	}

	resp := ToActorResponse(actor)
	return &resp, nil
}

func (s *ActorService) load(ctx context.Context, id uuid.UUID) (*participant.Actor, error) {
	actor, err := s.actors.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, participant.NewActorNotFoundError(id)
	}
	return actor, err
}

func generateClientSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate client secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
