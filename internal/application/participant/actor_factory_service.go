package participant

import (
	"context"
	"fmt"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ActorFactoryService creates actors under the Actor lock so the uniqueness
// rules observe every concurrent creation
type ActorFactoryService struct {
	actors                 participant.ActorRepository
	uowProvider            shared.UnitOfWorkProvider
	entityLock             shared.EntityLock
	domainEvents           shared.DomainEventRepository
	uniqueNumber           *participant.UniqueGlobalLocationNumberRuleService
	overlappingFunctions   *participant.OverlappingEicFunctionsRuleService
	uniqueGridAreas        *participant.UniqueMarketRoleGridAreaRuleService
	delegationCombinations *participant.AllowedMarketRoleCombinationsForDelegationRuleService
	logger                 *zap.Logger
}

// ActorFactoryDeps groups the collaborators of ActorFactoryService
type ActorFactoryDeps struct {
	Actors                 participant.ActorRepository
	UnitOfWorkProvider     shared.UnitOfWorkProvider
	EntityLock             shared.EntityLock
	DomainEvents           shared.DomainEventRepository
	UniqueNumber           *participant.UniqueGlobalLocationNumberRuleService
	OverlappingFunctions   *participant.OverlappingEicFunctionsRuleService
	UniqueGridAreas        *participant.UniqueMarketRoleGridAreaRuleService
	DelegationCombinations *participant.AllowedMarketRoleCombinationsForDelegationRuleService
	Logger                 *zap.Logger
}

// NewActorFactoryService creates a new ActorFactoryService
func NewActorFactoryService(deps ActorFactoryDeps) *ActorFactoryService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActorFactoryService{
		actors:                 deps.Actors,
		uowProvider:            deps.UnitOfWorkProvider,
		entityLock:             deps.EntityLock,
		domainEvents:           deps.DomainEvents,
		uniqueNumber:           deps.UniqueNumber,
		overlappingFunctions:   deps.OverlappingFunctions,
		uniqueGridAreas:        deps.UniqueGridAreas,
		delegationCombinations: deps.DelegationCombinations,
		logger:                 logger,
	}
}

// Create validates, persists and activates a new actor in one unit of work.
// Nothing is committed unless every step succeeds.
func (s *ActorFactoryService) Create(
	ctx context.Context,
	org *participant.Organization,
	number participant.ActorNumber,
	name string,
	role *participant.ActorMarketRole,
) (*participant.Actor, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "actor_factory", "create",
		telemetry.WithAttribute(telemetry.SpanAttrActorNumber, number.Value))
	defer span.End()

	actor, err := s.create(ctx, org, number, name, role)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrActorID, actor.ID,
		telemetry.SpanAttrOrganizationID, actor.OrganizationID,
	)
	return actor, nil
}

func (s *ActorFactoryService) create(
	ctx context.Context,
	org *participant.Organization,
	number participant.ActorNumber,
	name string,
	role *participant.ActorMarketRole,
) (*participant.Actor, error) {
	if org == nil {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Organization is required")
	}
	if number.IsZero() {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Actor number is required")
	}
	if !org.IsActive() {
		return nil, shared.NewDomainErrorf(participant.CodeInvalidOrganization, "Organization %s is not active", org.ID)
	}

	actor, err := participant.NewActor(org.ID, number, name, role)
	if err != nil {
		return nil, err
	}

	uow, err := s.uowProvider.NewUnitOfWork(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() { _ = uow.Close() }()
	ctx = uow.Context()

	if err := s.entityLock.Lock(ctx, shared.LockableEntityActor); err != nil {
		return nil, fmt.Errorf("acquire actor lock: %w", err)
	}

	if err := s.uniqueNumber.ValidateAvailable(ctx, org, number); err != nil {
		return nil, err
	}
	if err := s.overlappingFunctions.ValidateAcrossActors(ctx, actor); err != nil {
		return nil, err
	}
	if role != nil {
		if err := s.delegationCombinations.Validate(ctx, org.ID, role.Function()); err != nil {
			return nil, err
		}
	}

	// The lock serializes creators, so a failed insert is a fault, not a validation outcome.
	actorID, err := s.actors.AddOrUpdate(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("insert actor: %w", err)
	}

	committed, err := s.actors.FindByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("reload actor %s: %w", actorID, err)
	}

	if err := s.uniqueGridAreas.ValidateAndReserve(ctx, committed); err != nil {
		return nil, err
	}

	if err := committed.Activate(); err != nil {
		return nil, err
	}
	if err := s.domainEvents.Enqueue(ctx, committed); err != nil {
		return nil, fmt.Errorf("enqueue actor events: %w", err)
	}
	if _, err := s.actors.AddOrUpdate(ctx, committed); err != nil {
		return nil, fmt.Errorf("save activated actor: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit actor creation: %w", err)
	}

	s.logger.Info("actor created",
		zap.String("actor_id", committed.ID.String()),
		zap.String("organization_id", org.ID.String()),
		zap.String("actor_number", number.Value),
	)
	return committed, nil
}
