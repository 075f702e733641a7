package participant

import (
	"context"
	"errors"
	"fmt"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActorConsolidationService moves the grid areas of one grid access provider
// to another and deactivates the source
type ActorConsolidationService struct {
	actors               participant.ActorRepository
	gridAreas            participant.GridAreaRepository
	consolidations       participant.ActorConsolidationRepository
	auditLog             participant.ActorConsolidationAuditLogRepository
	uowProvider          shared.UnitOfWorkProvider
	entityLock           shared.EntityLock
	domainEvents         shared.DomainEventRepository
	overlappingFunctions *participant.OverlappingEicFunctionsRuleService
	uniqueGridAreas      *participant.UniqueMarketRoleGridAreaRuleService
	logger               *zap.Logger
}

// ActorConsolidationDeps groups the collaborators of ActorConsolidationService
type ActorConsolidationDeps struct {
	Actors               participant.ActorRepository
	GridAreas            participant.GridAreaRepository
	Consolidations       participant.ActorConsolidationRepository
	AuditLog             participant.ActorConsolidationAuditLogRepository
	UnitOfWorkProvider   shared.UnitOfWorkProvider
	EntityLock           shared.EntityLock
	DomainEvents         shared.DomainEventRepository
	OverlappingFunctions *participant.OverlappingEicFunctionsRuleService
	UniqueGridAreas      *participant.UniqueMarketRoleGridAreaRuleService
	Logger               *zap.Logger
}

// NewActorConsolidationService creates a new ActorConsolidationService
func NewActorConsolidationService(deps ActorConsolidationDeps) *ActorConsolidationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActorConsolidationService{
		actors:               deps.Actors,
		gridAreas:            deps.GridAreas,
		consolidations:       deps.Consolidations,
		auditLog:             deps.AuditLog,
		uowProvider:          deps.UnitOfWorkProvider,
		entityLock:           deps.EntityLock,
		domainEvents:         deps.DomainEvents,
		overlappingFunctions: deps.OverlappingFunctions,
		uniqueGridAreas:      deps.UniqueGridAreas,
		logger:               logger,
	}
}

// Consolidate executes a consolidation.
//
// Both phases run under the Actor lock and reload the consolidation and both
// actors, so the passed consolidation only identifies the work. The
// ConsolidationRequested audit entries are committed first so the intent
// survives a failed transfer; a rerun does not write them twice. The transfer
// itself (both actors, reservations, grid area end dates,
// ConsolidationCompleted entries and the consolidation status) commits in a
// single unit of work. When the transfer fails the consolidation is marked
// Failed. A consolidation that is no longer Pending fails with
// participant.ErrInvalidConsolidationTransition and is left untouched.
func (s *ActorConsolidationService) Consolidate(ctx context.Context, consolidation *participant.ActorConsolidation) error {
	if consolidation == nil {
		return shared.NewDomainError(shared.ErrInvalidInput.Code, "Consolidation is required")
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "actor_consolidation", "consolidate",
		telemetry.WithAttribute(telemetry.SpanAttrConsolidationID, consolidation.ID),
		telemetry.WithAttribute(telemetry.SpanAttrFromActorID, consolidation.ActorFromID),
		telemetry.WithAttribute(telemetry.SpanAttrToActorID, consolidation.ActorToID),
	)
	defer span.End()

	if err := s.consolidate(ctx, consolidation); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	return nil
}

func (s *ActorConsolidationService) consolidate(ctx context.Context, consolidation *participant.ActorConsolidation) error {
	identity := shared.AuditIdentityFromContext(ctx)

	if err := s.request(ctx, identity, consolidation.ID); err != nil {
		return err
	}

	executed, transferred, err := s.transfer(ctx, identity, consolidation.ID)
	if errors.Is(err, participant.ErrInvalidConsolidationTransition) {
		return err
	}
	if err != nil {
		s.logger.Error("actor consolidation failed",
			zap.String("consolidation_id", consolidation.ID.String()),
			zap.String("actor_from_id", consolidation.ActorFromID.String()),
			zap.String("actor_to_id", consolidation.ActorToID.String()),
			zap.Error(err),
		)
		s.markFailed(ctx, consolidation.ID, err)
		return err
	}
	*consolidation = *executed

	s.logger.Info("actor consolidation executed",
		zap.String("consolidation_id", consolidation.ID.String()),
		zap.String("actor_from_id", consolidation.ActorFromID.String()),
		zap.String("actor_to_id", consolidation.ActorToID.String()),
		zap.Int("grid_areas", transferred),
	)
	return nil
}

// lockedState is a consolidation and its actors as read under the Actor lock
type lockedState struct {
	consolidation *participant.ActorConsolidation
	from          *participant.Actor
	to            *participant.Actor
}

// loadLocked takes the Actor lock in the unit of work carried by ctx and
// reloads the consolidation and both actors. It fails unless the
// consolidation is still Pending and both actors can take part.
func (s *ActorConsolidationService) loadLocked(ctx context.Context, consolidationID uuid.UUID) (*lockedState, error) {
	if err := s.entityLock.Lock(ctx, shared.LockableEntityActor); err != nil {
		return nil, fmt.Errorf("acquire actor lock: %w", err)
	}

	consolidation, err := s.consolidations.FindByID(ctx, consolidationID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, participant.NewConsolidationNotFoundError(consolidationID)
	}
	if err != nil {
		return nil, fmt.Errorf("load consolidation %s: %w", consolidationID, err)
	}
	if consolidation.Status != participant.ActorConsolidationStatusPending {
		return nil, participant.NewConsolidationNotPendingError(consolidation.ID, consolidation.Status)
	}

	from, err := s.loadActor(ctx, consolidation.ActorFromID)
	if err != nil {
		return nil, err
	}
	to, err := s.loadActor(ctx, consolidation.ActorToID)
	if err != nil {
		return nil, err
	}

	fromFunction, fromOK := from.Function()
	toFunction, toOK := to.Function()
	if !fromOK || !toOK || fromFunction != participant.ConsolidatableFunction || toFunction != participant.ConsolidatableFunction {
		return nil, shared.NewInvariantViolation(
			"Actors %s (%s) and %s (%s) cannot be consolidated; both must be %s",
			from.ID, fromFunction, to.ID, toFunction, participant.ConsolidatableFunction)
	}
	for _, actor := range []*participant.Actor{from, to} {
		if actor.IsInactive() {
			return nil, shared.NewInvariantViolation("Actor %s is inactive and cannot be consolidated", actor.ID)
		}
	}
	return &lockedState{consolidation: consolidation, from: from, to: to}, nil
}

func (s *ActorConsolidationService) loadActor(ctx context.Context, id uuid.UUID) (*participant.Actor, error) {
	actor, err := s.actors.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, participant.NewActorNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("load actor %s: %w", id, err)
	}
	return actor, nil
}

// request commits the ConsolidationRequested entries unless an earlier run
// already recorded them
func (s *ActorConsolidationService) request(ctx context.Context, identity shared.AuditIdentity, consolidationID uuid.UUID) error {
	uow, err := s.uowProvider.NewUnitOfWork(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() { _ = uow.Close() }()
	ctx = uow.Context()

	state, err := s.loadLocked(ctx, consolidationID)
	if err != nil {
		return err
	}

	entries, err := s.auditLog.FindByConsolidation(ctx, consolidationID)
	if err != nil {
		return fmt.Errorf("load audit of consolidation %s: %w", consolidationID, err)
	}
	for _, e := range entries {
		if e.ChangeKind == participant.ConsolidationChangeRequested {
			return nil
		}
	}

	if err := s.writeAudit(ctx, identity, participant.ConsolidationChangeRequested, state.consolidation, state.from.MarketRole.GridAreas()); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("commit %s audit: %w", participant.ConsolidationChangeRequested, err)
	}
	return nil
}

func (s *ActorConsolidationService) writeAudit(
	ctx context.Context,
	identity shared.AuditIdentity,
	kind participant.ConsolidationChangeKind,
	consolidation *participant.ActorConsolidation,
	gridAreas []participant.ActorGridArea,
) error {
	for _, ga := range gridAreas {
		if err := s.auditLog.Audit(ctx, identity, kind, consolidation, ga.GridAreaID); err != nil {
			return fmt.Errorf("write %s audit for grid area %s: %w", kind, ga.GridAreaID, err)
		}
	}
	return nil
}

// transfer moves the grid areas and returns the executed consolidation and
// the number of grid areas moved
func (s *ActorConsolidationService) transfer(
	ctx context.Context,
	identity shared.AuditIdentity,
	consolidationID uuid.UUID,
) (*participant.ActorConsolidation, int, error) {
	uow, err := s.uowProvider.NewUnitOfWork(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() { _ = uow.Close() }()
	ctx = uow.Context()

	state, err := s.loadLocked(ctx, consolidationID)
	if err != nil {
		return nil, 0, err
	}
	consolidation, from, to := state.consolidation, state.from, state.to
	transferred := from.MarketRole.GridAreas()

	if err := from.ReplaceMarketRole(from.MarketRole.WithoutGridAreas()); err != nil {
		return nil, 0, err
	}
	if err := from.Deactivate(); err != nil {
		return nil, 0, err
	}

	merged, err := to.MarketRole.WithAdditionalGridAreas(transferred)
	if err != nil {
		return nil, 0, err
	}
	if err := to.ReplaceMarketRole(merged); err != nil {
		return nil, 0, err
	}

	if _, err := s.actors.AddOrUpdate(ctx, from); err != nil {
		return nil, 0, fmt.Errorf("save actor %s: %w", from.ID, err)
	}
	if err := s.uniqueGridAreas.ValidateAndReserve(ctx, from); err != nil {
		return nil, 0, err
	}
	if err := s.domainEvents.Enqueue(ctx, from); err != nil {
		return nil, 0, fmt.Errorf("enqueue events of actor %s: %w", from.ID, err)
	}

	if err := s.overlappingFunctions.ValidateAcrossActors(ctx, to); err != nil {
		return nil, 0, err
	}
	if _, err := s.actors.AddOrUpdate(ctx, to); err != nil {
		return nil, 0, fmt.Errorf("save actor %s: %w", to.ID, err)
	}
	if err := s.uniqueGridAreas.ValidateAndReserve(ctx, to); err != nil {
		return nil, 0, err
	}
	if err := s.domainEvents.Enqueue(ctx, to); err != nil {
		return nil, 0, fmt.Errorf("enqueue events of actor %s: %w", to.ID, err)
	}

	for _, ga := range transferred {
		gridArea, err := s.gridAreas.FindByID(ctx, ga.GridAreaID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, 0, participant.NewGridAreaNotFoundError(ga.GridAreaID)
		}
		if err != nil {
			return nil, 0, fmt.Errorf("load grid area %s: %w", ga.GridAreaID, err)
		}
		if err := gridArea.SetValidTo(consolidation.ScheduledAt); err != nil {
			return nil, 0, err
		}
		if _, err := s.gridAreas.AddOrUpdate(ctx, gridArea); err != nil {
			return nil, 0, fmt.Errorf("save grid area %s: %w", gridArea.ID, err)
		}
	}

	if err := s.writeAudit(ctx, identity, participant.ConsolidationChangeCompleted, consolidation, transferred); err != nil {
		return nil, 0, err
	}

	if err := consolidation.MarkExecuted(); err != nil {
		return nil, 0, err
	}
	if _, err := s.consolidations.AddOrUpdate(ctx, consolidation); err != nil {
		return nil, 0, fmt.Errorf("save consolidation %s: %w", consolidation.ID, err)
	}

	if err := uow.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit consolidation: %w", err)
	}
	return consolidation, len(transferred), nil
}

// markFailed records the failure in its own unit of work
func (s *ActorConsolidationService) markFailed(ctx context.Context, consolidationID uuid.UUID, cause error) {
	log := s.logger.With(zap.String("consolidation_id", consolidationID.String()))

	uow, err := s.uowProvider.NewUnitOfWork(ctx)
	if err != nil {
		log.Error("failed to begin unit of work for consolidation failure", zap.Error(err))
		return
	}
	defer func() { _ = uow.Close() }()
	ctx = uow.Context()

	if err := s.entityLock.Lock(ctx, shared.LockableEntityActor); err != nil {
		log.Error("failed to acquire actor lock for consolidation failure", zap.Error(err))
		return
	}
	stored, err := s.consolidations.FindByID(ctx, consolidationID)
	if errors.Is(err, shared.ErrNotFound) {
		log.Warn("consolidation failure not recorded; consolidation is not stored")
		return
	}
	if err != nil {
		log.Error("failed to load consolidation", zap.Error(err))
		return
	}
	if err := stored.MarkFailed(cause.Error()); err != nil {
		log.Warn("consolidation failure not recorded", zap.Error(err))
		return
	}
	if _, err := s.consolidations.AddOrUpdate(ctx, stored); err != nil {
		log.Error("failed to save consolidation failure", zap.Error(err))
		return
	}
	if err := uow.Commit(); err != nil {
		log.Error("failed to commit consolidation failure", zap.Error(err))
	}
}
