package participant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Consolidator executes a single consolidation
type Consolidator interface {
	Consolidate(ctx context.Context, consolidation *participant.ActorConsolidation) error
}

// ConsolidationSchedulingService plans consolidations and runs them once due
type ConsolidationSchedulingService struct {
	actors         participant.ActorRepository
	gridAreas      participant.GridAreaRepository
	consolidations participant.ActorConsolidationRepository
	auditLog       participant.ActorConsolidationAuditLogRepository
	uowProvider    shared.UnitOfWorkProvider
	consolidator   Consolidator
	logger         *zap.Logger
	now            func() time.Time
}

// NewConsolidationSchedulingService creates a new ConsolidationSchedulingService
func NewConsolidationSchedulingService(
	actors participant.ActorRepository,
	gridAreas participant.GridAreaRepository,
	consolidations participant.ActorConsolidationRepository,
	auditLog participant.ActorConsolidationAuditLogRepository,
	uowProvider shared.UnitOfWorkProvider,
	consolidator Consolidator,
	logger *zap.Logger,
) *ConsolidationSchedulingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsolidationSchedulingService{
		actors:         actors,
		gridAreas:      gridAreas,
		consolidations: consolidations,
		auditLog:       auditLog,
		uowProvider:    uowProvider,
		consolidator:   consolidator,
		logger:         logger,
		now:            time.Now,
	}
}

// Schedule plans a consolidation of two grid access providers
func (s *ConsolidationSchedulingService) Schedule(ctx context.Context, req ScheduleConsolidationRequest) (*ConsolidationResponse, error) {
	if !req.ScheduledAt.After(s.now()) {
		return nil, shared.NewDomainError(participant.CodeInvalidConsolidation, "Consolidation must be scheduled in the future")
	}

	for _, id := range []uuid.UUID{req.ActorFromID, req.ActorToID} {
		actor, err := s.actors.FindByID(ctx, id)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, participant.NewActorNotFoundError(id)
		}
		if err != nil {
			return nil, err
		}
		if fn, ok := actor.Function(); !ok || fn != participant.ConsolidatableFunction {
			return nil, shared.NewDomainErrorf(participant.CodeInvalidConsolidation,
				"Actor %s must be a %s to be consolidated", actor.ActorNumber, participant.ConsolidatableFunction)
		}
		if actor.IsInactive() {
			return nil, shared.NewDomainErrorf(participant.CodeInvalidConsolidation, "Actor %s is inactive", actor.ActorNumber)
		}
	}

	if req.GridAreaToMergeToID != nil {
		if _, err := s.gridAreas.FindByID(ctx, *req.GridAreaToMergeToID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, participant.NewGridAreaNotFoundError(*req.GridAreaToMergeToID)
			}
			return nil, err
		}
	}

	consolidation, err := participant.NewActorConsolidation(req.ActorFromID, req.ActorToID, req.ScheduledAt, req.GridAreaToMergeToID)
	if err != nil {
		return nil, err
	}

	uow, err := s.uowProvider.NewUnitOfWork(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() { _ = uow.Close() }()
	ctx = uow.Context()

	pending, err := s.consolidations.FindPending(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range pending {
		if p.Involves(req.ActorFromID) || p.Involves(req.ActorToID) {
			return nil, shared.NewDomainErrorf(participant.CodeConsolidationAlreadyPending,
				"Actor is already part of consolidation %s", p.ID)
		}
	}

	if _, err := s.consolidations.AddOrUpdate(ctx, consolidation); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit consolidation: %w", err)
	}

	s.logger.Info("actor consolidation scheduled",
		zap.String("consolidation_id", consolidation.ID.String()),
		zap.Time("scheduled_at", consolidation.ScheduledAt),
	)
	resp := ToConsolidationResponse(consolidation)
	return &resp, nil
}

// Get returns a consolidation by ID
func (s *ConsolidationSchedulingService) Get(ctx context.Context, id uuid.UUID) (*ConsolidationResponse, error) {
	c, err := s.consolidations.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, participant.NewConsolidationNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}
	resp := ToConsolidationResponse(c)
	return &resp, nil
}

// List returns every consolidation
func (s *ConsolidationSchedulingService) List(ctx context.Context) ([]ConsolidationResponse, error) {
	all, err := s.consolidations.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToConsolidationResponses(all), nil
}

// AuditLog returns the audit trail of a consolidation
func (s *ConsolidationSchedulingService) AuditLog(ctx context.Context, id uuid.UUID) ([]ConsolidationAuditLogResponse, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	entries, err := s.auditLog.FindByConsolidation(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToConsolidationAuditLogResponses(entries), nil
}

// DueConsolidationIDs returns the IDs of pending consolidations due at now
func (s *ConsolidationSchedulingService) DueConsolidationIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	due, err := s.consolidations.FindDue(ctx, now)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(due))
	for i, c := range due {
		ids[i] = c.ID
	}
	return ids, nil
}

// Execute runs one consolidation if it is still pending and due
func (s *ConsolidationSchedulingService) Execute(ctx context.Context, id uuid.UUID) error {
	c, err := s.consolidations.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return participant.NewConsolidationNotFoundError(id)
	}
	if err != nil {
		return err
	}
	if !c.IsDueAt(s.now()) {
		s.logger.Debug("consolidation not due, skipping",
			zap.String("consolidation_id", id.String()),
			zap.String("status", string(c.Status)),
		)
		return nil
	}
	err = s.consolidator.Consolidate(ctx, c)
	if errors.Is(err, participant.ErrInvalidConsolidationTransition) {
		s.logger.Debug("consolidation executed concurrently, skipping",
			zap.String("consolidation_id", id.String()),
			zap.Error(err),
		)
		return nil
	}
	return err
}

// ExecuteDue runs every consolidation due at now. A failing consolidation is
// logged and does not stop the others.
func (s *ConsolidationSchedulingService) ExecuteDue(ctx context.Context, now time.Time) (ExecutionSummary, error) {
	var summary ExecutionSummary

	due, err := s.consolidations.FindDue(ctx, now)
	if err != nil {
		return summary, err
	}
	for _, c := range due {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		err := s.consolidator.Consolidate(ctx, c)
		if errors.Is(err, participant.ErrInvalidConsolidationTransition) {
			s.logger.Debug("consolidation executed concurrently, skipping",
				zap.String("consolidation_id", c.ID.String()),
			)
			continue
		}
		if err != nil {
			summary.Failed++
			s.logger.Warn("due consolidation failed",
				zap.String("consolidation_id", c.ID.String()),
				zap.Error(err),
			)
			continue
		}
		summary.Executed++
	}
	return summary, nil
}
