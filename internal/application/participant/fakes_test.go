package participant

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/lock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryStore is an in-memory database. Writes apply immediately and are
// undone when the unit of work carrying them closes without a commit.
type memoryStore struct {
	mu             sync.Mutex
	organizations  map[uuid.UUID]*participant.Organization
	actors         map[uuid.UUID]*participant.Actor
	gridAreas      map[uuid.UUID]*participant.GridArea
	consolidations map[uuid.UUID]*participant.ActorConsolidation
	delegations    map[uuid.UUID]*participant.Delegation
	reservations   map[reservationKey]uuid.UUID
	auditLog       []*participant.ActorConsolidationAuditLogEntry
	events         []shared.DomainEvent
	writes         int
}

type reservationKey struct {
	function   participant.EicFunction
	gridAreaID uuid.UUID
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		organizations:  make(map[uuid.UUID]*participant.Organization),
		actors:         make(map[uuid.UUID]*participant.Actor),
		gridAreas:      make(map[uuid.UUID]*participant.GridArea),
		consolidations: make(map[uuid.UUID]*participant.ActorConsolidation),
		delegations:    make(map[uuid.UUID]*participant.Delegation),
		reservations:   make(map[reservationKey]uuid.UUID),
	}
}

// write runs apply under the store mutex and registers undo with the unit of
// work in ctx. Without a unit of work the write is final.
func (s *memoryStore) write(ctx context.Context, apply func() (undo func())) {
	s.mu.Lock()
	undo := apply()
	s.writes++
	s.mu.Unlock()

	if uow, ok := shared.UnitOfWorkFromContext(ctx); ok {
		if m, ok := uow.(*memoryUnitOfWork); ok {
			m.record(undo)
		}
	}
}

func (s *memoryStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *memoryStore) eventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]string, 0, len(s.events))
	for _, e := range s.events {
		types = append(types, e.EventType())
	}
	return types
}

// memoryUnitOfWork is the outermost unit of work over a memoryStore
type memoryUnitOfWork struct {
	shared.UnitOfWorkState
	store     *memoryStore
	ctx       context.Context
	mu        sync.Mutex
	undo      []func()
	committed bool
}

func (u *memoryUnitOfWork) record(undo func()) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.undo = append(u.undo, undo)
}

func (u *memoryUnitOfWork) Context() context.Context { return u.ctx }

func (u *memoryUnitOfWork) Commit() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.committed = true
	u.undo = nil
	return nil
}

func (u *memoryUnitOfWork) Close() error {
	if u.IsFinished() {
		return nil
	}
	u.mu.Lock()
	undo := u.undo
	u.undo = nil
	committed := u.committed
	u.mu.Unlock()

	if !committed {
		u.store.mu.Lock()
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
		u.store.mu.Unlock()
	}
	u.Finish()
	return nil
}

// joinedUnitOfWork participates in an outer unit of work
type joinedUnitOfWork struct {
	shared.UnitOfWork
	ctx context.Context
}

func (j joinedUnitOfWork) Context() context.Context { return j.ctx }
func (j joinedUnitOfWork) Commit() error            { return nil }
func (j joinedUnitOfWork) Close() error             { return nil }

type memoryUnitOfWorkProvider struct {
	store *memoryStore
}

func (p memoryUnitOfWorkProvider) NewUnitOfWork(ctx context.Context) (shared.UnitOfWork, error) {
	if outer, ok := shared.UnitOfWorkFromContext(ctx); ok {
		return joinedUnitOfWork{UnitOfWork: outer, ctx: ctx}, nil
	}
	uow := &memoryUnitOfWork{store: p.store}
	uow.ctx = shared.ContextWithUnitOfWork(ctx, uow)
	return uow, nil
}

func cloneActor(a *participant.Actor) *participant.Actor {
	c := *a
	c.ClearDomainEvents()
	return &c
}

func cloneOrganization(o *participant.Organization) *participant.Organization {
	c := *o
	c.Domains = append([]string(nil), o.Domains...)
	c.ClearDomainEvents()
	return &c
}

func cloneGridArea(g *participant.GridArea) *participant.GridArea {
	c := *g
	c.ClearDomainEvents()
	return &c
}

func cloneConsolidation(cn *participant.ActorConsolidation) *participant.ActorConsolidation {
	c := *cn
	c.ClearDomainEvents()
	return &c
}

func cloneDelegation(d *participant.Delegation) *participant.Delegation {
	c := *d
	c.ClearDomainEvents()
	return &c
}

// putValue replaces m[id] and returns the undo restoring the previous value
func putValue[T any](m map[uuid.UUID]T, id uuid.UUID, v T) func() {
	prev, existed := m[id]
	m[id] = v
	return func() {
		if existed {
			m[id] = prev
		} else {
			delete(m, id)
		}
	}
}

type memoryOrganizationRepository struct{ store *memoryStore }

func (r memoryOrganizationRepository) FindByID(_ context.Context, id uuid.UUID) (*participant.Organization, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	org, ok := r.store.organizations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneOrganization(org), nil
}

func (r memoryOrganizationRepository) FindByActorNumber(_ context.Context, number participant.ActorNumber) ([]*participant.Organization, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	seen := make(map[uuid.UUID]bool)
	var result []*participant.Organization
	for _, a := range r.store.actors {
		if a.IsInactive() || a.ActorNumber.Value != number.Value || seen[a.OrganizationID] {
			continue
		}
		if org, ok := r.store.organizations[a.OrganizationID]; ok {
			seen[a.OrganizationID] = true
			result = append(result, cloneOrganization(org))
		}
	}
	return result, nil
}

func (r memoryOrganizationRepository) FindByBusinessRegisterIdentifier(_ context.Context, bri participant.BusinessRegisterIdentifier) ([]*participant.Organization, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*participant.Organization
	for _, org := range r.store.organizations {
		if org.IsActive() && org.BusinessRegisterIdentifier == bri {
			result = append(result, cloneOrganization(org))
		}
	}
	return result, nil
}

func (r memoryOrganizationRepository) FindAll(_ context.Context) ([]*participant.Organization, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	result := make([]*participant.Organization, 0, len(r.store.organizations))
	for _, org := range r.store.organizations {
		result = append(result, cloneOrganization(org))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r memoryOrganizationRepository) AddOrUpdate(ctx context.Context, org *participant.Organization) (uuid.UUID, error) {
	r.store.write(ctx, func() func() {
		return putValue(r.store.organizations, org.ID, cloneOrganization(org))
	})
	return org.ID, nil
}

type memoryActorRepository struct{ store *memoryStore }

func (r memoryActorRepository) FindByID(_ context.Context, id uuid.UUID) (*participant.Actor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.actors[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneActor(a), nil
}

func (r memoryActorRepository) filter(keep func(*participant.Actor) bool) []*participant.Actor {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*participant.Actor
	for _, a := range r.store.actors {
		if keep(a) {
			result = append(result, cloneActor(a))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result
}

func (r memoryActorRepository) FindByOrganization(_ context.Context, organizationID uuid.UUID) ([]*participant.Actor, error) {
	return r.filter(func(a *participant.Actor) bool { return a.OrganizationID == organizationID }), nil
}

func (r memoryActorRepository) FindByFunction(_ context.Context, function participant.EicFunction) ([]*participant.Actor, error) {
	return r.filter(func(a *participant.Actor) bool {
		fn, ok := a.Function()
		return ok && fn == function
	}), nil
}

func (r memoryActorRepository) FindAll(_ context.Context) ([]*participant.Actor, error) {
	return r.filter(func(*participant.Actor) bool { return true }), nil
}

func (r memoryActorRepository) AddOrUpdate(ctx context.Context, actor *participant.Actor) (uuid.UUID, error) {
	r.store.mu.Lock()
	_, exists := r.store.actors[actor.ID]
	conflict := false
	if actor.Credentials != nil && actor.Credentials.CertificateThumbprint != "" {
		for id, other := range r.store.actors {
			if id != actor.ID && other.Credentials != nil &&
				other.Credentials.CertificateThumbprint == actor.Credentials.CertificateThumbprint {
				conflict = true
			}
		}
	}
	r.store.mu.Unlock()

	if !exists {
		if err := shared.EnsureLockedInContext(ctx, shared.LockableEntityActor); err != nil {
			return uuid.Nil, err
		}
	}
	if conflict {
		return uuid.Nil, participant.ErrCertificateThumbprintConflict
	}

	r.store.write(ctx, func() func() {
		return putValue(r.store.actors, actor.ID, cloneActor(actor))
	})
	return actor.ID, nil
}

type memoryGridAreaRepository struct{ store *memoryStore }

func (r memoryGridAreaRepository) FindAll(_ context.Context) ([]*participant.GridArea, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	result := make([]*participant.GridArea, 0, len(r.store.gridAreas))
	for _, g := range r.store.gridAreas {
		result = append(result, cloneGridArea(g))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (r memoryGridAreaRepository) FindByID(_ context.Context, id uuid.UUID) (*participant.GridArea, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	g, ok := r.store.gridAreas[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneGridArea(g), nil
}

func (r memoryGridAreaRepository) FindByCode(_ context.Context, code string) (*participant.GridArea, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, g := range r.store.gridAreas {
		if g.Code == code {
			return cloneGridArea(g), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memoryGridAreaRepository) AddOrUpdate(ctx context.Context, gridArea *participant.GridArea) (uuid.UUID, error) {
	r.store.write(ctx, func() func() {
		return putValue(r.store.gridAreas, gridArea.ID, cloneGridArea(gridArea))
	})
	return gridArea.ID, nil
}

type memoryConsolidationRepository struct{ store *memoryStore }

func (r memoryConsolidationRepository) FindByID(_ context.Context, id uuid.UUID) (*participant.ActorConsolidation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.consolidations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneConsolidation(c), nil
}

func (r memoryConsolidationRepository) filter(keep func(*participant.ActorConsolidation) bool) []*participant.ActorConsolidation {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*participant.ActorConsolidation
	for _, c := range r.store.consolidations {
		if keep(c) {
			result = append(result, cloneConsolidation(c))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ScheduledAt.Before(result[j].ScheduledAt) })
	return result
}

func (r memoryConsolidationRepository) FindAll(_ context.Context) ([]*participant.ActorConsolidation, error) {
	return r.filter(func(*participant.ActorConsolidation) bool { return true }), nil
}

func (r memoryConsolidationRepository) FindPending(_ context.Context) ([]*participant.ActorConsolidation, error) {
	return r.filter(func(c *participant.ActorConsolidation) bool {
		return c.Status == participant.ActorConsolidationStatusPending
	}), nil
}

func (r memoryConsolidationRepository) FindDue(_ context.Context, now time.Time) ([]*participant.ActorConsolidation, error) {
	return r.filter(func(c *participant.ActorConsolidation) bool { return c.IsDueAt(now) }), nil
}

func (r memoryConsolidationRepository) AddOrUpdate(ctx context.Context, consolidation *participant.ActorConsolidation) (uuid.UUID, error) {
	r.store.write(ctx, func() func() {
		return putValue(r.store.consolidations, consolidation.ID, cloneConsolidation(consolidation))
	})
	return consolidation.ID, nil
}

type memoryAuditLogRepository struct{ store *memoryStore }

func (r memoryAuditLogRepository) Audit(ctx context.Context, identity shared.AuditIdentity, kind participant.ConsolidationChangeKind, consolidation *participant.ActorConsolidation, gridAreaID uuid.UUID) error {
	entry := participant.NewActorConsolidationAuditLogEntry(identity, kind, consolidation, gridAreaID)
	r.store.write(ctx, func() func() {
		n := len(r.store.auditLog)
		r.store.auditLog = append(r.store.auditLog, entry)
		return func() { r.store.auditLog = r.store.auditLog[:n] }
	})
	return nil
}

func (r memoryAuditLogRepository) FindByConsolidation(_ context.Context, consolidationID uuid.UUID) ([]*participant.ActorConsolidationAuditLogEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*participant.ActorConsolidationAuditLogEntry
	for _, e := range r.store.auditLog {
		if e.ConsolidationID == consolidationID {
			copied := *e
			result = append(result, &copied)
		}
	}
	return result, nil
}

type memoryReservationRepository struct{ store *memoryStore }

func (r memoryReservationRepository) Reserve(ctx context.Context, reservation participant.MarketRoleGridAreaReservation) (bool, error) {
	key := reservationKey{function: reservation.Function, gridAreaID: reservation.GridAreaID}
	r.store.mu.Lock()
	holder, held := r.store.reservations[key]
	r.store.mu.Unlock()
	if held {
		return holder == reservation.ActorID, nil
	}

	r.store.write(ctx, func() func() {
		r.store.reservations[key] = reservation.ActorID
		return func() { delete(r.store.reservations, key) }
	})
	return true, nil
}

func (r memoryReservationRepository) ReleaseAll(ctx context.Context, actorID uuid.UUID) error {
	r.store.write(ctx, func() func() {
		released := make(map[reservationKey]uuid.UUID)
		for key, holder := range r.store.reservations {
			if holder == actorID {
				released[key] = holder
				delete(r.store.reservations, key)
			}
		}
		return func() {
			for key, holder := range released {
				r.store.reservations[key] = holder
			}
		}
	})
	return nil
}

func (r memoryReservationRepository) FindByActor(_ context.Context, actorID uuid.UUID) ([]participant.MarketRoleGridAreaReservation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []participant.MarketRoleGridAreaReservation
	for key, holder := range r.store.reservations {
		if holder == actorID {
			result = append(result, participant.MarketRoleGridAreaReservation{
				Function:   key.function,
				GridAreaID: key.gridAreaID,
				ActorID:    holder,
			})
		}
	}
	return result, nil
}

type memoryDelegationRepository struct{ store *memoryStore }

func (r memoryDelegationRepository) FindByID(_ context.Context, id uuid.UUID) (*participant.Delegation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d, ok := r.store.delegations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneDelegation(d), nil
}

func (r memoryDelegationRepository) FindByDelegatedTo(_ context.Context, actorIDs []uuid.UUID) ([]*participant.Delegation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(actorIDs))
	for _, id := range actorIDs {
		wanted[id] = true
	}
	var result []*participant.Delegation
	for _, d := range r.store.delegations {
		if wanted[d.DelegatedToActorID] {
			result = append(result, cloneDelegation(d))
		}
	}
	return result, nil
}

func (r memoryDelegationRepository) AddOrUpdate(ctx context.Context, delegation *participant.Delegation) (uuid.UUID, error) {
	r.store.write(ctx, func() func() {
		return putValue(r.store.delegations, delegation.ID, cloneDelegation(delegation))
	})
	return delegation.ID, nil
}

type memoryDomainEventRepository struct{ store *memoryStore }

func (r memoryDomainEventRepository) Enqueue(ctx context.Context, aggregate shared.AggregateRoot) error {
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}
	r.store.write(ctx, func() func() {
		n := len(r.store.events)
		r.store.events = append(r.store.events, events...)
		return func() { r.store.events = r.store.events[:n] }
	})
	aggregate.ClearDomainEvents()
	return nil
}

// registry wires the application services over one memoryStore
type registry struct {
	store          *memoryStore
	uowProvider    memoryUnitOfWorkProvider
	entityLock     *lock.InProcessEntityLock
	organizations  memoryOrganizationRepository
	actors         memoryActorRepository
	gridAreas      memoryGridAreaRepository
	consolidations memoryConsolidationRepository
	auditLog       memoryAuditLogRepository
	reservations   memoryReservationRepository
	delegations    memoryDelegationRepository
	domainEvents   memoryDomainEventRepository

	factory       *ActorFactoryService
	consolidation *ActorConsolidationService
	scheduling    *ConsolidationSchedulingService
	actorService  *ActorService
	orgService    *OrganizationService
	gridService   *GridAreaService
}

func newRegistry(t *testing.T) *registry {
	t.Helper()
	store := newMemoryStore()
	r := &registry{
		store:          store,
		uowProvider:    memoryUnitOfWorkProvider{store: store},
		entityLock:     lock.NewInProcessEntityLock(),
		organizations:  memoryOrganizationRepository{store: store},
		actors:         memoryActorRepository{store: store},
		gridAreas:      memoryGridAreaRepository{store: store},
		consolidations: memoryConsolidationRepository{store: store},
		auditLog:       memoryAuditLogRepository{store: store},
		reservations:   memoryReservationRepository{store: store},
		delegations:    memoryDelegationRepository{store: store},
		domainEvents:   memoryDomainEventRepository{store: store},
	}

	logger := zap.NewNop()
	uniqueNumber := participant.NewUniqueGlobalLocationNumberRuleService(r.organizations, r.entityLock)
	overlapping := participant.NewOverlappingEicFunctionsRuleService(r.actors)
	uniqueGridAreas := participant.NewUniqueMarketRoleGridAreaRuleService(r.reservations, r.entityLock)
	combinations := participant.NewAllowedMarketRoleCombinationsForDelegationRuleService(r.actors, r.delegations, nil)
	uniqueBRI := participant.NewUniqueOrganizationBusinessRegisterIdentifierRuleService(r.organizations)

	r.factory = NewActorFactoryService(ActorFactoryDeps{
		Actors:                 r.actors,
		UnitOfWorkProvider:     r.uowProvider,
		EntityLock:             r.entityLock,
		DomainEvents:           r.domainEvents,
		UniqueNumber:           uniqueNumber,
		OverlappingFunctions:   overlapping,
		UniqueGridAreas:        uniqueGridAreas,
		DelegationCombinations: combinations,
		Logger:                 logger,
	})
	r.consolidation = NewActorConsolidationService(ActorConsolidationDeps{
		Actors:               r.actors,
		GridAreas:            r.gridAreas,
		Consolidations:       r.consolidations,
		AuditLog:             r.auditLog,
		UnitOfWorkProvider:   r.uowProvider,
		EntityLock:           r.entityLock,
		DomainEvents:         r.domainEvents,
		OverlappingFunctions: overlapping,
		UniqueGridAreas:      uniqueGridAreas,
		Logger:               logger,
	})
	r.scheduling = NewConsolidationSchedulingService(r.actors, r.gridAreas, r.consolidations, r.auditLog, r.uowProvider, r.consolidation, logger)
	r.actorService = NewActorService(ActorServiceDeps{
		Actors:                 r.actors,
		Organizations:          r.organizations,
		GridAreas:              r.gridAreas,
		Delegations:            r.delegations,
		UnitOfWorkProvider:     r.uowProvider,
		EntityLock:             r.entityLock,
		DomainEvents:           r.domainEvents,
		Factory:                r.factory,
		UniqueGridAreas:        uniqueGridAreas,
		DelegationCombinations: combinations,
	})
	r.orgService = NewOrganizationService(r.organizations, r.actors, r.uowProvider, r.domainEvents, uniqueBRI)
	r.gridService = NewGridAreaService(r.gridAreas)
	return r
}

var testBusinessRegisterIdentifiers = []string{"10000001", "10000002", "10000003", "10000004"}

func (r *registry) seedOrganization(t *testing.T, bri string) *participant.Organization {
	t.Helper()
	id, err := participant.NewBusinessRegisterIdentifier(bri, "DK")
	require.NoError(t, err)
	org, err := participant.NewOrganization("Org "+bri,
		id,
		participant.Address{StreetName: "Tonne Kjærsvej", Number: "65", ZipCode: "7000", City: "Fredericia", Country: "DK"},
		[]string{"energinet.dk"})
	require.NoError(t, err)
	_, err = r.organizations.AddOrUpdate(context.Background(), org)
	require.NoError(t, err)
	return org
}

func (r *registry) seedGridArea(t *testing.T, code string) *participant.GridArea {
	t.Helper()
	ga, err := participant.NewGridArea("Grid "+code, code, participant.PriceAreaCodeDK1,
		participant.GridAreaTypeDistribution, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = r.gridAreas.AddOrUpdate(context.Background(), ga)
	require.NoError(t, err)
	return ga
}

func newRole(t *testing.T, function participant.EicFunction, gridAreas ...*participant.GridArea) *participant.ActorMarketRole {
	t.Helper()
	areas := make([]participant.ActorGridArea, 0, len(gridAreas))
	for _, ga := range gridAreas {
		area, err := participant.NewActorGridArea(ga.ID, []participant.MeteringPointType{participant.MeteringPointTypeConsumption})
		require.NoError(t, err)
		areas = append(areas, area)
	}
	role, err := participant.NewActorMarketRole(function, areas, "")
	require.NoError(t, err)
	return role
}

func (r *registry) createActor(t *testing.T, org *participant.Organization, gln string, role *participant.ActorMarketRole) *participant.Actor {
	t.Helper()
	actor, err := r.factory.Create(context.Background(), org, participant.MustActorNumber(gln), "Actor "+gln, role)
	require.NoError(t, err)
	return actor
}

// pausingActorRepository blocks the first lookup of one actor until release
// is closed, after signalling paused
type pausingActorRepository struct {
	participant.ActorRepository
	actorID uuid.UUID
	once    sync.Once
	paused  chan struct{}
	release chan struct{}
}

func newPausingActorRepository(inner participant.ActorRepository, actorID uuid.UUID) *pausingActorRepository {
	return &pausingActorRepository{
		ActorRepository: inner,
		actorID:         actorID,
		paused:          make(chan struct{}),
		release:         make(chan struct{}),
	}
}

func (r *pausingActorRepository) FindByID(ctx context.Context, id uuid.UUID) (*participant.Actor, error) {
	actor, err := r.ActorRepository.FindByID(ctx, id)
	if id == r.actorID {
		r.once.Do(func() {
			close(r.paused)
			<-r.release
		})
	}
	return actor, err
}

// actorServiceOver builds an ActorService that reads actors through actors
func (r *registry) actorServiceOver(actors participant.ActorRepository) *ActorService {
	uniqueGridAreas := participant.NewUniqueMarketRoleGridAreaRuleService(r.reservations, r.entityLock)
	return NewActorService(ActorServiceDeps{
		Actors:                 actors,
		Organizations:          r.organizations,
		GridAreas:              r.gridAreas,
		Delegations:            r.delegations,
		UnitOfWorkProvider:     r.uowProvider,
		EntityLock:             r.entityLock,
		DomainEvents:           r.domainEvents,
		Factory:                r.factory,
		UniqueGridAreas:        uniqueGridAreas,
		DelegationCombinations: participant.NewAllowedMarketRoleCombinationsForDelegationRuleService(r.actors, r.delegations, nil),
	})
}

// consolidationServiceOver builds an ActorConsolidationService that reads
// actors through actors
func (r *registry) consolidationServiceOver(actors participant.ActorRepository) *ActorConsolidationService {
	return NewActorConsolidationService(ActorConsolidationDeps{
		Actors:               actors,
		GridAreas:            r.gridAreas,
		Consolidations:       r.consolidations,
		AuditLog:             r.auditLog,
		UnitOfWorkProvider:   r.uowProvider,
		EntityLock:           r.entityLock,
		DomainEvents:         r.domainEvents,
		OverlappingFunctions: participant.NewOverlappingEicFunctionsRuleService(r.actors),
		UniqueGridAreas:      participant.NewUniqueMarketRoleGridAreaRuleService(r.reservations, r.entityLock),
	})
}
