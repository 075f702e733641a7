package participant

import (
	"context"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindByActorNumber(ctx context.Context, number ActorNumber) ([]*Organization, error) {
	args := m.Called(ctx, number)
	return args.Get(0).([]*Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindByBusinessRegisterIdentifier(ctx context.Context, bri BusinessRegisterIdentifier) ([]*Organization, error) {
	args := m.Called(ctx, bri)
	return args.Get(0).([]*Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindAll(ctx context.Context) ([]*Organization, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*Organization), args.Error(1)
}

func (m *MockOrganizationRepository) AddOrUpdate(ctx context.Context, org *Organization) (uuid.UUID, error) {
	args := m.Called(ctx, org)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type MockActorRepository struct {
	mock.Mock
}

func (m *MockActorRepository) FindByID(ctx context.Context, id uuid.UUID) (*Actor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Actor), args.Error(1)
}

func (m *MockActorRepository) FindByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*Actor, error) {
	args := m.Called(ctx, organizationID)
	return args.Get(0).([]*Actor), args.Error(1)
}

func (m *MockActorRepository) FindByFunction(ctx context.Context, function EicFunction) ([]*Actor, error) {
	args := m.Called(ctx, function)
	return args.Get(0).([]*Actor), args.Error(1)
}

func (m *MockActorRepository) FindAll(ctx context.Context) ([]*Actor, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*Actor), args.Error(1)
}

func (m *MockActorRepository) AddOrUpdate(ctx context.Context, actor *Actor) (uuid.UUID, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Reserve(ctx context.Context, reservation MarketRoleGridAreaReservation) (bool, error) {
	args := m.Called(ctx, reservation)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepository) ReleaseAll(ctx context.Context, actorID uuid.UUID) error {
	args := m.Called(ctx, actorID)
	return args.Error(0)
}

func (m *MockReservationRepository) FindByActor(ctx context.Context, actorID uuid.UUID) ([]MarketRoleGridAreaReservation, error) {
	args := m.Called(ctx, actorID)
	return args.Get(0).([]MarketRoleGridAreaReservation), args.Error(1)
}

type MockDelegationRepository struct {
	mock.Mock
}

func (m *MockDelegationRepository) FindByID(ctx context.Context, id uuid.UUID) (*Delegation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Delegation), args.Error(1)
}

func (m *MockDelegationRepository) FindByDelegatedTo(ctx context.Context, actorIDs []uuid.UUID) ([]*Delegation, error) {
	args := m.Called(ctx, actorIDs)
	return args.Get(0).([]*Delegation), args.Error(1)
}

func (m *MockDelegationRepository) AddOrUpdate(ctx context.Context, delegation *Delegation) (uuid.UUID, error) {
	args := m.Called(ctx, delegation)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// stubEntityLock answers EnsureLocked from a fixed flag
type stubEntityLock struct {
	held bool
}

func (l *stubEntityLock) Lock(context.Context, shared.LockableEntity) error {
	l.held = true
	return nil
}

func (l *stubEntityLock) EnsureLocked(_ context.Context, entity shared.LockableEntity) error {
	if !l.held {
		return shared.NewLockRequiredViolation(entity)
	}
	return nil
}
