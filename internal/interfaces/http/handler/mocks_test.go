package handler

import (
	"context"
	"time"

	app "github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/application/participant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockOrganizationService struct{ mock.Mock }

func (m *mockOrganizationService) Create(ctx context.Context, req app.CreateOrganizationRequest) (*app.OrganizationResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.OrganizationResponse), args.Error(1)
}

func (m *mockOrganizationService) Get(ctx context.Context, id uuid.UUID) (*app.OrganizationResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.OrganizationResponse), args.Error(1)
}

func (m *mockOrganizationService) List(ctx context.Context) ([]app.OrganizationResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]app.OrganizationResponse), args.Error(1)
}

func (m *mockOrganizationService) Update(ctx context.Context, id uuid.UUID, req app.UpdateOrganizationRequest) (*app.OrganizationResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.OrganizationResponse), args.Error(1)
}

func (m *mockOrganizationService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockActorService struct{ mock.Mock }

func (m *mockActorService) actor(args mock.Arguments) (*app.ActorResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.ActorResponse), args.Error(1)
}

func (m *mockActorService) Create(ctx context.Context, req app.CreateActorRequest) (*app.ActorResponse, error) {
	return m.actor(m.Called(ctx, req))
}

func (m *mockActorService) Get(ctx context.Context, id uuid.UUID) (*app.ActorResponse, error) {
	return m.actor(m.Called(ctx, id))
}

func (m *mockActorService) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]app.ActorResponse, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]app.ActorResponse), args.Error(1)
}

func (m *mockActorService) Rename(ctx context.Context, id uuid.UUID, req app.RenameActorRequest) (*app.ActorResponse, error) {
	return m.actor(m.Called(ctx, id, req))
}

func (m *mockActorService) SetExternalActorID(ctx context.Context, id uuid.UUID, req app.SetExternalActorIDRequest) (*app.ActorResponse, error) {
	return m.actor(m.Called(ctx, id, req))
}

func (m *mockActorService) AssignCertificate(ctx context.Context, id uuid.UUID, req app.AssignCertificateRequest) (*app.ActorResponse, error) {
	return m.actor(m.Called(ctx, id, req))
}

func (m *mockActorService) AssignClientSecret(ctx context.Context, id uuid.UUID) (*app.ClientSecretResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.ClientSecretResponse), args.Error(1)
}

func (m *mockActorService) RemoveCredentials(ctx context.Context, id uuid.UUID) (*app.ActorResponse, error) {
	return m.actor(m.Called(ctx, id))
}

func (m *mockActorService) Deactivate(ctx context.Context, id uuid.UUID) (*app.ActorResponse, error) {
	return m.actor(m.Called(ctx, id))
}

func (m *mockActorService) CreateDelegation(ctx context.Context, req app.CreateDelegationRequest) (*app.DelegationResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.DelegationResponse), args.Error(1)
}

func (m *mockActorService) StopDelegation(ctx context.Context, id uuid.UUID, req app.StopDelegationRequest) (*app.DelegationResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.DelegationResponse), args.Error(1)
}

type mockGridAreaService struct{ mock.Mock }

func (m *mockGridAreaService) Create(ctx context.Context, req app.CreateGridAreaRequest) (*app.GridAreaResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.GridAreaResponse), args.Error(1)
}

func (m *mockGridAreaService) Rename(ctx context.Context, id uuid.UUID, req app.RenameGridAreaRequest) (*app.GridAreaResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.GridAreaResponse), args.Error(1)
}

func (m *mockGridAreaService) Get(ctx context.Context, id uuid.UUID) (*app.GridAreaResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.GridAreaResponse), args.Error(1)
}

func (m *mockGridAreaService) List(ctx context.Context) ([]app.GridAreaResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]app.GridAreaResponse), args.Error(1)
}

type mockConsolidationService struct{ mock.Mock }

func (m *mockConsolidationService) Schedule(ctx context.Context, req app.ScheduleConsolidationRequest) (*app.ConsolidationResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.ConsolidationResponse), args.Error(1)
}

func (m *mockConsolidationService) Get(ctx context.Context, id uuid.UUID) (*app.ConsolidationResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.ConsolidationResponse), args.Error(1)
}

func (m *mockConsolidationService) List(ctx context.Context) ([]app.ConsolidationResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]app.ConsolidationResponse), args.Error(1)
}

func (m *mockConsolidationService) AuditLog(ctx context.Context, id uuid.UUID) ([]app.ConsolidationAuditLogResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]app.ConsolidationAuditLogResponse), args.Error(1)
}

func (m *mockConsolidationService) Execute(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockConsolidationService) ExecuteDue(ctx context.Context, now time.Time) (app.ExecutionSummary, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(app.ExecutionSummary), args.Error(1)
}

var (
	_ OrganizationService  = (*mockOrganizationService)(nil)
	_ ActorService         = (*mockActorService)(nil)
	_ OrganizationActors   = (*mockActorService)(nil)
	_ GridAreaService      = (*mockGridAreaService)(nil)
	_ ConsolidationService = (*mockConsolidationService)(nil)

	_ OrganizationService  = (*app.OrganizationService)(nil)
	_ ActorService         = (*app.ActorService)(nil)
	_ OrganizationActors   = (*app.ActorService)(nil)
	_ GridAreaService      = (*app.GridAreaService)(nil)
	_ ConsolidationService = (*app.ConsolidationSchedulingService)(nil)
)
