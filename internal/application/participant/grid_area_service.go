package participant

import (
	"context"
	"errors"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// GridAreaService handles grid area operations
type GridAreaService struct {
	gridAreas participant.GridAreaRepository
}

// NewGridAreaService creates a new GridAreaService
func NewGridAreaService(gridAreas participant.GridAreaRepository) *GridAreaService {
	return &GridAreaService{gridAreas: gridAreas}
}

// Create creates a grid area with a unique code
func (s *GridAreaService) Create(ctx context.Context, req CreateGridAreaRequest) (*GridAreaResponse, error) {
	existing, err := s.gridAreas.FindByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainErrorf(participant.CodeGridAreaCodeTaken, "Grid area code %s is already in use", req.Code)
	}

	ga, err := participant.NewGridArea(req.Name, req.Code, participant.PriceAreaCode(req.PriceAreaCode), participant.GridAreaType(req.Type), req.ValidFrom)
	if err != nil {
		return nil, err
	}
	if _, err := s.gridAreas.AddOrUpdate(ctx, ga); err != nil {
		return nil, err
	}

	resp := ToGridAreaResponse(ga)
	return &resp, nil
}

// Rename changes the display name of a grid area
func (s *GridAreaService) Rename(ctx context.Context, id uuid.UUID, req RenameGridAreaRequest) (*GridAreaResponse, error) {
	ga, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ga.Rename(req.Name); err != nil {
		return nil, err
	}
	if _, err := s.gridAreas.AddOrUpdate(ctx, ga); err != nil {
		return nil, err
	}

	resp := ToGridAreaResponse(ga)
	return &resp, nil
}

// Get returns a grid area by ID
func (s *GridAreaService) Get(ctx context.Context, id uuid.UUID) (*GridAreaResponse, error) {
	ga, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToGridAreaResponse(ga)
	return &resp, nil
}

// List returns every grid area
func (s *GridAreaService) List(ctx context.Context) ([]GridAreaResponse, error) {
	all, err := s.gridAreas.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToGridAreaResponses(all), nil
}

func (s *GridAreaService) load(ctx context.Context, id uuid.UUID) (*participant.GridArea, error) {
	ga, err := s.gridAreas.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, participant.NewGridAreaNotFoundError(id)
	}
	return ga, err
}
