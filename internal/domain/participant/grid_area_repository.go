package participant

import (
	"context"

	"github.com/google/uuid"
)

// GridAreaRepository defines the interface for grid area persistence
type GridAreaRepository interface {
	FindAll(ctx context.Context) ([]*GridArea, error)
	FindByID(ctx context.Context, id uuid.UUID) (*GridArea, error)
	FindByCode(ctx context.Context, code string) (*GridArea, error)
	AddOrUpdate(ctx context.Context, gridArea *GridArea) (uuid.UUID, error)
}
