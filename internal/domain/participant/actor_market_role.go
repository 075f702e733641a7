package participant

import (
	"strings"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// ActorGridArea grants an actor a grid area for a set of metering point types
type ActorGridArea struct {
	GridAreaID         uuid.UUID
	MeteringPointTypes []MeteringPointType
}

// NewActorGridArea validates and de-duplicates the metering point types, preserving order
func NewActorGridArea(gridAreaID uuid.UUID, types []MeteringPointType) (ActorGridArea, error) {
	if gridAreaID == uuid.Nil {
		return ActorGridArea{}, shared.NewDomainError(CodeInvalidMarketRole, "Grid area ID is required")
	}
	seen := make(map[MeteringPointType]struct{}, len(types))
	unique := make([]MeteringPointType, 0, len(types))
	for _, t := range types {
		if !t.IsValid() {
			return ActorGridArea{}, shared.NewDomainErrorf(CodeInvalidMeteringPointType, "Unknown metering point type %q", t)
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		unique = append(unique, t)
	}
	return ActorGridArea{GridAreaID: gridAreaID, MeteringPointTypes: unique}, nil
}

// ActorMarketRole is the single market role of an actor. It is an immutable
// value; changes are made by building a new role and replacing the old one.
type ActorMarketRole struct {
	function  EicFunction
	gridAreas []ActorGridArea
	comment   string
}

// NewActorMarketRole builds a market role. A grid area may appear only once.
func NewActorMarketRole(function EicFunction, gridAreas []ActorGridArea, comment string) (*ActorMarketRole, error) {
	if !function.IsValid() {
		return nil, shared.NewDomainErrorf(CodeInvalidEicFunction, "Unknown market role function %q", function)
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > 250 {
		return nil, shared.NewDomainError(CodeInvalidMarketRole, "Market role comment cannot exceed 250 characters")
	}

	seen := make(map[uuid.UUID]struct{}, len(gridAreas))
	copied := make([]ActorGridArea, 0, len(gridAreas))
	for _, ga := range gridAreas {
		if _, ok := seen[ga.GridAreaID]; ok {
			return nil, shared.NewDomainErrorf(CodeInvalidMarketRole, "Grid area %s is listed more than once", ga.GridAreaID)
		}
		seen[ga.GridAreaID] = struct{}{}
		copied = append(copied, ActorGridArea{
			GridAreaID:         ga.GridAreaID,
			MeteringPointTypes: append([]MeteringPointType(nil), ga.MeteringPointTypes...),
		})
	}

	return &ActorMarketRole{function: function, gridAreas: copied, comment: comment}, nil
}

// Function returns the market role function
func (r *ActorMarketRole) Function() EicFunction {
	return r.function
}

// Comment returns the free-text comment
func (r *ActorMarketRole) Comment() string {
	return r.comment
}

// GridAreas returns a copy of the grid areas in order
func (r *ActorMarketRole) GridAreas() []ActorGridArea {
	out := make([]ActorGridArea, len(r.gridAreas))
	for i, ga := range r.gridAreas {
		out[i] = ActorGridArea{
			GridAreaID:         ga.GridAreaID,
			MeteringPointTypes: append([]MeteringPointType(nil), ga.MeteringPointTypes...),
		}
	}
	return out
}

// GridAreaIDs returns the IDs of the grid areas in order
func (r *ActorMarketRole) GridAreaIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.gridAreas))
	for i, ga := range r.gridAreas {
		ids[i] = ga.GridAreaID
	}
	return ids
}

// HasGridArea reports whether the role covers the grid area
func (r *ActorMarketRole) HasGridArea(id uuid.UUID) bool {
	for _, ga := range r.gridAreas {
		if ga.GridAreaID == id {
			return true
		}
	}
	return false
}

// WithoutGridAreas returns a copy of the role holding no grid areas
func (r *ActorMarketRole) WithoutGridAreas() *ActorMarketRole {
	return &ActorMarketRole{function: r.function, gridAreas: []ActorGridArea{}, comment: r.comment}
}

// WithAdditionalGridAreas returns a copy of the role holding its own grid areas
// followed by the given ones
func (r *ActorMarketRole) WithAdditionalGridAreas(extra []ActorGridArea) (*ActorMarketRole, error) {
	combined := append(r.GridAreas(), extra...)
	return NewActorMarketRole(r.function, combined, r.comment)
}
