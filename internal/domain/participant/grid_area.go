package participant

import (
	"regexp"
	"strings"
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
)

// PriceAreaCode is the bidding zone a grid area belongs to
type PriceAreaCode string

const (
	PriceAreaCodeDK1 PriceAreaCode = "DK1"
	PriceAreaCodeDK2 PriceAreaCode = "DK2"
)

// GridAreaType classifies a grid area
type GridAreaType string

const (
	GridAreaTypeDistribution GridAreaType = "Distribution"
	GridAreaTypeOther        GridAreaType = "Other"
	GridAreaTypeTransmission GridAreaType = "Transmission"
	GridAreaTypeTest         GridAreaType = "Test"
	GridAreaTypeNotActive    GridAreaType = "NotActive"
	GridAreaTypeGridLossDK   GridAreaType = "GridLossDK"
)

var gridAreaCodePattern = regexp.MustCompile(`^[0-9]{3}$`)

// GridArea is an electricity distribution area valid within [ValidFrom, ValidTo)
type GridArea struct {
	shared.BaseAggregateRoot
	Name          string
	Code          string
	PriceAreaCode PriceAreaCode
	Type          GridAreaType
	ValidFrom     time.Time
	ValidTo       *time.Time
}

// NewGridArea creates a grid area open-ended from validFrom
func NewGridArea(name, code string, priceArea PriceAreaCode, gridAreaType GridAreaType, validFrom time.Time) (*GridArea, error) {
	if !gridAreaCodePattern.MatchString(code) {
		return nil, shared.NewDomainError(CodeInvalidGridArea, "Grid area code must be 3 digits")
	}
	if priceArea != PriceAreaCodeDK1 && priceArea != PriceAreaCodeDK2 {
		return nil, shared.NewDomainErrorf(CodeInvalidGridArea, "Unknown price area code %q", priceArea)
	}
	switch gridAreaType {
	case GridAreaTypeDistribution, GridAreaTypeOther, GridAreaTypeTransmission,
		GridAreaTypeTest, GridAreaTypeNotActive, GridAreaTypeGridLossDK:
	default:
		return nil, shared.NewDomainErrorf(CodeInvalidGridArea, "Unknown grid area type %q", gridAreaType)
	}

	name, err := validateGridAreaName(name)
	if err != nil {
		return nil, err
	}

	return &GridArea{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Code:              code,
		PriceAreaCode:     priceArea,
		Type:              gridAreaType,
		ValidFrom:         validFrom.UTC(),
	}, nil
}

// Rename changes the display name
func (g *GridArea) Rename(name string) error {
	name, err := validateGridAreaName(name)
	if err != nil {
		return err
	}
	g.Name = name
	g.IncrementVersion()
	return nil
}

// SetValidTo time-bounds the grid area. The grid area is kept for historical queries.
func (g *GridArea) SetValidTo(validTo time.Time) error {
	validTo = validTo.UTC()
	if validTo.Before(g.ValidFrom) {
		return shared.NewDomainError(CodeInvalidGridArea, "Grid area cannot end before it starts")
	}
	g.ValidTo = &validTo
	g.IncrementVersion()
	return nil
}

// IsValidAt reports whether t falls within [ValidFrom, ValidTo)
func (g *GridArea) IsValidAt(t time.Time) bool {
	if t.Before(g.ValidFrom) {
		return false
	}
	return g.ValidTo == nil || t.Before(*g.ValidTo)
}

func validateGridAreaName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewDomainError(CodeInvalidGridArea, "Grid area name cannot be empty")
	}
	if len(name) > 50 {
		return "", shared.NewDomainError(CodeInvalidGridArea, "Grid area name cannot exceed 50 characters")
	}
	return name, nil
}
