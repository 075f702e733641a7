package participant

import (
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/google/uuid"
)

// =============================================================================
// Organization DTOs
// =============================================================================

// AddressDTO is the postal address of an organization
type AddressDTO struct {
	StreetName string `json:"street_name" binding:"max=250"`
	Number     string `json:"number" binding:"max=15"`
	ZipCode    string `json:"zip_code" binding:"max=15"`
	City       string `json:"city" binding:"max=50"`
	Country    string `json:"country" binding:"required,len=2"`
}

// CreateOrganizationRequest represents a request to create an organization
type CreateOrganizationRequest struct {
	Name                       string     `json:"name" binding:"required,min=1,max=512"`
	BusinessRegisterIdentifier string     `json:"business_register_identifier" binding:"required,max=50"`
	Address                    AddressDTO `json:"address" binding:"required"`
	Domains                    []string   `json:"domains" binding:"required,min=1,dive,fqdn"`
}

// UpdateOrganizationRequest represents a request to update an organization
type UpdateOrganizationRequest struct {
	Name    string     `json:"name" binding:"required,min=1,max=512"`
	Address AddressDTO `json:"address" binding:"required"`
	Domains []string   `json:"domains" binding:"required,min=1,dive,fqdn"`
}

// OrganizationResponse represents an organization in API responses
type OrganizationResponse struct {
	ID                         uuid.UUID  `json:"id"`
	Name                       string     `json:"name"`
	BusinessRegisterIdentifier string     `json:"business_register_identifier"`
	Address                    AddressDTO `json:"address"`
	Domains                    []string   `json:"domains"`
	Status                     string     `json:"status"`
	CreatedAt                  time.Time  `json:"created_at"`
	UpdatedAt                  time.Time  `json:"updated_at"`
}

// ToOrganizationResponse converts an Organization to OrganizationResponse
func ToOrganizationResponse(o *participant.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:                         o.ID,
		Name:                       o.Name,
		BusinessRegisterIdentifier: string(o.BusinessRegisterIdentifier),
		Address: AddressDTO{
			StreetName: o.Address.StreetName,
			Number:     o.Address.Number,
			ZipCode:    o.Address.ZipCode,
			City:       o.Address.City,
			Country:    o.Address.Country,
		},
		Domains:   append([]string(nil), o.Domains...),
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// ToOrganizationResponses converts a slice of organizations
func ToOrganizationResponses(orgs []*participant.Organization) []OrganizationResponse {
	out := make([]OrganizationResponse, len(orgs))
	for i, o := range orgs {
		out[i] = ToOrganizationResponse(o)
	}
	return out
}

func (a AddressDTO) toDomain() participant.Address {
	return participant.Address{
		StreetName: a.StreetName,
		Number:     a.Number,
		ZipCode:    a.ZipCode,
		City:       a.City,
		Country:    a.Country,
	}
}

// =============================================================================
// Actor DTOs
// =============================================================================

// ActorGridAreaDTO is a grid area of a market role
type ActorGridAreaDTO struct {
	GridAreaID         uuid.UUID `json:"grid_area_id" binding:"required"`
	MeteringPointTypes []string  `json:"metering_point_types"`
}

// MarketRoleDTO is the market role of an actor
type MarketRoleDTO struct {
	Function  string             `json:"function" binding:"required"`
	GridAreas []ActorGridAreaDTO `json:"grid_areas" binding:"dive"`
	Comment   string             `json:"comment" binding:"max=250"`
}

// CreateActorRequest represents a request to create an actor
type CreateActorRequest struct {
	OrganizationID uuid.UUID      `json:"organization_id" binding:"required"`
	ActorNumber    string         `json:"actor_number" binding:"required,min=13,max=16"`
	Name           string         `json:"name" binding:"required,min=1,max=512"`
	MarketRole     *MarketRoleDTO `json:"market_role"`
}

// RenameActorRequest represents a request to rename an actor
type RenameActorRequest struct {
	Name string `json:"name" binding:"required,min=1,max=512"`
}

// SetExternalActorIDRequest links an actor to an identity-provider application; null unlinks
type SetExternalActorIDRequest struct {
	ExternalActorID *uuid.UUID `json:"external_actor_id"`
}

// AssignCertificateRequest represents a request to assign certificate credentials
type AssignCertificateRequest struct {
	Thumbprint string    `json:"thumbprint" binding:"required"`
	ExpiresAt  time.Time `json:"expires_at" binding:"required"`
}

// ClientSecretResponse carries a newly issued client secret. The secret is shown once.
type ClientSecretResponse struct {
	Identifier string    `json:"identifier"`
	Secret     string    `json:"secret"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// CredentialsResponse describes an actor's credentials without secrets
type CredentialsResponse struct {
	Kind                   string    `json:"kind"`
	CertificateThumbprint  string    `json:"certificate_thumbprint,omitempty"`
	ClientSecretIdentifier string    `json:"client_secret_identifier,omitempty"`
	ExpiresAt              time.Time `json:"expires_at"`
}

// ActorResponse represents an actor in API responses
type ActorResponse struct {
	ID              uuid.UUID            `json:"id"`
	OrganizationID  uuid.UUID            `json:"organization_id"`
	ExternalActorID *uuid.UUID           `json:"external_actor_id,omitempty"`
	ActorNumber     string               `json:"actor_number"`
	ActorNumberType string               `json:"actor_number_type"`
	Name            string               `json:"name"`
	Status          string               `json:"status"`
	MarketRole      *MarketRoleDTO       `json:"market_role,omitempty"`
	Credentials     *CredentialsResponse `json:"credentials,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// ToActorResponse converts an Actor to ActorResponse
func ToActorResponse(a *participant.Actor) ActorResponse {
	resp := ActorResponse{
		ID:              a.ID,
		OrganizationID:  a.OrganizationID,
		ExternalActorID: a.ExternalActorID,
		ActorNumber:     a.ActorNumber.Value,
		ActorNumberType: string(a.ActorNumber.Type),
		Name:            a.Name,
		Status:          string(a.Status),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if a.MarketRole != nil {
		role := &MarketRoleDTO{
			Function:  string(a.MarketRole.Function()),
			Comment:   a.MarketRole.Comment(),
			GridAreas: []ActorGridAreaDTO{},
		}
		for _, ga := range a.MarketRole.GridAreas() {
			types := make([]string, len(ga.MeteringPointTypes))
			for i, t := range ga.MeteringPointTypes {
				types[i] = string(t)
			}
			role.GridAreas = append(role.GridAreas, ActorGridAreaDTO{GridAreaID: ga.GridAreaID, MeteringPointTypes: types})
		}
		resp.MarketRole = role
	}
	if a.Credentials != nil {
		resp.Credentials = &CredentialsResponse{
			Kind:                   string(a.Credentials.Kind),
			CertificateThumbprint:  a.Credentials.CertificateThumbprint,
			ClientSecretIdentifier: a.Credentials.ClientSecretIdentifier,
			ExpiresAt:              a.Credentials.ExpiresAt,
		}
	}
	return resp
}

// ToActorResponses converts a slice of actors
func ToActorResponses(actors []*participant.Actor) []ActorResponse {
	out := make([]ActorResponse, len(actors))
	for i, a := range actors {
		out[i] = ToActorResponse(a)
	}
	return out
}

// CreateDelegationRequest represents a request to delegate a market role
type CreateDelegationRequest struct {
	DelegatedByActorID uuid.UUID `json:"delegated_by_actor_id" binding:"required"`
	DelegatedToActorID uuid.UUID `json:"delegated_to_actor_id" binding:"required"`
	Function           string    `json:"function" binding:"required"`
	StartsAt           time.Time `json:"starts_at" binding:"required"`
}

// StopDelegationRequest represents a request to stop a delegation
type StopDelegationRequest struct {
	StopsAt time.Time `json:"stops_at" binding:"required"`
}

// DelegationResponse represents a delegation in API responses
type DelegationResponse struct {
	ID                 uuid.UUID  `json:"id"`
	DelegatedByActorID uuid.UUID  `json:"delegated_by_actor_id"`
	DelegatedToActorID uuid.UUID  `json:"delegated_to_actor_id"`
	Function           string     `json:"function"`
	StartsAt           time.Time  `json:"starts_at"`
	StopsAt            *time.Time `json:"stops_at,omitempty"`
}

// ToDelegationResponse converts a Delegation to DelegationResponse
func ToDelegationResponse(d *participant.Delegation) DelegationResponse {
	return DelegationResponse{
		ID:                 d.ID,
		DelegatedByActorID: d.DelegatedByActorID,
		DelegatedToActorID: d.DelegatedToActorID,
		Function:           string(d.Function),
		StartsAt:           d.StartsAt,
		StopsAt:            d.StopsAt,
	}
}

// =============================================================================
// Grid area DTOs
// =============================================================================

// CreateGridAreaRequest represents a request to create a grid area
type CreateGridAreaRequest struct {
	Name          string    `json:"name" binding:"required,min=1,max=50"`
	Code          string    `json:"code" binding:"required,len=3,numeric"`
	PriceAreaCode string    `json:"price_area_code" binding:"required,oneof=DK1 DK2"`
	Type          string    `json:"type" binding:"required"`
	ValidFrom     time.Time `json:"valid_from" binding:"required"`
}

// RenameGridAreaRequest represents a request to rename a grid area
type RenameGridAreaRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// GridAreaResponse represents a grid area in API responses
type GridAreaResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Code          string     `json:"code"`
	PriceAreaCode string     `json:"price_area_code"`
	Type          string     `json:"type"`
	ValidFrom     time.Time  `json:"valid_from"`
	ValidTo       *time.Time `json:"valid_to,omitempty"`
}

// ToGridAreaResponse converts a GridArea to GridAreaResponse
func ToGridAreaResponse(g *participant.GridArea) GridAreaResponse {
	return GridAreaResponse{
		ID:            g.ID,
		Name:          g.Name,
		Code:          g.Code,
		PriceAreaCode: string(g.PriceAreaCode),
		Type:          string(g.Type),
		ValidFrom:     g.ValidFrom,
		ValidTo:       g.ValidTo,
	}
}

// ToGridAreaResponses converts a slice of grid areas
func ToGridAreaResponses(gridAreas []*participant.GridArea) []GridAreaResponse {
	out := make([]GridAreaResponse, len(gridAreas))
	for i, g := range gridAreas {
		out[i] = ToGridAreaResponse(g)
	}
	return out
}

// =============================================================================
// Consolidation DTOs
// =============================================================================

// ScheduleConsolidationRequest represents a request to plan a consolidation
type ScheduleConsolidationRequest struct {
	ActorFromID         uuid.UUID  `json:"actor_from_id" binding:"required"`
	ActorToID           uuid.UUID  `json:"actor_to_id" binding:"required"`
	ScheduledAt         time.Time  `json:"scheduled_at" binding:"required"`
	GridAreaToMergeToID *uuid.UUID `json:"grid_area_to_merge_to_id"`
}

// ConsolidationResponse represents a consolidation in API responses
type ConsolidationResponse struct {
	ID                  uuid.UUID  `json:"id"`
	ActorFromID         uuid.UUID  `json:"actor_from_id"`
	ActorToID           uuid.UUID  `json:"actor_to_id"`
	ScheduledAt         time.Time  `json:"scheduled_at"`
	GridAreaToMergeToID *uuid.UUID `json:"grid_area_to_merge_to_id,omitempty"`
	Status              string     `json:"status"`
	FailureReason       string     `json:"failure_reason,omitempty"`
}

// ToConsolidationResponse converts an ActorConsolidation to ConsolidationResponse
func ToConsolidationResponse(c *participant.ActorConsolidation) ConsolidationResponse {
	return ConsolidationResponse{
		ID:                  c.ID,
		ActorFromID:         c.ActorFromID,
		ActorToID:           c.ActorToID,
		ScheduledAt:         c.ScheduledAt,
		GridAreaToMergeToID: c.GridAreaToMergeToID,
		Status:              string(c.Status),
		FailureReason:       c.FailureReason,
	}
}

// ToConsolidationResponses converts a slice of consolidations
func ToConsolidationResponses(consolidations []*participant.ActorConsolidation) []ConsolidationResponse {
	out := make([]ConsolidationResponse, len(consolidations))
	for i, c := range consolidations {
		out[i] = ToConsolidationResponse(c)
	}
	return out
}

// ConsolidationAuditLogResponse is one consolidation audit entry
type ConsolidationAuditLogResponse struct {
	ChangeKind      string    `json:"change_kind"`
	GridAreaID      uuid.UUID `json:"grid_area_id"`
	AuditIdentityID uuid.UUID `json:"audit_identity_id"`
	Timestamp       time.Time `json:"timestamp"`
}

// ToConsolidationAuditLogResponses converts audit entries
func ToConsolidationAuditLogResponses(entries []*participant.ActorConsolidationAuditLogEntry) []ConsolidationAuditLogResponse {
	out := make([]ConsolidationAuditLogResponse, len(entries))
	for i, e := range entries {
		out[i] = ConsolidationAuditLogResponse{
			ChangeKind:      string(e.ChangeKind),
			GridAreaID:      e.GridAreaID,
			AuditIdentityID: e.AuditIdentityID,
			Timestamp:       e.Timestamp,
		}
	}
	return out
}

// ExecutionSummary reports the outcome of running due consolidations
type ExecutionSummary struct {
	Executed int `json:"executed"`
	Failed   int `json:"failed"`
}
