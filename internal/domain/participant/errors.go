package participant

import (
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// Error codes of the participant context
const (
	CodeInvalidActorNumber                   = "INVALID_ACTOR_NUMBER"
	CodeInvalidEicFunction                   = "INVALID_EIC_FUNCTION"
	CodeInvalidMeteringPointType             = "INVALID_METERING_POINT_TYPE"
	CodeInvalidMarketRole                    = "INVALID_MARKET_ROLE"
	CodeInvalidActorName                     = "INVALID_ACTOR_NAME"
	CodeInvalidActorStatusTransition         = "INVALID_ACTOR_STATUS_TRANSITION"
	CodeInvalidCredentials                   = "INVALID_CREDENTIALS"
	CodeInvalidOrganization                  = "INVALID_ORGANIZATION"
	CodeInvalidGridArea                      = "INVALID_GRID_AREA"
	CodeInvalidConsolidation                 = "INVALID_CONSOLIDATION"
	CodeInvalidDelegation                    = "INVALID_DELEGATION"
	CodeActorNotFound                        = "ACTOR_NOT_FOUND"
	CodeOrganizationNotFound                 = "ORGANIZATION_NOT_FOUND"
	CodeGridAreaNotFound                     = "GRID_AREA_NOT_FOUND"
	CodeConsolidationNotFound                = "CONSOLIDATION_NOT_FOUND"
	CodeDelegationNotFound                   = "DELEGATION_NOT_FOUND"
	CodeActorNumberTaken                     = "ACTOR_NUMBER_TAKEN"
	CodeOverlappingMarketRoleGridArea        = "OVERLAPPING_MARKET_ROLE_GRID_AREA"
	CodeMarketRoleGridAreaReserved           = "MARKET_ROLE_GRID_AREA_RESERVED"
	CodeDisallowedDelegationCombination      = "DISALLOWED_DELEGATION_COMBINATION"
	CodeBusinessRegisterIdentifierTaken      = "BUSINESS_REGISTER_IDENTIFIER_TAKEN"
	CodeGridAreaCodeTaken                    = "GRID_AREA_CODE_TAKEN"
	CodeCertificateThumbprintConflict        = "CERTIFICATE_THUMBPRINT_CONFLICT"
	CodeConsolidationAlreadyPending          = "CONSOLIDATION_ALREADY_PENDING"
	CodeOrganizationHasActiveActors          = "ORGANIZATION_HAS_ACTIVE_ACTORS"
	CodeInvalidOrganizationStatusTransition  = "INVALID_ORGANIZATION_STATUS_TRANSITION"
	CodeInvalidConsolidationStatusTransition = "INVALID_CONSOLIDATION_STATUS_TRANSITION"
)

// Sentinel errors; errors.Is matches any DomainError carrying the same code
var (
	ErrActorNotFound                   = shared.NewDomainError(CodeActorNotFound, "Actor not found")
	ErrOrganizationNotFound            = shared.NewDomainError(CodeOrganizationNotFound, "Organization not found")
	ErrGridAreaNotFound                = shared.NewDomainError(CodeGridAreaNotFound, "Grid area not found")
	ErrConsolidationNotFound           = shared.NewDomainError(CodeConsolidationNotFound, "Actor consolidation not found")
	ErrDelegationNotFound              = shared.NewDomainError(CodeDelegationNotFound, "Delegation not found")
	ErrActorNumberTaken                = shared.NewDomainError(CodeActorNumberTaken, "Actor number is already in use by another organization")
	ErrOverlappingMarketRoleGridArea   = shared.NewDomainError(CodeOverlappingMarketRoleGridArea, "Market role and grid area are already assigned to another actor")
	ErrMarketRoleGridAreaReserved      = shared.NewDomainError(CodeMarketRoleGridAreaReserved, "Market role and grid area are reserved by another actor")
	ErrDisallowedDelegationCombination = shared.NewDomainError(CodeDisallowedDelegationCombination, "Market role combination is not allowed together with the organization's delegations")
	ErrBusinessRegisterIdentifierTaken = shared.NewDomainError(CodeBusinessRegisterIdentifierTaken, "Business register identifier is already in use")
	ErrGridAreaCodeTaken               = shared.NewDomainError(CodeGridAreaCodeTaken, "Grid area code is already in use")
	ErrCertificateThumbprintConflict   = shared.NewDomainError(CodeCertificateThumbprintConflict, "Certificate thumbprint is already assigned to another actor")
	ErrConsolidationAlreadyPending     = shared.NewDomainError(CodeConsolidationAlreadyPending, "Actor is already part of a pending consolidation")
	ErrInvalidActorStatusTransition    = shared.NewDomainError(CodeInvalidActorStatusTransition, "Actor status transition is not allowed")
	ErrInvalidConsolidationTransition  = shared.NewDomainError(CodeInvalidConsolidationStatusTransition, "Consolidation status transition is not allowed")
	ErrOrganizationHasActiveActors     = shared.NewDomainError(CodeOrganizationHasActiveActors, "Organization still owns actors that are not inactive")
)

// NewActorNotFoundError names the missing actor
func NewActorNotFoundError(id uuid.UUID) *shared.DomainError {
	return shared.NewDomainErrorf(CodeActorNotFound, "Actor %s not found", id)
}

// NewOrganizationNotFoundError names the missing organization
func NewOrganizationNotFoundError(id uuid.UUID) *shared.DomainError {
	return shared.NewDomainErrorf(CodeOrganizationNotFound, "Organization %s not found", id)
}

// NewGridAreaNotFoundError names the missing grid area
func NewGridAreaNotFoundError(id uuid.UUID) *shared.DomainError {
	return shared.NewDomainErrorf(CodeGridAreaNotFound, "Grid area %s not found", id)
}

// NewConsolidationNotFoundError names the missing consolidation
func NewConsolidationNotFoundError(id uuid.UUID) *shared.DomainError {
	return shared.NewDomainErrorf(CodeConsolidationNotFound, "Actor consolidation %s not found", id)
}

// NewConsolidationNotPendingError reports a consolidation that already left Pending
func NewConsolidationNotPendingError(id uuid.UUID, status ActorConsolidationStatus) *shared.DomainError {
	return shared.NewDomainErrorf(CodeInvalidConsolidationStatusTransition, "Actor consolidation %s is %s, not %s",
		id, status, ActorConsolidationStatusPending)
}
