package participant

import (
	"regexp"
	"strings"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
)

// OrganizationStatus is the lifecycle state of an organization
type OrganizationStatus string

const (
	OrganizationStatusActive  OrganizationStatus = "Active"
	OrganizationStatusDeleted OrganizationStatus = "Deleted"
)

var (
	cvrPattern    = regexp.MustCompile(`^[0-9]{8}$`)
	domainPattern = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)
)

// Address is the postal address of an organization
type Address struct {
	StreetName string
	Number     string
	ZipCode    string
	City       string
	Country    string
}

// BusinessRegisterIdentifier is a Danish CVR number (8 digits) or a foreign
// registration identifier
type BusinessRegisterIdentifier string

// NewBusinessRegisterIdentifier validates a business register identifier. The
// country code decides whether the Danish CVR format applies.
func NewBusinessRegisterIdentifier(value, country string) (BusinessRegisterIdentifier, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", shared.NewDomainError(CodeInvalidOrganization, "Business register identifier is required")
	}
	if strings.EqualFold(country, "DK") && !cvrPattern.MatchString(value) {
		return "", shared.NewDomainError(CodeInvalidOrganization, "A Danish business register identifier must be 8 digits")
	}
	if len(value) > 50 {
		return "", shared.NewDomainError(CodeInvalidOrganization, "Business register identifier cannot exceed 50 characters")
	}
	return BusinessRegisterIdentifier(value), nil
}

// Organization owns actors and the e-mail domains its users are invited from
type Organization struct {
	shared.BaseAggregateRoot
	Name                       string
	BusinessRegisterIdentifier BusinessRegisterIdentifier
	Address                    Address
	Domains                    []string
	Status                     OrganizationStatus
}

// NewOrganization creates an active organization
func NewOrganization(name string, bri BusinessRegisterIdentifier, address Address, domains []string) (*Organization, error) {
	org := &Organization{
		BaseAggregateRoot:          shared.NewBaseAggregateRoot(),
		BusinessRegisterIdentifier: bri,
		Status:                     OrganizationStatusActive,
	}
	if bri == "" {
		return nil, shared.NewDomainError(CodeInvalidOrganization, "Business register identifier is required")
	}
	if err := org.apply(name, address, domains); err != nil {
		return nil, err
	}

	org.AddDomainEvent(NewOrganizationCreatedEvent(org))
	return org, nil
}

// Update replaces the mutable organization details
func (o *Organization) Update(name string, address Address, domains []string) error {
	if o.Status == OrganizationStatusDeleted {
		return shared.NewDomainError(CodeInvalidOrganizationStatusTransition, "A deleted organization cannot be changed")
	}
	if err := o.apply(name, address, domains); err != nil {
		return err
	}
	o.IncrementVersion()
	return nil
}

// Deactivate marks the organization deleted
func (o *Organization) Deactivate() error {
	if o.Status == OrganizationStatusDeleted {
		return shared.NewDomainError(CodeInvalidOrganizationStatusTransition, "Organization is already deleted")
	}
	o.Status = OrganizationStatusDeleted
	o.IncrementVersion()
	return nil
}

// IsActive reports whether the organization is active
func (o *Organization) IsActive() bool {
	return o.Status == OrganizationStatusActive
}

// HasDomain reports whether an e-mail address belongs to one of the organization's domains
func (o *Organization) HasDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, d := range o.Domains {
		if d == domain {
			return true
		}
	}
	return false
}

func (o *Organization) apply(name string, address Address, domains []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError(CodeInvalidOrganization, "Organization name cannot be empty")
	}
	if len(name) > 512 {
		return shared.NewDomainError(CodeInvalidOrganization, "Organization name cannot exceed 512 characters")
	}
	normalized, err := normalizeDomains(domains)
	if err != nil {
		return err
	}

	o.Name = name
	o.Address = address
	o.Domains = normalized
	return nil
}

func normalizeDomains(domains []string) ([]string, error) {
	seen := make(map[string]struct{}, len(domains))
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if !domainPattern.MatchString(d) {
			return nil, shared.NewDomainErrorf(CodeInvalidOrganization, "%q is not a valid domain", d)
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil, shared.NewDomainError(CodeInvalidOrganization, "At least one domain is required")
	}
	return out, nil
}
