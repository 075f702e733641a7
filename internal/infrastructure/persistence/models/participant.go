package models

import (
	"sort"
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// OrganizationModel is the persistence model for the Organization aggregate
type OrganizationModel struct {
	AggregateModel
	Name                       string         `gorm:"type:varchar(512);not null"`
	BusinessRegisterIdentifier string         `gorm:"type:varchar(50);not null;index"`
	StreetName                 string         `gorm:"type:varchar(250)"`
	AddressNumber              string         `gorm:"type:varchar(15)"`
	ZipCode                    string         `gorm:"type:varchar(15)"`
	City                       string         `gorm:"type:varchar(50)"`
	Country                    string         `gorm:"type:varchar(2);not null"`
	Domains                    pq.StringArray `gorm:"type:text[];not null"`
	Status                     string         `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (OrganizationModel) TableName() string {
	return "organizations"
}

// ToDomain converts the persistence model to a domain Organization
func (m *OrganizationModel) ToDomain() *participant.Organization {
	return &participant.Organization{
		BaseAggregateRoot:          m.ToDomainAggregateRoot(),
		Name:                       m.Name,
		BusinessRegisterIdentifier: participant.BusinessRegisterIdentifier(m.BusinessRegisterIdentifier),
		Address: participant.Address{
			StreetName: m.StreetName,
			Number:     m.AddressNumber,
			ZipCode:    m.ZipCode,
			City:       m.City,
			Country:    m.Country,
		},
		Domains: append([]string(nil), m.Domains...),
		Status:  participant.OrganizationStatus(m.Status),
	}
}

// OrganizationModelFromDomain creates a persistence model from a domain Organization
func OrganizationModelFromDomain(o *participant.Organization) *OrganizationModel {
	m := &OrganizationModel{
		Name:                       o.Name,
		BusinessRegisterIdentifier: string(o.BusinessRegisterIdentifier),
		StreetName:                 o.Address.StreetName,
		AddressNumber:              o.Address.Number,
		ZipCode:                    o.Address.ZipCode,
		City:                       o.Address.City,
		Country:                    o.Address.Country,
		Domains:                    pq.StringArray(append([]string(nil), o.Domains...)),
		Status:                     string(o.Status),
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	return m
}

// ActorModel is the persistence model for the Actor aggregate. The market
// role is flattened onto the row; its grid areas live in a child table.
type ActorModel struct {
	AggregateModel
	OrganizationID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	ExternalActorID        *uuid.UUID `gorm:"type:uuid"`
	ActorNumber            string     `gorm:"type:varchar(16);not null;index"`
	ActorNumberType        string     `gorm:"type:varchar(3);not null"`
	Name                   string     `gorm:"type:varchar(512);not null"`
	Status                 string     `gorm:"type:varchar(20);not null;index"`
	MarketRoleFunction     *string    `gorm:"type:varchar(64);index"`
	MarketRoleComment      string     `gorm:"type:varchar(250)"`
	CredentialsKind        *string    `gorm:"type:varchar(20)"`
	CertificateThumbprint  *string    `gorm:"type:varchar(64);uniqueIndex:uq_actors_certificate_thumbprint"`
	ClientSecretIdentifier *string    `gorm:"type:varchar(64)"`
	ClientSecretHash       string     `gorm:"type:text"`
	CredentialsExpiresAt   *time.Time

	GridAreas []ActorGridAreaModel `gorm:"foreignKey:ActorID"`
}

// TableName returns the table name for GORM
func (ActorModel) TableName() string {
	return "actors"
}

// ActorGridAreaModel is one grid area of an actor's market role
type ActorGridAreaModel struct {
	ActorID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	GridAreaID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Position           int            `gorm:"not null"`
	MeteringPointTypes pq.StringArray `gorm:"type:text[];not null"`
}

// TableName returns the table name for GORM
func (ActorGridAreaModel) TableName() string {
	return "actor_market_role_grid_areas"
}

// ToDomain converts the persistence model to a domain Actor
func (m *ActorModel) ToDomain() (*participant.Actor, error) {
	actor := &participant.Actor{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrganizationID:    m.OrganizationID,
		ExternalActorID:   m.ExternalActorID,
		ActorNumber: participant.ActorNumber{
			Value: m.ActorNumber,
			Type:  participant.ActorNumberType(m.ActorNumberType),
		},
		Name:   m.Name,
		Status: participant.ActorStatus(m.Status),
	}

	if m.MarketRoleFunction != nil {
		rows := append([]ActorGridAreaModel(nil), m.GridAreas...)
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })

		gridAreas := make([]participant.ActorGridArea, 0, len(rows))
		for _, row := range rows {
			types := make([]participant.MeteringPointType, 0, len(row.MeteringPointTypes))
			for _, t := range row.MeteringPointTypes {
				types = append(types, participant.MeteringPointType(t))
			}
			gridAreas = append(gridAreas, participant.ActorGridArea{GridAreaID: row.GridAreaID, MeteringPointTypes: types})
		}

		role, err := participant.NewActorMarketRole(participant.EicFunction(*m.MarketRoleFunction), gridAreas, m.MarketRoleComment)
		if err != nil {
			return nil, err
		}
		actor.MarketRole = role
	}

	if m.CredentialsKind != nil {
		creds := &participant.ActorCredentials{Kind: participant.CredentialsKind(*m.CredentialsKind)}
		if m.CertificateThumbprint != nil {
			creds.CertificateThumbprint = *m.CertificateThumbprint
		}
		if m.ClientSecretIdentifier != nil {
			creds.ClientSecretIdentifier = *m.ClientSecretIdentifier
		}
		creds.ClientSecretHash = m.ClientSecretHash
		if m.CredentialsExpiresAt != nil {
			creds.ExpiresAt = *m.CredentialsExpiresAt
		}
		actor.Credentials = creds
	}

	return actor, nil
}

// ActorModelFromDomain creates a persistence model, grid areas included, from a domain Actor
func ActorModelFromDomain(a *participant.Actor) *ActorModel {
	m := &ActorModel{
		OrganizationID:  a.OrganizationID,
		ExternalActorID: a.ExternalActorID,
		ActorNumber:     a.ActorNumber.Value,
		ActorNumberType: string(a.ActorNumber.Type),
		Name:            a.Name,
		Status:          string(a.Status),
	}
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)

	if a.MarketRole != nil {
		function := string(a.MarketRole.Function())
		m.MarketRoleFunction = &function
		m.MarketRoleComment = a.MarketRole.Comment()
		for i, ga := range a.MarketRole.GridAreas() {
			types := make(pq.StringArray, 0, len(ga.MeteringPointTypes))
			for _, t := range ga.MeteringPointTypes {
				types = append(types, string(t))
			}
			m.GridAreas = append(m.GridAreas, ActorGridAreaModel{
				ActorID:            a.ID,
				GridAreaID:         ga.GridAreaID,
				Position:           i,
				MeteringPointTypes: types,
			})
		}
	}

	if c := a.Credentials; c != nil {
		kind := string(c.Kind)
		m.CredentialsKind = &kind
		if c.CertificateThumbprint != "" {
			thumbprint := c.CertificateThumbprint
			m.CertificateThumbprint = &thumbprint
		}
		if c.ClientSecretIdentifier != "" {
			identifier := c.ClientSecretIdentifier
			m.ClientSecretIdentifier = &identifier
		}
		m.ClientSecretHash = c.ClientSecretHash
		expiresAt := c.ExpiresAt
		m.CredentialsExpiresAt = &expiresAt
	}

	return m
}

// GridAreaModel is the persistence model for the GridArea aggregate
type GridAreaModel struct {
	AggregateModel
	Name          string `gorm:"type:varchar(50);not null"`
	Code          string `gorm:"type:varchar(3);not null;uniqueIndex:uq_grid_areas_code"`
	PriceAreaCode string `gorm:"type:varchar(3);not null"`
	Type          string `gorm:"type:varchar(20);not null"`
	ValidFrom     time.Time
	ValidTo       *time.Time
}

// TableName returns the table name for GORM
func (GridAreaModel) TableName() string {
	return "grid_areas"
}

// ToDomain converts the persistence model to a domain GridArea
func (m *GridAreaModel) ToDomain() *participant.GridArea {
	return &participant.GridArea{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Code:              m.Code,
		PriceAreaCode:     participant.PriceAreaCode(m.PriceAreaCode),
		Type:              participant.GridAreaType(m.Type),
		ValidFrom:         m.ValidFrom,
		ValidTo:           m.ValidTo,
	}
}

// GridAreaModelFromDomain creates a persistence model from a domain GridArea
func GridAreaModelFromDomain(g *participant.GridArea) *GridAreaModel {
	m := &GridAreaModel{
		Name:          g.Name,
		Code:          g.Code,
		PriceAreaCode: string(g.PriceAreaCode),
		Type:          string(g.Type),
		ValidFrom:     g.ValidFrom,
		ValidTo:       g.ValidTo,
	}
	m.FromDomainAggregateRoot(g.BaseAggregateRoot)
	return m
}
