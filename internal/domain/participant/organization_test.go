package participant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrganization(t *testing.T, bri string) *Organization {
	t.Helper()
	id, err := NewBusinessRegisterIdentifier(bri, "DK")
	require.NoError(t, err)
	org, err := NewOrganization("Energy A/S", id, Address{City: "Fredericia", Country: "DK"}, []string{"energy.dk"})
	require.NoError(t, err)
	return org
}

func TestNewOrganization(t *testing.T) {
	t.Run("creates active organization and raises event", func(t *testing.T) {
		bri, err := NewBusinessRegisterIdentifier("12345678", "DK")
		require.NoError(t, err)

		org, err := NewOrganization(" Energy A/S ", bri, Address{Country: "DK"}, []string{"Energy.dk", "energy.dk ", "mail.energy.dk"})
		require.NoError(t, err)

		assert.Equal(t, "Energy A/S", org.Name)
		assert.Equal(t, OrganizationStatusActive, org.Status)
		assert.Equal(t, []string{"energy.dk", "mail.energy.dk"}, org.Domains)

		events := org.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrganizationCreated, events[0].EventType())
	})

	t.Run("requires a domain", func(t *testing.T) {
		bri, _ := NewBusinessRegisterIdentifier("12345678", "DK")
		_, err := NewOrganization("Energy A/S", bri, Address{}, nil)
		assert.ErrorContains(t, err, "At least one domain")
	})

	t.Run("rejects invalid domain", func(t *testing.T) {
		bri, _ := NewBusinessRegisterIdentifier("12345678", "DK")
		_, err := NewOrganization("Energy A/S", bri, Address{}, []string{"not a domain"})
		assert.Error(t, err)
	})
}

func TestNewBusinessRegisterIdentifier(t *testing.T) {
	_, err := NewBusinessRegisterIdentifier("1234", "DK")
	assert.Error(t, err)

	foreign, err := NewBusinessRegisterIdentifier("SE556677-8899", "SE")
	require.NoError(t, err)
	assert.Equal(t, BusinessRegisterIdentifier("SE556677-8899"), foreign)
}

func TestOrganization_Deactivate(t *testing.T) {
	org := newTestOrganization(t, "12345678")

	require.NoError(t, org.Deactivate())
	assert.False(t, org.IsActive())
	assert.Error(t, org.Deactivate())
	assert.Error(t, org.Update("New Name", Address{}, []string{"energy.dk"}))
}

func TestOrganization_HasDomain(t *testing.T) {
	org := newTestOrganization(t, "12345678")

	assert.True(t, org.HasDomain("user@ENERGY.dk"))
	assert.False(t, org.HasDomain("user@other.dk"))
	assert.False(t, org.HasDomain("no-at-sign"))
}
