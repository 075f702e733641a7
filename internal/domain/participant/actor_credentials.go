package participant

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
)

// CredentialsKind distinguishes the two mutually exclusive ways an actor authenticates
type CredentialsKind string

const (
	CredentialsKindCertificate  CredentialsKind = "Certificate"
	CredentialsKindClientSecret CredentialsKind = "ClientSecret"
)

// ActorCredentials is either a certificate thumbprint or a client secret, never both
type ActorCredentials struct {
	Kind CredentialsKind
	// CertificateThumbprint is the upper-case hex SHA-1 thumbprint; unique across actors
	CertificateThumbprint string
	// ClientSecretIdentifier names the secret at the identity provider
	ClientSecretIdentifier string
	// ClientSecretHash is the bcrypt hash of the issued secret
	ClientSecretHash string
	ExpiresAt        time.Time
}

// NewCertificateCredentials validates and normalizes a SHA-1 certificate thumbprint
func NewCertificateCredentials(thumbprint string, expiresAt time.Time) (*ActorCredentials, error) {
	thumbprint = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(thumbprint), ":", ""))
	raw, err := hex.DecodeString(thumbprint)
	if err != nil || len(raw) != 20 {
		return nil, shared.NewDomainError(CodeInvalidCredentials, "Certificate thumbprint must be 40 hexadecimal characters")
	}
	return &ActorCredentials{
		Kind:                  CredentialsKindCertificate,
		CertificateThumbprint: thumbprint,
		ExpiresAt:             expiresAt.UTC(),
	}, nil
}

// NewClientSecretCredentials records an issued client secret by identifier and hash
func NewClientSecretCredentials(identifier, secretHash string, expiresAt time.Time) (*ActorCredentials, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secretHash == "" {
		return nil, shared.NewDomainError(CodeInvalidCredentials, "Client secret identifier and hash are required")
	}
	return &ActorCredentials{
		Kind:                   CredentialsKindClientSecret,
		ClientSecretIdentifier: identifier,
		ClientSecretHash:       secretHash,
		ExpiresAt:              expiresAt.UTC(),
	}, nil
}

// IsExpiredAt reports whether the credentials have expired at t
func (c *ActorCredentials) IsExpiredAt(t time.Time) bool {
	return !c.ExpiresAt.IsZero() && !t.Before(c.ExpiresAt)
}
