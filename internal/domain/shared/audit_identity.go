package shared

import (
	"context"

	"github.com/google/uuid"
)

// SystemIdentityID is the audit identity used when no user is attached to the context
var SystemIdentityID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// AuditIdentity identifies who caused a change
type AuditIdentity struct {
	ID uuid.UUID
}

// SystemIdentity is the audit identity of background work
func SystemIdentity() AuditIdentity {
	return AuditIdentity{ID: SystemIdentityID}
}

type auditIdentityKey struct{}

// ContextWithAuditIdentity returns a copy of ctx carrying identity
func ContextWithAuditIdentity(ctx context.Context, identity AuditIdentity) context.Context {
	return context.WithValue(ctx, auditIdentityKey{}, identity)
}

// AuditIdentityFromContext returns the identity in ctx, or the system identity
func AuditIdentityFromContext(ctx context.Context) AuditIdentity {
	if identity, ok := ctx.Value(auditIdentityKey{}).(AuditIdentity); ok && identity.ID != uuid.Nil {
		return identity
	}
	return SystemIdentity()
}
