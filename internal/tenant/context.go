// Package tenant defines the tenant context that scopes every data access
// to a single organization. A Context is immutable once constructed and is
// only obtainable through NewContext, which validates the identifiers it is
// given. Request handling attaches the Context to the context.Context via
// WithContext so stores never accept raw org IDs from callers.
package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidContext indicates a tenant context could not be constructed
// from the supplied identifiers. Work must not start under such a context.
var ErrInvalidContext = errors.New("invalid tenant context")

// Context identifies the organization (and optionally the acting user) on
// whose behalf a unit of work runs. The zero value is invalid; use
// NewContext.
type Context struct {
	orgID  uuid.UUID
	userID uuid.UUID
}

// NewContext builds a validated tenant context. orgID is required and must
// be a non-nil UUID. userID is optional: pass the empty string for
// system-level actors such as background jobs, which act within an
// organization but not as any user.
func NewContext(orgID, userID string) (Context, error) {
	if orgID == "" {
		return Context{}, fmt.Errorf("%w: org ID is required", ErrInvalidContext)
	}

	oid, err := uuid.Parse(orgID)
	if err != nil {
		return Context{}, fmt.Errorf("%w: malformed org ID %q", ErrInvalidContext, orgID)
	}
	if oid == uuid.Nil {
		return Context{}, fmt.Errorf("%w: org ID is the nil UUID", ErrInvalidContext)
	}

	var uid uuid.UUID
	if userID != "" {
		uid, err = uuid.Parse(userID)
		if err != nil {
			return Context{}, fmt.Errorf("%w: malformed user ID %q", ErrInvalidContext, userID)
		}
	}

	return Context{orgID: oid, userID: uid}, nil
}

// MustContext is NewContext that panics on error. Intended for tests and
// fixtures where the identifiers are literals.
func MustContext(orgID, userID string) Context {
	tc, err := NewContext(orgID, userID)
	if err != nil {
		panic(err)
	}
	return tc
}

// OrgID returns the organization this context is scoped to.
func (c Context) OrgID() uuid.UUID {
	return c.orgID
}

// UserID returns the acting user, or the nil UUID for system actors.
func (c Context) UserID() uuid.UUID {
	return c.userID
}

// HasUser reports whether the context carries an acting user.
func (c Context) HasUser() bool {
	return c.userID != uuid.Nil
}

// Valid reports whether the context was produced by NewContext. The zero
// Context is not valid.
func (c Context) Valid() bool {
	return c.orgID != uuid.Nil
}

// String renders the context for logs. It never includes anything beyond
// the two identifiers.
func (c Context) String() string {
	if !c.HasUser() {
		return fmt.Sprintf("org=%s user=system", c.orgID)
	}
	return fmt.Sprintf("org=%s user=%s", c.orgID, c.userID)
}

type ctxKey struct{}

// WithContext attaches a tenant context to ctx.
func WithContext(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, tc)
}

// FromContext extracts the tenant context attached by WithContext. The
// second return value is false if none is attached or the attached value
// is the zero Context.
func FromContext(ctx context.Context) (Context, bool) {
	tc, ok := ctx.Value(ctxKey{}).(Context)
	if !ok || !tc.Valid() {
		return Context{}, false
	}
	return tc, true
}
