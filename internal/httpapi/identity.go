package httpapi

import (
	"context"
	"net/http"
	"strings"
)

const (
	headerCustomerID = "X-Customer-ID"
	headerRole       = "X-Customer-Role"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
)

// Identity is set by the trusted upstream proxy. This service does not
// authenticate callers itself.
type Identity struct {
	CustomerID string
	Role       Role
}

func (i Identity) IsStaff() bool {
	return i.Role == RoleStaff
}

// CanActOn reports whether the caller may act on a resource owned by ownerID.
func (i Identity) CanActOn(ownerID string) bool {
	return i.IsStaff() || (i.CustomerID != "" && i.CustomerID == ownerID)
}

type identityKey struct{}

func identityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Identify reads the caller identity headers. Requests without a customer id
// are rejected.
func Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		customerID := strings.TrimSpace(r.Header.Get(headerCustomerID))
		if customerID == "" {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing "+headerCustomerID+" header")
			return
		}

		role := Role(strings.ToLower(strings.TrimSpace(r.Header.Get(headerRole))))
		if role != RoleStaff {
			role = RoleCustomer
		}

		ctx := context.WithValue(r.Context(), identityKey{}, Identity{CustomerID: customerID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := identityFrom(r.Context()); !ok || !id.IsStaff() {
			respondError(w, http.StatusForbidden, "forbidden", "staff role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
