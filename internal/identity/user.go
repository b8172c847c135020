// Package identity consumes the external identity provider. The rest of the
// system treats the authenticated user as read-only and uses it only to
// populate the claimant email at submission time and note authorship.
package identity

import (
	"time"

	"github.com/google/uuid"
)

// User is the authenticated principal delivered by the identity provider.
type User struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	UserID          string `json:"userId"`
	Email           string `json:"email"`
	FullName        string `json:"fullName"`
	Role            string `json:"role"`
}

// Anonymous is the zero-value unauthenticated user.
var Anonymous = User{}

// Known roles.
const (
	RoleClaimant = "claimant"
	RoleAdjuster = "adjuster"
	RoleAdmin    = "admin"
)

// ValidRole reports whether r is a known role value.
func ValidRole(r string) bool {
	switch r {
	case RoleClaimant, RoleAdjuster, RoleAdmin:
		return true
	}
	return false
}

// Account is one entry in the service's user directory. Accounts are recorded
// the first time an authenticated request is seen; the directory role is
// managed by administrators and flows back into tokens at issuance, so a role
// change takes effect when the user next signs in.
type Account struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
