package trade

import (
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// Actor is the request-scoped identity of the acting user. It is
// resolved once by the HTTP authentication middleware and passed
// explicitly into every service operation; core logic never infers the
// user or role from ambient state.
type Actor struct {
	UserID   uuid.UUID
	Username string
	Role     string
}

// Validate checks that the actor carries a usable identity
func (a Actor) Validate() error {
	if a.UserID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACTOR", "Acting user ID cannot be empty")
	}
	if a.Username == "" {
		return shared.NewDomainError("INVALID_ACTOR", "Acting username cannot be empty")
	}
	return nil
}
