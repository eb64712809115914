// Package access decides whether a caller may change a resource owned by someone else.
package access

import (
	"fmt"

	"github.com/google/uuid"

	"artlink/internal/domain"
)

// Caller 是从访问令牌中解析出的调用者身份。
type Caller struct {
	ID    uuid.UUID
	Email string
	Role  domain.Role
}

func (c Caller) IsAdmin() bool { return c.Role == domain.RoleAdmin }

// CanMutate evaluates whether caller may modify a resource owned by ownerID.
// Rules:
// - an Admin may modify anything
// - otherwise the caller must be the owner
func CanMutate(caller Caller, ownerID uuid.UUID) domain.GuardResult {
	if caller.IsAdmin() {
		return domain.GuardResult{Allowed: true}
	}
	if caller.ID != uuid.Nil && caller.ID == ownerID {
		return domain.GuardResult{Allowed: true}
	}
	return domain.GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("%s %s does not own this resource", caller.Role, caller.ID),
	}
}

// CanMutateAny allows the action when caller owns at least one of ownerIDs.
func CanMutateAny(caller Caller, ownerIDs ...uuid.UUID) domain.GuardResult {
	for _, id := range ownerIDs {
		if res := CanMutate(caller, id); res.Allowed {
			return res
		}
	}
	return CanMutate(caller, uuid.Nil)
}
