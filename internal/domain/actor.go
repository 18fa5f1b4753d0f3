package domain

// ActorContext identifies the caller of a core operation. It is resolved once at the
// transport boundary and passed explicitly into every service call.
type ActorContext struct {
	UserID       int32    `json:"user_id"`
	Name         string   `json:"name"`
	Role         UserRole `json:"role"`
	CommissionID *int32   `json:"commission_id,omitempty"`
}

func (a ActorContext) IsAdmin() bool {
	return a.Role == UserRoleAdmin
}

// IsValidator reports whether the actor may accept, reject or directly create reservations.
func (a ActorContext) IsValidator() bool {
	return a.Role == UserRoleAdmin || a.Role == UserRoleCEE
}

// InCommission reports whether the actor is a member of the given commission.
func (a ActorContext) InCommission(commissionID int32) bool {
	return a.CommissionID != nil && *a.CommissionID == commissionID
}

// Scope returns the commission the actor's reads are restricted to, nil for admins.
// A CEE without a commission gets a scope that matches nothing.
func (a ActorContext) Scope() *int32 {
	if a.IsAdmin() {
		return nil
	}
	if a.CommissionID == nil {
		none := int32(-1)
		return &none
	}
	id := *a.CommissionID
	return &id
}
