package domain

import "time"

// Role represents a staff member's function in the workshop.
type Role string

const (
	RoleConsultant  Role = "CONSULTANT"
	RoleMetalworker Role = "METALWORKER"
	RolePainter     Role = "PAINTER"
	RoleManager     Role = "MANAGER"
	RoleSpareParts  Role = "SPARE_PARTS"
	// RoleHQOperator is the cross-shop variant used by headquarters staff.
	RoleHQOperator Role = "HQ_OPERATOR"
)

// IsValid checks if the role is one of the allowed values.
func (r Role) IsValid() bool {
	switch r {
	case RoleConsultant, RoleMetalworker, RolePainter, RoleManager, RoleSpareParts, RoleHQOperator:
		return true
	default:
		return false
	}
}

// CanRegisterTask reports whether the role may register new repair tasks.
func (r Role) CanRegisterTask() bool {
	return r == RoleConsultant || r == RoleManager || r == RoleHQOperator
}

// CanToggleSpareParts reports whether the role may flip the spare-parts flag.
func (r Role) CanToggleSpareParts() bool {
	return r == RoleSpareParts || r == RoleConsultant || r == RoleManager || r == RoleHQOperator
}

// Staff represents a workshop employee registered in the system.
type Staff struct {
	ID        string
	ShopID    string
	Name      string
	Role      Role
	Token     string
	IsActive  bool
	CreatedAt time.Time
}

// CanAccessShop reports whether the staff member may see the shop's data.
// HQ operators see every shop.
func (s *Staff) CanAccessShop(shopID string) bool {
	return s.Role == RoleHQOperator || s.ShopID == shopID
}
