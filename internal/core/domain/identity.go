package domain

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// ValidRole reports whether s is a role the portal understands.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleCustomer
}

// Profile is the application-owned record keyed by the backend user id.
// It carries everything the backend's credential store does not: display
// name and role.
type Profile struct {
	ID   string `json:"id" bson:"_id"`
	Name string `json:"name" bson:"name"`
	Role string `json:"role" bson:"role"`
}

// Identity is the role-bound application identity: the join of an opaque
// backend session (id, email) with its Profile (name, role).
//
// An Identity only ever exists fully populated. A session whose profile
// cannot be resolved yields no Identity at all, never a partial one.
// Identities are immutable; session changes re-derive them wholesale.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
