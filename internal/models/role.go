package models

import "github.com/samber/lo"

// Role is the account type a user registered with.
type Role string

const (
	RoleDonor    Role = "donor"
	RoleHospital Role = "hospital"
	RoleAdmin    Role = "admin"
)

// Capability gates a view variant. Roles map to a fixed set of them.
type Capability string

const (
	CapDonate          Capability = "donate"
	CapPostRequirement Capability = "post_requirement"
)

var roleCapabilities = map[Role][]Capability{
	RoleDonor:    {CapDonate},
	RoleHospital: {CapPostRequirement},
	RoleAdmin:    {CapDonate, CapPostRequirement},
}

func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// SelfRegistrable reports whether the role may be chosen on the public
// registration form. Admins are provisioned out of band.
func (r Role) SelfRegistrable() bool {
	return r == RoleDonor || r == RoleHospital
}

func (r Role) Can(c Capability) bool {
	return lo.Contains(roleCapabilities[r], c)
}

func (r Role) Capabilities() []Capability {
	return append([]Capability(nil), roleCapabilities[r]...)
}

// Principal is whoever is driving a page session. The zero value is an
// anonymous visitor.
type Principal struct {
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name,omitempty"`
	Role   Role   `json:"role,omitempty"`
}

func (p Principal) Authenticated() bool { return p.UserID != "" }

func (p Principal) Can(c Capability) bool {
	return p.Authenticated() && p.Role.Can(c)
}
