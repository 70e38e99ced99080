package domain

import "time"

const (
	RoleLearner  = "learner"
	RoleMentor   = "mentor"
	RoleProvider = "provider"
)

// ValidRoles lista los roles aceptados al registrar un usuario.
var ValidRoles = []string{RoleLearner, RoleMentor, RoleProvider}

type User struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	PasswordHash        string    `json:"-"`
	Role                string    `json:"role"`
	AuthProvider        string    `json:"auth_provider,omitempty"`
	Bio                 string    `json:"bio,omitempty"`
	Education           string    `json:"education,omitempty"`
	Interests           []string  `json:"interests,omitempty"`
	PreferredIndustries []string  `json:"preferred_industries,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// IsValidRole indica si el rol pertenece al conjunto cerrado de roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
