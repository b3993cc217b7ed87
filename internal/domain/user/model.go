package user

import "strings"

const (
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// Principal identifies an authenticated caller and its granted roles.
type Principal struct {
	UserID string
	Email  string
	Roles  []string
}

func (p Principal) HasRole(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	for _, granted := range p.Roles {
		if strings.ToLower(strings.TrimSpace(granted)) == role {
			return true
		}
		// Admin implies every write role.
		if strings.EqualFold(granted, RoleAdmin) {
			return true
		}
	}
	return false
}
