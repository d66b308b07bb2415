package domain

import "strings"

// Role is the permission group code assigned to a user.
type Role string

const (
	RoleSuperAdmin   Role = "001001"
	RoleAdmin        Role = "001002"
	RoleLocalManager Role = "001003"
	RoleDriver       Role = "001004"
	RoleGuest        Role = "001005"
)

// Session is the caller identity passed into every use case.
type Session struct {
	UserID  string
	Role    Role
	Centers []string // only meaningful for local managers
}

// ParseCenters splits a comma separated center list, dropping blanks.
func ParseCenters(raw string) []string {
	var out []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// IsMaster reports super-admin or admin.
func (s Session) IsMaster() bool {
	return s.Role == RoleSuperAdmin || s.Role == RoleAdmin
}

// CanEdit reports whether the session may plan and save routes.
func (s Session) CanEdit() bool {
	return s.IsMaster() || s.Role == RoleLocalManager
}

// CanSeeCenter reports whether a driver in center is visible to the session.
func (s Session) CanSeeCenter(center string) bool {
	if s.IsMaster() {
		return true
	}
	if s.Role != RoleLocalManager {
		return false
	}
	for _, c := range s.Centers {
		if c == center {
			return true
		}
	}
	return false
}

// CenterFilter returns the centers a listing must be restricted to.
// nil means unrestricted.
func (s Session) CenterFilter() []string {
	if s.IsMaster() {
		return nil
	}
	if s.Centers == nil {
		return []string{}
	}
	return s.Centers
}
