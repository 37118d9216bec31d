package domain

import "strings"

// Role tokens carried inside a session's capability token.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// HasCapability reports whether a capability token grants the required role.
// The token is an ampersand-joined list of role names; membership is exact.
func HasCapability(statusToken, required string) bool {
	for _, role := range strings.Split(statusToken, "&") {
		if role == required {
			return true
		}
	}
	return false
}
