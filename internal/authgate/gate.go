package authgate

import (
	"strings"

	"github.com/orchidbooks/storefront/internal/models"
)

// Decision is a value, not an error: denial is an expected outcome.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// publicPrefixes are reachable without a session: auth pages, home and
// the browse surfaces.
var publicPrefixes = []string{
	"/auth",
	"/shop",
	"/books",
	"/stationery",
	"/isp-packages",
	"/search",
	"/health",
}

// Authorize maps (session presence, role, path) to a decision. The
// policy is ordered: public prefixes first, then session presence, then
// role prefixes from most to least privileged. The role switches
// enumerate every models.Role; anything unknown falls through to Deny.
func Authorize(hasSession bool, role models.Role, path string) Decision {
	if path == "/" || hasPublicPrefix(path) {
		return Allow
	}
	if !hasSession {
		return Deny
	}

	switch {
	case strings.HasPrefix(path, "/admin"):
		switch role {
		case models.RoleAdmin:
			return Allow
		case models.RoleOperator, models.RoleCustomer:
			return Deny
		}
		return Deny
	case strings.HasPrefix(path, "/operator"):
		switch role {
		case models.RoleAdmin, models.RoleOperator:
			return Allow
		case models.RoleCustomer:
			return Deny
		}
		return Deny
	case strings.HasPrefix(path, "/customer"):
		switch role {
		case models.RoleAdmin, models.RoleOperator, models.RoleCustomer:
			return Allow
		}
		return Deny
	}
	return Allow
}

func hasPublicPrefix(path string) bool {
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
