package authmw

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/orchidbooks/storefront/internal/authgate"
	"github.com/orchidbooks/storefront/internal/cookies"
	"github.com/orchidbooks/storefront/internal/models"
	"github.com/orchidbooks/storefront/internal/service/token"
)

const apiPrefix = "/api/v1"

// Context keys set for downstream handlers once a session is present.
const (
	CtxUserID   = "user_id"
	CtxUserName = "user_name"
	CtxRole     = "role"
)

// Gate turns the pure authgate decision into an echo middleware. It
// extracts the session from the access cookie, rotating via the
// refresh cookie when the access token has expired, then consults
// authgate.Authorize with the logical (API-prefix-stripped) path.
type Gate struct {
	Tokens *token.Service
}

func NewGate(tokens *token.Service) *Gate {
	return &Gate{Tokens: tokens}
}

func (g *Gate) Enforce(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := g.sessionClaims(c)

		hasSession := claims != nil
		var role models.Role
		if hasSession {
			role = claims.Role
		}

		path := strings.TrimPrefix(c.Request().URL.Path, apiPrefix)
		if path == "" {
			path = "/"
		}

		if authgate.Authorize(hasSession, role, path) == authgate.Deny {
			if !hasSession {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}

		if hasSession {
			c.Set(CtxUserID, claims.Subject)
			c.Set(CtxUserName, claims.Name)
			c.Set(CtxRole, string(claims.Role))
		}
		return next(c)
	}
}

func (g *Gate) sessionClaims(c echo.Context) *token.AccessClaims {
	ck, err := c.Cookie(cookies.Access)
	if err != nil || ck.Value == "" {
		return nil
	}

	claims, err := g.Tokens.ParseAccess(ck.Value)
	if err == nil {
		return claims
	}
	if !errors.Is(err, jwt.ErrTokenExpired) {
		return nil
	}
	return g.tryRefresh(c)
}

func (g *Gate) tryRefresh(c echo.Context) *token.AccessClaims {
	rc, err := c.Cookie(cookies.Refresh)
	if err != nil || rc.Value == "" {
		return nil
	}

	pair, _, err := g.Tokens.Rotate(c.Request().Context(), rc.Value)
	if err != nil {
		c.SetCookie(cookies.Delete(cookies.Access, "/"))
		c.SetCookie(cookies.Delete(cookies.Refresh, "/"))
		return nil
	}

	c.SetCookie(cookies.Create(cookies.Access, pair.AccessToken, "/", pair.AccessExp))
	c.SetCookie(cookies.Create(cookies.Refresh, pair.RefreshToken, "/", pair.RefreshExp))

	claims, err := g.Tokens.ParseAccess(pair.AccessToken)
	if err != nil {
		return nil
	}
	return claims
}

// UserID returns the session subject set by Enforce.
func UserID(c echo.Context) (string, bool) {
	id, ok := c.Get(CtxUserID).(string)
	return id, ok && id != ""
}
