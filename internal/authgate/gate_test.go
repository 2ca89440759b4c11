package authgate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orchidbooks/storefront/internal/models"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		hasSession bool
		role       models.Role
		path       string
		want       Decision
	}{
		{"home is public", false, "", "/", Allow},
		{"shop is public", false, "", "/shop/products", Allow},
		{"category page is public", false, "", "/books/fiction", Allow},
		{"isp packages are public", false, "", "/isp-packages", Allow},
		{"search is public", false, "", "/search", Allow},
		{"signin page is public", false, "", "/auth/signin", Allow},
		{"health is public", false, "", "/health", Allow},

		{"anonymous hits protected path", false, "", "/customer/cart", Deny},
		{"anonymous hits admin", false, "", "/admin/dashboard", Deny},

		{"admin on admin", true, models.RoleAdmin, "/admin/dashboard", Allow},
		{"operator on admin", true, models.RoleOperator, "/admin/dashboard", Deny},
		{"customer on admin", true, models.RoleCustomer, "/admin/dashboard", Deny},

		{"admin on operator", true, models.RoleAdmin, "/operator/dashboard", Allow},
		{"operator on operator", true, models.RoleOperator, "/operator/dashboard", Allow},
		{"customer on operator", true, models.RoleCustomer, "/operator/dashboard", Deny},

		{"admin on customer", true, models.RoleAdmin, "/customer/dashboard", Allow},
		{"operator on customer", true, models.RoleOperator, "/customer/cart", Allow},
		{"customer on customer", true, models.RoleCustomer, "/customer/wishlist", Allow},

		{"unknown role on admin", true, models.Role("ghost"), "/admin/dashboard", Deny},
		{"unknown role on customer", true, models.Role("ghost"), "/customer/cart", Deny},

		{"session on unclassified path", true, models.RoleCustomer, "/account/settings", Allow},
		{"signed-in user still sees public pages", true, models.RoleCustomer, "/shop/products", Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Authorize(tt.hasSession, tt.role, tt.path)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecisionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "deny", Deny.String())
}
