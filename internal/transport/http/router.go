package http

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/orchidbooks/storefront/internal/cart"
	"github.com/orchidbooks/storefront/internal/catalog"
	"github.com/orchidbooks/storefront/internal/events"
	"github.com/orchidbooks/storefront/internal/handlers"
	authmw "github.com/orchidbooks/storefront/internal/middleware/auth"
	"github.com/orchidbooks/storefront/internal/service/auth"
	"github.com/orchidbooks/storefront/internal/service/token"
)

// Deps collects everything the routes need. ES and Producer may be nil;
// the handlers degrade gracefully without them.
type Deps struct {
	DB       *gorm.DB
	Catalog  catalog.Source
	Cart     *cart.Store
	Auth     *auth.Service
	Tokens   *token.Service
	Producer *events.Producer
	ES       *elasticsearch.Client
	ESIndex  string
}

// Register wires the handler tree onto e.
func Register(e *echo.Echo, deps Deps) {
	e.GET("/health/live", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/health/ready", func(c echo.Context) error {
		sqlDB, err := deps.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request().Context())
		}
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	authH := &handlers.AuthHandler{Svc: deps.Auth, Producer: deps.Producer}
	shopH := &handlers.ShopHandler{Catalog: deps.Catalog}
	cartH := &handlers.CartHandler{Store: deps.Cart, Catalog: deps.Catalog, Producer: deps.Producer}
	searchH := &handlers.SearchHandler{ES: deps.ES, Index: deps.ESIndex, Catalog: deps.Catalog}
	dashH := &handlers.DashboardHandler{DB: deps.DB, Catalog: deps.Catalog, Store: deps.Cart}

	gate := authmw.NewGate(deps.Tokens)

	api := e.Group("/api/v1", gate.Enforce)

	api.POST("/auth/signup", authH.SignUp)
	api.POST("/auth/signin", authH.SignIn)
	api.POST("/auth/signout", authH.SignOut)

	api.GET("/shop/categories", shopH.GetCategories)
	api.GET("/shop/products", shopH.GetProducts)
	api.GET("/shop/products/:id", shopH.GetProduct)
	api.GET("/shop/products/:id/reviews", shopH.GetProductReviews)

	api.GET("/search", searchH.Search)

	api.GET("/customer/cart", cartH.GetCart)
	api.POST("/customer/cart", cartH.AddToCart)
	api.PATCH("/customer/cart/items/:id", cartH.UpdateCartItem)
	api.DELETE("/customer/cart/items/:id", cartH.RemoveCartItem)
	api.DELETE("/customer/cart", cartH.ClearCart)
	api.GET("/customer/wishlist", cartH.GetWishlist)
	api.POST("/customer/wishlist", cartH.AddToWishlist)
	api.DELETE("/customer/wishlist/:id", cartH.RemoveFromWishlist)

	api.GET("/admin/dashboard", dashH.Admin)
	api.GET("/operator/dashboard", dashH.Operator)
	api.GET("/customer/dashboard", dashH.Customer)
}
