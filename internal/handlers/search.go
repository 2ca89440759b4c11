package handlers

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/orchidbooks/storefront/internal/catalog"
	"github.com/orchidbooks/storefront/internal/logging"
	"github.com/orchidbooks/storefront/internal/service/search"
	"github.com/orchidbooks/storefront/internal/util"
)

// SearchHandler fronts Elasticsearch when a client is configured and
// falls back to the in-process engine's substring search otherwise.
type SearchHandler struct {
	ES      *elasticsearch.Client
	Index   string
	Catalog catalog.Source
}

func (h *SearchHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search")

	q := c.QueryParam("q")
	if q == "" {
		l.Warn("search_failed", "status", 400, "reason", "query required")
		return echo.NewHTTPError(http.StatusBadRequest, "query required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	if h.ES != nil {
		total, products, err := search.Search(ctx, h.ES, h.Index, q, from, limit)
		if err != nil {
			l.Error("search_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
		}
		l.Info("search_success", "backend", "elasticsearch", "total", total)
		return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
	}

	all, err := h.Catalog.Products(ctx)
	if err != nil {
		l.Error("search_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	result := catalog.Query(all, q, catalog.Filter{}, catalog.SortNewest)

	l.Info("search_success", "backend", "catalog", "total", len(result))
	return c.JSON(http.StatusOK, echo.Map{
		"total":    len(result),
		"products": paginate(result, from, limit),
	})
}
