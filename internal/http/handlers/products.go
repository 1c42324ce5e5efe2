package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/services"
	"storefront/internal/utils"

	"github.com/gin-gonic/gin"
)

// parseBrowseQuery reads ?search=&category=&sort=&page=. An absent page is
// page 1; anything that is not a positive integer is rejected.
func parseBrowseQuery(c *gin.Context) (services.BrowseQuery, bool) {
	q := services.BrowseQuery{
		Filters: catalog.FilterState{
			Search:   c.Query("search"),
			Category: utils.TrimOrEmpty(c.Query("category")),
			Sort:     catalog.ParseSortKey(c.Query("sort")),
		},
		Page: 1,
	}
	if strings.EqualFold(q.Filters.Category, "all") {
		q.Filters.Category = ""
	}
	if raw := utils.TrimOrEmpty(c.Query("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			respondError(c, http.StatusBadRequest, "invalid_page", "page must be a positive integer", nil)
			return q, false
		}
		q.Page = page
	}
	return q, true
}

// GET /api/products
func ListProducts(c *gin.Context) {
	q, ok := parseBrowseQuery(c)
	if !ok {
		return
	}
	res, err := catalogService(c).Browse(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/products/new-arrivals
func NewArrivals(c *gin.Context) {
	out, err := catalogService(c).NewArrivals(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

// GET /api/products/categories
func ListCategories(c *gin.Context) {
	out, err := catalogService(c).Categories(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

// GET /api/products/:id
func GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "product")
	if !ok {
		return
	}
	p, err := catalogService(c).Product(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /api/products/:id/checkout
func CheckoutProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "product")
	if !ok {
		return
	}
	h, err := checkoutService(c).Handoff(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}
