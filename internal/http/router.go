package api

import (
	stdhttp "net/http"

	intconfig "storefront/internal/config"
	"storefront/internal/domain/models"
	h "storefront/internal/http/handlers"
	"storefront/internal/http/middleware"
	"storefront/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the storefront and admin APIs. Handlers must already be
// configured with h.Configure.
func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.AllowedOrigins))
	r.MaxMultipartMemory = 8 << 20

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.Logger().Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	if env.UploadDir != "" {
		r.Static("/uploads", env.UploadDir)
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Storefront
		products := api.Group("/products")
		products.GET("", h.ListProducts)
		products.GET("/new-arrivals", h.NewArrivals)
		products.GET("/categories", h.ListCategories)
		products.GET("/:id", h.GetProduct)
		products.POST("/:id/checkout", h.CheckoutProduct)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)

		// Admin
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(h.Authenticate), middleware.RequireRoles(models.RoleAdmin))
		admin.POST("/logout", h.Logout)
		admin.GET("/me", h.Me)
		admin.GET("/dashboard", h.AdminDashboard)
		mountAdminProducts(admin.Group("/products"))
		admin.POST("/uploads", h.UploadImage)
		admin.GET("/reports/inventory.pdf", h.InventoryReportPDF)
	}

	return r
}

func mountAdminProducts(g *gin.RouterGroup) {
	g.GET("", h.AdminListProducts)
	g.POST("", h.AdminCreateProduct)
	g.GET("/:id", h.AdminGetProduct)
	g.PUT("/:id", h.AdminUpdateProduct)
	g.DELETE("/:id", h.AdminDeleteProduct)
}
