package handlers

import (
	"sync"

	intconfig "storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/http/middleware"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

// Deps is the process-wide state handlers build their services from.
type Deps struct {
	Env      intconfig.Env
	Sessions *services.SessionStore
}

var (
	depsMu sync.RWMutex
	deps   = Deps{Sessions: services.NewSessionStore(0)}
)

// Configure installs the runtime config. Call it before serving.
func Configure(d Deps) {
	if d.Sessions == nil {
		d.Sessions = services.NewSessionStore(d.Env.SessionIdleTimeout)
	}
	depsMu.Lock()
	defer depsMu.Unlock()
	deps = d
}

func current() Deps {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return deps
}

func authService(c *gin.Context) services.AuthService {
	d := current()
	return services.AuthService{
		Sessions:  d.Sessions,
		Secret:    []byte(d.Env.JWTSecret),
		TokenTTL:  d.Env.TokenTTL,
		RequestID: middleware.GetRequestID(c),
	}
}

// Authenticate validates an admin bearer token; the router hands it to
// middleware.RequireAuth.
func Authenticate(token string) (domain.RequestContext, error) {
	return authService(nil).Authenticate(token)
}

func catalogService(c *gin.Context) services.CatalogService {
	return services.CatalogService{RequestID: middleware.GetRequestID(c)}
}

func adminService(c *gin.Context) services.AdminService {
	return services.AdminService{RequestID: middleware.GetRequestID(c)}
}

func checkoutService(c *gin.Context) services.CheckoutService {
	d := current()
	return services.CheckoutService{
		StoreName: d.Env.StoreName,
		Phone:     d.Env.WhatsAppNumber,
		RequestID: middleware.GetRequestID(c),
	}
}

func storageService(c *gin.Context) services.StorageService {
	d := current()
	return services.StorageService{
		Dir:       d.Env.UploadDir,
		BaseURL:   d.Env.PublicBaseURL,
		RequestID: middleware.GetRequestID(c),
	}
}

func reportService(c *gin.Context) services.ReportService {
	return services.ReportService{
		StoreName: current().Env.StoreName,
		RequestID: middleware.GetRequestID(c),
	}
}
