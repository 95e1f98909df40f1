package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Tin21habesha/primetrade.ai-backend/core"
	"github.com/Tin21habesha/primetrade.ai-backend/ports"
	"github.com/Tin21habesha/primetrade.ai-backend/service"
)

// RouterConfig wires the services and cross-cutting pieces into the router.
type RouterConfig struct {
	Auth     *service.AuthService
	Products *service.ProductService
	Users    *service.UserService

	// Cache serves catalog GETs; nil disables response caching.
	Cache    ports.ResponseCache
	CacheTTL time.Duration

	// Metrics is optional; nil skips instrumentation and the /metrics route.
	Metrics  *Metrics
	Registry *prometheus.Registry

	// SecureCookies sets the Secure attribute on credential cookies.
	SecureCookies bool

	Log zerolog.Logger
}

// SetupRouter builds the gin engine with all routes and middleware.
func SetupRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(cfg.Log))
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Instrument())
	}

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 60 * time.Second
	}

	authHandlers := NewAuthHandlers(cfg.Auth, cfg.Metrics, cfg.SecureCookies)
	productHandlers := NewProductHandlers(cfg.Products)
	userHandlers := NewUserHandlers(cfg.Users)

	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandlers.Register)
		auth.POST("/login", authHandlers.Login)
		auth.POST("/refresh", authHandlers.Refresh)
		auth.GET("/logout", authHandlers.Logout)
		auth.GET("/current-user", authHandlers.CurrentUser)
	}

	product := router.Group("/product")
	{
		// Catalog reads are public and go through the cache; mutations
		// require a session and never touch it.
		product.GET("", CacheResponses(cfg.Cache, cfg.CacheTTL, cfg.Log), productHandlers.List)
		product.GET("/:id", CacheResponses(cfg.Cache, cfg.CacheTTL, cfg.Log), productHandlers.Get)

		authed := product.Group("")
		authed.Use(RequireAuth(cfg.Auth))
		authed.POST("", productHandlers.Create)
		authed.PATCH("/:id", productHandlers.Update)
		authed.DELETE("/:id", productHandlers.Delete)
	}

	user := router.Group("/user")
	user.Use(RequireAuth(cfg.Auth), RequireRole(core.RoleAdmin))
	{
		user.GET("", userHandlers.List)
		user.GET("/:id", userHandlers.Get)
		user.DELETE("/:id", userHandlers.Delete)
	}

	if cfg.Metrics != nil && cfg.Registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})))
	}

	return router
}
