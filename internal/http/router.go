package api

import (
	"log"
	stdhttp "net/http"

	intconfig "guanago/internal/config"
	"guanago/internal/domain/models"
	h "guanago/internal/http/handlers"
	"guanago/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(env intconfig.Env, deps *h.API, tokens middleware.TokenParser) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(env.CORSAllowedOrigins),
		middleware.Metrics(),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "ruta no encontrada",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.RequireAuth(tokens)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RolePartner)
	chatLimit := middleware.NewRateLimiter(env.ChatRatePerMin)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", deps.Login)
		auth.POST("/pin", deps.LoginPIN)
		auth.GET("/me", requireAuth, deps.Me)

		// Catalog
		services := api.Group("/services")
		services.GET("", middleware.OptionalAuth(tokens), deps.ListServices)
		services.GET("/:id", deps.GetService)
		services.POST("", requireAuth, staff, deps.CreateService)
		services.PUT("/:id", requireAuth, staff, deps.UpdateService)
		services.DELETE("/:id", requireAuth, staff, deps.DeleteService)

		api.GET("/directory", deps.ListDirectory)
		api.GET("/accommodations", deps.ListAccommodations)

		// Reservations
		reservations := api.Group("/reservations")
		reservations.POST("", deps.CreateReservation)
		reservations.GET("", requireAuth, staff, deps.ListReservations)
		reservations.PUT("/:id/status", requireAuth, staff, deps.UpdateReservationStatus)

		// Quotes
		quotes := api.Group("/quotes")
		quotes.POST("/preview", deps.PreviewQuote)
		quotes.POST("", deps.CreateQuote)
		quotes.GET("/:id", deps.GetQuote)
		quotes.GET("/:id/pdf", deps.GetQuotePDF)

		// GUANA Points
		points := api.Group("/points", requireAuth)
		points.POST("/register", deps.RegisterPoints)
		points.GET("/balance", deps.PointsBalance)
		points.POST("/redeem", deps.RedeemPoints)

		// Concierge
		api.POST("/chat", chatLimit.Middleware(), deps.Chat)

		// Admin
		admin := api.Group("/admin", requireAuth, adminOnly)
		admin.GET("/cache", deps.CacheStats)
		admin.POST("/cache/invalidate", deps.InvalidateCache)
		admin.GET("/activity", deps.ListActivity)
	}

	h.SetRouter(r)
	return r
}
