package routes

import (
	"time"

	"marketplace/handlers"
	"marketplace/middleware"
	"marketplace/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterSlotRoutes registers the public availability endpoints.
func RegisterSlotRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/slots")
	{
		api.GET("", hb.ListSlotsHandler)
		api.POST("/check", hb.CheckSlotHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/bookings")
	{
		bookingGroup.Use(middleware.JWTAuthMiddleware())
		bookingGroup.POST("", middleware.RequireRole(utils.RoleUser), hb.ReserveBookingHandler)
		bookingGroup.POST("/order", middleware.RequireRole(utils.RoleUser), hb.CreateOrderHandler)
		bookingGroup.POST("/checkout", middleware.RequireRole(utils.RoleUser), hb.CheckoutHandler)
		// Either role; the engine checks the caller is a party to the booking.
		bookingGroup.PATCH("/:id/status", hb.UpdateStatusHandler)
	}
}

// RegisterProviderRoutes registers provider self-service endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	{
		api.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(utils.RoleProvider))
		api.PUT("/availability", hb.UpdateAvailabilityHandler)
	}
}

// RegisterAIRoutes registers AI endpoints when an assistant is configured.
func RegisterAIRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.AIChatHandler == nil {
		return
	}
	api := r.Group("/api/ai")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/chat", hb.AIChatHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterSlotRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterProviderRoutes(r, hb)
	RegisterAIRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
