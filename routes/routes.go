package routes

import (
	"net/http"

	"carelink/handlers"
	"carelink/middleware"
	"carelink/models"
	"carelink/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle aggregates the handlers the router wires up.
type HandlerBundle struct {
	Booking      *handlers.BookingHandler
	Appointments *handlers.AppointmentHandler
	Availability *handlers.AvailabilityHandler
}

// RegisterRoutes registers all endpoints.
func RegisterRoutes(r *gin.Engine, b *HandlerBundle) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})

	api := r.Group("/api")

	// Slot expansion is readable without authentication so clients can
	// browse providers before signing in.
	api.GET("/providers/:providerID/slots", b.Availability.GetSlots)

	auth := api.Group("")
	auth.Use(middleware.ActorAuthMiddleware())

	providerOnly := auth.Group("")
	providerOnly.Use(middleware.RequireRole(models.RoleProvider))
	{
		providerOnly.PUT("/providers/availability", b.Availability.SetAvailability)
		providerOnly.GET("/providers/availability", b.Availability.GetAvailability)
		providerOnly.POST("/appointments/:appointmentID/confirm", b.Appointments.Confirm)
		providerOnly.POST("/appointments/:appointmentID/reject", b.Appointments.Reject)
	}

	clientOnly := auth.Group("")
	clientOnly.Use(middleware.RequireRole(models.RoleClient))
	{
		clientOnly.POST("/booking/session", b.Booking.StartSession)
		clientOnly.POST("/booking/session/:sessionID/date", b.Booking.SelectDate)
		clientOnly.POST("/booking/session/:sessionID/time", b.Booking.SelectTime)
		clientOnly.POST("/booking/session/:sessionID/details", b.Booking.EnterDetails)
		clientOnly.POST("/booking/session/:sessionID/back", b.Booking.Back)
		clientOnly.POST("/booking/session/:sessionID/confirm", b.Booking.Confirm)
		clientOnly.DELETE("/booking/session/:sessionID", b.Booking.Abandon)
	}

	auth.POST("/appointments/:appointmentID/cancel", b.Appointments.Cancel)
	auth.GET("/appointments", b.Appointments.List)
}
