package handlers

import (
	"net/http"
	"strconv"
	"time"

	"carelink/middleware"
	"carelink/models"
	"carelink/services/scheduling"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler exposes lifecycle transitions and listing.
type AppointmentHandler struct {
	Lifecycle *scheduling.AppointmentLifecycle
	Query     *scheduling.AppointmentQueryService
	Logger    *zap.Logger
}

func NewAppointmentHandler(lifecycle *scheduling.AppointmentLifecycle, query *scheduling.AppointmentQueryService, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{Lifecycle: lifecycle, Query: query, Logger: logger}
}

// Confirm accepts a pending appointment. Provider only.
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	actorID, _ := middleware.Actor(c)
	appt, err := h.Lifecycle.Confirm(c.Request.Context(), actorID, c.Param("appointmentID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// Reject declines a pending appointment. Provider only.
func (h *AppointmentHandler) Reject(c *gin.Context) {
	actorID, _ := middleware.Actor(c)
	appt, err := h.Lifecycle.Reject(c.Request.Context(), actorID, c.Param("appointmentID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// Cancel cancels an appointment with a mandatory reason.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	var input struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	actorID, role := middleware.Actor(c)
	appt, err := h.Lifecycle.Cancel(c.Request.Context(), actorID, role, c.Param("appointmentID"), input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// List returns the actor's appointments with filtering and pagination.
func (h *AppointmentHandler) List(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	actorID, role := middleware.Actor(c)
	page, err := h.Query.List(c.Request.Context(), actorID, role, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func parseListFilter(c *gin.Context) (models.AppointmentFilter, error) {
	f := models.AppointmentFilter{
		Timeframe: models.Timeframe(c.DefaultQuery("timeframe", "all")),
		Status:    models.AppointmentStatus(c.DefaultQuery("status", "all")),
	}

	var err error
	if f.Page, err = strconv.Atoi(c.DefaultQuery("page", "1")); err != nil {
		return f, err
	}
	if f.Limit, err = strconv.Atoi(c.DefaultQuery("limit", "20")); err != nil {
		return f, err
	}

	if raw := c.Query("startDate"); raw != "" {
		if f.StartDate, err = time.ParseInLocation(models.DateLayout, raw, time.UTC); err != nil {
			return f, err
		}
	}
	if raw := c.Query("endDate"); raw != "" {
		end, perr := time.ParseInLocation(models.DateLayout, raw, time.UTC)
		if perr != nil {
			return f, perr
		}
		// Inclusive end-of-day bound.
		f.EndDate = end.AddDate(0, 0, 1).Add(-time.Second)
	}
	return f, nil
}
