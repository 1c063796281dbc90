package handlers

import (
	"errors"
	"net/http"

	"carelink/middleware"
	"carelink/models"
	"carelink/services/booking"
	"carelink/services/scheduling"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the guided booking workflow over HTTP. Each
// endpoint drives one step transition; validation failures return the
// session so the client can stay on its current step.
type BookingHandler struct {
	Workflow booking.BookingWorkflowService
	Logger   *zap.Logger
}

func NewBookingHandler(workflow booking.BookingWorkflowService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Workflow: workflow, Logger: logger}
}

// StartSession opens a new booking session for the authenticated client.
func (h *BookingHandler) StartSession(c *gin.Context) {
	var input struct {
		ProviderID string `json:"providerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	actorID, _ := middleware.Actor(c)
	resp, err := h.Workflow.StartSession(c.Request.Context(), actorID, input.ProviderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SelectDate records the chosen date and advances to time selection.
func (h *BookingHandler) SelectDate(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := h.Workflow.SelectDate(c.Request.Context(), sessionID, input.Date)
	h.respondStep(c, resp, err)
}

// SelectTime records the chosen slot and advances to detail entry.
func (h *BookingHandler) SelectTime(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input struct {
		Start *int `json:"start" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := h.Workflow.SelectTime(c.Request.Context(), sessionID, *input.Start)
	h.respondStep(c, resp, err)
}

// EnterDetails records meeting type, location and notes, and advances to
// confirmation.
func (h *BookingHandler) EnterDetails(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input booking.DetailsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := h.Workflow.EnterDetails(c.Request.Context(), sessionID, input)
	h.respondStep(c, resp, err)
}

// Back steps the session one state backward.
func (h *BookingHandler) Back(c *gin.Context) {
	sessionID := c.Param("sessionID")
	resp, err := h.Workflow.Back(c.Request.Context(), sessionID)
	h.respondStep(c, resp, err)
}

// Confirm submits the draft as a reservation.
func (h *BookingHandler) Confirm(c *gin.Context) {
	sessionID := c.Param("sessionID")
	resp, err := h.Workflow.Confirm(c.Request.Context(), sessionID)
	h.respondStep(c, resp, err)
}

// Abandon discards the session.
func (h *BookingHandler) Abandon(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if err := h.Workflow.Abandon(c.Request.Context(), sessionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "abandoned"})
}

// respondStep returns the session alongside step-local errors: a validation
// failure or slot conflict keeps the flow alive, so the client gets the
// session state plus an error message rather than a bare failure.
func (h *BookingHandler) respondStep(c *gin.Context, resp *models.BookingSessionResponse, err error) {
	if err == nil {
		c.JSON(http.StatusOK, resp)
		return
	}

	var validation *scheduling.ValidationError
	var conflict *scheduling.ConflictError
	switch {
	case errors.As(err, &validation) && resp != nil:
		c.JSON(http.StatusBadRequest, resp)
	case errors.As(err, &conflict) && resp != nil:
		c.JSON(http.StatusConflict, resp)
	default:
		respondError(c, err)
	}
}
