package handlers

import (
	"net/http"
	"strconv"
	"time"

	"carelink/config"
	"carelink/middleware"
	"carelink/models"
	"carelink/services/provider"
	"carelink/services/scheduling"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvailabilityHandler exposes slot expansion and template management.
type AvailabilityHandler struct {
	Provider provider.ProviderService
	Expander *scheduling.SlotExpansionEngine
	Logger   *zap.Logger
}

func NewAvailabilityHandler(providerSvc provider.ProviderService, expander *scheduling.SlotExpansionEngine, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Provider: providerSvc, Expander: expander, Logger: logger}
}

// GetSlots expands a provider's weekly template into dated bookable slots.
func (h *AvailabilityHandler) GetSlots(c *gin.Context) {
	providerID := c.Param("providerID")

	weeks := config.AppConfig.DefaultHorizonWeeks
	if raw := c.Query("weeks"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid weeks parameter"})
			return
		}
		weeks = parsed
	}
	if max := config.AppConfig.MaxHorizonWeeks; max > 0 && weeks > max {
		weeks = max
	}

	days, err := h.Expander.Expand(c.Request.Context(), providerID, weeks, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providerId": providerID, "days": days})
}

// SetAvailability stores the authenticated provider's weekly template.
func (h *AvailabilityHandler) SetAvailability(c *gin.Context) {
	var input struct {
		Days map[time.Weekday][]models.TimeSlotTemplate `json:"days" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	actorID, _ := middleware.Actor(c)
	availability := &models.WeeklyAvailability{
		ProviderID: actorID,
		Days:       input.Days,
	}
	if err := h.Provider.SetWeeklyAvailability(c.Request.Context(), availability); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, availability)
}

// GetAvailability returns the authenticated provider's weekly template.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	actorID, _ := middleware.Actor(c)
	availability, err := h.Provider.GetWeeklyAvailability(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, availability)
}
