package handlers

import (
	"errors"
	"net/http"

	"carelink/services/scheduling"
	"carelink/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps the scheduling error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var (
		validation   *scheduling.ValidationError
		conflict     *scheduling.ConflictError
		transition   *scheduling.InvalidTransitionError
		cancelWindow *scheduling.CancellationWindowError
		notFound     *scheduling.NotFoundError
	)

	switch {
	case errors.As(err, &validation):
		utils.JSONError(c, http.StatusBadRequest, "invalid request", validation.Error())
	case errors.As(err, &conflict):
		utils.JSONError(c, http.StatusConflict, "slot conflict", conflict.Error())
	case errors.As(err, &transition):
		utils.JSONError(c, http.StatusConflict, "invalid transition", transition.Error())
	case errors.As(err, &cancelWindow):
		utils.JSONError(c, http.StatusUnprocessableEntity, "cancellation window closed", cancelWindow.Error())
	case errors.As(err, &notFound):
		utils.JSONError(c, http.StatusNotFound, "not found", notFound.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "the request could not be completed")
	}
}
