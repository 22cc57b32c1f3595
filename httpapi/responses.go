package httpapi

import (
	"errors"
	"net/http"

	"prizepool/domain/entities"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// respondError maps domain errors to HTTP responses. Domain sentinels get
// short, user-safe messages; anything else is logged and returned as a
// generic 500 without internal detail.
func respondError(c *gin.Context, err error) {
	var validationErr *entities.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.Is(err, entities.ErrAlreadyProcessed):
		// Distinct code so the operator UI can show "already resolved"
		c.JSON(http.StatusConflict, gin.H{"error": "payment already resolved", "code": "already_processed"})
	case errors.Is(err, entities.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
	case errors.Is(err, entities.ErrNoTickets), errors.Is(err, entities.ErrNoActiveTickets):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no active tickets"})
	case errors.Is(err, entities.ErrInsufficientPool):
		c.JSON(http.StatusConflict, gin.H{"error": "prize pool cannot cover the payout"})
	default:
		log.WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
