package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/avdeyev/flightbook/internal/domain"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto HTTP responses. Anything unexpected is
// logged server-side and turned into a generic retry message so internals
// never leak to the client.
func respondError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.Is(err, domain.ErrSeatTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "This seat is already booked. Please choose another."})
	case errors.Is(err, domain.ErrDuplicateUser):
		c.JSON(http.StatusConflict, gin.H{"error": "An account with these details already exists. Try logging in."})
	case errors.Is(err, domain.ErrDuplicateRef):
		c.JSON(http.StatusConflict, gin.H{"error": "Could not allocate a booking reference. Please try again."})
	case errors.Is(err, domain.ErrFlightUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": "Sorry, this flight is no longer available."})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found."})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid login credentials."})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again."})
	}
}
