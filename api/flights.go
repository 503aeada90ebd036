package api

import (
	"net/http"
	"time"

	"github.com/avdeyev/flightbook/internal/service/booking"
	"github.com/avdeyev/flightbook/internal/service/flights"
	"github.com/gin-gonic/gin"
)

const recentBookingsLimit = 10

type FlightHandler struct {
	flights  flights.FlightUseCase
	bookings booking.BookingUseCase
}

func NewFlightHandler(flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase) *FlightHandler {
	return &FlightHandler{flights: flightSvc, bookings: bookingSvc}
}

func (h *FlightHandler) Register(router *gin.Engine) {
	router.GET("/", h.index)
	router.GET("/home", h.home)
	router.POST("/search", h.search)
}

func (h *FlightHandler) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to Flightbook. Search flights at /home."})
}

// home is the search form payload: city list, full listing, bookable window,
// and the visitor's recent bookings if logged in.
func (h *FlightHandler) home(c *gin.Context) {
	ctx := c.Request.Context()

	cities, err := h.flights.Cities(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	listing, err := h.flights.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	minDate, maxDate := h.flights.BookingWindow(time.Now())
	payload := gin.H{
		"cities":   cities,
		"flights":  listing,
		"min_date": minDate.Format(flights.FrontendDateFormat),
		"max_date": maxDate.Format(flights.FrontendDateFormat),
	}

	if sess := currentSession(c); sess != nil && sess.UserID != 0 {
		recent, err := h.bookings.UserBookings(ctx, sess.UserID, recentBookingsLimit)
		if err != nil {
			respondError(c, err)
			return
		}
		payload["recent_bookings"] = recent
	}

	c.JSON(http.StatusOK, payload)
}

func (h *FlightHandler) search(c *gin.Context) {
	var input flights.SearchInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search request."})
		return
	}

	results, err := h.flights.Search(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	payload := gin.H{
		"flights":     results,
		"origin":      input.Origin,
		"destination": input.Destination,
		"date":        input.Date,
		"passengers":  input.Passengers,
	}
	// no matches is a normal outcome, not an error
	if len(results) == 0 {
		payload["message"] = "No flights found for your search. Try changing date or cities."
	}
	c.JSON(http.StatusOK, payload)
}
