package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/avdeyev/flightbook/internal/service/booking"
	"github.com/avdeyev/flightbook/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookings   booking.BookingUseCase
	flights    flights.FlightUseCase
	ticketsDir string
}

func NewBookingHandler(bookingSvc booking.BookingUseCase, flightSvc flights.FlightUseCase, ticketsDir string) *BookingHandler {
	return &BookingHandler{bookings: bookingSvc, flights: flightSvc, ticketsDir: ticketsDir}
}

func (h *BookingHandler) Register(router *gin.Engine) {
	router.GET("/book/:flightId", h.bookingForm)
	router.POST("/book/:flightId", h.create)
	router.GET("/tickets/:filename", h.ticket)
	router.GET("/download_ticket/:bookingId", h.downloadTicket)
}

// bookingForm returns the data the seat-selection form is built from.
func (h *BookingHandler) bookingForm(c *gin.Context) {
	flightID, err := strconv.ParseInt(c.Param("flightId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid flight id."})
		return
	}

	flight, err := h.flights.GetByID(c.Request.Context(), flightID)
	if err != nil {
		respondError(c, err)
		return
	}
	booked, err := h.bookings.BookedSeats(c.Request.Context(), flightID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"flight":       flight,
		"booked_seats": booked,
	})
}

func (h *BookingHandler) create(c *gin.Context) {
	flightID, err := strconv.ParseInt(c.Param("flightId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid flight id."})
		return
	}

	var input booking.CreateBookingInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking request."})
		return
	}
	input.FlightID = flightID
	if sess := currentSession(c); sess != nil {
		input.UserID = sess.UserID
	}

	result, err := h.bookings.CreateBooking(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	payload := gin.H{
		"booking": gin.H{
			"id":          result.Booking.ID,
			"booking_ref": result.Booking.BookingRef,
			"flight_no":   result.Flight.FlightNo,
			"date":        result.Flight.Departure,
			"seat":        result.Booking.SeatNumber,
		},
		"user":       result.User,
		"ticket_url": "/tickets/" + result.Booking.BookingRef + ".pdf",
	}
	if result.TicketWarning != "" {
		payload["warning"] = result.TicketWarning
	}
	c.JSON(http.StatusCreated, payload)
}

func (h *BookingHandler) ticket(c *gin.Context) {
	filename := c.Param("filename")
	// the filename comes from the URL, keep it inside the tickets dir
	if filename != filepath.Base(filename) || strings.Contains(filename, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket filename."})
		return
	}

	path := filepath.Join(h.ticketsDir, filename)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket file not found."})
		return
	}
	c.File(path)
}

func (h *BookingHandler) downloadTicket(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id."})
		return
	}

	path, filename, err := h.bookings.TicketFile(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket file not found."})
		return
	}
	c.FileAttachment(path, filename)
}
