package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID          int64         `json:"id"`
	FlightID    int64         `json:"flight_id"`
	UserID      int64         `json:"user_id"`
	BookingRef  string        `json:"booking_ref"`
	SeatNumber  string        `json:"seat_number"`
	AmountCents int64         `json:"amount_cents"`
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}
