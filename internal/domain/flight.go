package domain

import "time"

type Flight struct {
	ID          int64     `json:"id"`
	FlightNo    string    `json:"flight_no"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Departure   time.Time `json:"departure"`
	Arrival     time.Time `json:"arrival"`
	PriceCents  int64     `json:"price_cents"`
	Seats       int       `json:"seats"`
	Airline     string    `json:"airline"`
	CreatedAt   time.Time `json:"created_at"`
}
