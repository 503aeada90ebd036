package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
)

type Payment struct {
	ID          int64         `json:"id"`
	BookingRef  string        `json:"booking_ref"`
	AmountCents int64         `json:"amount_cents"`
	CardLast4   string        `json:"card_last4"`
	Method      string        `json:"payment_method"`
	Status      PaymentStatus `json:"status"`
	PaidAt      time.Time     `json:"paid_at"`
}

type AdminLog struct {
	ID            int64     `json:"id"`
	AdminUsername string    `json:"admin_username"`
	Action        string    `json:"action"`
	IPAddress     string    `json:"ip_address"`
	CreatedAt     time.Time `json:"created_at"`
}
