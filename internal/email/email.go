package email

import (
	"context"
	"fmt"

	"github.com/avdeyev/flightbook/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

// Send delivers the booking confirmation. Stubbed to stdout until an SMTP
// relay is provisioned.
func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("send email to %s: booking %s confirmed, flight %s %s -> %s, seat %s\n",
		event.Email, event.BookingRef, event.FlightNo, event.Origin, event.Destination, event.SeatNumber)
	return nil
}
