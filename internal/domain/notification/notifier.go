package notification

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"boattours/internal/domain/payment"
	"boattours/internal/domain/reservation"
)

const mailTimeout = 30 * time.Second

// Notifier pushes reservation and payment events to the admin hub and mails
// customers when their reservation is confirmed or cancelled.
type Notifier struct {
	hub     *Hub
	mailer  Sender
	wg      sync.WaitGroup
	loggerf func(format string, args ...interface{})
}

// NewNotifier accepts a nil mailer, in which case no mail is sent.
func NewNotifier(hub *Hub, mailer Sender) *Notifier {
	return &Notifier{
		hub:     hub,
		mailer:  mailer,
		loggerf: log.Printf,
	}
}

func (n *Notifier) NotifyReservation(ctx context.Context, event string, r *reservation.Reservation) {
	n.hub.Broadcast(Event{Type: event, Data: r})

	if n.mailer == nil {
		return
	}
	subject, body, ok := customerMail(event, r)
	if !ok {
		return
	}

	to := r.CustomerEmail
	id := r.ID
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		// The request context ends with the response; mail delivery outlives it.
		mctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := n.mailer.Send(mctx, to, subject, body); err != nil {
			n.loggerf("level=error msg=\"customer mail failed\" reservation_id=%d event=%s err=%v", id, event, err)
			return
		}
		n.loggerf("level=info msg=\"customer mail sent\" reservation_id=%d event=%s", id, event)
	}()
}

func (n *Notifier) NotifyPayment(ctx context.Context, event string, p *payment.Payment) {
	n.hub.Broadcast(Event{Type: event, Data: p})
}

// Wait blocks until pending mails are delivered or have failed.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func customerMail(event string, r *reservation.Reservation) (subject, body string, ok bool) {
	var verb string
	switch event {
	case reservation.EventConfirmed:
		verb = "confirmed"
	case reservation.EventCancelled:
		verb = "cancelled"
	default:
		return "", "", false
	}

	what := fmt.Sprintf("reservation #%d", r.ID)
	if r.Resource != nil {
		what = fmt.Sprintf("reservation #%d for %s", r.ID, r.Resource.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", r.CustomerName)
	fmt.Fprintf(&b, "Your %s has been %s.\n\n", what, verb)
	if when := schedule(r); when != "" {
		fmt.Fprintf(&b, "When: %s\n", when)
	}
	fmt.Fprintf(&b, "Party size: %d\n", r.PartySize)
	if r.TotalAmount.Valid {
		fmt.Fprintf(&b, "Total: %s\n", r.TotalAmount.Decimal.StringFixed(2))
	}
	b.WriteString("\nThank you for booking with us.\n")

	return fmt.Sprintf("Your reservation #%d has been %s", r.ID, verb), b.String(), true
}

func schedule(r *reservation.Reservation) string {
	switch {
	case r.StartAt != nil && r.EndAt != nil:
		return fmt.Sprintf("%s to %s", r.StartAt.UTC().Format("2006-01-02 15:04"), r.EndAt.UTC().Format("2006-01-02 15:04 MST"))
	case r.ReservationDate != nil:
		return time.Time(*r.ReservationDate).Format("2006-01-02")
	default:
		return ""
	}
}
