package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"boattours/internal/domain/booking"
	"boattours/internal/domain/reservation"
	"boattours/internal/pkg/utils"
)

const (
	EventCreated  = "payment.created"
	EventUpdated  = "payment.updated"
	EventRefunded = "payment.refunded"
	EventDeleted  = "payment.deleted"
)

type paymentRepo interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id int64) (*Payment, error)
	List(ctx context.Context, f Filter) ([]Payment, error)
	Save(ctx context.Context, p *Payment, expected Status) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type statsRepo interface {
	TotalsByStatus(ctx context.Context) ([]StatusTotal, error)
	RevenueByMethod(ctx context.Context) ([]MethodTotal, error)
}

type reservationReader interface {
	Get(ctx context.Context, id int64) (*reservation.Reservation, error)
}

// Notifier is told about payment events. Implementations must not block.
type Notifier interface {
	NotifyPayment(ctx context.Context, event string, p *Payment)
}

type Service struct {
	payments     paymentRepo
	stats        statsRepo
	reservations reservationReader
	notifier     Notifier
	now          func() time.Time
	loggerf      func(format string, args ...interface{})
}

func NewService(payments paymentRepo, stats statsRepo, reservations reservationReader, notifier Notifier) *Service {
	return &Service{
		payments:     payments,
		stats:        stats,
		reservations: reservations,
		notifier:     notifier,
		now:          time.Now,
		loggerf:      log.Printf,
	}
}

type CreateRequest struct {
	ReservationID *int64           `json:"reservation_id"`
	Amount        *decimal.Decimal `json:"amount"`
	PaymentMethod string           `json:"payment_method"`
	Status        string           `json:"status"`
	TransactionID string           `json:"transaction_id"`
	Notes         string           `json:"notes"`
}

type UpdateRequest struct {
	Amount        *decimal.Decimal `json:"amount"`
	PaymentMethod *string          `json:"payment_method"`
	Status        *string          `json:"status"`
	TransactionID *string          `json:"transaction_id"`
	Notes         *string          `json:"notes"`
}

type RefundRequest struct {
	Notes string `json:"notes"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest, actorID int64) (*Payment, error) {
	fe := booking.FieldErrors{}
	p := &Payment{
		PaymentMethod: Method(normalize(req.PaymentMethod)),
		Status:        Status(normalize(req.Status)),
		TransactionID: optionalString(req.TransactionID),
		Notes:         strings.TrimSpace(req.Notes),
	}
	if p.Status == "" {
		p.Status = StatusPending
	}
	if actorID > 0 {
		p.ProcessedBy = &actorID
	}

	if req.ReservationID == nil || *req.ReservationID <= 0 {
		fe.Add("reservation_id", "is required")
	} else {
		p.ReservationID = *req.ReservationID
		r, err := s.reservations.Get(ctx, p.ReservationID)
		switch {
		case errors.Is(err, booking.ErrNotFound):
			fe.Add("reservation_id", "does not exist")
		case err != nil:
			return nil, fmt.Errorf("load reservation: %w", err)
		case r.Status == booking.StatusCancelled:
			fe.Add("reservation_id", "cannot be paid while cancelled")
		}
	}

	if req.Amount == nil {
		fe.Add("amount", "is required")
	} else {
		p.Amount = req.Amount.Round(2)
	}
	fe.Merge(validateFields(p))
	if p.Status == StatusRefunded {
		fe.Add("status", "cannot be refunded before it is completed")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	p.stamp(s.now())
	if err := s.payments.Create(ctx, p); err != nil {
		if errors.Is(err, booking.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.loggerf("level=info msg=\"payment created\" payment_id=%d reservation_id=%d status=%s amount=%s", p.ID, p.ReservationID, p.Status, p.Amount)
	s.notify(ctx, EventCreated, p)
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Payment, error) {
	return s.payments.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Payment, error) {
	return s.payments.List(ctx, f)
}

// Update edits a payment. Amount and method are frozen once it is completed or refunded.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*Payment, error) {
	cur, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *cur
	next.Reservation = nil
	fe := booking.FieldErrors{}

	if req.Amount != nil || req.PaymentMethod != nil {
		if cur.Status == StatusCompleted || cur.Status == StatusRefunded {
			return nil, ErrSettled
		}
		if req.Amount != nil {
			next.Amount = req.Amount.Round(2)
		}
		if req.PaymentMethod != nil {
			next.PaymentMethod = Method(normalize(*req.PaymentMethod))
		}
	}
	if req.TransactionID != nil {
		next.TransactionID = optionalString(*req.TransactionID)
	}
	if req.Notes != nil {
		next.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.Status != nil {
		next.Status = Status(normalize(*req.Status))
	}

	fe.Merge(validateFields(&next))
	if err := fe.Err(); err != nil {
		return nil, err
	}
	if !CanMove(cur.Status, next.Status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, cur.Status, next.Status)
	}

	return s.save(ctx, &next, cur.Status)
}

// Refund moves a completed payment to refunded and stamps refunded_at.
func (s *Service) Refund(ctx context.Context, id int64, req RefundRequest) (*Payment, error) {
	cur, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur.Status != StatusCompleted {
		return nil, fmt.Errorf("%w: only completed payments can be refunded, this one is %s", ErrInvalidTransition, cur.Status)
	}

	next := *cur
	next.Reservation = nil
	next.Status = StatusRefunded
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		next.Notes = notes
	}
	return s.save(ctx, &next, cur.Status)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.payments.Delete(ctx, id); err != nil {
		return err
	}
	s.loggerf("level=info msg=\"payment deleted\" payment_id=%d reservation_id=%d", id, p.ReservationID)
	s.notify(ctx, EventDeleted, p)
	return nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	byStatus, err := s.stats.TotalsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("payment stats: %w", err)
	}
	byMethod, err := s.stats.RevenueByMethod(ctx)
	if err != nil {
		return nil, fmt.Errorf("payment stats by method: %w", err)
	}

	out := &Stats{
		TotalRevenue:    decimal.Zero,
		RefundedAmount:  decimal.Zero,
		RevenueByMethod: make(map[Method]decimal.Decimal, len(Methods)),
	}
	for _, row := range byStatus {
		out.Total += row.Count
		switch row.Status {
		case StatusPending:
			out.Pending = row.Count
		case StatusCompleted:
			out.Completed = row.Count
			out.TotalRevenue = row.Amount.Round(2)
		case StatusFailed:
			out.Failed = row.Count
		case StatusRefunded:
			out.Refunded = row.Count
			out.RefundedAmount = row.Amount.Round(2)
		}
	}
	for _, m := range Methods {
		out.RevenueByMethod[m] = decimal.Zero
	}
	for _, row := range byMethod {
		out.RevenueByMethod[row.Method] = row.Amount.Round(2)
	}
	return out, nil
}

func (s *Service) save(ctx context.Context, p *Payment, expected Status) (*Payment, error) {
	p.stamp(s.now())
	ok, err := s.payments.Save(ctx, p, expected)
	if err != nil {
		if errors.Is(err, booking.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("update payment: %w", err)
	}
	if !ok {
		return nil, ErrStatusChanged
	}

	s.loggerf("level=info msg=\"payment updated\" payment_id=%d from=%s to=%s", p.ID, expected, p.Status)
	event := EventUpdated
	if p.Status == StatusRefunded && expected != StatusRefunded {
		event = EventRefunded
	}
	s.notify(ctx, event, p)
	return p, nil
}

func (s *Service) notify(ctx context.Context, event string, p *Payment) {
	if s.notifier != nil {
		s.notifier.NotifyPayment(ctx, event, p)
	}
}

func validateFields(p *Payment) booking.FieldErrors {
	fe := booking.FieldErrors{}
	if !p.Amount.IsPositive() {
		fe.Add("amount", "must be greater than 0")
	}
	if p.PaymentMethod == "" {
		fe.Add("payment_method", "is required")
	} else if !p.PaymentMethod.Valid() {
		fe.Add("payment_method", "is not included in the list")
	}
	if !p.Status.Valid() {
		fe.Add("status", "is not included in the list")
	}
	if p.TransactionID != nil && len(*p.TransactionID) > 100 {
		fe.Add("transaction_id", "is too long (maximum is 100 characters)")
	}
	return fe
}

// ParseFilter reads list query values, reporting malformed ones per field.
func ParseFilter(status, method, startDate, endDate string) (Filter, error) {
	fe := booking.FieldErrors{}
	f := Filter{Status: Status(normalize(status)), PaymentMethod: Method(normalize(method))}
	if f.Status != "" && !f.Status.Valid() {
		fe.Add("status", "is not included in the list")
	}
	if f.PaymentMethod != "" && !f.PaymentMethod.Valid() {
		fe.Add("payment_method", "is not included in the list")
	}
	var ok bool
	if f.From, ok = utils.OptionalDate(startDate); !ok {
		fe.Add("start_date", "is not a valid date")
	}
	if f.To, ok = utils.OptionalDate(endDate); !ok {
		fe.Add("end_date", "is not a valid date")
	}
	return f, fe.Err()
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
