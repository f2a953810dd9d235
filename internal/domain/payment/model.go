package payment

import (
	"time"

	"github.com/shopspring/decimal"

	"boattours/internal/domain/reservation"
)

type Method string

const (
	MethodCash         Method = "cash"
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank_transfer"
	MethodOnline       Method = "online"
)

var Methods = []Method{MethodCash, MethodCard, MethodBankTransfer, MethodOnline}

func (m Method) Valid() bool {
	for _, v := range Methods {
		if m == v {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

var Statuses = []Status{StatusPending, StatusCompleted, StatusFailed, StatusRefunded}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Active payments count against the one-live-payment-per-reservation rule.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusCompleted
}

var transitions = map[Status][]Status{
	StatusPending:   {StatusCompleted, StatusFailed},
	StatusFailed:    {StatusPending},
	StatusCompleted: {StatusRefunded},
}

// CanMove reports whether a payment may go from one status to another.
func CanMove(from, to Status) bool {
	if from == to {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Payment struct {
	ID            int64                    `gorm:"primaryKey" json:"id"`
	ReservationID int64                    `gorm:"not null;index" json:"reservation_id"`
	Reservation   *reservation.Reservation `gorm:"constraint:OnDelete:RESTRICT" json:"reservation,omitempty"`
	Amount        decimal.Decimal          `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMethod Method                   `gorm:"type:varchar(20);not null;index" json:"payment_method"`
	Status        Status                   `gorm:"type:varchar(20);not null;index" json:"status"`
	TransactionID *string                  `gorm:"size:100;uniqueIndex:idx_payments_transaction_id" json:"transaction_id,omitempty"`
	PaidAt        *time.Time               `json:"paid_at,omitempty"`
	RefundedAt    *time.Time               `json:"refunded_at,omitempty"`
	Notes         string                   `gorm:"type:text" json:"notes"`
	ProcessedBy   *int64                   `gorm:"index" json:"processed_by,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

// stamp records paid_at and refunded_at the first time the status reaches them.
func (p *Payment) stamp(now time.Time) {
	switch p.Status {
	case StatusCompleted:
		if p.PaidAt == nil {
			p.PaidAt = &now
		}
	case StatusRefunded:
		if p.RefundedAt == nil {
			p.RefundedAt = &now
		}
	}
}

type Filter struct {
	Status        Status
	PaymentMethod Method
	ReservationID int64
	From          *time.Time
	To            *time.Time
}

type Stats struct {
	Total           int64                      `json:"total"`
	Pending         int64                      `json:"pending"`
	Completed       int64                      `json:"completed"`
	Failed          int64                      `json:"failed"`
	Refunded        int64                      `json:"refunded"`
	TotalRevenue    decimal.Decimal            `json:"total_revenue"`
	RefundedAmount  decimal.Decimal            `json:"refunded_amount"`
	RevenueByMethod map[Method]decimal.Decimal `json:"revenue_by_method"`
}

type StatusTotal struct {
	Status Status          `db:"status"`
	Count  int64           `db:"count"`
	Amount decimal.Decimal `db:"amount"`
}

type MethodTotal struct {
	Method Method          `db:"method"`
	Count  int64           `db:"count"`
	Amount decimal.Decimal `db:"amount"`
}
