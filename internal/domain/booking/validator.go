package booking

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"boattours/internal/pkg/validator"
)

var phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)

const (
	customerNameMin = 2
	customerNameMax = 100
)

// Resource is the view of a bookable asset the rules need.
type Resource struct {
	Capacity      int
	AvailableFrom *time.Time
	AvailableTo   *time.Time
	IsAvailable   bool
	// Hourly resources are booked by start/end instant and priced per started hour.
	Hourly     bool
	HourlyRate decimal.Decimal
}

// AvailableOn is false when the resource has a window and date lies outside it.
func (r *Resource) AvailableOn(date time.Time) bool {
	if r.AvailableFrom == nil || r.AvailableTo == nil {
		return true
	}
	return IsWithinWindow(date, *r.AvailableFrom, *r.AvailableTo)
}

// Candidate is a reservation as submitted, before it is accepted.
type Candidate struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	PartySize       *int
	ReservationDate *time.Time
	StartAt         *time.Time
	EndAt           *time.Time
	Status          Status
	HasResource     bool
}

type Options struct {
	// Now is read as a UTC instant; "today" is its UTC calendar date.
	Now time.Time
	// AllowPast skips the not-before-today rule, for updates that leave the dates alone.
	AllowPast bool
	// SkipResourceRules skips is_available and the availability window. An update
	// that keeps the resource and schedule is not re-judged against later resource edits.
	SkipResourceRules bool
	// SkipCapacity skips the capacity rule, for updates that keep resource and party size.
	SkipCapacity bool
}

// ValidateReservation runs every rule and reports all failing fields together.
// res is nil when no resource was referenced or it could not be resolved; the
// caller reports the latter.
func ValidateReservation(c Candidate, res *Resource, opts Options) FieldErrors {
	fe := FieldErrors{}

	if !c.HasResource {
		fe.Add("resource_id", "is required")
	}

	validateCustomer(c, fe)

	if c.PartySize == nil {
		fe.Add("party_size", "is required")
	} else if *c.PartySize <= 0 {
		fe.Add("party_size", "must be greater than 0")
	} else if res != nil && !opts.SkipCapacity && !FitsCapacity(*c.PartySize, res.Capacity) {
		fe.Add("party_size", fmt.Sprintf("cannot exceed capacity of %d", res.Capacity))
	}

	if c.Status != "" && !c.Status.Valid() {
		fe.Add("status", "is not included in the list")
	}

	hourly := c.StartAt != nil || c.EndAt != nil
	if res != nil {
		hourly = res.Hourly
		if !res.IsAvailable && !opts.SkipResourceRules {
			fe.Add("resource_id", "is not available")
		}
	}

	today := DateOf(opts.Now.UTC())
	window := res
	if opts.SkipResourceRules {
		window = nil
	}
	if hourly {
		validateRange(c, window, today, opts.AllowPast, fe)
	} else {
		validateDate(c, window, today, opts.AllowPast, fe)
	}

	return fe
}

func validateCustomer(c Candidate, fe FieldErrors) {
	name := strings.TrimSpace(c.CustomerName)
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		fe.Add("customer_name", "is required")
	case n < customerNameMin:
		fe.Add("customer_name", fmt.Sprintf("is too short (minimum is %d characters)", customerNameMin))
	case n > customerNameMax:
		fe.Add("customer_name", fmt.Sprintf("is too long (maximum is %d characters)", customerNameMax))
	}

	email := strings.TrimSpace(c.CustomerEmail)
	if email == "" {
		fe.Add("customer_email", "is required")
	} else if !validator.IsEmail(email) {
		fe.Add("customer_email", "is not a valid email address")
	}

	phone := strings.TrimSpace(c.CustomerPhone)
	if phone == "" {
		fe.Add("customer_phone", "is required")
	} else if !phonePattern.MatchString(phone) {
		fe.Add("customer_phone", "is invalid")
	}
}

func validateDate(c Candidate, res *Resource, today time.Time, allowPast bool, fe FieldErrors) {
	if c.ReservationDate == nil {
		fe.Add("reservation_date", "is required")
		return
	}
	day := DateOf(*c.ReservationDate)
	if !allowPast && day.Before(today) {
		fe.Add("reservation_date", "must be in the future")
	}
	if res != nil && !res.AvailableOn(day) {
		fe.Add("reservation_date", "must be within tour availability period")
	}
}

func validateRange(c Candidate, res *Resource, today time.Time, allowPast bool, fe FieldErrors) {
	if c.StartAt == nil {
		fe.Add("start_at", "is required")
	}
	if c.EndAt == nil {
		fe.Add("end_at", "is required")
	}
	if c.StartAt == nil {
		return
	}

	if !allowPast && DateOf(*c.StartAt).Before(today) {
		fe.Add("start_at", "must be in the future")
	}
	if res != nil && !res.AvailableOn(*c.StartAt) {
		fe.Add("start_at", "must be within availability period")
	}
	if c.EndAt != nil && !c.EndAt.After(*c.StartAt) {
		fe.Add("end_at", "must be after start_at")
	}
}
