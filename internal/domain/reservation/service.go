package reservation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"boattours/internal/domain/booking"
	"boattours/internal/domain/resource"
	"boattours/internal/pkg/utils"
)

type Service struct {
	store     Store
	resources ResourceLookup
	stats     StatsReader
	notifier  Notifier
	now       func() time.Time
	loggerf   func(format string, args ...interface{})
}

func NewService(store Store, resources ResourceLookup, stats StatsReader, notifier Notifier) *Service {
	return &Service{
		store:     store,
		resources: resources,
		stats:     stats,
		notifier:  notifier,
		now:       time.Now,
		loggerf:   log.Printf,
	}
}

// Create books any resource on behalf of an admin.
func (s *Service) Create(ctx context.Context, req CreateRequest, actorID int64) (*Reservation, error) {
	fe := booking.FieldErrors{}
	r := &Reservation{
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: normalizeEmail(req.CustomerEmail),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Status:        booking.DefaultStatus(normalizeStatus(req.Status)),
		Notes:         strings.TrimSpace(req.Notes),
	}
	if req.ResourceID != nil {
		r.ResourceID = *req.ResourceID
	}
	if req.PartySize != nil {
		r.PartySize = *req.PartySize
	}
	if actorID > 0 {
		r.CreatedBy = &actorID
	}
	setDate(r, req.ReservationDate, fe)
	setRange(r, &req.StartAt, &req.EndAt, fe)

	res, err := s.resolve(ctx, r.ResourceID, fe)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, r, res, req.PartySize, fe)
}

// CreateForTour is the public booking of a tour date. The status is always pending.
func (s *Service) CreateForTour(ctx context.Context, tourID int64, req TourBookingRequest) (*Reservation, error) {
	res, err := s.resources.Get(ctx, tourID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, fmt.Errorf("load tour: %w", err)
	}
	if res.Kind != resource.KindTour {
		return nil, ErrTourNotFound
	}

	fe := booking.FieldErrors{}
	r := &Reservation{
		ResourceID:    tourID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: normalizeEmail(req.CustomerEmail),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Status:        booking.StatusPending,
		Notes:         strings.TrimSpace(req.Notes),
	}
	if req.PartySize != nil {
		r.PartySize = *req.PartySize
	}
	setDate(r, req.ReservationDate, fe)

	return s.create(ctx, r, res, req.PartySize, fe)
}

func (s *Service) create(ctx context.Context, r *Reservation, res *resource.Resource, partySize *int, fe booking.FieldErrors) (*Reservation, error) {
	cand := r.candidate()
	cand.PartySize = partySize
	fe.Merge(booking.ValidateReservation(cand, rules(res), booking.Options{Now: s.now()}))
	if err := fe.Err(); err != nil {
		return nil, err
	}

	keepSchedule(r, res)
	if err := r.applyPricing(res); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	r.Resource = res

	s.loggerf("level=info msg=\"reservation created\" reservation_id=%d resource_id=%d status=%s party_size=%d", r.ID, r.ResourceID, r.Status, r.PartySize)
	s.notify(ctx, EventCreated, r)
	return r, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Reservation, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Reservation, error) {
	if f.Status != "" && !f.Status.Valid() {
		fe := booking.FieldErrors{}
		fe.Add("status", "is not included in the list")
		return nil, fe.Err()
	}
	return s.store.List(ctx, f)
}

// Update applies the present fields, revalidates the merged record and writes it once.
// A status change goes through the lifecycle; field edits are refused on terminal reservations.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*Reservation, error) {
	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur.Status.Terminal() && req.editsFields() {
		return nil, fmt.Errorf("%w: a %s reservation cannot be edited", booking.ErrConflict, cur.Status)
	}

	fe := booking.FieldErrors{}
	next := *cur
	next.Resource = nil
	scheduleChanged := false

	if req.ResourceID != nil && *req.ResourceID != cur.ResourceID {
		next.ResourceID = *req.ResourceID
		scheduleChanged = true
	}
	if req.CustomerName != nil {
		next.CustomerName = strings.TrimSpace(*req.CustomerName)
	}
	if req.CustomerEmail != nil {
		next.CustomerEmail = normalizeEmail(*req.CustomerEmail)
	}
	if req.CustomerPhone != nil {
		next.CustomerPhone = strings.TrimSpace(*req.CustomerPhone)
	}
	if req.PartySize != nil {
		next.PartySize = *req.PartySize
	}
	if req.Notes != nil {
		next.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.ReservationDate != nil {
		setDate(&next, *req.ReservationDate, fe)
		scheduleChanged = true
	}
	if req.StartAt != nil || req.EndAt != nil {
		setRange(&next, req.StartAt, req.EndAt, fe)
		scheduleChanged = true
	}

	if req.Status != nil {
		target := normalizeStatus(*req.Status)
		switch {
		case !target.Valid():
			fe.Add("status", "is not included in the list")
		case target != cur.Status:
			action, ok := booking.ActionFor(target)
			if !ok {
				return nil, fmt.Errorf("%w: cannot move a %s reservation back to %s", booking.ErrInvalidStatusTransition, cur.Status, target)
			}
			if next.Status, err = booking.Transition(cur.Status, action); err != nil {
				return nil, err
			}
		}
	}

	res := cur.Resource
	if next.ResourceID != cur.ResourceID || res == nil {
		if res, err = s.resolve(ctx, next.ResourceID, fe); err != nil {
			return nil, err
		}
	}

	fe.Merge(booking.ValidateReservation(next.candidate(), rules(res), booking.Options{
		Now:               s.now(),
		AllowPast:         !scheduleChanged,
		SkipResourceRules: !scheduleChanged,
		SkipCapacity:      !scheduleChanged && next.PartySize == cur.PartySize,
	}))
	if err := fe.Err(); err != nil {
		return nil, err
	}

	keepSchedule(&next, res)
	if scheduleChanged {
		if err := next.applyPricing(res); err != nil {
			return nil, err
		}
	}

	ok, err := s.store.Save(ctx, &next, cur.Status)
	if err != nil {
		return nil, fmt.Errorf("update reservation: %w", err)
	}
	if !ok {
		return nil, ErrStatusChanged
	}
	next.Resource = res

	s.loggerf("level=info msg=\"reservation updated\" reservation_id=%d status=%s schedule_changed=%t", next.ID, next.Status, scheduleChanged)
	if next.Status != cur.Status {
		s.notify(ctx, eventFor(next.Status), &next)
	} else {
		s.notify(ctx, EventUpdated, &next)
	}
	return &next, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	r, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.loggerf("level=info msg=\"reservation deleted\" reservation_id=%d", id)
	s.notify(ctx, EventDeleted, r)
	return nil
}

func (s *Service) Confirm(ctx context.Context, id int64) (*Reservation, error) {
	return s.transition(ctx, id, booking.ActionConfirm)
}

func (s *Service) Cancel(ctx context.Context, id int64) (*Reservation, error) {
	return s.transition(ctx, id, booking.ActionCancel)
}

func (s *Service) Complete(ctx context.Context, id int64) (*Reservation, error) {
	return s.transition(ctx, id, booking.ActionComplete)
}

func (s *Service) transition(ctx context.Context, id int64, action booking.Action) (*Reservation, error) {
	r, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := booking.Transition(r.Status, action)
	if err != nil {
		return nil, err
	}

	ok, err := s.store.UpdateStatus(ctx, id, r.Status, next)
	if err != nil {
		return nil, fmt.Errorf("update reservation status: %w", err)
	}
	if !ok {
		return nil, ErrStatusChanged
	}

	s.loggerf("level=info msg=\"reservation status changed\" reservation_id=%d from=%s to=%s", id, r.Status, next)
	r.Status = next
	s.notify(ctx, eventFor(next), r)
	return r, nil
}

// Stats counts reservations per status. Revenue comes from completed reservations only.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	rows, err := s.stats.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("reservation stats: %w", err)
	}

	out := &Stats{TotalRevenue: decimal.Zero}
	for _, row := range rows {
		out.Total += row.Count
		switch row.Status {
		case booking.StatusPending:
			out.Pending = row.Count
		case booking.StatusConfirmed:
			out.Confirmed = row.Count
		case booking.StatusCancelled:
			out.Cancelled = row.Count
		case booking.StatusCompleted:
			out.Completed = row.Count
			out.TotalRevenue = row.Revenue.Round(2)
		}
	}
	return out, nil
}

// Grouped lists every reservation under its status.
func (s *Service) Grouped(ctx context.Context) (Grouped, error) {
	all, err := s.store.List(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	out := make(Grouped, len(booking.Statuses))
	for _, st := range booking.Statuses {
		out[st] = []Reservation{}
	}
	for _, r := range all {
		out[r.Status] = append(out[r.Status], r)
	}
	return out, nil
}

// CompleteElapsed marks confirmed reservations whose slot has passed as completed.
func (s *Service) CompleteElapsed(ctx context.Context) (int, error) {
	elapsed, err := s.store.ListElapsed(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("list elapsed reservations: %w", err)
	}

	completed := 0
	for i := range elapsed {
		r := &elapsed[i]
		ok, err := s.store.UpdateStatus(ctx, r.ID, booking.StatusConfirmed, booking.StatusCompleted)
		if err != nil {
			return completed, fmt.Errorf("complete reservation %d: %w", r.ID, err)
		}
		if !ok {
			continue
		}
		r.Status = booking.StatusCompleted
		completed++
		s.notify(ctx, EventCompleted, r)
	}

	if completed > 0 {
		s.loggerf("level=info msg=\"elapsed reservations completed\" count=%d", completed)
	}
	return completed, nil
}

// RepriceForResource recomputes totals of pending and confirmed range reservations
// after the resource's hourly rate changed.
func (s *Service) RepriceForResource(ctx context.Context, res *resource.Resource) (int, error) {
	if !res.Kind.IsEquipment() {
		return 0, nil
	}
	open, err := s.store.ListOpenForResource(ctx, res.ID)
	if err != nil {
		return 0, err
	}

	repriced := 0
	for i := range open {
		r := &open[i]
		if r.StartAt == nil || r.EndAt == nil {
			continue
		}
		before := r.TotalAmount
		if err := r.applyPricing(res); err != nil {
			s.loggerf("level=warn msg=\"reprice skipped\" reservation_id=%d err=%v", r.ID, err)
			continue
		}
		if before.Valid && before.Decimal.Equal(r.TotalAmount.Decimal) {
			continue
		}
		ok, err := s.store.Save(ctx, r, r.Status)
		if err != nil {
			return repriced, err
		}
		if ok {
			repriced++
		}
	}
	return repriced, nil
}

func (s *Service) resolve(ctx context.Context, id int64, fe booking.FieldErrors) (*resource.Resource, error) {
	if id <= 0 {
		return nil, nil
	}
	res, err := s.resources.Get(ctx, id)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			fe.Add("resource_id", "does not exist")
			return nil, nil
		}
		return nil, fmt.Errorf("load resource: %w", err)
	}
	return res, nil
}

func (s *Service) notify(ctx context.Context, event string, r *Reservation) {
	if s.notifier != nil {
		s.notifier.NotifyReservation(ctx, event, r)
	}
}

// ParseFilter turns query values into a Filter, reporting malformed ones per field.
func ParseFilter(status, startDate, endDate string) (Filter, error) {
	fe := booking.FieldErrors{}
	f := Filter{Status: normalizeStatus(status)}
	if f.Status != "" && !f.Status.Valid() {
		fe.Add("status", "is not included in the list")
	}
	var ok bool
	if f.From, ok = utils.OptionalDate(startDate); !ok {
		fe.Add("start_date", "is not a valid date")
	}
	if f.To, ok = utils.OptionalDate(endDate); !ok {
		fe.Add("end_date", "is not a valid date")
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		fe.Add("end_date", "must be on or after start_date")
	}
	return f, fe.Err()
}

func (req UpdateRequest) editsFields() bool {
	return req.ResourceID != nil || req.CustomerName != nil || req.CustomerEmail != nil ||
		req.CustomerPhone != nil || req.PartySize != nil || req.ReservationDate != nil ||
		req.StartAt != nil || req.EndAt != nil
}

func rules(res *resource.Resource) *booking.Resource {
	if res == nil {
		return nil
	}
	return res.Rules()
}

// keepSchedule drops the schedule fields the resource's variant does not use.
func keepSchedule(r *Reservation, res *resource.Resource) {
	if res.Kind.IsEquipment() {
		r.ReservationDate = nil
		return
	}
	r.StartAt, r.EndAt = nil, nil
}

func setDate(r *Reservation, raw string, fe booking.FieldErrors) {
	t, ok := utils.OptionalDate(raw)
	if !ok {
		fe.Add("reservation_date", "is not a valid date")
		return
	}
	r.ReservationDate = toDate(t)
}

func setRange(r *Reservation, start, end *string, fe booking.FieldErrors) {
	if start != nil {
		t, ok := utils.OptionalTime(*start)
		if !ok {
			fe.Add("start_at", "is not a valid time")
		} else {
			r.StartAt = t
		}
	}
	if end != nil {
		t, ok := utils.OptionalTime(*end)
		if !ok {
			fe.Add("end_at", "is not a valid time")
		} else {
			r.EndAt = t
		}
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeStatus(s string) booking.Status {
	return booking.Status(strings.ToLower(strings.TrimSpace(s)))
}

func eventFor(st booking.Status) string {
	switch st {
	case booking.StatusConfirmed:
		return EventConfirmed
	case booking.StatusCancelled:
		return EventCancelled
	case booking.StatusCompleted:
		return EventCompleted
	default:
		return EventUpdated
	}
}
