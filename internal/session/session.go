// Package session implements the seat reservation controller: one session
// per (restaurant, user) pair, from seat-map render through confirmed
// booking or cancellation, with a periodic status refresh.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/handicapstudent/ppt-project/internal/database"
	"github.com/handicapstudent/ppt-project/internal/domain"
	"github.com/handicapstudent/ppt-project/internal/events"
	"github.com/handicapstudent/ppt-project/internal/layout"
	"github.com/handicapstudent/ppt-project/internal/metrics"
	"github.com/handicapstudent/ppt-project/internal/models"
)

// SeatView is the derived render state of one grid cell. Status and
// Enabled are meaningful only for reservable cells and always agree:
// a seat is enabled exactly when its status is free.
type SeatView struct {
	Cell    layout.Cell
	Status  models.SeatStatus
	Enabled bool
}

// Snapshot is what the presentation layer paints after any change.
type Snapshot struct {
	Restaurant string
	Step       string
	Banner     string
	Rows       [][]SeatView
}

// Config carries the session dependencies. Clock, States, Bus and OnUpdate
// are optional; Store, Restaurant and UserID are not.
type Config struct {
	Restaurant      string
	UserID          string
	Store           domain.ReservationStore
	States          domain.StateRepository
	Bus             domain.EventPublisher
	Clock           domain.Clock
	Logger          *zerolog.Logger
	RefreshInterval time.Duration
	OnUpdate        func(Snapshot)
}

// Session is the per-restaurant, per-user reservation state machine.
// A mutex guards the step fields because the periodic refresh runs on its
// own goroutine; user actions themselves stay strictly sequential.
type Session struct {
	id         string
	restaurant string
	userID     string
	grid       *layout.Grid

	store  domain.ReservationStore
	states domain.StateRepository
	bus    domain.EventPublisher
	clock  domain.Clock
	logger zerolog.Logger

	refreshInterval time.Duration
	onUpdate        func(Snapshot)

	mu           sync.Mutex
	step         string
	selectedSeat string
}

func New(cfg Config) *Session {
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	interval := cfg.RefreshInterval
	if interval <= 0 {
		interval = models.DefaultRefreshSeconds * time.Second
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	id := uuid.NewString()
	return &Session{
		id:              id,
		restaurant:      cfg.Restaurant,
		userID:          cfg.UserID,
		grid:            layout.ForRestaurant(cfg.Restaurant),
		store:           cfg.Store,
		states:          cfg.States,
		bus:             cfg.Bus,
		clock:           clock,
		logger:          logger.With().Str("session_id", id).Str("restaurant", cfg.Restaurant).Str("user_id", cfg.UserID).Logger(),
		refreshInterval: interval,
		onUpdate:        cfg.OnUpdate,
		step:            models.StepViewing,
	}
}

// ID returns the session identifier used in log fields.
func (s *Session) ID() string {
	return s.id
}

// Step returns the current dialog step.
func (s *Session) Step() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// SelectedSeat returns the seat held by an open time-selection, if any.
func (s *Session) SelectedSeat() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedSeat
}

// Open renders the initial seat map. A persisted dialog state for the same
// restaurant is resumed; anything else starts at Viewing.
func (s *Session) Open(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	if s.states != nil {
		if saved, err := s.states.GetState(ctx, s.userID); err != nil {
			s.logger.Warn().Err(err).Msg("failed to restore session state")
		} else if saved != nil && saved.Restaurant == s.restaurant {
			s.step = saved.Step
			s.selectedSeat = saved.SelectedSeat
		}
	}
	s.mu.Unlock()

	s.logger.Info().Msg("session opened")
	return s.Refresh(ctx)
}

// Refresh re-derives every seat's status and the reservation banner and
// pushes the snapshot to OnUpdate. It is invoked on open, after every
// state-changing action, and once per refresh tick.
func (s *Session) Refresh(ctx context.Context) (*Snapshot, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to refresh seat statuses")
		return nil, err
	}
	if s.onUpdate != nil {
		s.onUpdate(*snap)
	}
	return snap, nil
}

func (s *Session) snapshot(ctx context.Context) (*Snapshot, error) {
	now := s.clock.Now()

	banner, err := s.banner(ctx)
	if err != nil {
		return nil, err
	}

	var rows [][]SeatView
	for _, gridRow := range s.grid.Rows() {
		var row []SeatView
		for _, cell := range gridRow {
			view := SeatView{Cell: cell}
			if cell.Kind == layout.CellSeat {
				status, err := s.seatStatus(ctx, cell.SeatID(), now)
				if err != nil {
					return nil, err
				}
				view.Status = status
				view.Enabled = status.Bookable()
			}
			row = append(row, view)
		}
		rows = append(rows, row)
	}

	s.mu.Lock()
	step := s.step
	s.mu.Unlock()

	return &Snapshot{
		Restaurant: s.restaurant,
		Step:       step,
		Banner:     banner,
		Rows:       rows,
	}, nil
}

// seatStatus partitions a seat into free / pending / occupied from its
// latest reservation row: occupied while now is inside the slot, pending
// before the slot starts, free once it has ended or when no row exists.
func (s *Session) seatStatus(ctx context.Context, seatID string, now time.Time) (models.SeatStatus, error) {
	r, err := s.store.GetSeatReservation(ctx, s.restaurant, seatID)
	if err != nil {
		return models.SeatFree, err
	}
	if r == nil {
		return models.SeatFree, nil
	}
	switch {
	case r.Occupies(now):
		return models.SeatOccupied, nil
	case now.Before(r.StartTime):
		return models.SeatPending, nil
	default:
		return models.SeatFree, nil
	}
}

func (s *Session) banner(ctx context.Context) (string, error) {
	r, err := s.store.GetUserReservation(ctx, s.userID)
	if err != nil {
		return "", err
	}
	if r == nil {
		return MsgNoReservation, nil
	}
	return fmt.Sprintf("current reservation: %s, seat %s, %s ~ %s",
		r.Restaurant, r.Seat,
		r.StartTime.Format("15:04"), r.EndTime.Format("15:04")), nil
}

// SelectSeat handles a seat click: re-validates live state and opens the
// time-selection step. Any rejection leaves the session in Viewing.
func (s *Session) SelectSeat(ctx context.Context, seatID string) error {
	s.mu.Lock()
	if s.step != models.StepViewing {
		s.mu.Unlock()
		return ErrBusy
	}
	s.mu.Unlock()

	if !s.grid.IsSeat(seatID) {
		return ErrNotASeat
	}

	has, err := s.store.HasReservation(ctx, s.userID)
	if err != nil {
		return err
	}
	if has {
		s.reject("select_seat", seatID, database.ErrUserHasReservation)
		return database.ErrUserHasReservation
	}

	reserved, err := s.store.IsSeatReserved(ctx, s.restaurant, seatID, s.clock.Now())
	if err != nil {
		return err
	}
	if reserved {
		s.reject("select_seat", seatID, database.ErrSeatTaken)
		// The click raced a fresher reservation; repaint before reporting.
		_, _ = s.Refresh(ctx)
		return database.ErrSeatTaken
	}

	s.mu.Lock()
	s.selectedSeat = seatID
	s.step = models.StepTimeSelecting
	s.mu.Unlock()
	s.persistState(ctx)

	s.logger.Info().Str("seat", seatID).Msg("seat selected")
	return nil
}

// ConfirmTime finalizes the booking for the selected seat. The chosen
// start must be strictly after now; the slot always lasts exactly
// SlotDuration. Any validation failure clears the selection and returns
// the session to Viewing.
func (s *Session) ConfirmTime(ctx context.Context, start time.Time) (*Snapshot, error) {
	s.mu.Lock()
	if s.step != models.StepTimeSelecting || s.selectedSeat == "" {
		s.mu.Unlock()
		return nil, ErrNoSeatSelected
	}
	seat := s.selectedSeat
	s.mu.Unlock()

	now := s.clock.Now()
	if !start.After(now) {
		s.unwind(ctx)
		s.reject("confirm_time", seat, database.ErrPastStart)
		return nil, database.ErrPastStart
	}

	r := &models.Reservation{
		UserID:     s.userID,
		Restaurant: s.restaurant,
		Seat:       seat,
		StartTime:  start,
		EndTime:    start.Add(models.SlotDuration),
	}

	// ReserveSeat re-checks both invariants atomically; the checks raced
	// by other sessions since the click are caught here.
	if err := s.store.ReserveSeat(ctx, r, now); err != nil {
		s.unwind(ctx)
		s.reject("confirm_time", seat, err)
		_, _ = s.Refresh(ctx)
		return nil, err
	}

	s.mu.Lock()
	s.selectedSeat = ""
	s.step = models.StepViewing
	s.mu.Unlock()
	s.persistState(ctx)

	metrics.IncReservation("booked")
	s.publish(events.EventReservationBooked, events.ReservationEventPayload{
		ReservationID: r.ID,
		UserID:        s.userID,
		Restaurant:    s.restaurant,
		Seat:          seat,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Message:       fmt.Sprintf("reserved at %s", start.Format("15:04")),
	})
	s.logger.Info().Str("seat", seat).Time("start", start).Msg("reservation booked")

	return s.Refresh(ctx)
}

// CancelTimeSelect abandons the time-selection step with no side effects.
func (s *Session) CancelTimeSelect(ctx context.Context) {
	s.unwind(ctx)
}

// RequestCancel asks to cancel the user's reservation. With nothing to
// cancel it reports so without touching the store; otherwise the session
// moves to the confirmation step.
func (s *Session) RequestCancel(ctx context.Context) error {
	r, err := s.store.GetUserReservation(ctx, s.userID)
	if err != nil {
		return err
	}
	if r == nil {
		return database.ErrNoReservation
	}

	s.mu.Lock()
	s.step = models.StepCancelConfirm
	s.mu.Unlock()
	s.persistState(ctx)
	return nil
}

// ConfirmCancel resolves the cancellation confirmation. Only an explicit
// yes deletes the user's reservation rows.
func (s *Session) ConfirmCancel(ctx context.Context, yes bool) (*Snapshot, error) {
	s.mu.Lock()
	if s.step != models.StepCancelConfirm {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.step = models.StepViewing
	s.mu.Unlock()
	s.persistState(ctx)

	if !yes {
		return s.Refresh(ctx)
	}

	if err := s.store.CancelReservation(ctx, s.userID); err != nil {
		return nil, err
	}

	metrics.IncReservation("cancelled")
	s.publish(events.EventReservationCancelled, events.ReservationEventPayload{
		UserID:     s.userID,
		Restaurant: s.restaurant,
		Message:    MsgCancelled,
	})
	s.logger.Info().Msg("reservation cancelled")

	return s.Refresh(ctx)
}

// Run drives the periodic refresh until the context is cancelled: one
// status recomputation per tick, independent of user actions.
func (s *Session) Run(ctx context.Context) {
	ticks, stop := s.clock.Tick(s.refreshInterval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			metrics.IncRefreshTick()
			if _, err := s.Refresh(ctx); err != nil {
				s.logger.Error().Err(err).Msg("periodic refresh failed")
			}
		}
	}
}

// unwind clears the selected seat and returns to Viewing. Called on cancel
// and on every validation failure so an abandoned dialog holds nothing.
func (s *Session) unwind(ctx context.Context) {
	s.mu.Lock()
	s.selectedSeat = ""
	s.step = models.StepViewing
	s.mu.Unlock()
	s.persistState(ctx)
}

func (s *Session) persistState(ctx context.Context) {
	if s.states == nil {
		return
	}
	s.mu.Lock()
	state := &models.SessionState{
		UserID:       s.userID,
		Restaurant:   s.restaurant,
		Step:         s.step,
		SelectedSeat: s.selectedSeat,
	}
	s.mu.Unlock()
	if err := s.states.SetState(ctx, state); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist session state")
	}
}

func (s *Session) reject(op, seat string, err error) {
	metrics.IncReservation("rejected")
	s.publish(events.EventReservationRejected, events.ReservationEventPayload{
		UserID:     s.userID,
		Restaurant: s.restaurant,
		Seat:       seat,
		Reason:     op,
		Message:    UserMessage(err),
	})
	s.logger.Info().Str("op", op).Str("seat", seat).Err(err).Msg("reservation rejected")
}

func (s *Session) publish(eventType string, payload events.ReservationEventPayload) {
	if s.bus == nil {
		return
	}
	if err := s.bus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}
