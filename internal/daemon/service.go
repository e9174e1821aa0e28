// Package daemon provides the long-running budget watch service: it polls
// the store, keeps a live snapshot of the key numbers, rolls the daily
// envelope over at midnight, and serves a small HTTP status API.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/envel/internal/dates"
	"github.com/theirongolddev/envel/internal/envelope"
	"github.com/theirongolddev/envel/internal/ledger"
	"github.com/theirongolddev/envel/internal/model"
	"github.com/theirongolddev/envel/internal/store"
)

// DefaultAddr is the loopback address the daemon listens on when none is
// configured.
const DefaultAddr = "127.0.0.1:8786"

// Config controls the daemon runtime behavior.
type Config struct {
	Store        *store.Store
	Clock        dates.Clock
	EndDates     model.EndDates
	SavingGoal   float64
	Envelope     envelope.Config
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Logger       zerolog.Logger
}

// Snapshot is a compact budget state for status/event payloads.
type Snapshot struct {
	At             time.Time `json:"at"`
	Date           string    `json:"date"`
	AvailableFunds float64   `json:"available_funds"`
	SpentToday     float64   `json:"spent_today"`
	DailyLimit     float64   `json:"daily_limit"`
	EnvelopeBase   float64   `json:"envelope_base"`
	EnvelopeExtra  float64   `json:"envelope_extra"`
	Anomalies      int       `json:"anomalies"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	AvailableFunds float64 `json:"available_funds"`
	SpentToday     float64 `json:"spent_today"`
	EnvelopeExtra  float64 `json:"envelope_extra"`
}

func (d Delta) isZero() bool {
	return d.AvailableFunds == 0 && d.SpentToday == 0 && d.EnvelopeExtra == 0
}

// Event is emitted whenever the budget snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	log zerolog.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	return &Service{
		cfg:       cfg,
		log:       cfg.Logger.With().Str("component", "daemon").Logger(),
		startedAt: time.Now(),
	}
}

// Run starts the HTTP endpoints, the midnight envelope rollover, and the
// poll loop, until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info().Str("addr", s.cfg.Addr).Msg("daemon listening")

	// Roll the envelope over right after midnight so the day's allowance
	// is ready before anyone asks for it.
	sched := cron.New()
	if _, err := sched.AddFunc("1 0 * * *", func() {
		if _, err := s.refreshEnvelope(ctx); err != nil {
			s.log.Error().Err(err).Msg("midnight envelope rollover failed")
		} else {
			s.log.Info().Msg("envelope rolled over")
		}
	}); err != nil {
		return fmt.Errorf("scheduling rollover: %w", err)
	}
	sched.Start()
	defer func() {
		<-sched.Stop().Done()
	}()

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// buildLedger reads a fresh snapshot from the store.
func (s *Service) buildLedger(ctx context.Context) (*ledger.Ledger, error) {
	incomes, err := s.cfg.Store.Incomes(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.cfg.Store.Expenses(ctx)
	if err != nil {
		return nil, err
	}
	snap := ledger.Snapshot{
		Incomes:    incomes,
		Expenses:   expenses,
		EndDates:   s.cfg.EndDates,
		SavingGoal: s.cfg.SavingGoal,
	}
	return ledger.New(snap, s.cfg.Clock, ledger.DefaultConfig()), nil
}

func (s *Service) refreshEnvelope(ctx context.Context) (*model.DailyEnvelope, error) {
	led, err := s.buildLedger(ctx)
	if err != nil {
		return nil, err
	}
	eng := envelope.New(s.cfg.Store, s.cfg.Envelope)
	return eng.Update(ctx, led)
}

func (s *Service) pollOnce(ctx context.Context) {
	now := time.Now()

	led, err := s.buildLedger(ctx)
	if err != nil {
		s.recordError(now, err)
		return
	}
	rec, err := s.refreshEnvelope(ctx)
	if err != nil {
		s.recordError(now, err)
		return
	}

	snap := Snapshot{
		At:             now,
		Date:           s.cfg.Clock.Today(),
		AvailableFunds: led.AvailableFunds(),
		SpentToday:     led.SpendingPeriods().SpentToday,
		DailyLimit:     led.DailyLimits().Primary.DailyLimit,
		Anomalies:      len(led.Anomalies()),
	}
	if rec != nil {
		snap.EnvelopeBase = rec.BaseAmount
		snap.EnvelopeExtra = rec.TodayExtraFromInflows
	}

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: "snapshot", Timestamp: now, Snapshot: snap}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: "budget_delta", Timestamp: now, Snapshot: snap, Delta: delta}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
		s.log.Debug().
			Float64("available", snap.AvailableFunds).
			Float64("spent_today", snap.SpentToday).
			Msg("budget updated")
	}
}

func (s *Service) recordError(at time.Time, err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.lastPollAt = at
	s.pollCount++
	s.mu.Unlock()
	s.log.Error().Err(err).Msg("poll failed")
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		AvailableFunds: curr.AvailableFunds - prev.AvailableFunds,
		SpentToday:     curr.SpentToday - prev.SpentToday,
		EnvelopeExtra:  curr.EnvelopeExtra - prev.EnvelopeExtra,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}
