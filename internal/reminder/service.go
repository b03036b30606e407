package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/theirongolddev/tend/internal/config"
	"github.com/theirongolddev/tend/internal/pipeline"
	"github.com/theirongolddev/tend/internal/state"
	"github.com/theirongolddev/tend/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	DBPath       string
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	App          config.Config
	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

// Snapshot is a compact view of today's progress for status/event payloads.
type Snapshot struct {
	At          time.Time `json:"at"`
	Day         string    `json:"day"`
	HabitsDone  int       `json:"habits_done"`
	HabitsTotal int       `json:"habits_total"`
	WaterML     int       `json:"water_ml"`
	WaterGoalML int       `json:"water_goal_ml"`
	OpenTodos   int       `json:"open_todos"`
	Remaining   string    `json:"budget_remaining"`
	Scheduled   int       `json:"scheduled"`
}

// Delta captures progress made between polls.
type Delta struct {
	HabitsDone int `json:"habits_done"`
	WaterML    int `json:"water_ml"`
	OpenTodos  int `json:"open_todos"`
}

func (d Delta) isZero() bool {
	return d.HabitsDone == 0 && d.WaterML == 0 && d.OpenTodos == 0
}

// Event is emitted when a reminder fires or progress changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
	Reminder  *Reminder `json:"reminder,omitempty"`
}

// Event types.
const (
	EventSnapshot = "snapshot"
	EventProgress = "progress"
	EventReminder = "reminder"
)

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DBPath          string    `json:"db_path"`
	Summary         Snapshot  `json:"summary"`
	Fired           int64     `json:"fired"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

type metrics struct {
	registry   *prometheus.Registry
	polls      prometheus.Counter
	pollErrors prometheus.Counter
	fired      *prometheus.CounterVec
	scheduled  prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		polls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tend", Subsystem: "reminder",
			Name: "polls_total", Help: "Store polls performed.",
		}),
		pollErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tend", Subsystem: "reminder",
			Name: "poll_errors_total", Help: "Store polls that failed.",
		}),
		fired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tend", Subsystem: "reminder",
			Name: "fired_total", Help: "Reminders fired, by kind.",
		}, []string{"kind"}),
		scheduled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tend", Subsystem: "reminder",
			Name: "scheduled", Help: "Reminders currently scheduled.",
		}),
	}
	m.registry.MustRegister(m.polls, m.pollErrors, m.fired, m.scheduled)
	return m
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	kv      *store.Store
	sched   *Scheduler
	metrics *metrics

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	fired       int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a daemon service reading from kv.
func New(cfg Config, kv *store.Store) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 10 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Service{
		cfg:       cfg,
		kv:        kv,
		sched:     NewScheduler(),
		metrics:   newMetrics(),
		startedAt: cfg.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Addr is the resolved listen address.
func (s *Service) Addr() string { return s.cfg.Addr }

// Interval is the resolved polling interval.
func (s *Service) Interval() time.Duration { return s.cfg.Interval }

// Handler returns the daemon's HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/reminders", s.handleReminders)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	return mux
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	slog.Info("reminder daemon listening", "addr", s.cfg.Addr, "interval", s.cfg.Interval)

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce() {
	now := s.cfg.Now()
	s.metrics.polls.Inc()

	snap, err := s.refresh(now)
	if err != nil {
		s.metrics.pollErrors.Inc()
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		slog.Error("reminder poll failed", "error", err)
		return
	}
	s.metrics.scheduled.Set(float64(snap.Scheduled))

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
		ev = Event{Type: EventSnapshot, Timestamp: now, Snapshot: snap}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		ev = Event{Type: EventProgress, Timestamp: now, Snapshot: snap, Delta: delta}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}

	for _, r := range s.sched.Due(now) {
		slog.Info("reminder", "id", r.ID, "title", r.Title, "at", r.Clock())
		s.metrics.fired.WithLabelValues(kindOf(r.ID)).Inc()
		s.mu.Lock()
		s.fired++
		s.mu.Unlock()

		s.publishEvent(Event{Type: EventReminder, Timestamp: now, Snapshot: snap, Reminder: &r})
	}
}

// refresh reloads state from the store, resyncs the scheduler and returns
// the new snapshot.
func (s *Service) refresh(now time.Time) (Snapshot, error) {
	st, err := state.Load(s.kv, state.WithClock(s.cfg.Now))
	if err != nil {
		return Snapshot{}, err
	}
	if err := Sync(s.sched, st, s.cfg.App.WeekStartDay(), now); err != nil {
		return Snapshot{}, err
	}

	sum := pipeline.Today(st, s.cfg.App, now)
	return Snapshot{
		At:          now,
		Day:         st.Today(),
		HabitsDone:  sum.HabitsDone,
		HabitsTotal: len(sum.Habits),
		WaterML:     sum.Water.Total,
		WaterGoalML: sum.Water.Goal,
		OpenTodos:   sum.OpenTodos,
		Remaining:   sum.Remaining.StringFixed(2),
		Scheduled:   s.sched.Len(),
	}, nil
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		HabitsDone: curr.HabitsDone - prev.HabitsDone,
		WaterML:    curr.WaterML - prev.WaterML,
		OpenTodos:  curr.OpenTodos - prev.OpenTodos,
	}
}

func kindOf(id string) string {
	if kind, _, ok := strings.Cut(id, ":"); ok {
		return kind
	}
	return "other"
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
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
		DBPath:          s.cfg.DBPath,
		Summary:         s.snapshot,
		Fired:           s.fired,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
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

func (s *Service) handleReminders(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.sched.List())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	writeSSE(w, Event{
		Type:      EventSnapshot,
		Timestamp: s.cfg.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
