package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Metrics holds the application collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	habitToggles   prometheus.Counter
	mirrorFailures prometheus.Counter
	triggersLogged *prometheus.CounterVec
	relapses       prometheus.Counter
	streakSeconds  prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		habitToggles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "streak_habit_toggles_total",
			Help: "Habit toggles applied to the local cache.",
		}),
		mirrorFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "streak_habit_mirror_failures_total",
			Help: "Daily history mirror writes that failed and were dropped.",
		}),
		triggersLogged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "streak_triggers_logged_total",
			Help: "Trigger events appended, by time slot.",
		}, []string{"time_slot"}),
		relapses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "streak_relapses_total",
			Help: "Relapses recorded.",
		}),
		streakSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "streak_elapsed_seconds",
			Help: "Elapsed seconds of the owner's current streak.",
		}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.habitToggles,
		m.mirrorFailures,
		m.triggersLogged,
		m.relapses,
		m.streakSeconds,
	)
	return m
}

func (m *Metrics) HabitToggled() {
	if m != nil {
		m.habitToggles.Inc()
	}
}

func (m *Metrics) MirrorFailed() {
	if m != nil {
		m.mirrorFailures.Inc()
	}
}

func (m *Metrics) TriggerLogged(slot string) {
	if m != nil {
		m.triggersLogged.WithLabelValues(slot).Inc()
	}
}

func (m *Metrics) RelapseRecorded() {
	if m != nil {
		m.relapses.Inc()
	}
}

func (m *Metrics) SetStreakSeconds(s int64) {
	if m != nil {
		m.streakSeconds.Set(float64(s))
	}
}

// Server exposes the registry over HTTP.
type Server struct {
	server *http.Server
	port   int
}

func NewServer(m *Metrics, port int, endpoint string) *Server {
	mux := http.NewServeMux()
	mux.Handle(endpoint, promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	return &Server{
		server: &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux},
		port:   port,
	}
}

func (s *Server) Start() {
	go func() {
		logrus.Infof("metrics server listening on port %d", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("metrics server failed: %v", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
