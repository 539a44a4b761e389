package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apischedule "github.com/atvfleet/maintsched/api/schedule"
	"github.com/atvfleet/maintsched/config"
	"github.com/atvfleet/maintsched/core/events"
	"github.com/atvfleet/maintsched/core/history"
	coremetrics "github.com/atvfleet/maintsched/core/metrics"
	"github.com/atvfleet/maintsched/core/monitoring"
	"github.com/atvfleet/maintsched/core/optimizer"
	"github.com/atvfleet/maintsched/infra/logger"
	"github.com/atvfleet/maintsched/infra/metrics"
	inframon "github.com/atvfleet/maintsched/infra/monitoring"
	"github.com/atvfleet/maintsched/infra/mqtt"
	"github.com/atvfleet/maintsched/internal/eventbus"
)

// Service wires the optimizer, its observability sinks and the HTTP API.
// Completed runs fan out through the event bus to the history store and the
// MQTT publisher.
type Service struct {
	Optimizer *optimizer.Optimizer

	cfg       *config.Config
	store     history.Store
	publisher mqtt.Publisher
	bus       eventbus.EventBus
	log       logger.Logger
}

// New creates a Service from the configuration. The MQTT publisher is only
// created when a broker address is configured.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	monitor, err := inframon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	monitoring.Init(monitor)

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	store, err := newHistoryStore(cfg.History)
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}

	var publisher mqtt.Publisher
	if cfg.MQTT.Broker != "" {
		publisher, err = mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
	}

	bus := eventbus.New()
	opt, err := optimizer.New(cfg.Optimizer, logg, sink, bus)
	if err != nil {
		return nil, err
	}

	return &Service{
		Optimizer: opt,
		cfg:       cfg,
		store:     store,
		publisher: publisher,
		bus:       bus,
		log:       logg,
	}, nil
}

func newHistoryStore(cfg config.HistoryConfig) (history.Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return history.NewSQLiteStore(cfg.Path)
	default:
		if cfg.MaxSizeMB > 0 {
			return history.NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
		}
		return history.NewJSONLStore(cfg.Path)
	}
}

// Run starts the event consumer, the metrics endpoint and the HTTP API, and
// blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	sub := s.bus.Subscribe()
	go s.consumeEvents(ctx, sub)

	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			defer monitoring.Recover()
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	mux := http.NewServeMux()
	mux.Handle("/api/schedule/optimize", apischedule.NewOptimizeHandler(s.Optimizer))
	mux.Handle("/api/fleet/clusters", apischedule.NewClustersHandler(s.Optimizer))
	mux.Handle("/api/schedule/history", apischedule.NewHistoryHandler(s.store, s.cfg.API.Token))
	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("listening on %s", s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// consumeEvents persists and publishes completed runs and reports failures.
func (s *Service) consumeEvents(ctx context.Context, sub <-chan eventbus.Event) {
	defer monitoring.Recover()
	for ev := range sub {
		switch e := ev.(type) {
		case events.RunCompleted:
			rec := history.RunRecord{
				Timestamp:  e.Schedule.GeneratedAt,
				RunID:      e.Schedule.RunID,
				Vehicles:   len(e.Schedule.Entries) + len(e.Schedule.Unassigned),
				Assigned:   len(e.Schedule.Entries),
				Unassigned: e.Schedule.Unassigned,
				TotalCost:  e.Schedule.TotalCost,
				Entries:    e.Schedule.Entries,
			}
			if err := s.store.Append(ctx, rec); err != nil {
				s.log.Errorf("history append: %v", err)
				monitoring.CaptureException(err, map[string]string{"run_id": e.Schedule.RunID})
			}
			if s.publisher != nil {
				if err := s.publisher.PublishSchedule(e.Schedule); err != nil {
					s.log.Errorf("mqtt publish: %v", err)
					monitoring.CaptureException(err, map[string]string{"run_id": e.Schedule.RunID})
				}
			}
		case events.RunFailed:
			monitoring.CaptureException(e.Err, map[string]string{"run_id": e.RunID})
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	var firstErr error
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			firstErr = err
		}
	}
	if err := s.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	monitoring.Flush(2 * time.Second)
	return firstErr
}
