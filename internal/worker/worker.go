package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cuongbtq/jobboard-be/internal/worker/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer is the part of the RabbitMQ client the worker reads from
type Consumer interface {
	SetQoS(prefetchCount int) error
	Consume(consumerTag string) (<-chan amqp.Delivery, error)
}

// EventRecorder persists job events. It reports false for an event that was
// already recorded.
type EventRecorder interface {
	RecordEvent(ctx context.Context, event *domain.Event) (bool, error)
}

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	Consumer      Consumer
	Recorder      EventRecorder
	WorkerID      string
	Concurrency   int
	PrefetchCount int
	EventTimeout  time.Duration
}

// Worker consumes job events and records them in the audit table
type Worker struct {
	logger        *slog.Logger
	consumer      Consumer
	recorder      EventRecorder
	workerID      string
	concurrency   int
	prefetchCount int
	eventTimeout  time.Duration
	eventsChan    chan *message
	wg            sync.WaitGroup
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// message is an event waiting in the pool, with the handle used to settle it
type message struct {
	*domain.EventMessage
	acker amqp.Acknowledger
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	prefetch := cfg.PrefetchCount
	if prefetch <= 0 {
		prefetch = cfg.Concurrency
	}

	return &Worker{
		logger:        cfg.Logger,
		consumer:      cfg.Consumer,
		recorder:      cfg.Recorder,
		workerID:      cfg.WorkerID,
		concurrency:   cfg.Concurrency,
		prefetchCount: prefetch,
		eventTimeout:  cfg.EventTimeout,
		eventsChan:    make(chan *message, cfg.Concurrency),
		stopChan:      make(chan struct{}),
	}
}

// Start consumes events until ctx is canceled or the delivery channel closes
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("event_timeout", w.eventTimeout),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return fmt.Errorf("failed to set up consumer: %w", err)
	}

	w.spawnWorkerPool(ctx)
	w.startMessageDispatcher(ctx, deliveries)

	w.logger.Info("Worker dispatcher exited", slog.String("worker_id", w.workerID))
	return nil
}

// Stop signals the pool to exit and waits for in-flight events
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.stopOnce.Do(func() { close(w.stopChan) })
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}
