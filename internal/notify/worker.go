package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	// DefaultDrainInterval период опроса outbox воркером
	DefaultDrainInterval = 15 * time.Second

	// DefaultBatchSize размер пачки событий за один проход
	DefaultBatchSize = 50

	// DefaultMaxAttempts число попыток доставки до пометки события failed
	DefaultMaxAttempts = 5
)

// Worker периодически выгребает pending-события из outbox и доставляет их
// Доставка at-least-once: событие помечается sent только после успешной
// отправки, после исчерпания попыток — failed
type Worker struct {
	outboxRepo  OutboxRepository
	dispatcher  Dispatcher
	metrics     MetricsObserver
	logger      Logger
	interval    time.Duration
	batchSize   int
	maxAttempts int
	cron        *cron.Cron
}

// NewWorker создает воркер доставки уведомлений
// Нулевые interval/batchSize/maxAttempts заменяются значениями по умолчанию
func NewWorker(
	outboxRepo OutboxRepository,
	dispatcher Dispatcher,
	metrics MetricsObserver,
	logger Logger,
	interval time.Duration,
	batchSize int,
	maxAttempts int,
) *Worker {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if interval <= 0 {
		interval = DefaultDrainInterval
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Worker{
		outboxRepo:  outboxRepo,
		dispatcher:  dispatcher,
		metrics:     metrics,
		logger:      logger,
		interval:    interval,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
	}
}

// Start запускает периодическую доставку
func (w *Worker) Start() error {
	w.cron = cron.New()

	spec := fmt.Sprintf("@every %s", w.interval)
	if _, err := w.cron.AddFunc(spec, func() {
		w.DrainOnce(context.Background())
	}); err != nil {
		return fmt.Errorf("notify worker: failed to schedule drain: %w", err)
	}

	w.cron.Start()
	w.logger.Info("Notification worker started: interval=%s, batch=%d, max_attempts=%d", w.interval, w.batchSize, w.maxAttempts)
	return nil
}

// Stop останавливает воркер и дожидается завершения текущего прохода
func (w *Worker) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
	w.logger.Info("Notification worker stopped")
}

// DrainOnce выполняет один проход по pending-событиям outbox
// Возвращает число успешно доставленных событий
func (w *Worker) DrainOnce(ctx context.Context) int {
	events, err := w.outboxRepo.ListPending(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("DrainOnce: failed to list pending events: %v", err)
		return 0
	}
	if len(events) == 0 {
		return 0
	}

	sent := 0
	for _, event := range events {
		if err := w.dispatcher.Dispatch(ctx, event); err != nil {
			w.metrics.ObserveDispatch(string(event.Channel), "failed")
			attempts := event.Attempts + 1
			w.logger.Warn("DrainOnce: event=%s attempt %d/%d failed: %v", event.ID, attempts, w.maxAttempts, err)
			if markErr := w.outboxRepo.MarkFailed(ctx, event.ID, attempts, w.maxAttempts, err.Error()); markErr != nil {
				w.logger.Error("DrainOnce: failed to mark event=%s failed: %v", event.ID, markErr)
			}
			continue
		}

		if err := w.outboxRepo.MarkSent(ctx, event.ID); err != nil {
			// Событие доставлено, но не помечено; на следующем проходе
			// оно будет отправлено повторно (at-least-once)
			w.logger.Error("DrainOnce: failed to mark event=%s sent: %v", event.ID, err)
			continue
		}

		w.metrics.ObserveDispatch(string(event.Channel), "sent")
		sent++
	}

	w.logger.Info("DrainOnce: delivered %d of %d events", sent, len(events))
	return sent
}
