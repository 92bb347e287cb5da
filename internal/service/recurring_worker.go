package service

import (
	"context"
	"log"
	"sync"
	"time"
)

// RecurringWorkerConfig holds settings for the recurring invoice worker.
type RecurringWorkerConfig struct {
	PollInterval time.Duration
	Concurrency  int
}

// RecurringWorker polls for due recurring schedules, generates their
// invoices, and sweeps sent invoices past due date into overdue.
type RecurringWorker struct {
	recurringSvc RecurringService
	invoiceSvc   InvoiceService
	cfg          RecurringWorkerConfig
	wg           sync.WaitGroup
}

// NewRecurringWorker creates a new RecurringWorker.
func NewRecurringWorker(recurringSvc RecurringService, invoiceSvc InvoiceService, cfg RecurringWorkerConfig) *RecurringWorker {
	return &RecurringWorker{
		recurringSvc: recurringSvc,
		invoiceSvc:   invoiceSvc,
		cfg:          cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until any
// in-flight generation pass has finished.
func (w *RecurringWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, 1)

	log.Printf("recurringWorker: started (poll=%s, batch=%d)", w.cfg.PollInterval, w.cfg.Concurrency)

	for {
		select {
		case <-ctx.Done():
			log.Printf("recurringWorker: shutting down, waiting for in-flight generation...")
			w.wg.Wait()
			log.Printf("recurringWorker: shutdown complete")
			return
		case <-ticker.C:
			select {
			case sem <- struct{}{}:
			default:
				// previous pass still running
				continue
			}

			w.wg.Add(1)
			go func() {
				defer w.wg.Done()
				defer func() { <-sem }()

				// Fresh context independent of the poll context so a pass
				// already claiming rows completes even during shutdown.
				runCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				defer cancel()

				if _, err := w.invoiceSvc.SweepOverdue(runCtx); err != nil {
					log.Printf("recurringWorker: overdue sweep error: %v", err)
				}

				n, err := w.recurringSvc.GenerateDue(runCtx, w.cfg.Concurrency)
				if err != nil {
					log.Printf("recurringWorker: GenerateDue error: %v", err)
					return
				}
				if n > 0 {
					log.Printf("recurringWorker: generated %d invoices", n)
				}
			}()
		}
	}
}
