package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/sortezap/sortezap-backend/pkg/lirapay"
	"github.com/sortezap/sortezap-backend/pkg/logger"
)

// StatusChecker fetches the gateway's current view of a transaction.
type StatusChecker interface {
	Status(ctx context.Context, transactionID string) (lirapay.Status, error)
}

// pollerConfig bounds the observation loop.
type pollerConfig struct {
	interval time.Duration
	ceiling  time.Duration
}

// poller is a single owned scheduled task. It checks the transaction status
// on a fixed interval until the target status is observed, the ceiling is
// reached, or Cancel is called. Every exit path runs the same cancellation.
type poller struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// startPoller launches the observation loop. A status-check failure on one
// tick carries no new information: it is logged and the loop keeps going.
func startPoller(
	parent context.Context,
	cfg pollerConfig,
	checker StatusChecker,
	transactionID string,
	onAuthorized func(),
	onCeiling func(),
	logg *logger.Logger,
) *poller {
	ctx, cancel := context.WithCancel(parent)
	p := &poller{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(p.done)
		defer cancel()

		ticker := time.NewTicker(cfg.interval)
		defer ticker.Stop()

		deadline := time.NewTimer(cfg.ceiling)
		defer deadline.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-deadline.C:
				onCeiling()
				return
			case <-ticker.C:
				status, err := checker.Status(ctx, transactionID)
				if err != nil {
					if logg != nil && ctx.Err() == nil {
						logg.Warn(logg.WithTransactionID(ctx, transactionID), "payment status check failed, will retry on next tick")
					}
					continue
				}
				if status == lirapay.StatusAuthorized {
					onAuthorized()
					return
				}
			}
		}
	}()

	return p
}

// Cancel stops the loop. Safe to call from any exit path, any number of times.
func (p *poller) Cancel() {
	if p == nil {
		return
	}
	p.once.Do(p.cancel)
}

// Wait blocks until the loop goroutine has exited.
func (p *poller) Wait() {
	if p == nil {
		return
	}
	<-p.done
}
