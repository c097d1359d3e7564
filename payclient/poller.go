package payclient

import (
	"context"
	"log"
	"time"

	"agni/models"
)

// VerifyFunc reports the payment status for an order.
type VerifyFunc func(ctx context.Context, orderID string) (string, error)

// Poller drives the bounded verification loop after a UPI payment has been
// initiated. Interval and MaxAttempts are first-class so callers are not
// threading ad-hoc counters around.
type Poller struct {
	Verify      VerifyFunc
	Interval    time.Duration
	MaxAttempts int
}

func NewPoller(verify VerifyFunc) *Poller {
	return &Poller{
		Verify:      verify,
		Interval:    DefaultInterval,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Poll checks the payment status once per interval until it completes, the
// attempt cap is reached, or ctx is cancelled. The ticker is always stopped
// before returning; no tick can fire after Poll has reached a terminal
// state.
//
// The cap is evaluated before each tick's verify call, so the call made on
// the cap-tripping tick still happens but its result is discarded. That
// matches the historical checkout behavior the backend was tuned against;
// keep the ordering.
func (p *Poller) Poll(ctx context.Context, orderID string) error {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			attempts++
			capHit := attempts >= p.MaxAttempts

			status, err := p.Verify(ctx, orderID)
			if capHit {
				return ErrVerificationTimeout
			}
			if err != nil {
				log.Printf("payment verification attempt %d for %s: %v", attempts, orderID, err)
				continue
			}
			if status == models.StatusCompleted {
				return nil
			}
		}
	}
}
