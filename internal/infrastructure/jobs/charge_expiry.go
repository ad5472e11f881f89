package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pix-charge.backend/internal/ledger"
	"pix-charge.backend/pkg/logger"
)

// ChargeExpiryJob periodically sweeps the ledger: pending charges past
// their deadline expire, records past retention are dropped.
type ChargeExpiryJob struct {
	ledger   *ledger.Ledger
	interval time.Duration
	stop     chan struct{}
}

func NewChargeExpiryJob(l *ledger.Ledger, interval time.Duration) *ChargeExpiryJob {
	return &ChargeExpiryJob{
		ledger:   l,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *ChargeExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting charge expiry job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "charge expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "charge expiry job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *ChargeExpiryJob) Stop() {
	close(j.stop)
}

func (j *ChargeExpiryJob) sweep(ctx context.Context) {
	expired, deleted := j.ledger.SweepExpired(time.Now())
	if expired == 0 && deleted == 0 {
		return
	}
	logger.Info(ctx, "charge sweep finished",
		zap.Int("expired", expired),
		zap.Int("deleted", deleted),
	)
}
