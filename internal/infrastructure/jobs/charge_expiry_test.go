package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pix-charge.backend/internal/domain/entities"
	"pix-charge.backend/internal/infrastructure/jobs"
	"pix-charge.backend/internal/ledger"
)

func TestChargeExpiryJob_SweepsOnTick(t *testing.T) {
	l := ledger.New(time.Millisecond, time.Hour)
	charge := l.Create(ledger.CreateInput{Amount: decimal.NewFromInt(1), Payload: "p"}, time.Now())

	job := jobs.NewChargeExpiryJob(l, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go job.Start(ctx)
	defer job.Stop()

	require.Eventually(t, func() bool {
		got, err := l.Get(charge.ID)
		return err == nil && got.Status == entities.ChargeStatusExpired
	}, time.Second, 5*time.Millisecond)
}

func TestChargeExpiryJob_StopTerminates(t *testing.T) {
	l := ledger.New(time.Minute, time.Hour)
	job := jobs.NewChargeExpiryJob(l, time.Millisecond)

	done := make(chan struct{})
	go func() {
		job.Start(context.Background())
		close(done)
	}()
	job.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not stop")
	}
	assert.NotNil(t, job)
}
