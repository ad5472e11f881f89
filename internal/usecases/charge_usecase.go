package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pix-charge.backend/internal/domain/entities"
	domainerrors "pix-charge.backend/internal/domain/errors"
	"pix-charge.backend/internal/ledger"
	"pix-charge.backend/internal/processor"
	"pix-charge.backend/pkg/logger"
)

const maxDescriptionBytes = 230

// ChargeUsecase orchestrates charge creation, reconciliation and manual
// confirmation on top of the ledger and the configured processor.
type ChargeUsecase struct {
	ledger    *ledger.Ledger
	processor processor.Processor
	fallback  *processor.Mock

	minAmount decimal.Decimal
	maxAmount decimal.Decimal

	startedAt time.Time
	now       func() time.Time
}

// NewChargeUsecase creates a new charge usecase. proc is the processor
// selected at startup; fallback generates local payment data when proc
// fails. Pass a nil fallback when proc is already the mock, so its errors
// surface instead of being retried against itself.
func NewChargeUsecase(l *ledger.Ledger, proc processor.Processor, fallback *processor.Mock, minAmount, maxAmount decimal.Decimal) *ChargeUsecase {
	return &ChargeUsecase{
		ledger:    l,
		processor: proc,
		fallback:  fallback,
		minAmount: minAmount,
		maxAmount: maxAmount,
		startedAt: time.Now(),
		now:       time.Now,
	}
}

// CreateCharge validates the amount, originates the charge at the processor
// and stores the resulting record. Processor failures fall back to locally
// generated payment data, flagged on the record.
func (u *ChargeUsecase) CreateCharge(ctx context.Context, amount decimal.Decimal, description string) (*entities.Charge, error) {
	if err := u.validateAmount(amount); err != nil {
		return nil, err
	}
	if len(description) > maxDescriptionBytes {
		description = description[:maxDescriptionBytes]
	}
	if description == "" {
		description = "Pagamento PIX de R$ " + amount.StringFixed(2)
	}

	now := u.now()
	id := ledger.NewChargeID(now)

	in := processor.SubmitInput{
		Amount:         amount,
		Description:    description,
		ReferenceLabel: referenceLabel(id),
	}

	usingFallback := false
	result, err := u.processor.Submit(ctx, in)
	if err != nil {
		if u.fallback == nil {
			return nil, err
		}
		logger.Warn(ctx, "processor submit failed, falling back to mock payment data", zap.Error(err))
		result, err = u.fallback.Submit(ctx, in)
		if err != nil {
			return nil, err
		}
		usingFallback = true
	}

	charge := u.ledger.Create(ledger.CreateInput{
		ID:            id,
		Amount:        amount,
		Description:   description,
		Payload:       result.Payload,
		QRCodeBase64:  result.QRCodeBase64,
		ExternalRef:   result.ExternalID,
		UsingFallback: usingFallback,
	}, now)

	logger.Info(ctx, "charge created",
		zap.String("charge_id", charge.ID),
		zap.String("amount", amount.StringFixed(2)),
		zap.Bool("using_fallback", usingFallback),
	)
	return charge, nil
}

// GetCharge returns the stored record, reconciling a still-pending charge
// against the processor first. Reconciliation failures are logged and the
// last recorded status is returned.
func (u *ChargeUsecase) GetCharge(ctx context.Context, id string) (*entities.Charge, error) {
	charge, err := u.ledger.Get(id)
	if err != nil {
		return nil, err
	}
	if charge.Status != entities.ChargeStatusPending || !charge.ExternalRef.Valid {
		return charge, nil
	}

	status, err := u.processor.FetchStatus(ctx, charge.ExternalRef.String)
	if err != nil {
		logger.Warn(ctx, "status reconciliation failed", zap.String("charge_id", id), zap.Error(err))
		return charge, nil
	}
	updated, err := u.ledger.ApplyStatus(id, status, u.now())
	if err != nil {
		logger.Warn(ctx, "reconciled status not applicable", zap.String("charge_id", id), zap.Error(err))
		return charge, nil
	}
	return updated, nil
}

// Approve is the manual confirmation path.
func (u *ChargeUsecase) Approve(ctx context.Context, id string) (*entities.Charge, error) {
	charge, err := u.ledger.MarkApproved(id, u.now())
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "charge approved", zap.String("charge_id", id))
	return charge, nil
}

// Reject is the manual rejection path.
func (u *ChargeUsecase) Reject(ctx context.Context, id string) (*entities.Charge, error) {
	charge, err := u.ledger.MarkRejected(id, u.now())
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "charge rejected", zap.String("charge_id", id))
	return charge, nil
}

// HandleWebhook processes a processor notification best-effort. It never
// returns an error for unknown payments or inapplicable transitions; those
// are logged so a double-processing bug stays visible.
func (u *ChargeUsecase) HandleWebhook(ctx context.Context, n entities.WebhookNotification) {
	if n.Data.ID == "" {
		logger.Warn(ctx, "webhook without payment id", zap.String("type", n.Type))
		return
	}

	charge, err := u.ledger.GetByExternalRef(n.Data.ID)
	if err != nil {
		logger.Warn(ctx, "webhook for unknown payment", zap.String("external_ref", n.Data.ID))
		return
	}

	// Trust the processor, not the notification body: fetch the status
	// unless the notification itself carries one (mock/test path).
	status := processor.MapStatus(n.Status)
	if n.Status == "" {
		status, err = u.processor.FetchStatus(ctx, n.Data.ID)
		if err != nil {
			logger.Warn(ctx, "webhook reconciliation failed", zap.String("external_ref", n.Data.ID), zap.Error(err))
			return
		}
	}

	if _, err := u.ledger.ApplyStatus(charge.ID, status, u.now()); err != nil {
		logger.Warn(ctx, "webhook transition rejected",
			zap.String("charge_id", charge.ID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return
	}
	logger.Info(ctx, "webhook applied", zap.String("charge_id", charge.ID), zap.String("status", string(status)))
}

// Stats summarizes the ledger for the debug endpoint.
func (u *ChargeUsecase) Stats(_ context.Context) (entities.ChargeStats, time.Duration) {
	return u.ledger.Stats(), time.Since(u.startedAt)
}

func (u *ChargeUsecase) validateAmount(amount decimal.Decimal) error {
	if amount.Exponent() < -2 {
		return fmt.Errorf("%w: more than 2 decimal digits", domainerrors.ErrInvalidAmount)
	}
	if amount.LessThan(u.minAmount) {
		return fmt.Errorf("%w: minimum is %s", domainerrors.ErrInvalidAmount, u.minAmount.StringFixed(2))
	}
	if amount.GreaterThan(u.maxAmount) {
		return fmt.Errorf("%w: maximum is %s", domainerrors.ErrInvalidAmount, u.maxAmount.StringFixed(2))
	}
	return nil
}

// referenceLabel derives the payload reference from the charge id, bounded
// by the 25-char EMV field.
func referenceLabel(id string) string {
	if len(id) > 25 {
		return id[:25]
	}
	return id
}
