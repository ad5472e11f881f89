// Package processor abstracts the external payment provider behind the two
// capabilities the ledger needs: originating a charge and reconciling its
// status.
package processor

import (
	"context"

	"github.com/shopspring/decimal"

	"pix-charge.backend/internal/domain/entities"
)

// SubmitInput carries a charge origination request.
type SubmitInput struct {
	Amount         decimal.Decimal
	Description    string
	ReferenceLabel string
	PayerEmail     string
	PayerName      string
}

// SubmitResult is what the provider hands back for a new charge.
type SubmitResult struct {
	ExternalID   string
	Payload      string
	QRCodeBase64 string
	TicketURL    string
	Status       entities.ChargeStatus
}

// Processor is the external-collaborator contract. Implementations must map
// provider statuses onto the charge status enum.
type Processor interface {
	Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error)
	FetchStatus(ctx context.Context, externalID string) (entities.ChargeStatus, error)
}

// MapStatus normalizes a provider status string onto the charge enum.
// Unknown statuses stay pending rather than guessing a terminal state.
func MapStatus(provider string) entities.ChargeStatus {
	switch provider {
	case "approved", "accredited":
		return entities.ChargeStatusApproved
	case "rejected", "cancelled", "refunded", "charged_back":
		return entities.ChargeStatusRejected
	default:
		return entities.ChargeStatusPending
	}
}
