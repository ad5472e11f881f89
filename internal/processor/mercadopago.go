package processor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"

	"pix-charge.backend/internal/domain/entities"
	domainerrors "pix-charge.backend/internal/domain/errors"
)

const (
	defaultPayerEmail = "pagador@pix.example.com"
	maxDescriptionLen = 230
)

// MercadoPago originates PIX charges through the Mercado Pago payments API.
type MercadoPago struct {
	client          payment.Client
	notificationURL string
}

// NewMercadoPago builds the SDK client from an access token.
func NewMercadoPago(accessToken, notificationURL string) (*MercadoPago, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: missing access token", domainerrors.ErrProcessorUnavailable)
	}
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("creating mercado pago config: %w", err)
	}
	return &MercadoPago{
		client:          payment.NewClient(cfg),
		notificationURL: notificationURL,
	}, nil
}

// Submit originates a PIX charge at the provider and extracts the scannable
// payload from its response.
func (p *MercadoPago) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	description := in.Description
	if len(description) > maxDescriptionLen {
		description = description[:maxDescriptionLen]
	}
	email := in.PayerEmail
	if email == "" {
		email = defaultPayerEmail
	}

	amount, _ := in.Amount.Float64()
	req := payment.Request{
		TransactionAmount: amount,
		Description:       description,
		PaymentMethodID:   "pix",
		NotificationURL:   p.notificationURL,
		Payer: &payment.PayerRequest{
			Email:     email,
			FirstName: firstName(in.PayerName),
			LastName:  lastName(in.PayerName),
		},
	}

	resp, err := p.client.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: create payment: %v", domainerrors.ErrProcessorUnavailable, err)
	}

	result := &SubmitResult{
		ExternalID: strconv.Itoa(resp.ID),
		Status:     MapStatus(resp.Status),
	}
	tx := resp.PointOfInteraction.TransactionData
	result.Payload = tx.QRCode
	result.QRCodeBase64 = tx.QRCodeBase64
	result.TicketURL = tx.TicketURL
	if result.Payload == "" {
		return nil, fmt.Errorf("%w: response carried no qr_code", domainerrors.ErrProcessorUnavailable)
	}
	return result, nil
}

// FetchStatus reconciles a charge against the provider.
func (p *MercadoPago) FetchStatus(ctx context.Context, externalID string) (entities.ChargeStatus, error) {
	id, err := strconv.Atoi(externalID)
	if err != nil {
		return "", fmt.Errorf("%w: non-numeric payment id %q", domainerrors.ErrProcessorUnavailable, externalID)
	}
	resp, err := p.client.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%w: get payment: %v", domainerrors.ErrProcessorUnavailable, err)
	}
	return MapStatus(resp.Status), nil
}

func firstName(full string) string {
	if full == "" {
		return "Pagador"
	}
	name, _, _ := strings.Cut(full, " ")
	return name
}

func lastName(full string) string {
	_, rest, found := strings.Cut(full, " ")
	if !found || rest == "" {
		return "PIX"
	}
	return rest
}
