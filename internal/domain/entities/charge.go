package entities

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// ChargeStatus represents the lifecycle state of a PIX charge
type ChargeStatus string

const (
	ChargeStatusPending  ChargeStatus = "pending"
	ChargeStatusApproved ChargeStatus = "approved"
	ChargeStatusRejected ChargeStatus = "rejected"
	ChargeStatusExpired  ChargeStatus = "expired"
)

// Terminal reports whether no further transition is allowed out of s.
func (s ChargeStatus) Terminal() bool {
	return s == ChargeStatusApproved || s == ChargeStatusRejected || s == ChargeStatusExpired
}

// Charge represents a PIX charge held by the ledger
type Charge struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	Payload       string          `json:"payload"`
	QRCodeBase64  string          `json:"qrCodeBase64,omitempty"`
	Status        ChargeStatus    `json:"status"`
	ExternalRef   null.String     `json:"externalRef,omitempty"`
	UsingFallback bool            `json:"usingFallback,omitempty"`
	ApprovedAt    null.Time       `json:"approvedAt,omitempty"`
	ExpiresAt     time.Time       `json:"expiresAt"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Clone returns a copy safe to hand out while the ledger keeps mutating
// the original.
func (c *Charge) Clone() *Charge {
	cp := *c
	return &cp
}

// ChargeStats summarizes ledger contents for the debug endpoint
type ChargeStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Expired  int `json:"expired"`
}

// WebhookNotification is the processor-defined callback body. Mercado Pago
// sends {"type":"payment","data":{"id":"..."}}; the status field only
// appears on mock/test notifications.
type WebhookNotification struct {
	Type   string `json:"type"`
	Status string `json:"status,omitempty"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}
