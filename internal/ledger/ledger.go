// Package ledger owns the in-memory charge store and its state machine.
package ledger

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"pix-charge.backend/internal/domain/entities"
	domainerrors "pix-charge.backend/internal/domain/errors"
)

// Ledger is the single owner of the charge map. All transitions are
// atomic check-and-set steps under the mutex, so a handler-driven
// approval can never be clobbered by a sweep computed from a stale
// snapshot.
type Ledger struct {
	mu      sync.RWMutex
	charges map[string]*entities.Charge
	byRef   map[string]string // external ref -> charge id

	ttl       time.Duration
	retention time.Duration
}

// New creates an empty ledger. ttl bounds how long a charge stays
// payable; retention bounds how long any record is kept at all.
func New(ttl, retention time.Duration) *Ledger {
	return &Ledger{
		charges:   make(map[string]*entities.Charge),
		byRef:     make(map[string]string),
		ttl:       ttl,
		retention: retention,
	}
}

// NewChargeID generates a process-unique charge id: millisecond prefix for
// rough ordering, UUID suffix for uniqueness.
func NewChargeID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + uuid.NewString()
}

// CreateInput carries everything needed to insert a pending charge. ID is
// optional; callers that need the id ahead of insertion (the payload embeds
// it as reference label) generate one via NewChargeID.
type CreateInput struct {
	ID            string
	Amount        decimal.Decimal
	Description   string
	Payload       string
	QRCodeBase64  string
	ExternalRef   string
	UsingFallback bool
}

// Create inserts a new pending charge and returns a copy of it.
func (l *Ledger) Create(in CreateInput, now time.Time) *entities.Charge {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := in.ID
	if id == "" {
		id = NewChargeID(now)
	}
	for {
		if _, exists := l.charges[id]; !exists {
			break
		}
		id = NewChargeID(now)
	}

	charge := &entities.Charge{
		ID:            id,
		Amount:        in.Amount,
		Description:   in.Description,
		Payload:       in.Payload,
		QRCodeBase64:  in.QRCodeBase64,
		Status:        entities.ChargeStatusPending,
		UsingFallback: in.UsingFallback,
		ExpiresAt:     now.Add(l.ttl),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.ExternalRef != "" {
		charge.ExternalRef = null.StringFrom(in.ExternalRef)
		l.byRef[in.ExternalRef] = id
	}
	l.charges[id] = charge
	return charge.Clone()
}

// Get returns a copy of the stored charge.
func (l *Ledger) Get(id string) (*entities.Charge, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	charge, ok := l.charges[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return charge.Clone(), nil
}

// GetByExternalRef resolves a processor-side payment id to the local charge.
func (l *Ledger) GetByExternalRef(ref string) (*entities.Charge, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	id, ok := l.byRef[ref]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	charge, ok := l.charges[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return charge.Clone(), nil
}

// MarkApproved transitions a pending charge to approved. Repeated calls on
// an approved charge are a no-op returning the stored record; calls on a
// rejected or expired charge fail with ErrInvalidTransition.
func (l *Ledger) MarkApproved(id string, now time.Time) (*entities.Charge, error) {
	return l.transition(id, entities.ChargeStatusApproved, now)
}

// MarkRejected is symmetric to MarkApproved; only valid from pending.
func (l *Ledger) MarkRejected(id string, now time.Time) (*entities.Charge, error) {
	return l.transition(id, entities.ChargeStatusRejected, now)
}

// ApplyStatus records an externally observed status. Pending reports are a
// no-op; terminal reports go through the same transition rules as the
// manual endpoints.
func (l *Ledger) ApplyStatus(id string, status entities.ChargeStatus, now time.Time) (*entities.Charge, error) {
	if status == entities.ChargeStatusPending {
		return l.Get(id)
	}
	return l.transition(id, status, now)
}

func (l *Ledger) transition(id string, target entities.ChargeStatus, now time.Time) (*entities.Charge, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	charge, ok := l.charges[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	if charge.Status == target {
		// idempotent repeat of a transition that already happened
		return charge.Clone(), nil
	}
	if charge.Status.Terminal() {
		return nil, domainerrors.ErrInvalidTransition
	}

	charge.Status = target
	charge.UpdatedAt = now
	if target == entities.ChargeStatusApproved {
		charge.ApprovedAt = null.TimeFrom(now)
	}
	return charge.Clone(), nil
}

// SweepExpired expires pending charges past their deadline and deletes any
// record older than the retention window, regardless of status. Returns the
// number of charges expired and deleted.
func (l *Ledger) SweepExpired(now time.Time) (expired, deleted int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id, charge := range l.charges {
		if now.Sub(charge.CreatedAt) > l.retention {
			if charge.ExternalRef.Valid {
				delete(l.byRef, charge.ExternalRef.String)
			}
			delete(l.charges, id)
			deleted++
			continue
		}
		if charge.Status == entities.ChargeStatusPending && now.After(charge.ExpiresAt) {
			charge.Status = entities.ChargeStatusExpired
			charge.UpdatedAt = now
			expired++
		}
	}
	return expired, deleted
}

// Stats counts charges per status.
func (l *Ledger) Stats() entities.ChargeStats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s := entities.ChargeStats{Total: len(l.charges)}
	for _, charge := range l.charges {
		switch charge.Status {
		case entities.ChargeStatusPending:
			s.Pending++
		case entities.ChargeStatusApproved:
			s.Approved++
		case entities.ChargeStatusRejected:
			s.Rejected++
		case entities.ChargeStatusExpired:
			s.Expired++
		}
	}
	return s
}
