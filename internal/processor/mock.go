package processor

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"pix-charge.backend/internal/domain/entities"
	"pix-charge.backend/internal/pix"
)

// mockQRCodeBase64 is a 1x1 placeholder image, enough for clients that
// render the base64 field directly.
const mockQRCodeBase64 = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

const mockIDPrefix = "mock-"

// Mock generates charges locally with a real, scannable payload built from
// the configured merchant identity. AutoApproveAfter is an explicit
// test-support knob: when non-zero, FetchStatus reports a charge approved
// once it is older than the window. It defaults to zero (never).
type Mock struct {
	MerchantKey  string
	MerchantName string
	MerchantCity string

	AutoApproveAfter time.Duration

	now func() time.Time
}

// NewMock creates a mock processor for the given merchant identity.
func NewMock(key, name, city string, autoApproveAfter time.Duration) *Mock {
	return &Mock{
		MerchantKey:      key,
		MerchantName:     name,
		MerchantCity:     city,
		AutoApproveAfter: autoApproveAfter,
		now:              time.Now,
	}
}

// Submit builds a pending charge entirely locally.
func (m *Mock) Submit(_ context.Context, in SubmitInput) (*SubmitResult, error) {
	payload, err := pix.BuildPayload(in.Amount, m.MerchantKey, m.MerchantName, m.MerchantCity, in.ReferenceLabel)
	if err != nil {
		return nil, err
	}

	return &SubmitResult{
		ExternalID:   newMockID(m.now()),
		Payload:      payload,
		QRCodeBase64: mockQRCodeBase64,
		Status:       entities.ChargeStatusPending,
	}, nil
}

// FetchStatus reports pending unless auto-approval is enabled and the
// charge's embedded timestamp is old enough.
func (m *Mock) FetchStatus(_ context.Context, externalID string) (entities.ChargeStatus, error) {
	if m.AutoApproveAfter <= 0 {
		return entities.ChargeStatusPending, nil
	}

	createdAt, ok := mockIDTime(externalID)
	if !ok {
		return entities.ChargeStatusPending, nil
	}
	if m.now().Sub(createdAt) >= m.AutoApproveAfter {
		return entities.ChargeStatusApproved, nil
	}
	return entities.ChargeStatusPending, nil
}

func newMockID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return mockIDPrefix + strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix
}

func mockIDTime(id string) (time.Time, bool) {
	rest, ok := strings.CutPrefix(id, mockIDPrefix)
	if !ok {
		return time.Time{}, false
	}
	millisPart, _, ok := strings.Cut(rest, "-")
	if !ok {
		return time.Time{}, false
	}
	millis, err := strconv.ParseInt(millisPart, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(millis), true
}
