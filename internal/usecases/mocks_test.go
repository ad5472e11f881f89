package usecases_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pix-charge.backend/internal/domain/entities"
	"pix-charge.backend/internal/processor"
)

// MockProcessor is a testify mock of the external processor contract.
type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) Submit(ctx context.Context, in processor.SubmitInput) (*processor.SubmitResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*processor.SubmitResult), args.Error(1)
}

func (m *MockProcessor) FetchStatus(ctx context.Context, externalID string) (entities.ChargeStatus, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(entities.ChargeStatus), args.Error(1)
}
