package tokenmetrics

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tmbot/models"
)

// MockTokenMetricsClient implements the clients.TokenMetricsClient interface for testing
type MockTokenMetricsClient struct {
	mock.Mock
}

func (m *MockTokenMetricsClient) GetTraderGrades(
	ctx context.Context,
	query models.GradeQuery,
) ([]models.GradeRecord, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GradeRecord), args.Error(1)
}
