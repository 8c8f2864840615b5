package grades

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tmbot/models"
)

// MockGradesService mocks the trader-grade lookup used by the Discord usecase
type MockGradesService struct {
	mock.Mock
}

func (m *MockGradesService) Fetch(ctx context.Context, symbol string) models.FetchResult {
	args := m.Called(ctx, symbol)
	return args.Get(0).(models.FetchResult)
}
