package discord

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tmbot/models"
)

// MockDiscordClient implements the clients.DiscordClient interface for testing
type MockDiscordClient struct {
	mock.Mock
}

func (m *MockDiscordClient) Reply(
	ctx context.Context,
	event models.DiscordMessageEvent,
	action models.ReplyAction,
) error {
	args := m.Called(ctx, event, action)
	return args.Error(0)
}
