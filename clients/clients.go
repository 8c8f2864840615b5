package clients

import (
	"context"

	"tmbot/models"
)

// TokenMetricsClient defines the outbound trader-grades query
type TokenMetricsClient interface {
	GetTraderGrades(ctx context.Context, query models.GradeQuery) ([]models.GradeRecord, error)
}

// DiscordClient is the reply sink: it delivers a reply to the message that triggered it
type DiscordClient interface {
	Reply(ctx context.Context, event models.DiscordMessageEvent, action models.ReplyAction) error
}
