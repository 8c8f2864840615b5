package discord

import (
	"context"
	"fmt"

	"github.com/samber/mo"

	"tmbot/appctx"
	"tmbot/clients"
	"tmbot/core"
	"tmbot/core/log"
	"tmbot/metrics"
	"tmbot/models"
)

// CommandRouter matches a message body against the command registry
type CommandRouter interface {
	Match(text string) models.RouteOutcome
}

// GradesFetcher performs a single trader-grade lookup
type GradesFetcher interface {
	Fetch(ctx context.Context, symbol string) models.FetchResult
}

// ResponseFormatter renders routing and fetch results
type ResponseFormatter interface {
	Render(outcome models.RouteOutcome, fetch mo.Option[models.FetchResult]) models.ReplyAction
}

// DiscordUseCase composes routing, fetching, formatting and sending for one message
type DiscordUseCase struct {
	router        CommandRouter
	gradesService GradesFetcher
	formatter     ResponseFormatter
	discordClient clients.DiscordClient
	metrics       *metrics.Metrics
}

// NewDiscordUseCase creates a new instance of DiscordUseCase
func NewDiscordUseCase(
	router CommandRouter,
	gradesService GradesFetcher,
	formatter ResponseFormatter,
	discordClient clients.DiscordClient,
	m *metrics.Metrics,
) *DiscordUseCase {
	return &DiscordUseCase{
		router:        router,
		gradesService: gradesService,
		formatter:     formatter,
		discordClient: discordClient,
		metrics:       m,
	}
}

// HandleMessage is the synchronous core of the bot: route, fetch when needed, format.
// It never sends anything.
func (d *DiscordUseCase) HandleMessage(ctx context.Context, event models.DiscordMessageEvent) models.ReplyAction {
	outcome := d.router.Match(event.Content)
	if outcome.Kind == models.RouteNoMatch {
		return models.ReplyNone()
	}

	d.metrics.CommandsTotal.WithLabelValues(string(outcome.Command.Kind), outcome.Kind.String()).Inc()
	log.Info("🤖 Command received",
		"command", outcome.Command.Keyword,
		"outcome", outcome.Kind.String(),
		"symbol", outcome.Symbol,
		"user", event.AuthorID,
		"request_id", appctx.RequestIDOrEmpty(ctx),
	)

	fetch := mo.None[models.FetchResult]()
	if outcome.Kind == models.RouteMatched && outcome.Command.RequiresArgument {
		fetch = mo.Some(d.gradesService.Fetch(ctx, outcome.Symbol))
	}

	return d.formatter.Render(outcome, fetch)
}

// ProcessDiscordMessageEvent handles one inbound message end to end.
// Messages authored by bots, this one included, are ignored.
func (d *DiscordUseCase) ProcessDiscordMessageEvent(ctx context.Context, event models.DiscordMessageEvent) error {
	if event.AuthorIsBot {
		return nil
	}

	if _, ok := appctx.GetRequestID(ctx); !ok {
		ctx = appctx.SetRequestID(ctx, core.NewID("msg"))
	}

	action := d.HandleMessage(ctx, event)
	if action.Kind == models.ReplyKindNone {
		return nil
	}

	if err := d.discordClient.Reply(ctx, event, action); err != nil {
		d.metrics.RepliesTotal.WithLabelValues(action.Kind.String(), "error").Inc()
		return fmt.Errorf("failed to reply in channel %s: %w", event.ChannelID, err)
	}

	d.metrics.RepliesTotal.WithLabelValues(action.Kind.String(), "sent").Inc()
	log.Debug("✅ Reply sent",
		"kind", action.Kind.String(),
		"channel", event.ChannelID,
		"request_id", appctx.RequestIDOrEmpty(ctx),
	)
	return nil
}
