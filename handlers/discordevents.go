package handlers

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"tmbot/core/log"
	"tmbot/models"
)

// MessageEventHandler receives every mapped MessageCreate event
type MessageEventHandler func(ctx context.Context, event models.DiscordMessageEvent)

type DiscordEventsHandler struct {
	discordSDKClient *discordgo.Session
	onMessage        MessageEventHandler
}

func NewDiscordEventsHandler(botToken string, onMessage MessageEventHandler) (*DiscordEventsHandler, error) {
	// Create a new Discord session using the provided bot token
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	handler := &DiscordEventsHandler{
		discordSDKClient: session,
		onMessage:        onMessage,
	}

	session.AddHandler(handler.handleMessageCreatedEvent)

	// Message content is a privileged intent and has to be enabled for the bot
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	return handler, nil
}

// Session exposes the underlying discordgo session so replies can reuse it
func (h *DiscordEventsHandler) Session() *discordgo.Session {
	return h.discordSDKClient
}

// StartBot opens the Discord connection and starts listening for events
func (h *DiscordEventsHandler) StartBot() error {
	err := h.discordSDKClient.Open()
	if err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	log.Info("🤖 Discord bot is now running and listening for events")
	return nil
}

// StopBot closes the Discord connection. No events are dispatched afterwards.
func (h *DiscordEventsHandler) StopBot() {
	if err := h.discordSDKClient.Close(); err != nil {
		log.Warn("⚠️ Failed to close Discord session", "error", err)
	}
}

func (h *DiscordEventsHandler) handleMessageCreatedEvent(s *discordgo.Session, m *discordgo.MessageCreate) {
	selfID := ""
	if s.State != nil && s.State.User != nil {
		selfID = s.State.User.ID
	}

	event, ok := mapToDiscordMessageEvent(m, selfID)
	if !ok {
		return
	}
	if event.AuthorIsBot {
		return
	}

	log.Debug("📨 Discord message received",
		"guild", event.GuildID,
		"channel", event.ChannelID,
		"message", event.MessageID,
	)
	h.onMessage(context.Background(), event)
}

// mapToDiscordMessageEvent maps a Discord SDK message event to our domain model.
// Messages written by the bot itself count as bot-authored.
func mapToDiscordMessageEvent(m *discordgo.MessageCreate, selfID string) (models.DiscordMessageEvent, bool) {
	if m == nil || m.Message == nil || m.Author == nil {
		return models.DiscordMessageEvent{}, false
	}

	return models.DiscordMessageEvent{
		GuildID:     m.GuildID,
		ChannelID:   m.ChannelID,
		MessageID:   m.ID,
		AuthorID:    m.Author.ID,
		AuthorIsBot: m.Author.Bot || (selfID != "" && m.Author.ID == selfID),
		Content:     m.Content,
	}, true
}
