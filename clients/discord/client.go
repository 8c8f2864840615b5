package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"tmbot/clients"
	"tmbot/models"
)

// messageSender is the slice of *discordgo.Session the reply sink needs
type messageSender interface {
	ChannelMessageSendComplex(
		channelID string,
		data *discordgo.MessageSend,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
}

// DiscordClient implements the clients.DiscordClient interface on top of a discordgo session
type DiscordClient struct {
	sender messageSender
}

// NewDiscordClient wraps an open discordgo session (or anything that can send messages)
func NewDiscordClient(sender messageSender) clients.DiscordClient {
	return &DiscordClient{sender: sender}
}

// Reply answers the originating message. A ReplyKindNone action sends nothing.
func (c *DiscordClient) Reply(
	ctx context.Context,
	event models.DiscordMessageEvent,
	action models.ReplyAction,
) error {
	if action.Kind == models.ReplyKindNone {
		return nil
	}

	send := &discordgo.MessageSend{
		Reference: &discordgo.MessageReference{
			MessageID: event.MessageID,
			ChannelID: event.ChannelID,
			GuildID:   event.GuildID,
		},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			RepliedUser: true,
		},
	}

	switch action.Kind {
	case models.ReplyKindText:
		send.Content = action.Text
	case models.ReplyKindEmbed:
		send.Embeds = []*discordgo.MessageEmbed{ToMessageEmbed(action.Embed)}
	default:
		return fmt.Errorf("unsupported reply kind: %s", action.Kind)
	}

	_, err := c.sender.ChannelMessageSendComplex(event.ChannelID, send, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send Discord reply to message %s: %w", event.MessageID, err)
	}
	return nil
}

// ToMessageEmbed converts a DisplayPayload into discordgo's embed shape
func ToMessageEmbed(payload models.DisplayPayload) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(payload.Fields))
	for _, field := range payload.Fields {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   field.Name,
			Value:  field.Value,
			Inline: field.Inline,
		})
	}

	embed := &discordgo.MessageEmbed{
		Type:   discordgo.EmbedTypeRich,
		Title:  payload.Title,
		Color:  payload.Color.Int(),
		Fields: fields,
	}
	if footer, ok := payload.Footer.Get(); ok {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: footer}
	}
	if ts, ok := payload.Timestamp.Get(); ok {
		embed.Timestamp = ts.UTC().Format(time.RFC3339)
	}
	return embed
}
