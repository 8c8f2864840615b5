package models

type DiscordMessageEvent struct {
	GuildID   string
	ChannelID string
	MessageID string
	AuthorID  string
	// AuthorIsBot covers this bot's own messages as well as other bots
	AuthorIsBot bool
	Content     string
}
