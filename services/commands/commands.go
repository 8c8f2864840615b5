package commands

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"tmbot/models"
	"tmbot/utils"
)

// DefaultRegistry returns the fixed command set in match order
func DefaultRegistry() []models.Command {
	return []models.Command{
		{
			Kind:             models.CommandKindPrice,
			Keyword:          "!price",
			RequiresArgument: true,
			UsageHint:        "Please specify a token symbol: `!price BTC`",
			HelpLabel:        "!price [symbol]",
			Description:      "Get TokenMetrics trader grade and market data",
			Color:            models.ColorGreen,
			NotFoundMessage:  "❌ Could not find data for %s",
		},
		{
			Kind:             models.CommandKindAnalysis,
			Keyword:          "!analysis",
			RequiresArgument: true,
			UsageHint:        "Please specify a token symbol: `!analysis BTC`",
			HelpLabel:        "!analysis [symbol]",
			Description:      "Get detailed TokenMetrics analysis with all grades",
			Color:            models.ColorOrange,
			NotFoundMessage:  "❌ Could not find analysis for %s",
		},
		{
			Kind:        models.CommandKindHelp,
			Keyword:     "!help",
			HelpLabel:   "!help",
			Description: "Show this help message",
			Color:       models.ColorBlue,
		},
	}
}

// CommandRouter matches message bodies against a read-only command registry
type CommandRouter struct {
	registry []models.Command
}

// NewCommandRouter panics if one keyword is a prefix of another, since the
// first-match walk would then depend on registry order
func NewCommandRouter(registry []models.Command) *CommandRouter {
	for i, a := range registry {
		utils.AssertInvariant(a.Keyword != "", "command keyword cannot be empty")
		for j, b := range registry {
			if i != j {
				utils.AssertInvariant(!strings.HasPrefix(a.Keyword, b.Keyword), "keyword "+b.Keyword+" is a prefix of "+a.Keyword)
			}
		}
	}

	owned := make([]models.Command, len(registry))
	copy(owned, registry)
	return &CommandRouter{registry: owned}
}

// Commands returns a copy of the registry in match order
func (r *CommandRouter) Commands() []models.Command {
	out := make([]models.Command, len(r.registry))
	copy(out, r.registry)
	return out
}

// Match is pure: it performs no I/O and depends only on text and the registry
func (r *CommandRouter) Match(text string) models.RouteOutcome {
	for _, cmd := range r.registry {
		if !cmd.RequiresArgument {
			if text == cmd.Keyword {
				return models.Matched(cmd, "")
			}
			continue
		}

		rest, ok := matchKeyword(text, cmd.Keyword)
		if !ok {
			continue
		}

		symbol := utils.FirstToken(rest)
		if symbol == "" {
			return models.MissingArgument(cmd)
		}
		return models.Matched(cmd, strings.ToUpper(symbol))
	}

	return models.NoMatch()
}

// matchKeyword accepts the bare keyword or the keyword followed by whitespace
func matchKeyword(text, keyword string) (string, bool) {
	if !strings.HasPrefix(text, keyword) {
		return "", false
	}

	rest := text[len(keyword):]
	if rest == "" {
		return "", true
	}

	next, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsSpace(next) {
		return "", false
	}
	return rest, true
}
