package formatter

import (
	"fmt"
	"time"

	"github.com/samber/mo"
	"github.com/shopspring/decimal"

	"tmbot/models"
)

const (
	NotAvailable = "N/A"

	helpTitle  = "🤖 Crypto Bot Commands"
	helpFooter = "Powered by TokenMetrics API - Basic Plan"
	dateLayout = "1/2/2006"

	// maxSymbolRunes caps how much of a user-typed symbol is echoed back.
	// Discord rejects titles over 256 characters and messages over 2000.
	maxSymbolRunes = 32
)

// ResponseFormatter turns routing and fetch results into replies. It performs no I/O;
// the only impure input is the clock used for embed timestamps.
type ResponseFormatter struct {
	commands []models.Command
	now      func() time.Time
}

// NewResponseFormatter builds a formatter whose help embed lists commands in order
func NewResponseFormatter(commands []models.Command, now func() time.Time) *ResponseFormatter {
	if now == nil {
		now = time.Now
	}
	owned := make([]models.Command, len(commands))
	copy(owned, commands)
	return &ResponseFormatter{commands: owned, now: now}
}

// Render maps an outcome and an optional fetch result to a reply.
// Failures and empty results share the not-found text on purpose; the cause is only logged.
func (f *ResponseFormatter) Render(outcome models.RouteOutcome, fetch mo.Option[models.FetchResult]) models.ReplyAction {
	switch outcome.Kind {
	case models.RouteMissingArgument:
		return models.ReplyText(outcome.Command.UsageHint)
	case models.RouteMatched:
	default:
		return models.ReplyNone()
	}

	if !outcome.Command.RequiresArgument {
		return models.ReplyEmbed(f.RenderHelp())
	}

	first := mo.None[models.GradeRecord]()
	if result, present := fetch.Get(); present {
		first = result.First()
	}
	record, ok := first.Get()
	if !ok {
		return models.ReplyText(fmt.Sprintf(outcome.Command.NotFoundMessage, displaySymbol(outcome.Symbol)))
	}

	return models.ReplyEmbed(f.renderGrades(outcome.Command, outcome.Symbol, record))
}

// RenderHelp returns the static help embed. It has no timestamp so repeated renders are identical.
func (f *ResponseFormatter) RenderHelp() models.DisplayPayload {
	fields := make([]models.EmbedField, 0, len(f.commands))
	for _, cmd := range f.commands {
		fields = append(fields, models.EmbedField{
			Name:   cmd.HelpLabel,
			Value:  cmd.Description,
			Inline: false,
		})
	}

	return models.DisplayPayload{
		Title:     helpTitle,
		Color:     models.ColorBlue,
		Fields:    fields,
		Footer:    mo.Some(helpFooter),
		Timestamp: mo.None[time.Time](),
	}
}

func (f *ResponseFormatter) renderGrades(cmd models.Command, symbol string, record models.GradeRecord) models.DisplayPayload {
	return models.DisplayPayload{
		Title: fmt.Sprintf("%s TokenMetrics Analysis", displaySymbol(symbol)),
		Color: cmd.Color,
		Fields: []models.EmbedField{
			{Name: "TM Trader Grade", Value: formatNumber(record.TraderGrade, "/100"), Inline: true},
			{Name: "TA Grade", Value: formatNumber(record.TAGrade, "/100"), Inline: true},
			{Name: "Quant Grade", Value: formatNumber(record.QuantGrade, "/100"), Inline: true},
			{Name: "24h Change", Value: formatNumber(record.PctChange24h, "%"), Inline: true},
			{Name: "Token Name", Value: record.TokenName.OrElse(NotAvailable), Inline: true},
			{Name: "Date", Value: formatDate(record.Date), Inline: true},
		},
		Footer:    mo.None[string](),
		Timestamp: mo.Some(f.now()),
	}
}

// displaySymbol truncates an overlong symbol to maxSymbolRunes, marking the cut with an ellipsis
func displaySymbol(symbol string) string {
	runes := []rune(symbol)
	if len(runes) <= maxSymbolRunes {
		return symbol
	}
	return string(runes[:maxSymbolRunes]) + "…"
}

// formatNumber prints the shortest decimal form (78, 3.2) followed by suffix, or N/A with no suffix
func formatNumber(value mo.Option[float64], suffix string) string {
	v, ok := value.Get()
	if !ok {
		return NotAvailable
	}
	return decimal.NewFromFloat(v).String() + suffix
}

func formatDate(value mo.Option[time.Time]) string {
	d, ok := value.Get()
	if !ok {
		return NotAvailable
	}
	return d.UTC().Format(dateLayout)
}
