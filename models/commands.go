package models

// CommandKind identifies which handler a registry entry dispatches to
type CommandKind string

const (
	CommandKindPrice    CommandKind = "price"
	CommandKindAnalysis CommandKind = "analysis"
	CommandKindHelp     CommandKind = "help"
)

// Command is an immutable registry entry describing one chat command
type Command struct {
	Kind             CommandKind
	Keyword          string
	RequiresArgument bool
	// UsageHint is sent when an argument-taking command arrives without one
	UsageHint string
	// HelpLabel and Description make up the command's line in the help embed
	HelpLabel   string
	Description string
	Color       ColorTag
	// NotFoundMessage is a format string taking the upper-cased symbol
	NotFoundMessage string
}

type RouteKind int

const (
	RouteNoMatch RouteKind = iota
	RouteMissingArgument
	RouteMatched
)

func (k RouteKind) String() string {
	switch k {
	case RouteMissingArgument:
		return "missing_argument"
	case RouteMatched:
		return "matched"
	default:
		return "no_match"
	}
}

// RouteOutcome is the result of matching a message body against the command registry.
// Command is zero for RouteNoMatch; Symbol is only set for a matched argument-taking command.
type RouteOutcome struct {
	Kind    RouteKind
	Command Command
	Symbol  string
}

func NoMatch() RouteOutcome {
	return RouteOutcome{Kind: RouteNoMatch}
}

func MissingArgument(cmd Command) RouteOutcome {
	return RouteOutcome{Kind: RouteMissingArgument, Command: cmd}
}

func Matched(cmd Command, symbol string) RouteOutcome {
	return RouteOutcome{Kind: RouteMatched, Command: cmd, Symbol: symbol}
}
