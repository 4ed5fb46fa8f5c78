package standup

import (
	"regexp"
	"strings"
)

type CommandKind int

const (
	CommandSubmit CommandKind = iota
	CommandSkip
	CommandVacation
	CommandDone
	CommandHelp
	CommandStatus
)

func (k CommandKind) String() string {
	switch k {
	case CommandSkip:
		return "skip"
	case CommandVacation:
		return "vacation"
	case CommandDone:
		return "done"
	case CommandHelp:
		return "help"
	case CommandStatus:
		return "status"
	default:
		return "submit"
	}
}

// Command is a parsed direct message. Date is set for CommandVacation, Text
// for CommandSubmit.
type Command struct {
	Kind CommandKind
	Date string
	Text string
}

var vacationPattern = regexp.MustCompile(`vacation\s+until\s+(\d{4}-\d{2}-\d{2})`)

// ParseCommand classifies DM text. Matching is case-insensitive on trimmed
// text; anything that is not a command is a submission.
func ParseCommand(text string) Command {
	trimmed := strings.ToLower(strings.TrimSpace(text))

	switch trimmed {
	case "skip", "skip today":
		return Command{Kind: CommandSkip}
	case "done":
		return Command{Kind: CommandDone}
	case "help", "?":
		return Command{Kind: CommandHelp}
	case "status":
		return Command{Kind: CommandStatus}
	}

	if m := vacationPattern.FindStringSubmatch(trimmed); m != nil {
		return Command{Kind: CommandVacation, Date: m[1]}
	}
	return Command{Kind: CommandSubmit, Text: text}
}
