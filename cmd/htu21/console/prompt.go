package console

import (
	"strings"

	"github.com/chzyer/readline"
)

// Confirm asks a yes/no question; an empty answer selects def.
func Confirm(question string, def bool) (bool, error) {
	hint := " [y/N]: "
	if def {
		hint = " [Y/n]: "
	}
	rl, err := readline.New(question + hint)
	if err != nil {
		return false, err
	}
	defer func() { _ = rl.Close() }()
	response, err := rl.Readline()
	if err != nil {
		return false, err
	}
	return parseAnswer(response, def), nil
}

// parseAnswer falls back to def for anything that is not a clear yes or no.
func parseAnswer(response string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}
