package output

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsStderrTTY reports whether stderr is a terminal. Colored diffs and log
// styling follow it.
func IsStderrTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
