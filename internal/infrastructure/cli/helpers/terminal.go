package helpers

import (
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether stdin is attached to a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// OutputIsTerminal reports whether stdout is attached to a terminal.
func OutputIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ReadSecret reads a line without echo when stdin is a terminal.
// The boolean is false when echo could not be disabled and the caller should read normally.
func ReadSecret() (string, bool, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", false, nil
	}
	raw, err := term.ReadPassword(fd)
	if err != nil {
		return "", true, err
	}
	return string(raw), true, nil
}
