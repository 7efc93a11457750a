package helpers

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PromptForString prompts for a value, returning defaultValue on empty input.
func PromptForString(out io.Writer, reader *bufio.Reader, promptText, defaultValue string) string {
	if defaultValue != "" {
		fmt.Fprintf(out, "%s [%s]: ", promptText, defaultValue)
	} else {
		fmt.Fprintf(out, "%s: ", promptText)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)

	if line == "" {
		return defaultValue
	}
	return line
}

// PromptForSecret shows only a masked hint of the current value and, when hide
// is set, reads without echo. Empty input keeps current.
func PromptForSecret(out io.Writer, reader *bufio.Reader, promptText, current, hint string, hide bool) string {
	if hint != "" {
		fmt.Fprintf(out, "%s [%s]: ", promptText, hint)
	} else {
		fmt.Fprintf(out, "%s: ", promptText)
	}

	var secret string
	hidden := false
	if hide {
		var err error
		secret, hidden, err = ReadSecret()
		if hidden {
			fmt.Fprintln(out)
		}
		if err != nil {
			hidden = false
		}
	}
	if !hidden {
		secret, _ = reader.ReadString('\n')
	}
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return current
	}
	return secret
}

// PromptForYesNo prompts the user for a yes/no question, returning the default on empty input.
func PromptForYesNo(out io.Writer, reader *bufio.Reader, promptText string, defaultValue bool) bool {
	fmt.Fprintf(out, "%s [%s]: ", promptText, buildYesNoLabel(defaultValue))

	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))

	if line == "" {
		return defaultValue
	}
	return isAffirmativeResponse(line)
}

func buildYesNoLabel(defaultIsYes bool) string {
	if defaultIsYes {
		return "Y/n"
	}
	return "y/N"
}

func isAffirmativeResponse(response string) bool {
	return response == "y" || response == "yes"
}
