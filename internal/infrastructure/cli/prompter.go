package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/doeshing/aish/internal/ports"
)

// Prompter implements ports.Confirmer using stdin/stdout.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter constructs a prompter referencing stdio when in or out is nil.
// A *bufio.Reader is used as is so earlier readers of the same input keep
// their buffered bytes available to the prompter.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	reader, ok := in.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(in)
	}
	return &Prompter{
		in:  reader,
		out: out,
	}
}

// Confirm asks a yes/no question. An empty answer or end of input selects defaultYes.
func (p *Prompter) Confirm(question string, defaultYes bool) (bool, error) {
	label := "y/N"
	if defaultYes {
		label = "Y/n"
	}
	fmt.Fprintf(p.out, "%s [%s]: ", question, label)

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(p.out)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return defaultYes, nil
	case "y", "yes", "是":
		return true, nil
	default:
		return false, nil
	}
}

var _ ports.Confirmer = (*Prompter)(nil)
