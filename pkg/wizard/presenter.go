package wizard

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-setupwizard/pkg/download"
	"github.com/go-setupwizard/pkg/installer"
)

// Presenter is the full presentation surface the wizard needs: progress
// labels, a blocking error dialog, and the retry prompt.
type Presenter interface {
	installer.Presenter
	download.RetryPrompter
}

// ConsolePresenter renders the wizard's progress and prompts on a terminal.
// Progress labels and errors go to out; the retry prompt reads a y/N answer
// from in.
type ConsolePresenter struct {
	out io.Writer
	in  *bufio.Reader
}

// NewConsolePresenter creates a presenter on stderr/stdin
func NewConsolePresenter() *ConsolePresenter {
	return NewConsolePresenterIO(os.Stderr, os.Stdin)
}

// NewConsolePresenterIO creates a presenter on explicit streams
func NewConsolePresenterIO(out io.Writer, in io.Reader) *ConsolePresenter {
	return &ConsolePresenter{
		out: out,
		in:  bufio.NewReader(in),
	}
}

func (p *ConsolePresenter) ShowProgress(label string) {
	fmt.Fprintf(p.out, "... %s\n", label)
}

// HideProgress is a no-op on a terminal; labels scroll away on their own.
func (p *ConsolePresenter) HideProgress() {}

func (p *ConsolePresenter) ShowBlockingError(text string) {
	fmt.Fprintf(p.out, "\nERROR: %s\n", text)
}

// PromptRetry asks the user whether to retry. Anything other than an
// explicit yes, including a closed stdin, means no.
func (p *ConsolePresenter) PromptRetry(message string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", message)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
