// Package shell is a line-oriented command loop for working with an
// inventory interactively.
package shell

import (
	"fmt"
	"io"
	"strings"

	"stockledger/internal/inventory"
	"stockledger/internal/logging"

	"golang.org/x/term"
)

var shelllog = logging.For("shell")

// Prompt is shown before every input line.
const Prompt = "stock> "

// Shell reads commands from a terminal and applies them to one inventory.
type Shell struct {
	inv      *inventory.Inventory
	commands *CommandRegistry
}

// New creates a shell with the builtin commands registered.
func New(inv *inventory.Inventory) *Shell {
	reg := NewCommandRegistry()
	reg.RegisterBuiltins()
	return &Shell{inv: inv, commands: reg}
}

// Commands returns the registry so callers can add commands before Run.
func (s *Shell) Commands() *CommandRegistry {
	return s.commands
}

// Run reads lines from rw until /quit or end of input.
func (s *Shell) Run(rw io.ReadWriter) {
	terminal := term.NewTerminal(rw, Prompt)

	_, _ = fmt.Fprintln(terminal, "Inventory shell. Type /help for commands.")
	shelllog.Debug("shell started")

	for {
		line, err := terminal.ReadLine()
		if err != nil {
			if err != io.EOF {
				shelllog.Warn("read error", "err", err)
			}
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			_, _ = fmt.Fprintln(terminal, "Commands start with / (try /help)")
			continue
		}
		if s.commands.Dispatch(line, s.inv, terminal) {
			break
		}
	}
	shelllog.Debug("shell stopped")
}

// LineReader adapts newline-terminated input, such as a pipe or file, to
// the carriage returns term.Terminal treats as Enter.
func LineReader(r io.Reader) io.Reader {
	return crReader{r}
}

type crReader struct{ r io.Reader }

func (c crReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	for i := 0; i < n; i++ {
		if p[i] == '\n' {
			p[i] = '\r'
		}
	}
	return n, err
}
