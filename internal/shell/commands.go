package shell

import (
	"fmt"
	"strconv"
	"strings"

	"stockledger/internal/inventory"
	"stockledger/internal/ledger"

	"golang.org/x/term"
)

// CommandContext holds the state available to command handlers.
type CommandContext struct {
	Inventory *inventory.Inventory
	Terminal  *term.Terminal
	Args      []string
}

// CommandHandler processes a shell command. Returns true if the shell
// should exit (e.g., /quit).
type CommandHandler func(ctx CommandContext) bool

// Command describes a registered shell command.
type Command struct {
	Usage   string // full usage for help (e.g., "/get <item>"); defaults to command name
	Help    string
	Handler CommandHandler
}

// CommandRegistry maps command names to handlers and produces dynamic help.
type CommandRegistry struct {
	commands map[string]Command
	order    []string // insertion order for stable help output
}

// NewCommandRegistry creates an empty registry.
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[string]Command),
	}
}

// Register adds a command to the registry. The name should include the leading
// slash (e.g., "/quit"). Registering the same name twice overwrites the previous entry.
// Panics if cmd.Handler is nil.
func (r *CommandRegistry) Register(name string, cmd Command) {
	if cmd.Handler == nil {
		panic("shell: Register called with nil handler for " + name)
	}
	if _, exists := r.commands[name]; !exists {
		r.order = append(r.order, name)
	}
	r.commands[name] = cmd
}

// Dispatch parses a command line and calls the matching handler.
// Returns true if the shell should exit.
func (r *CommandRegistry) Dispatch(line string, inv *inventory.Inventory, terminal *term.Terminal) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	name := parts[0]
	args := parts[1:]

	cmd, ok := r.commands[name]
	if !ok {
		_, _ = fmt.Fprintf(terminal, "Unknown command: %s (try /help)\r\n", name)
		return false
	}

	return cmd.Handler(CommandContext{
		Inventory: inv,
		Terminal:  terminal,
		Args:      args,
	})
}

// HelpText returns a formatted help string listing all registered commands
// in registration order.
func (r *CommandRegistry) HelpText() string {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, name := range r.order {
		cmd := r.commands[name]
		display := name
		if cmd.Usage != "" {
			display = cmd.Usage
		}
		_, _ = fmt.Fprintf(&b, "  %-22s %s\n", display, cmd.Help)
	}
	return b.String()
}

// RegisterBuiltins registers the stock commands plus /help and /quit.
func (r *CommandRegistry) RegisterBuiltins() {
	r.Register("/add", Command{
		Usage:   "/add <item> <qty>",
		Help:    "add stock (negative qty decrements)",
		Handler: handleAdd,
	})

	r.Register("/remove", Command{
		Usage:   "/remove <item> <qty>",
		Help:    "remove stock; the item is dropped at zero",
		Handler: handleRemove,
	})

	r.Register("/get", Command{
		Usage:   "/get <item>",
		Help:    "show the quantity of an item",
		Handler: handleGet,
	})

	r.Register("/low", Command{
		Usage:   "/low [threshold]",
		Help:    "list items below the threshold",
		Handler: handleLow,
	})

	r.Register("/report", Command{
		Help: "list every item",
		Handler: func(ctx CommandContext) bool {
			ctx.Inventory.PrintReport(ctx.Terminal)
			return false
		},
	})

	r.Register("/save", Command{
		Help: "write the ledger to the store",
		Handler: func(ctx CommandContext) bool {
			reportResult(ctx.Terminal, "Saved", ctx.Inventory.Save())
			return false
		},
	})

	r.Register("/load", Command{
		Help: "replace the ledger with the stored snapshot",
		Handler: func(ctx CommandContext) bool {
			reportResult(ctx.Terminal, "Loaded", ctx.Inventory.Load())
			return false
		},
	})

	r.Register("/history", Command{
		Usage: "/history [id]",
		Help:  "show mutations recorded this session, or one entry by id",
		Handler: func(ctx CommandContext) bool {
			if len(ctx.Args) > 0 {
				e, err := ctx.Inventory.Journal().Lookup(ctx.Args[0])
				if err != nil {
					_, _ = fmt.Fprintf(ctx.Terminal, "Error: %v\r\n", err)
					return false
				}
				_, _ = fmt.Fprintf(ctx.Terminal, "%s\r\n  id: %s\r\n", e.String(), e.ID)
				return false
			}
			entries := ctx.Inventory.Journal().Entries()
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(ctx.Terminal, "History: (empty)")
				return false
			}
			for _, e := range entries {
				_, _ = fmt.Fprintln(ctx.Terminal, e.String())
			}
			return false
		},
	})

	r.Register("/quit", Command{
		Help: "leave the shell",
		Handler: func(ctx CommandContext) bool {
			_, _ = fmt.Fprintln(ctx.Terminal, "Goodbye.")
			return true
		},
	})

	r.Register("/help", Command{
		Help: "show this help",
		Handler: func(ctx CommandContext) bool {
			_, _ = fmt.Fprint(ctx.Terminal, r.HelpText())
			return false
		},
	})
}

func handleAdd(ctx CommandContext) bool {
	item, qty, ok := itemAndQty(ctx, "/add <item> <qty>")
	if !ok {
		return false
	}
	if err := ctx.Inventory.Add(item, qty); err != nil {
		_, _ = fmt.Fprintf(ctx.Terminal, "Error: %v\r\n", err)
		return false
	}
	_, _ = fmt.Fprintf(ctx.Terminal, "%s = %s\r\n", item, ledger.FormatQuantity(ctx.Inventory.Quantity(item)))
	return false
}

func handleRemove(ctx CommandContext) bool {
	item, qty, ok := itemAndQty(ctx, "/remove <item> <qty>")
	if !ok {
		return false
	}
	if err := ctx.Inventory.Remove(item, qty); err != nil {
		_, _ = fmt.Fprintf(ctx.Terminal, "Error: %v\r\n", err)
		return false
	}
	if !ctx.Inventory.Ledger().Has(item) {
		_, _ = fmt.Fprintf(ctx.Terminal, "%s: removed completely\r\n", item)
		return false
	}
	_, _ = fmt.Fprintf(ctx.Terminal, "%s = %s\r\n", item, ledger.FormatQuantity(ctx.Inventory.Quantity(item)))
	return false
}

func handleGet(ctx CommandContext) bool {
	if len(ctx.Args) == 0 {
		_, _ = fmt.Fprintln(ctx.Terminal, "Usage: /get <item>")
		return false
	}
	item := ctx.Args[0]
	_, _ = fmt.Fprintf(ctx.Terminal, "%s = %s\r\n", item, ledger.FormatQuantity(ctx.Inventory.Quantity(item)))
	return false
}

func handleLow(ctx CommandContext) bool {
	threshold := ctx.Inventory.Threshold()
	if len(ctx.Args) > 0 {
		t, err := strconv.ParseFloat(ctx.Args[0], 64)
		if err != nil {
			_, _ = fmt.Fprintf(ctx.Terminal, "Invalid threshold: %s\r\n", ctx.Args[0])
			return false
		}
		threshold = t
	}
	low := ctx.Inventory.LowStockBelow(threshold)
	if len(low) == 0 {
		_, _ = fmt.Fprintf(ctx.Terminal, "Low items (< %s): none\r\n", ledger.FormatQuantity(threshold))
		return false
	}
	_, _ = fmt.Fprintf(ctx.Terminal, "Low items (< %s): %s\r\n", ledger.FormatQuantity(threshold), strings.Join(low, ", "))
	return false
}

func itemAndQty(ctx CommandContext, usage string) (string, float64, bool) {
	if len(ctx.Args) < 2 {
		_, _ = fmt.Fprintf(ctx.Terminal, "Usage: %s\r\n", usage)
		return "", 0, false
	}
	qty, err := strconv.ParseFloat(ctx.Args[1], 64)
	if err != nil {
		_, _ = fmt.Fprintf(ctx.Terminal, "Invalid quantity: %s\r\n", ctx.Args[1])
		return "", 0, false
	}
	return ctx.Args[0], qty, true
}

func reportResult(terminal *term.Terminal, done string, err error) {
	if err != nil {
		_, _ = fmt.Fprintf(terminal, "Error: %v\r\n", err)
		return
	}
	_, _ = fmt.Fprintln(terminal, done+".")
}
