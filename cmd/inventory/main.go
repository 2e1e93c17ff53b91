package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"stockledger/internal/config"
	"stockledger/internal/inventory"
	"stockledger/internal/logging"
	"stockledger/internal/shell"
	"stockledger/internal/store"
	boltstore "stockledger/internal/store/bolt"
	"stockledger/internal/store/jsonfile"

	"golang.org/x/term"
)

var mainlog = logging.For("main")

func main() {
	configPath := flag.String("config", "", "path to config file (default inventory.toml if present)")
	dataPath := flag.String("data", "", "snapshot path (overrides config)")
	backend := flag.String("backend", "", "storage backend: json or bolt (overrides config)")
	logFile := flag.String("log-file", "", "diagnostic log file (overrides config)")
	logLevel := flag.String("log-level", "", "log level (overrides config)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [demo|shell]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// Load config (TOML file with defaults)
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// CLI flags override config file values
	if *dataPath != "" {
		cfg.Storage.Path = *dataPath
	}
	if *backend != "" {
		cfg.Storage.Backend = *backend
	}
	if *logFile != "" {
		cfg.Logging.File = *logFile
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	cfg.Storage.Path = config.ExpandHome(cfg.Storage.Path)
	cfg.Logging.File = config.ExpandHome(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logCloser, err := logging.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer logCloser.Close()

	st, err := openStore(cfg.Storage)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	inv := inventory.New(st, inventory.WithThreshold(cfg.Ledger.LowStockThreshold))
	defer inv.Close()

	mode := "demo"
	if flag.NArg() > 0 {
		mode = flag.Arg(0)
	}
	switch mode {
	case "demo":
		runDemo(inv, os.Stdout)
	case "shell":
		if err := runShell(inv); err != nil {
			log.Printf("shell: %v", err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func openStore(cfg config.StorageConfig) (store.Store, error) {
	if cfg.Backend == config.BackendBolt {
		return boltstore.Open(cfg.Path)
	}
	return jsonfile.New(cfg.Path), nil
}

// runDemo exercises the full mutate/persist/report cycle once.
// Failures are already reported to the diagnostic log by the inventory.
func runDemo(inv *inventory.Inventory, out io.Writer) {
	_ = inv.Add("apple", 10)
	_ = inv.Add("banana", 5)
	_ = inv.Add("orange", 2)

	_ = inv.Remove("apple", 3)
	_ = inv.Remove("orange", 1)

	_, _ = fmt.Fprintf(out, "Apple stock: %v\n", inv.Quantity("apple"))
	_, _ = fmt.Fprintf(out, "Low items: %v\n", inv.LowStock())

	_ = inv.Save()
	_ = inv.Load()
	inv.PrintReport(out)

	mainlog.Info("program execution completed")
}

func runShell(inv *inventory.Inventory) error {
	sh := shell.New(inv)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		sh.Run(struct {
			io.Reader
			io.Writer
		}{shell.LineReader(os.Stdin), os.Stdout})
		return nil
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	sh.Run(struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout})
	return nil
}
