// Package inventory ties a ledger to a snapshot store and reports every
// operation outcome to the diagnostic log. Callers get the same error back
// and may act on it or ignore it; nothing here panics or exits.
package inventory

import (
	"errors"
	"fmt"
	"io"

	"stockledger/internal/ledger"
	"stockledger/internal/logging"
	"stockledger/internal/store"
)

var logger = logging.For("inventory")

// Inventory owns one ledger, its journal and the store it is saved to.
type Inventory struct {
	ledger    *ledger.Ledger
	journal   *ledger.Journal
	store     store.Store
	threshold float64
}

// Option customizes an Inventory.
type Option func(*Inventory)

// WithThreshold sets the default low-stock threshold.
func WithThreshold(t float64) Option {
	return func(inv *Inventory) { inv.threshold = t }
}

// WithJournal makes Add append to j instead of a private journal.
func WithJournal(j *ledger.Journal) Option {
	return func(inv *Inventory) { inv.journal = j }
}

// New returns an empty inventory persisted through st.
func New(st store.Store, opts ...Option) *Inventory {
	inv := &Inventory{
		ledger:    ledger.New(),
		journal:   ledger.NewJournal(),
		store:     st,
		threshold: ledger.DefaultLowStockThreshold,
	}
	for _, o := range opts {
		o(inv)
	}
	return inv
}

// Ledger exposes the underlying ledger for read access.
func (inv *Inventory) Ledger() *ledger.Ledger { return inv.ledger }

// Journal returns the journal Add writes to.
func (inv *Inventory) Journal() *ledger.Journal { return inv.journal }

// Threshold returns the configured low-stock threshold.
func (inv *Inventory) Threshold() float64 { return inv.threshold }

// Add increases the stock of item by qty.
func (inv *Inventory) Add(item string, qty float64) error {
	ch, err := inv.ledger.Add(item, qty, inv.journal)
	if err != nil {
		logger.Warn("invalid input for add", "item", item, "qty", qty, "err", err)
		return err
	}
	if ch.Deleted {
		logger.Info("item dropped to zero after add", "item", item, "qty", qty)
		return nil
	}
	logger.Info(fmt.Sprintf("Added %s of %s", ledger.FormatQuantity(qty), item), "item", item, "qty", qty, "stock", ch.Quantity)
	return nil
}

// Remove decreases the stock of item by qty, deleting it at zero or below.
func (inv *Inventory) Remove(item string, qty float64) error {
	ch, err := inv.ledger.Remove(item, qty)
	switch {
	case errors.Is(err, ledger.ErrItemNotFound):
		logger.Warn("attempted to remove non-existent item", "item", item)
		return err
	case err != nil:
		logger.Error("invalid value for remove", "item", item, "qty", qty, "err", err)
		return err
	case ch.Deleted:
		logger.Info("removed item completely", "item", item)
	default:
		logger.Info(fmt.Sprintf("Removed %s of %s", ledger.FormatQuantity(qty), item), "item", item, "qty", qty, "stock", ch.Quantity)
	}
	return nil
}

// Quantity returns the stock of item, or 0 if absent.
func (inv *Inventory) Quantity(item string) float64 {
	return inv.ledger.Quantity(item)
}

// LowStock returns items strictly below the configured threshold.
func (inv *Inventory) LowStock() []string {
	return inv.ledger.LowStock(inv.threshold)
}

// LowStockBelow returns items strictly below threshold.
func (inv *Inventory) LowStockBelow(threshold float64) []string {
	return inv.ledger.LowStock(threshold)
}

// Save writes the whole ledger to the store.
func (inv *Inventory) Save() error {
	if err := inv.store.Save(inv.ledger.Snapshot()); err != nil {
		logger.Error("failed to save inventory", "path", inv.store.Path(), "err", err)
		return err
	}
	logger.Info("inventory saved", "path", inv.store.Path(), "items", inv.ledger.Len())
	return nil
}

// Load replaces the ledger with the stored snapshot. On any failure the
// ledger is left as it was.
func (inv *Inventory) Load() error {
	path := inv.store.Path()
	snap, err := inv.store.Load()
	switch {
	case errors.Is(err, store.ErrNotFound):
		logger.Warn("file not found", "path", path)
		return err
	case errors.Is(err, store.ErrNotObject):
		logger.Warn("invalid data format", "path", path, "err", err)
		return err
	case errors.Is(err, store.ErrMalformed):
		logger.Error("error decoding snapshot", "path", path, "err", err)
		return err
	case err != nil:
		logger.Error("I/O error while loading", "path", path, "err", err)
		return err
	}

	if skipped := inv.ledger.Replace(snap); skipped > 0 {
		logger.Warn("skipped non-positive or unnamed entries", "path", path, "skipped", skipped)
	}
	logger.Info("inventory loaded", "path", path, "items", inv.ledger.Len())
	return nil
}

// PrintReport lists every item and its quantity in ledger order.
func (inv *Inventory) PrintReport(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Items Report:")
	for _, it := range inv.ledger.Items() {
		_, _ = fmt.Fprintf(w, "%s -> %s\n", it.Name, ledger.FormatQuantity(it.Quantity))
	}
}

// Close releases the store.
func (inv *Inventory) Close() error {
	return inv.store.Close()
}
