package ledger

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// DefaultLowStockThreshold is the threshold used when none is configured.
const DefaultLowStockThreshold = 5

var (
	ErrInvalidItem     = errors.New("item name must not be empty")
	ErrInvalidQuantity = errors.New("quantity must be a finite number")
	ErrItemNotFound    = errors.New("item not in ledger")
)

// Item is a single ledger row.
type Item struct {
	Name     string
	Quantity float64
}

// Change describes the outcome of a successful mutation.
type Change struct {
	Item     string
	Delta    float64 // signed amount applied to the stored quantity
	Quantity float64 // quantity after the change; 0 when Deleted
	Deleted  bool
}

// Ledger maps item names to quantities. Items whose quantity drops to zero
// or below are removed, so every stored quantity is positive.
// Iteration order is insertion order. The zero value is an empty ledger.
// A Ledger is not safe for concurrent use.
type Ledger struct {
	quantities map[string]float64
	order      []string
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{quantities: make(map[string]float64)}
}

// Add increases the quantity of item by qty, starting from zero when the
// item is absent. A negative qty decrements. When journal is non-nil an
// entry describing the mutation is appended to it.
func (l *Ledger) Add(item string, qty float64, journal *Journal) (Change, error) {
	if item == "" {
		return Change{}, ErrInvalidItem
	}
	if !finite(qty) {
		return Change{}, fmt.Errorf("%w: %v", ErrInvalidQuantity, qty)
	}

	ch := l.apply(item, qty)
	if journal != nil {
		journal.Append(fmt.Sprintf("Added %s of %s", FormatQuantity(qty), item))
	}
	return ch, nil
}

// Remove decreases the quantity of item by qty. If the result is zero or
// negative the item is deleted. Removing an absent item returns
// ErrItemNotFound and leaves the ledger unchanged.
func (l *Ledger) Remove(item string, qty float64) (Change, error) {
	if !finite(qty) {
		return Change{}, fmt.Errorf("%w: %v", ErrInvalidQuantity, qty)
	}
	if _, ok := l.quantities[item]; !ok {
		return Change{}, fmt.Errorf("%w: %q", ErrItemNotFound, item)
	}
	return l.apply(item, -qty), nil
}

func (l *Ledger) apply(item string, delta float64) Change {
	if l.quantities == nil {
		l.quantities = make(map[string]float64)
	}
	current, exists := l.quantities[item]
	next := current + delta
	ch := Change{Item: item, Delta: delta, Quantity: next}

	if next <= 0 {
		if exists {
			l.delete(item)
		}
		ch.Quantity = 0
		ch.Deleted = true
		return ch
	}
	if !exists {
		l.order = append(l.order, item)
	}
	l.quantities[item] = next
	return ch
}

func (l *Ledger) delete(item string) {
	delete(l.quantities, item)
	for i, name := range l.order {
		if name == item {
			l.order = append(l.order[:i], l.order[i+1:]...)
			return
		}
	}
}

// Quantity returns the stored quantity of item, or 0 if absent.
func (l *Ledger) Quantity(item string) float64 {
	return l.quantities[item]
}

// Has reports whether item is present.
func (l *Ledger) Has(item string) bool {
	_, ok := l.quantities[item]
	return ok
}

// LowStock returns the names of items whose quantity is strictly below
// threshold, in ledger order.
func (l *Ledger) LowStock(threshold float64) []string {
	var low []string
	for _, name := range l.order {
		if l.quantities[name] < threshold {
			low = append(low, name)
		}
	}
	return low
}

// Items returns every item in ledger order.
func (l *Ledger) Items() []Item {
	items := make([]Item, 0, len(l.order))
	for _, name := range l.order {
		items = append(items, Item{Name: name, Quantity: l.quantities[name]})
	}
	return items
}

// Len returns the number of items.
func (l *Ledger) Len() int {
	return len(l.order)
}

// Snapshot returns a copy of the ledger contents.
func (l *Ledger) Snapshot() Snapshot {
	return Snapshot(l.Items())
}

// Replace clears the ledger and repopulates it from snap. Entries with an
// empty name or a non-positive quantity are skipped; repeated names keep
// their first position and last quantity.
// Returns the number of entries skipped.
func (l *Ledger) Replace(snap Snapshot) int {
	l.quantities = make(map[string]float64, len(snap))
	l.order = l.order[:0]

	skipped := 0
	for _, it := range snap {
		if it.Name == "" || !finite(it.Quantity) || it.Quantity <= 0 {
			skipped++
			continue
		}
		if _, ok := l.quantities[it.Name]; !ok {
			l.order = append(l.order, it.Name)
		}
		l.quantities[it.Name] = it.Quantity
	}
	return skipped
}

// FormatQuantity renders q without a trailing fraction for whole numbers.
// Magnitudes below 1e-4 or from 1e16 up use exponent notation.
func FormatQuantity(q float64) string {
	if a := math.Abs(q); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(q, 'g', -1, 64)
	}
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
