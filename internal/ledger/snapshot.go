package ledger

// Snapshot is the ordered contents of a ledger at a point in time.
type Snapshot []Item

// Map returns the snapshot as a name → quantity map.
func (s Snapshot) Map() map[string]float64 {
	m := make(map[string]float64, len(s))
	for _, it := range s {
		m[it.Name] = it.Quantity
	}
	return m
}
