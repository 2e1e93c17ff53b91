package bolt

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"stockledger/internal/ledger"
	"stockledger/internal/store"

	bolt "go.etcd.io/bbolt"
)

var stockBucket = []byte("stock")

// record is the value stored per item. Keys are big-endian positions so a
// cursor walk returns items in ledger order.
type record struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

// Store implements store.Store using bbolt (embedded B+ tree).
type Store struct {
	db   *bolt.DB
	path string
}

var _ store.Store = (*Store)(nil)

// Open creates or opens a bbolt database at the given path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Save replaces the stock bucket with snap in a single transaction.
func (s *Store) Save(snap ledger.Snapshot) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(stockBucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return fmt.Errorf("dropping bucket: %w", err)
		}
		b, err := tx.CreateBucket(stockBucket)
		if err != nil {
			return fmt.Errorf("creating bucket: %w", err)
		}
		for i, it := range snap {
			val, err := json.Marshal(record{Name: it.Name, Quantity: it.Quantity})
			if err != nil {
				return fmt.Errorf("encoding %q: %w", it.Name, err)
			}
			if err := b.Put(positionKey(uint64(i)), val); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load returns the stored snapshot in the order it was saved.
// store.ErrNotFound is returned if Save has never run.
func (s *Store) Load() (ledger.Snapshot, error) {
	var snap ledger.Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(stockBucket)
		if b == nil {
			return store.ErrNotFound
		}
		snap = make(ledger.Snapshot, 0, b.Stats().KeyN)
		return b.ForEach(func(k, v []byte) error {
			var rec record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("%w: key %x: %v", store.ErrMalformed, k, err)
			}
			snap = append(snap, ledger.Item{Name: rec.Name, Quantity: rec.Quantity})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.db.Close()
}

func positionKey(i uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, i)
	return k
}
