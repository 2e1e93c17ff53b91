package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"stockledger/internal/ledger"
	"stockledger/internal/store"
)

// DefaultPath is the snapshot file used when none is configured.
const DefaultPath = "inventory.json"

const indent = "    "

// Store keeps the ledger as a single JSON object mapping item names to
// quantities. Save truncates and rewrites the file in place; a crash
// mid-write can leave it truncated.
type Store struct {
	path string
}

var _ store.Store = (*Store)(nil)

// New returns a store for the document at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Save(snap ledger.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) Load() (ledger.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	return Decode(data)
}

func (s *Store) Close() error { return nil }

// Encode renders snap as an indented JSON object, keys in snapshot order.
func Encode(snap ledger.Snapshot) ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, it := range snap {
		if i > 0 {
			compact.WriteByte(',')
		}
		k, err := json.Marshal(it.Name)
		if err != nil {
			return nil, fmt.Errorf("encoding key %q: %w", it.Name, err)
		}
		v, err := json.Marshal(it.Quantity)
		if err != nil {
			return nil, fmt.Errorf("encoding quantity of %q: %w", it.Name, err)
		}
		compact.Write(k)
		compact.WriteByte(':')
		compact.Write(v)
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", indent); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Decode parses a JSON object of name → number pairs, preserving key order.
// A top-level value other than an object yields store.ErrNotObject; invalid
// JSON or a non-numeric value yields store.ErrMalformed.
func Decode(data []byte) (ledger.Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrMalformed, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: top-level value is %s", store.ErrNotObject, describe(tok))
	}

	snap := ledger.Snapshot{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrMalformed, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected key %v", store.ErrMalformed, tok)
		}
		var qty float64
		if err := dec.Decode(&qty); err != nil {
			return nil, fmt.Errorf("%w: value of %q: %v", store.ErrMalformed, name, err)
		}
		snap = append(snap, ledger.Item{Name: name, Quantity: qty})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after object", store.ErrMalformed)
	}
	return snap, nil
}

func describe(tok json.Token) string {
	switch v := tok.(type) {
	case json.Delim:
		if v == '[' {
			return "an array"
		}
		return "a delimiter"
	case string:
		return "a string"
	case float64:
		return "a number"
	case bool:
		return "a boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
