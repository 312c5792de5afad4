package cart

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/pebble"
)

// Slot is the durable key-value slot a cart persists into. Every mutation
// overwrites the previous contents (last-writer-wins, no merging).
type Slot interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// ErrEmptySlot is returned by Load when nothing has been saved yet. The
// store treats it the same as corrupt contents: start with an empty cart.
var ErrEmptySlot = errors.New("cart slot is empty")

// MemorySlot keeps the snapshot in memory. Used in tests and as a fallback
// when no durable slot is configured.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte
}

func (m *MemorySlot) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrEmptySlot
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemorySlot) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}

// FileSlot persists the snapshot to a single JSON file.
type FileSlot struct {
	Path string
}

func (f *FileSlot) Load() ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrEmptySlot
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (f *FileSlot) Save(data []byte) error {
	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(f.Path, data, 0o644)
}

// PebbleSlots hands out slots backed by a shared Pebble database, one key
// per cart. Pebble's WAL gives durability without fsync on every save.
type PebbleSlots struct {
	db *pebble.DB
}

func OpenPebbleSlots(dir string) (*PebbleSlots, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleSlots{db: db}, nil
}

func (p *PebbleSlots) Close() error { return p.db.Close() }

func (p *PebbleSlots) Slot(name string) Slot {
	return &pebbleSlot{db: p.db, key: []byte("cart/" + name)}
}

type pebbleSlot struct {
	db  *pebble.DB
	key []byte
}

func (s *pebbleSlot) Load() ([]byte, error) {
	v, closer, err := s.db.Get(s.key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrEmptySlot
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), v...), nil
}

func (s *pebbleSlot) Save(data []byte) error {
	return s.db.Set(s.key, data, pebble.NoSync)
}
