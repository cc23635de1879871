package database

import (
	"sort"
	"strings"
	"sync"
)

// memoryDatabase is an in-memory Database, used by tests and by any
// consensus.New caller that passes one in as its DB. It takes a single
// coarse RWMutex per spec §5's "exclusive latch covering (headers, blocks,
// utxo, ghostdag) for a single block commit."
type memoryDatabase struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryDB constructs an in-memory Database.
func NewMemoryDB() Database {
	return &memoryDatabase{data: make(map[string][]byte)}
}

func (d *memoryDatabase) Get(key []byte) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	value, ok := d.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (d *memoryDatabase) Has(key []byte) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.data[string(key)]
	return ok, nil
}

func (d *memoryDatabase) Put(key, value []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	d.data[string(key)] = valueCopy
	return nil
}

func (d *memoryDatabase) Delete(key []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.data, string(key))
	return nil
}

func (d *memoryDatabase) Cursor(prefix []byte) (Cursor, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	prefixStr := string(prefix)
	keys := make([]string, 0)
	for key := range d.data {
		if strings.HasPrefix(key, prefixStr) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return &memoryCursor{db: d, keys: keys, index: -1}, nil
}

func (d *memoryDatabase) Begin() (Transaction, error) {
	d.mu.Lock()
	snapshot := make(map[string][]byte, len(d.data))
	for k, v := range d.data {
		snapshot[k] = v
	}
	return &memoryTransaction{db: d, writes: snapshot, deletes: make(map[string]bool)}, nil
}

func (d *memoryDatabase) Close() error {
	return nil
}

type memoryCursor struct {
	db    *memoryDatabase
	keys  []string
	index int
}

func (c *memoryCursor) Next() bool {
	c.index++
	return c.index < len(c.keys)
}

func (c *memoryCursor) Key() ([]byte, error) {
	return []byte(c.keys[c.index]), nil
}

func (c *memoryCursor) Value() ([]byte, error) {
	return c.db.Get([]byte(c.keys[c.index]))
}

func (c *memoryCursor) Close() error {
	return nil
}

// memoryTransaction is an exclusive write transaction. It holds the
// database's write lock for its whole lifetime, matching spec §5's
// single-writer pipeline model: at most one block mutates state at any
// instant.
type memoryTransaction struct {
	db      *memoryDatabase
	writes  map[string][]byte
	deletes map[string]bool
	done    bool
}

func (t *memoryTransaction) Get(key []byte) ([]byte, error) {
	k := string(key)
	if t.deletes[k] {
		return nil, ErrNotFound
	}
	value, ok := t.writes[k]
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

func (t *memoryTransaction) Has(key []byte) (bool, error) {
	k := string(key)
	if t.deletes[k] {
		return false, nil
	}
	_, ok := t.writes[k]
	return ok, nil
}

func (t *memoryTransaction) Put(key, value []byte) error {
	k := string(key)
	delete(t.deletes, k)
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	t.writes[k] = valueCopy
	return nil
}

func (t *memoryTransaction) Delete(key []byte) error {
	k := string(key)
	delete(t.writes, k)
	t.deletes[k] = true
	return nil
}

func (t *memoryTransaction) Cursor(prefix []byte) (Cursor, error) {
	prefixStr := string(prefix)
	keys := make([]string, 0)
	for key := range t.writes {
		if strings.HasPrefix(key, prefixStr) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return &transactionCursor{tx: t, keys: keys, index: -1}, nil
}

func (t *memoryTransaction) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	defer t.db.mu.Unlock()
	t.db.data = t.writes
	return nil
}

func (t *memoryTransaction) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.db.mu.Unlock()
	return nil
}

type transactionCursor struct {
	tx    *memoryTransaction
	keys  []string
	index int
}

func (c *transactionCursor) Next() bool {
	c.index++
	return c.index < len(c.keys)
}

func (c *transactionCursor) Key() ([]byte, error) {
	return []byte(c.keys[c.index]), nil
}

func (c *transactionCursor) Value() ([]byte, error) {
	return c.tx.writes[c.keys[c.index]], nil
}

func (c *transactionCursor) Close() error {
	return nil
}
