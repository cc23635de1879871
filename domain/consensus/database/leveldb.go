package database

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// levelDBDatabase is the goleveldb-backed Database implementation, the one
// concrete "abstract transactional store" this repo ships (spec §1, §9).
// Grounded on the teacher's own storage choice: database2's ffldb driver
// and infrastructure/db/dbaccess sit on goleveldb, and
// flokiorg-go-flokicoin independently confirms syndtr/goleveldb for this
// lineage.
type levelDBDatabase struct {
	ldb *leveldb.DB
}

// OpenLevelDB opens (creating if necessary) a goleveldb database at path.
func OpenLevelDB(path string) (Database, error) {
	ldb, err := leveldb.OpenFile(path, &opt.Options{})
	if err != nil {
		return nil, errors.Wrap(err, "failed opening leveldb database")
	}
	return &levelDBDatabase{ldb: ldb}, nil
}

func (d *levelDBDatabase) Get(key []byte) ([]byte, error) {
	value, err := d.ldb.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "leveldb get failed")
	}
	return value, nil
}

func (d *levelDBDatabase) Has(key []byte) (bool, error) {
	has, err := d.ldb.Has(key, nil)
	if err != nil {
		return false, errors.Wrap(err, "leveldb has failed")
	}
	return has, nil
}

func (d *levelDBDatabase) Put(key, value []byte) error {
	if err := d.ldb.Put(key, value, nil); err != nil {
		return errors.Wrap(err, "leveldb put failed")
	}
	return nil
}

func (d *levelDBDatabase) Delete(key []byte) error {
	if err := d.ldb.Delete(key, nil); err != nil {
		return errors.Wrap(err, "leveldb delete failed")
	}
	return nil
}

func (d *levelDBDatabase) Cursor(prefix []byte) (Cursor, error) {
	it := d.ldb.NewIterator(util.BytesPrefix(prefix), nil)
	return &levelDBCursor{iterator: it, started: false}, nil
}

func (d *levelDBDatabase) Begin() (Transaction, error) {
	tx, err := d.ldb.OpenTransaction()
	if err != nil {
		return nil, errors.Wrap(err, "leveldb begin transaction failed")
	}
	return &levelDBTransaction{tx: tx}, nil
}

func (d *levelDBDatabase) Close() error {
	return d.ldb.Close()
}

type levelDBCursor struct {
	iterator iterator.Iterator
	started  bool
}

func (c *levelDBCursor) Next() bool {
	if !c.started {
		c.started = true
		return c.iterator.First()
	}
	return c.iterator.Next()
}

func (c *levelDBCursor) Key() ([]byte, error) {
	key := c.iterator.Key()
	out := make([]byte, len(key))
	copy(out, key)
	return out, nil
}

func (c *levelDBCursor) Value() ([]byte, error) {
	value := c.iterator.Value()
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (c *levelDBCursor) Close() error {
	c.iterator.Release()
	return c.iterator.Error()
}

type levelDBTransaction struct {
	tx *leveldb.Transaction
}

func (t *levelDBTransaction) Get(key []byte) ([]byte, error) {
	value, err := t.tx.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "leveldb transaction get failed")
	}
	return value, nil
}

func (t *levelDBTransaction) Has(key []byte) (bool, error) {
	has, err := t.tx.Has(key, nil)
	if err != nil {
		return false, errors.Wrap(err, "leveldb transaction has failed")
	}
	return has, nil
}

func (t *levelDBTransaction) Put(key, value []byte) error {
	if err := t.tx.Put(key, value, nil); err != nil {
		return errors.Wrap(err, "leveldb transaction put failed")
	}
	return nil
}

func (t *levelDBTransaction) Delete(key []byte) error {
	if err := t.tx.Delete(key, nil); err != nil {
		return errors.Wrap(err, "leveldb transaction delete failed")
	}
	return nil
}

func (t *levelDBTransaction) Cursor(prefix []byte) (Cursor, error) {
	it := t.tx.NewIterator(util.BytesPrefix(prefix), nil)
	return &levelDBCursor{iterator: it}, nil
}

func (t *levelDBTransaction) Commit() error {
	return errors.Wrap(t.tx.Commit(), "leveldb transaction commit failed")
}

func (t *levelDBTransaction) Rollback() error {
	t.tx.Discard()
	return nil
}
