package disk

import (
	"encoding/binary"

	"github.com/dgraph-io/badger"
	"github.com/pkg/errors"

	"github.com/mit-pdos/go-simplefs/common"
)

var _ Disk = (*badgerDisk)(nil)

// badgerDisk stores sectors as badger keys, the same way boltDisk does.
type badgerDisk struct {
	db       *badger.DB
	nsectors uint64
}

// badgerSizeKey sorts apart from the 8-byte sector keys.
var badgerSizeKey = []byte("meta/size")

// NewBadgerDisk opens (creating if needed) a badger database in dir. Like
// NewBoltDisk, nsectors == 0 reopens with the recorded size.
func NewBadgerDisk(dir string, nsectors uint64) (Disk, error) {
	opts := badger.DefaultOptions
	opts.Dir = dir
	opts.ValueDir = dir
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "badger.Open %s", dir)
	}
	d := &badgerDisk{db: db}
	err = db.Update(func(txn *badger.Txn) error {
		if nsectors == 0 {
			v, err := d.get(txn, badgerSizeKey)
			if err != nil {
				return err
			}
			if len(v) != 8 {
				return errors.New("no recorded size")
			}
			nsectors = binary.BigEndian.Uint64(v)
			return nil
		}
		return txn.Set(badgerSizeKey, sectorKey(nsectors))
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "badger size %s", dir)
	}
	d.nsectors = nsectors
	return d, nil
}

func (d *badgerDisk) get(txn *badger.Txn, k []byte) ([]byte, error) {
	item, err := txn.Get(k)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (d *badgerDisk) ReadSector(s uint64, b []byte) error {
	if err := checkAccess("read", s, d.nsectors, b); err != nil {
		return err
	}
	err := d.db.View(func(txn *badger.Txn) error {
		v, err := d.get(txn, sectorKey(s))
		if err != nil {
			return err
		}
		n := copy(b, v)
		for i := n; i < len(b); i++ {
			b[i] = 0
		}
		return nil
	})
	return errors.Wrapf(err, "read sector %d", s)
}

func (d *badgerDisk) WriteSector(s uint64, b []byte) (uint64, error) {
	if err := checkAccess("write", s, d.nsectors, b); err != nil {
		return 0, err
	}
	err := d.db.Update(func(txn *badger.Txn) error {
		k := sectorKey(s)
		old, err := d.get(txn, k)
		if err != nil {
			return err
		}
		v := make([]byte, common.SectorSize)
		copy(v, old)
		copy(v, b)
		return txn.Set(k, v)
	})
	if err != nil {
		return 0, errors.Wrapf(err, "write sector %d", s)
	}
	return uint64(len(b)), nil
}

func (d *badgerDisk) SectorSize() uint64 { return common.SectorSize }

func (d *badgerDisk) Size() uint64 { return d.nsectors }

// Barrier is a no-op: badger commits are durable when Update returns with
// the default SyncWrites option.
func (d *badgerDisk) Barrier() error { return nil }

func (d *badgerDisk) Close() error {
	return errors.Wrap(d.db.Close(), "badger close")
}
