package disk

import (
	"encoding/binary"

	bolt "github.com/coreos/bbolt"
	"github.com/pkg/errors"

	"github.com/mit-pdos/go-simplefs/common"
)

var sectorBucket = []byte("sectors")
var metaBucket = []byte("meta")
var sizeKey = []byte("size")

var _ Disk = (*boltDisk)(nil)

// boltDisk keeps each written sector as a value in one bolt bucket, keyed by
// the big-endian sector number. Sectors never written read back as zeros.
type boltDisk struct {
	db       *bolt.DB
	nsectors uint64
}

func sectorKey(s uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, s)
	return k
}

// NewBoltDisk opens (creating if needed) a bolt database at path. The size
// is recorded in the database; nsectors == 0 reopens with the recorded size.
func NewBoltDisk(path string, nsectors uint64) (Disk, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "bolt.Open %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(sectorBucket); err != nil {
			return err
		}
		meta, err := tx.CreateBucketIfNotExists(metaBucket)
		if err != nil {
			return err
		}
		if nsectors == 0 {
			v := meta.Get(sizeKey)
			if len(v) != 8 {
				return errors.New("no recorded size")
			}
			nsectors = binary.BigEndian.Uint64(v)
			return nil
		}
		return meta.Put(sizeKey, sectorKey(nsectors))
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create bucket")
	}
	return &boltDisk{db: db, nsectors: nsectors}, nil
}

func (d *boltDisk) ReadSector(s uint64, b []byte) error {
	if err := checkAccess("read", s, d.nsectors, b); err != nil {
		return err
	}
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(sectorBucket).Get(sectorKey(s))
		n := copy(b, v)
		for i := n; i < len(b); i++ {
			b[i] = 0
		}
		return nil
	})
	return errors.Wrapf(err, "read sector %d", s)
}

func (d *boltDisk) WriteSector(s uint64, b []byte) (uint64, error) {
	if err := checkAccess("write", s, d.nsectors, b); err != nil {
		return 0, err
	}
	err := d.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(sectorBucket)
		k := sectorKey(s)
		v := make([]byte, common.SectorSize)
		copy(v, bkt.Get(k))
		copy(v, b)
		return bkt.Put(k, v)
	})
	if err != nil {
		return 0, errors.Wrapf(err, "write sector %d", s)
	}
	return uint64(len(b)), nil
}

func (d *boltDisk) SectorSize() uint64 { return common.SectorSize }

func (d *boltDisk) Size() uint64 { return d.nsectors }

func (d *boltDisk) Barrier() error {
	return errors.Wrap(d.db.Sync(), "bolt sync")
}

func (d *boltDisk) Close() error {
	return errors.Wrap(d.db.Close(), "bolt close")
}
