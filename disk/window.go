package disk

import (
	"github.com/pkg/errors"
)

var _ Disk = (*window)(nil)

// window exposes sectors [start, start+n) of another disk as sectors [0, n).
type window struct {
	d     Disk
	start uint64
	n     uint64
}

// Window returns the part of d beginning at sector start, e.g. to skip a boot
// sector in front of the filesystem. n == 0 means "to the end of d".
func Window(d Disk, start uint64, n uint64) (Disk, error) {
	sz := d.Size()
	if start > sz {
		return nil, errors.Wrapf(ErrOutOfRange, "window start %d (size %d)", start, sz)
	}
	if n == 0 {
		n = sz - start
	}
	if start+n > sz {
		return nil, errors.Wrapf(ErrOutOfRange, "window [%d,%d) (size %d)", start, start+n, sz)
	}
	return &window{d: d, start: start, n: n}, nil
}

func (w *window) ReadSector(s uint64, b []byte) error {
	if err := checkAccess("read", s, w.n, b); err != nil {
		return err
	}
	return w.d.ReadSector(w.start+s, b)
}

func (w *window) WriteSector(s uint64, b []byte) (uint64, error) {
	if err := checkAccess("write", s, w.n, b); err != nil {
		return 0, err
	}
	return w.d.WriteSector(w.start+s, b)
}

func (w *window) SectorSize() uint64 { return w.d.SectorSize() }

func (w *window) Size() uint64 { return w.n }

func (w *window) Barrier() error { return w.d.Barrier() }

func (w *window) Close() error { return w.d.Close() }
