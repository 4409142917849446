package disk

import (
	"io"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/mit-pdos/go-simplefs/common"
)

var _ Disk = (*fileDisk)(nil)

type fileDisk struct {
	fd       int
	nsectors uint64
}

// NewFileDisk opens (creating if needed) a disk image of nsectors sectors.
// Regular files are grown or shrunk to exactly that size.
func NewFileDisk(path string, nsectors uint64) (Disk, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT, 0666)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	var stat unix.Stat_t
	err = unix.Fstat(fd, &stat)
	if err != nil {
		unix.Close(fd)
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	sz := int64(nsectors * common.SectorSize)
	if (stat.Mode&unix.S_IFREG) != 0 && stat.Size != sz {
		err = unix.Ftruncate(fd, sz)
		if err != nil {
			unix.Close(fd)
			return nil, errors.Wrapf(err, "truncate %s", path)
		}
	}
	return &fileDisk{fd: fd, nsectors: nsectors}, nil
}

// OpenFileDisk opens an existing image and sizes the disk from the file.
func OpenFileDisk(path string) (Disk, error) {
	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	return NewFileDisk(path, uint64(stat.Size)/common.SectorSize)
}

func (d *fileDisk) ReadSector(s uint64, b []byte) error {
	if err := checkAccess("read", s, d.nsectors, b); err != nil {
		return err
	}
	n, err := unix.Pread(d.fd, b, int64(s*common.SectorSize))
	if err != nil {
		return errors.Wrapf(err, "read sector %d", s)
	}
	if n < len(b) {
		return errors.Wrapf(io.ErrUnexpectedEOF, "read sector %d: %d of %d bytes", s, n, len(b))
	}
	return nil
}

func (d *fileDisk) WriteSector(s uint64, b []byte) (uint64, error) {
	if err := checkAccess("write", s, d.nsectors, b); err != nil {
		return 0, err
	}
	n, err := unix.Pwrite(d.fd, b, int64(s*common.SectorSize))
	if err != nil {
		return uint64(n), errors.Wrapf(err, "write sector %d", s)
	}
	if n < len(b) {
		return uint64(n), errors.Wrapf(io.ErrShortWrite, "write sector %d: %d of %d bytes", s, n, len(b))
	}
	return uint64(n), nil
}

func (d *fileDisk) SectorSize() uint64 { return common.SectorSize }

func (d *fileDisk) Size() uint64 { return d.nsectors }

func (d *fileDisk) Barrier() error {
	// NOTE: on macOS, this flushes to the drive but doesn't actually issue a
	// disk barrier; see https://golang.org/src/internal/poll/fd_fsync_darwin.go
	// for more details. The correct replacement is to issue a fcntl syscall with
	// cmd F_FULLFSYNC.
	if err := unix.Fsync(d.fd); err != nil {
		return errors.Wrap(err, "file sync failed")
	}
	return nil
}

func (d *fileDisk) Close() error {
	return errors.Wrap(unix.Close(d.fd), "close")
}
