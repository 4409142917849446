// Package disk is the storage capability the filesystem engine runs on: a
// sector-addressed device with a fixed sector size.
//
// Reads need only a Reader; anything that mutates the device needs the full
// Disk. A host that shares one device between readers and a writer hands out
// the Reader under a shared lock and the Disk under an exclusive one.
package disk

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mit-pdos/go-simplefs/common"
)

// Block is one sector's worth of bytes
type Block = []byte

// Reader provides shared, read-only access to a sector-based device
type Reader interface {
	// ReadSector fills b with the first len(b) bytes of sector s.
	//
	// Expects len(b) <= SectorSize().
	ReadSector(s uint64, b []byte) error

	// SectorSize reports the sector size in bytes; it never changes.
	SectorSize() uint64
}

// Disk provides exclusive access to a sector-based device
type Disk interface {
	Reader

	// WriteSector overwrites the first len(b) bytes of sector s and returns
	// the number of bytes written.
	//
	// Expects len(b) <= SectorSize().
	WriteSector(s uint64, b []byte) (uint64, error)

	// Size reports how big the disk is, in sectors
	Size() uint64

	// Barrier ensures data is persisted.
	Barrier() error

	// Close releases any resources used by the disk and makes it unusable.
	Close() error
}

// ErrOutOfRange is returned for accesses past the end of the device.
var ErrOutOfRange = errors.New("sector out of range")

func checkAccess(op string, s uint64, n uint64, b []byte) error {
	if uint64(len(b)) > common.SectorSize {
		panic(fmt.Errorf("%s: buffer exceeds one sector (%d bytes)", op, len(b)))
	}
	if s >= n {
		return errors.Wrapf(ErrOutOfRange, "%s at %d (size %d)", op, s, n)
	}
	return nil
}
