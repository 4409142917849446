// Package fs is the filesystem engine: an inode table, a free list of data
// blocks, files made of direct block pointers, and directories of fixed-size
// entries, all over a sector-addressed disk.
//
// Reader holds the operations that only read the disk; FileSystem embeds a
// Reader and adds the ones that write. Neither caches anything or locks
// anything: every call goes to the disk, and a host sharing one device
// between goroutines coordinates through a Handle.
package fs

import (
	"github.com/pkg/errors"

	"github.com/mit-pdos/go-simplefs/alloc"
	"github.com/mit-pdos/go-simplefs/common"
	"github.com/mit-pdos/go-simplefs/disk"
	"github.com/mit-pdos/go-simplefs/super"
)

type Reader struct {
	r disk.Reader
}

type FileSystem struct {
	Reader
	d     disk.Disk
	alloc *alloc.Alloc
}

func checkSectorSize(r disk.Reader) error {
	if r.SectorSize() != common.BlockSize {
		return errors.Errorf("sector size %d, need %d", r.SectorSize(), common.BlockSize)
	}
	return nil
}

// MkReader gives read-only access to the filesystem on r.
func MkReader(r disk.Reader) (*Reader, error) {
	if err := checkSectorSize(r); err != nil {
		return nil, err
	}
	return &Reader{r: r}, nil
}

// MkFileSystem gives read-write access to the filesystem on d, which need not
// be formatted yet.
func MkFileSystem(d disk.Disk) (*FileSystem, error) {
	if err := checkSectorSize(d); err != nil {
		return nil, err
	}
	return &FileSystem{
		Reader: Reader{r: d},
		d:      d,
		alloc:  alloc.MkAlloc(d),
	}, nil
}

// Disk returns the device the filesystem writes to.
func (fs *FileSystem) Disk() disk.Disk {
	return fs.d
}

// Super reads the superblock and checks its geometry.
func (r *Reader) Super() (*super.SuperBlock, error) {
	sb, err := super.Read(r.r)
	if err != nil {
		return nil, err
	}
	if err := sb.Validate(); err != nil {
		return nil, err
	}
	return sb, nil
}

func (fs *FileSystem) AllocBlock() (common.Bnum, error) {
	return fs.alloc.AllocBlock()
}

func (fs *FileSystem) FreeBlock(bn common.Bnum) error {
	return fs.alloc.FreeBlock(bn)
}

// NumFree counts the blocks on the free list.
func (r *Reader) NumFree() (uint64, error) {
	bns, err := alloc.FreeList(r.r)
	return uint64(len(bns)), err
}
