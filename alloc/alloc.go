package alloc

import (
	"github.com/pkg/errors"

	"github.com/mit-pdos/go-simplefs/addr"
	"github.com/mit-pdos/go-simplefs/buf"
	"github.com/mit-pdos/go-simplefs/common"
	"github.com/mit-pdos/go-simplefs/disk"
	"github.com/mit-pdos/go-simplefs/super"
	"github.com/mit-pdos/go-simplefs/util"
)

// LINKSZ is the size of the next pointer stored at the start of a free block
const LINKSZ uint64 = 4

// Alloc hands out data blocks from a LIFO free list threaded through the free
// blocks themselves: the first word of a free block holds the number of the
// next free block, and the superblock holds the head. The list is re-read
// from disk on every call.
type Alloc struct {
	d disk.Disk
}

func MkAlloc(d disk.Disk) *Alloc {
	return &Alloc{d: d}
}

func linkAddr(bn common.Bnum) addr.Addr {
	return addr.MkAddr(bn, 0)
}

// Next returns the block following bn on the free list.
func Next(d disk.Reader, bn common.Bnum) (common.Bnum, error) {
	link, err := buf.ReadBuf(d, linkAddr(bn), LINKSZ)
	if err != nil {
		return common.NULLBNUM, err
	}
	return link.BnumGet(0), nil
}

// AllocBlock pops the head of the free list and returns it zero-filled.
func (a *Alloc) AllocBlock() (common.Bnum, error) {
	sb, err := super.Read(a.d)
	if err != nil {
		return common.NULLBNUM, err
	}
	bn := sb.FreeList
	if bn == common.NULLBNUM {
		return common.NULLBNUM, common.ErrOutOfSpace
	}
	next, err := Next(a.d, bn)
	if err != nil {
		return common.NULLBNUM, err
	}
	if next != common.NULLBNUM && !sb.IsDataBlock(next) {
		return common.NULLBNUM, errors.Wrapf(common.ErrCorrupt,
			"free block %d links to %d", bn, next)
	}
	sb.FreeList = next
	if err := sb.Write(a.d); err != nil {
		return common.NULLBNUM, err
	}
	if _, err := a.d.WriteSector(uint64(bn), make(disk.Block, common.BlockSize)); err != nil {
		return common.NULLBNUM, errors.Wrapf(err, "zero block %d", bn)
	}
	util.DPrintf(5, "AllocBlock: %d next %d\n", bn, next)
	return bn, nil
}

// FreeBlock pushes bn onto the free list. Freeing a block that is still in
// use is not detected and corrupts the filesystem.
func (a *Alloc) FreeBlock(bn common.Bnum) error {
	sb, err := super.Read(a.d)
	if err != nil {
		return err
	}
	if !sb.IsDataBlock(bn) {
		return errors.Wrapf(common.ErrCorrupt, "free of non-data block %d", bn)
	}
	link := buf.MkBuf(linkAddr(bn), LINKSZ, make([]byte, LINKSZ))
	link.BnumPut(0, sb.FreeList)
	if err := link.WriteDirect(a.d); err != nil {
		return err
	}
	sb.FreeList = bn
	util.DPrintf(5, "FreeBlock: %d\n", bn)
	return sb.Write(a.d)
}

// FreeList walks the free list from the head. A list longer than the data
// region must contain a cycle and is reported as corrupt.
func FreeList(d disk.Reader) ([]common.Bnum, error) {
	sb, err := super.Read(d)
	if err != nil {
		return nil, err
	}
	var bns []common.Bnum
	for bn := sb.FreeList; bn != common.NULLBNUM; {
		if !sb.IsDataBlock(bn) {
			return bns, errors.Wrapf(common.ErrCorrupt, "free list entry %d", bn)
		}
		if uint32(len(bns)) >= sb.NDataBlocks() {
			return bns, errors.Wrap(common.ErrCorrupt, "free list cycle")
		}
		bns = append(bns, bn)
		bn, err = Next(d, bn)
		if err != nil {
			return bns, err
		}
	}
	return bns, nil
}

func (a *Alloc) NumFree() (uint64, error) {
	bns, err := FreeList(a.d)
	return uint64(len(bns)), err
}

// FreeRange frees [start, end) in ascending order, so the list hands them
// back out in descending order.
func (a *Alloc) FreeRange(start common.Bnum, end common.Bnum) error {
	util.DPrintf(1, "FreeRange: [%d, %d)\n", start, end)
	for bn := start; bn < end; bn++ {
		if err := a.FreeBlock(bn); err != nil {
			return err
		}
	}
	return nil
}

