package super

import (
	"github.com/pkg/errors"
	"github.com/tchajed/marshal"

	"github.com/mit-pdos/go-simplefs/addr"
	"github.com/mit-pdos/go-simplefs/common"
	"github.com/mit-pdos/go-simplefs/disk"
)

// SBSZ is the encoded size of a superblock
const SBSZ uint64 = 5 * 4

// SuperBlock describes the filesystem geometry. Only FreeList changes after
// format.
type SuperBlock struct {
	Size       uint32 // bookkeeping only
	NBlocks    uint32
	NInodes    uint32
	InodeStart common.Bnum
	FreeList   common.Bnum // head of the free list, or NULLBNUM
}

func MkSuperBlock(nblocks uint32, ninodes uint32) *SuperBlock {
	return &SuperBlock{
		Size:       0,
		NBlocks:    nblocks,
		NInodes:    ninodes,
		InodeStart: common.INODESTART,
		FreeList:   common.NULLBNUM,
	}
}

func (sb *SuperBlock) Encode() disk.Block {
	enc := marshal.NewEnc(common.BlockSize)
	enc.PutInt32(sb.Size)
	enc.PutInt32(sb.NBlocks)
	enc.PutInt32(sb.NInodes)
	enc.PutInt32(sb.InodeStart)
	enc.PutInt32(sb.FreeList)
	return enc.Finish()
}

func Decode(b []byte) *SuperBlock {
	dec := marshal.NewDec(b)
	sb := &SuperBlock{}
	sb.Size = dec.GetInt32()
	sb.NBlocks = dec.GetInt32()
	sb.NInodes = dec.GetInt32()
	sb.InodeStart = dec.GetInt32()
	sb.FreeList = dec.GetInt32()
	return sb
}

// Read loads the superblock from d.
func Read(d disk.Reader) (*SuperBlock, error) {
	blk := make(disk.Block, common.BlockSize)
	if err := d.ReadSector(uint64(common.SUPERBNUM), blk); err != nil {
		return nil, errors.Wrap(err, "read superblock")
	}
	return Decode(blk), nil
}

// Write persists sb to its sector.
func (sb *SuperBlock) Write(d disk.Disk) error {
	_, err := d.WriteSector(uint64(common.SUPERBNUM), sb.Encode())
	return errors.Wrap(err, "write superblock")
}

func (sb *SuperBlock) DataStart() common.Bnum {
	return sb.InodeStart + common.Bnum(common.InodeBlocks(sb.NInodes))
}

func (sb *SuperBlock) NDataBlocks() uint32 {
	return sb.NBlocks - sb.DataStart()
}

func (sb *SuperBlock) Inum2Addr(inum common.Inum) addr.Addr {
	return addr.MkInodeAddr(sb.InodeStart, inum)
}

// IsDataBlock reports whether bn lies in the data region.
func (sb *SuperBlock) IsDataBlock(bn common.Bnum) bool {
	return bn >= sb.DataStart() && bn < sb.NBlocks
}

// Validate checks that the geometry fits the layout this package writes.
func (sb *SuperBlock) Validate() error {
	if sb.InodeStart != common.INODESTART || sb.NInodes == 0 {
		return errors.Wrapf(common.ErrCorrupt, "inode table at %d with %d inodes",
			sb.InodeStart, sb.NInodes)
	}
	if sb.DataStart() >= sb.NBlocks {
		return errors.Wrapf(common.ErrCorrupt, "no data region (data start %d, %d blocks)",
			sb.DataStart(), sb.NBlocks)
	}
	if sb.FreeList != common.NULLBNUM && !sb.IsDataBlock(sb.FreeList) {
		return errors.Wrapf(common.ErrCorrupt, "free list head %d", sb.FreeList)
	}
	return nil
}
