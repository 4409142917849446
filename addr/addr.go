package addr

import (
	"github.com/mit-pdos/go-simplefs/common"
)

// Addr identifies the start of a disk object.
//
// Blkno is the block number containing the object, and Off is the location of
// the object within the block (expressed as a byte offset). The size of the
// object is determined by the context in which Addr is used.
type Addr struct {
	Blkno common.Bnum
	Off   uint64 // offset in bytes
}

func (a Addr) Flatid() uint64 {
	return uint64(a.Blkno)*common.BlockSize + a.Off
}

func MkAddr(blkno common.Bnum, off uint64) Addr {
	return Addr{Blkno: blkno, Off: off}
}

// MkInodeAddr locates the record of inode inum in a table starting at block
// start.
func MkInodeAddr(start common.Bnum, inum common.Inum) Addr {
	i := uint64(inum) / common.INODEBLK
	off := (uint64(inum) % common.INODEBLK) * common.INODESZ
	return MkAddr(start+common.Bnum(i), off)
}

// FileIndex splits a byte offset within a file into the direct-block index
// and the offset inside that block.
func FileIndex(off uint64) (uint64, uint64) {
	return off / common.BlockSize, off % common.BlockSize
}
