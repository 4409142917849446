// buf manages sub-block disk objects, to be packed into disk blocks
package buf

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/tchajed/marshal"

	"github.com/mit-pdos/go-simplefs/addr"
	"github.com/mit-pdos/go-simplefs/common"
	"github.com/mit-pdos/go-simplefs/disk"
	"github.com/mit-pdos/go-simplefs/util"
)

// A Buf is a disk object (an inode record, a free-list link, or a whole
// block) together with the bytes it should hold.
type Buf struct {
	Addr  addr.Addr
	Sz    uint64 // number of bytes
	Data  []byte
	dirty bool // has this object been written to?
}

func MkBuf(addr addr.Addr, sz uint64, data []byte) *Buf {
	if addr.Off+sz > common.BlockSize {
		panic(fmt.Errorf("buf %v of %d bytes crosses a block", addr, sz))
	}
	b := &Buf{
		Addr:  addr,
		Sz:    sz,
		Data:  data,
		dirty: false,
	}
	return b
}

// Load the bytes of a disk block into a new buf, as specified by addr
func MkBufLoad(addr addr.Addr, sz uint64, blk disk.Block) *Buf {
	data := blk[addr.Off : addr.Off+sz]
	return MkBuf(addr, sz, data)
}

// ReadBuf reads the block containing addr and returns the sz-byte object at
// addr.
func ReadBuf(d disk.Reader, addr addr.Addr, sz uint64) (*Buf, error) {
	blk := make(disk.Block, common.BlockSize)
	if err := d.ReadSector(uint64(addr.Blkno), blk); err != nil {
		return nil, err
	}
	return MkBufLoad(addr, sz, blk), nil
}

// Install the bytes from buf into blk
func (buf *Buf) Install(blk disk.Block) {
	util.DPrintf(20, "%v: install\n", buf.Addr)
	copy(blk[buf.Addr.Off:buf.Addr.Off+buf.Sz], buf.Data)
}

func (buf *Buf) IsDirty() bool {
	return buf.dirty
}

func (buf *Buf) SetDirty() {
	buf.dirty = true
}

// WriteDirect writes buf to its block. A buf that covers only part of the
// block is installed into the block's current contents first, so the bytes
// around it survive.
func (buf *Buf) WriteDirect(d disk.Disk) error {
	buf.SetDirty()
	blkno := uint64(buf.Addr.Blkno)
	if buf.Sz == common.BlockSize {
		_, err := d.WriteSector(blkno, buf.Data)
		return err
	}
	blk := make(disk.Block, common.BlockSize)
	if err := d.ReadSector(blkno, blk); err != nil {
		return errors.Wrapf(err, "install %v", buf.Addr)
	}
	buf.Install(blk)
	_, err := d.WriteSector(blkno, blk)
	return err
}

func (buf *Buf) BnumGet(off uint64) common.Bnum {
	dec := marshal.NewDec(buf.Data[off : off+4])
	return common.Bnum(dec.GetInt32())
}

func (buf *Buf) BnumPut(off uint64, v common.Bnum) {
	enc := marshal.NewEnc(4)
	enc.PutInt32(uint32(v))
	copy(buf.Data[off:off+4], enc.Finish())
	buf.SetDirty()
}
