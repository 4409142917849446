package buf

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mit-pdos/go-simplefs/addr"
	"github.com/mit-pdos/go-simplefs/common"
	"github.com/mit-pdos/go-simplefs/disk"
)

func filled(sz uint64, b byte) []byte {
	d := make([]byte, sz)
	for i := range d {
		d[i] = b
	}
	return d
}

func TestInstall(t *testing.T) {
	blk := make(disk.Block, common.BlockSize)
	b := MkBuf(addr.MkAddr(0, 8), 4, []byte{1, 2, 3, 4})
	b.Install(blk)
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 0}, blk[7:13])
}

func TestWriteDirectPreservesNeighbours(t *testing.T) {
	assert := assert.New(t)
	d := disk.NewMemDisk(4)
	d.WriteSector(2, filled(common.BlockSize, 0xAA))

	b := MkBuf(addr.MkAddr(2, common.INODESZ), common.INODESZ,
		filled(common.INODESZ, 0x11))
	assert.NoError(b.WriteDirect(d))
	assert.True(b.IsDirty())

	blk := make(disk.Block, common.BlockSize)
	d.ReadSector(2, blk)
	assert.Equal(filled(common.INODESZ, 0xAA), blk[:common.INODESZ])
	assert.Equal(filled(common.INODESZ, 0x11), blk[common.INODESZ:2*common.INODESZ])
	assert.Equal(byte(0xAA), blk[common.BlockSize-1])
}

func TestWriteDirectWholeBlock(t *testing.T) {
	d := disk.NewMemDisk(4)
	b := MkBuf(addr.MkAddr(1, 0), common.BlockSize, filled(common.BlockSize, 5))
	assert.NoError(t, b.WriteDirect(d))

	r, err := ReadBuf(d, addr.MkAddr(1, 0), common.BlockSize)
	assert.NoError(t, err)
	assert.Equal(t, filled(common.BlockSize, 5), r.Data)
}

func TestBnum(t *testing.T) {
	b := MkBuf(addr.MkAddr(0, 0), 8, make([]byte, 8))
	b.BnumPut(4, 999)
	assert.Equal(t, common.Bnum(999), b.BnumGet(4))
	assert.Equal(t, common.Bnum(0), b.BnumGet(0))
	assert.Equal(t, []byte{0xe7, 0x03, 0, 0}, b.Data[4:8], "little endian")
}

func TestCrossingBlockPanics(t *testing.T) {
	assert.Panics(t, func() {
		MkBuf(addr.MkAddr(0, common.BlockSize-2), 4, make([]byte, 4))
	})
}
