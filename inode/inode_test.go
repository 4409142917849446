package inode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mit-pdos/go-simplefs/common"
)

func TestRecordFits(t *testing.T) {
	ip := MkInode(KindFile, 3)
	for i := range ip.Blocks {
		ip.Blocks[i] = common.Bnum(100 + i)
	}
	ip.Size = uint32(common.MAXFILE)
	b := ip.Encode()
	assert.Equal(t, common.INODESZ, uint64(len(b)))
	assert.Equal(t, ip, Decode(b))
}

func TestUnusedIsZero(t *testing.T) {
	assert.Equal(t, make([]byte, common.INODESZ), Unused.Encode(),
		"a zeroed table is a table of unused inodes")
	ip := Decode(make([]byte, common.INODESZ))
	assert.True(t, ip.IsUnused())
}

func TestNBlocks(t *testing.T) {
	ip := MkInode(KindDir, 0)
	assert.Equal(t, uint64(0), ip.NBlocks())
	ip.Blocks[0] = 7
	ip.Blocks[4] = 9
	assert.Equal(t, uint64(2), ip.NBlocks())
	assert.True(t, ip.IsDir())
}

func TestDevice(t *testing.T) {
	ip := MkDevice(0, 4, 1)
	assert.Equal(t, "device", ip.Kind.String())
	d := Decode(ip.Encode())
	assert.Equal(t, uint32(4), d.Major)
	assert.Equal(t, uint32(1), d.Minor)
	assert.Equal(t, "kind(9)", Kind(9).String())
}
