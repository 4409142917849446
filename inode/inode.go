package inode

import (
	"fmt"

	"github.com/tchajed/marshal"

	"github.com/mit-pdos/go-simplefs/common"
)

type Kind uint32

const (
	KindUnused Kind = iota
	KindFile
	KindDir
	KindDevice
)

func (k Kind) String() string {
	switch k {
	case KindUnused:
		return "unused"
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindDevice:
		return "device"
	}
	return fmt.Sprintf("kind(%d)", uint32(k))
}

// Inode is the on-disk record of one file-table slot. Its identity is its
// position in the table, not its contents.
type Inode struct {
	Kind   Kind
	Dev    common.DevId
	Major  uint32 // device files only
	Minor  uint32
	Size   uint32
	Blocks [common.NDIRECT]common.Bnum // NULLBNUM if unset
}

// Unused is written to free slots.
var Unused = Inode{Kind: KindUnused, Dev: common.ROOTDEV}

func MkInode(kind Kind, dev common.DevId) Inode {
	return Inode{Kind: kind, Dev: dev}
}

func MkDevice(dev common.DevId, major uint32, minor uint32) Inode {
	return Inode{Kind: KindDevice, Dev: dev, Major: major, Minor: minor}
}

func (ip *Inode) IsDir() bool {
	return ip.Kind == KindDir
}

func (ip *Inode) IsUnused() bool {
	return ip.Kind == KindUnused
}

// NBlocks reports how many direct pointers are set.
func (ip *Inode) NBlocks() uint64 {
	n := uint64(0)
	for _, bn := range ip.Blocks {
		if bn != common.NULLBNUM {
			n++
		}
	}
	return n
}

func (ip *Inode) String() string {
	return fmt.Sprintf("{%v dev %d %d:%d size %d blocks %v}", ip.Kind, ip.Dev,
		ip.Major, ip.Minor, ip.Size, ip.Blocks)
}

func (ip *Inode) Encode() []byte {
	enc := marshal.NewEnc(common.INODESZ)
	enc.PutInt32(uint32(ip.Kind))
	enc.PutInt32(ip.Dev)
	enc.PutInt32(ip.Major)
	enc.PutInt32(ip.Minor)
	enc.PutInt32(ip.Size)
	for _, bn := range ip.Blocks {
		enc.PutInt32(bn)
	}
	return enc.Finish()
}

func Decode(b []byte) Inode {
	ip := Inode{}
	dec := marshal.NewDec(b)
	ip.Kind = Kind(dec.GetInt32())
	ip.Dev = dec.GetInt32()
	ip.Major = dec.GetInt32()
	ip.Minor = dec.GetInt32()
	ip.Size = dec.GetInt32()
	for i := range ip.Blocks {
		ip.Blocks[i] = dec.GetInt32()
	}
	return ip
}
