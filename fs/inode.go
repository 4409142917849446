package fs

import (
	"github.com/pkg/errors"

	"github.com/mit-pdos/go-simplefs/addr"
	"github.com/mit-pdos/go-simplefs/buf"
	"github.com/mit-pdos/go-simplefs/common"
	"github.com/mit-pdos/go-simplefs/inode"
	"github.com/mit-pdos/go-simplefs/util"
)

func (r *Reader) readSlot(inum common.Inum) (inode.Inode, error) {
	sb, err := r.Super()
	if err != nil {
		return inode.Inode{}, err
	}
	if uint32(inum) >= sb.NInodes {
		return inode.Inode{}, errors.Wrapf(common.ErrNotFound,
			"inode %d of %d", inum, sb.NInodes)
	}
	b, err := buf.ReadBuf(r.r, sb.Inum2Addr(inum), common.INODESZ)
	if err != nil {
		return inode.Inode{}, errors.Wrapf(err, "read inode %d", inum)
	}
	return inode.Decode(b.Data), nil
}

// ReadInode returns the record of inum, which must belong to dev.
func (r *Reader) ReadInode(dev common.DevId, inum common.Inum) (inode.Inode, error) {
	ip, err := r.readSlot(inum)
	if err != nil {
		return ip, err
	}
	if ip.Dev != dev {
		return ip, errors.Wrapf(common.ErrDeviceMismatch,
			"inode %d on device %d, want %d", inum, ip.Dev, dev)
	}
	return ip, nil
}

// Stat is ReadInode on the root device.
func (r *Reader) Stat(inum common.Inum) (inode.Inode, error) {
	return r.ReadInode(common.ROOTDEV, inum)
}

// UpdateInode overwrites the record of inum unconditionally.
func (fs *FileSystem) UpdateInode(inum common.Inum, ip *inode.Inode) error {
	// The table always starts at INODESTART, so this works before a
	// superblock exists (mkfs clears the table first).
	a := addr.MkInodeAddr(common.INODESTART, inum)
	b := buf.MkBuf(a, common.INODESZ, ip.Encode())
	util.DPrintf(5, "UpdateInode %d %v\n", inum, ip)
	if err := b.WriteDirect(fs.d); err != nil {
		return errors.Wrapf(err, "write inode %d", inum)
	}
	return nil
}

// AllocInode claims the first unused slot for ip and returns its number.
func (fs *FileSystem) AllocInode(dev common.DevId, ip inode.Inode) (common.Inum, error) {
	if ip.IsUnused() {
		panic("AllocInode: template is unused")
	}
	sb, err := fs.Super()
	if err != nil {
		return 0, err
	}
	ip.Dev = dev
	for i := uint32(0); i < sb.NInodes; i++ {
		inum := common.Inum(i)
		slot, err := fs.readSlot(inum)
		if err != nil {
			return 0, err
		}
		if !slot.IsUnused() {
			continue
		}
		if err := fs.UpdateInode(inum, &ip); err != nil {
			return 0, err
		}
		util.DPrintf(1, "AllocInode: %d %v\n", inum, ip.Kind)
		return inum, nil
	}
	return 0, common.ErrOutOfSpace
}

// FreeInode marks inum unused. Its blocks are not released; see Release.
func (fs *FileSystem) FreeInode(inum common.Inum) error {
	util.DPrintf(1, "FreeInode: %d\n", inum)
	return fs.UpdateInode(inum, &inode.Unused)
}

// Release returns every block of ip to the free list and truncates it.
func (fs *FileSystem) Release(ip *inode.Inode) error {
	for i, bn := range ip.Blocks {
		if bn == common.NULLBNUM {
			continue
		}
		if err := fs.FreeBlock(bn); err != nil {
			return err
		}
		ip.Blocks[i] = common.NULLBNUM
	}
	ip.Size = 0
	return nil
}
