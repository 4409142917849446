package fs

import (
	"github.com/pkg/errors"

	"github.com/mit-pdos/go-simplefs/common"
	"github.com/mit-pdos/go-simplefs/inode"
)

// link adds name -> inum to the directory parent and persists the parent.
func (fs *FileSystem) link(parent common.Inum, name string, inum common.Inum) error {
	pp, err := fs.Stat(parent)
	if err != nil {
		return err
	}
	if err := fs.DirAdd(&pp, name, inum); err != nil {
		return err
	}
	return fs.UpdateInode(parent, &pp)
}

func (fs *FileSystem) checkParent(parent common.Inum) error {
	pp, err := fs.Stat(parent)
	if err != nil {
		return err
	}
	if !pp.IsDir() {
		return errors.Wrapf(common.ErrNotDir, "inode %d", parent)
	}
	return nil
}

// create allocates an inode from template, lets fill write its contents, and
// links it into parent. On failure the inode and its blocks are given back.
func (fs *FileSystem) create(parent common.Inum, name string, ip inode.Inode,
	fill func(inum common.Inum, ip *inode.Inode) error) (common.Inum, error) {
	if err := checkName(name); err != nil {
		return 0, err
	}
	if err := fs.checkParent(parent); err != nil {
		return 0, err
	}
	inum, err := fs.AllocInode(common.ROOTDEV, ip)
	if err != nil {
		return 0, err
	}
	ip.Dev = common.ROOTDEV
	err = fill(inum, &ip)
	if err == nil {
		err = fs.UpdateInode(inum, &ip)
	}
	if err == nil {
		err = fs.link(parent, name, inum)
	}
	if err != nil {
		if rerr := fs.undoCreate(inum, &ip); rerr != nil {
			return 0, errors.Wrapf(err, "inode %d not rolled back: %v", inum, rerr)
		}
		return 0, err
	}
	return inum, nil
}

// undoCreate gives back the blocks of ip, then the inode. If the blocks
// cannot all be freed the inode keeps its slot.
func (fs *FileSystem) undoCreate(inum common.Inum, ip *inode.Inode) error {
	if err := fs.Release(ip); err != nil {
		return err
	}
	return fs.FreeInode(inum)
}

// CreateFile makes a file holding data and links it into parent as name.
func (fs *FileSystem) CreateFile(parent common.Inum, name string, data []byte) (common.Inum, error) {
	ip := inode.MkInode(inode.KindFile, common.ROOTDEV)
	return fs.create(parent, name, ip, func(inum common.Inum, ip *inode.Inode) error {
		_, err := fs.Write(ip, data, 0)
		return err
	})
}

// Mkdir makes a directory holding "." and ".." and links it into parent.
func (fs *FileSystem) Mkdir(parent common.Inum, name string) (common.Inum, error) {
	ip := inode.MkInode(inode.KindDir, common.ROOTDEV)
	return fs.create(parent, name, ip, func(inum common.Inum, ip *inode.Inode) error {
		if err := fs.DirAdd(ip, ".", inum); err != nil {
			return err
		}
		return fs.DirAdd(ip, "..", parent)
	})
}

// Mknod makes a device file with the given major and minor numbers.
func (fs *FileSystem) Mknod(parent common.Inum, name string, major uint32, minor uint32) (common.Inum, error) {
	ip := inode.MkDevice(common.ROOTDEV, major, minor)
	return fs.create(parent, name, ip, func(common.Inum, *inode.Inode) error {
		return nil
	})
}
