package fs

import (
	"github.com/pkg/errors"

	"github.com/mit-pdos/go-simplefs/common"
	"github.com/mit-pdos/go-simplefs/disk"
	"github.com/mit-pdos/go-simplefs/inode"
	"github.com/mit-pdos/go-simplefs/super"
	"github.com/mit-pdos/go-simplefs/util"
)

//
// mkfs
//

func (fs *FileSystem) clearInodes(ninodes uint32) error {
	blk := make(disk.Block, 0, common.BlockSize)
	for i := uint64(0); i < common.INODEBLK; i++ {
		blk = append(blk, inode.Unused.Encode()...)
	}
	for i := uint64(0); i < common.InodeBlocks(ninodes); i++ {
		bn := uint64(common.INODESTART) + i
		if _, err := fs.d.WriteSector(bn, blk); err != nil {
			return errors.Wrapf(err, "clear inode block %d", bn)
		}
	}
	return nil
}

// Mkfs formats the first nblocks blocks of the disk with room for ninodes
// inodes: every inode slot unused, every data block on the free list (freed
// in ascending order), and inode ROOTINUM a directory holding "." and "..",
// both naming itself.
func (fs *FileSystem) Mkfs(nblocks uint32, ninodes uint32) error {
	if uint64(nblocks) > fs.d.Size() {
		return errors.Wrapf(common.ErrOutOfSpace, "%d blocks on a %d-sector disk",
			nblocks, fs.d.Size())
	}
	sb := super.MkSuperBlock(nblocks, ninodes)
	if err := sb.Validate(); err != nil {
		return err
	}
	util.DPrintf(1, "Mkfs: %d blocks, %d inodes, data at %d\n",
		nblocks, ninodes, sb.DataStart())

	if err := fs.clearInodes(ninodes); err != nil {
		return err
	}
	if err := sb.Write(fs.d); err != nil {
		return err
	}
	sb2, err := super.Read(fs.d)
	if err != nil {
		return err
	}
	if *sb2 != *sb {
		return errors.Wrapf(common.ErrCorrupt, "superblock read back as %+v", sb2)
	}

	if err := fs.alloc.FreeRange(sb.DataStart(), common.Bnum(nblocks)); err != nil {
		return err
	}

	root := inode.MkInode(inode.KindDir, common.ROOTDEV)
	inum, err := fs.AllocInode(common.ROOTDEV, root)
	if err != nil {
		return err
	}
	if inum != common.ROOTINUM {
		return errors.Wrapf(common.ErrCorrupt, "root allocated as %d", inum)
	}
	if err := fs.DirAdd(&root, ".", inum); err != nil {
		return err
	}
	if err := fs.DirAdd(&root, "..", inum); err != nil {
		return err
	}
	if err := fs.UpdateInode(inum, &root); err != nil {
		return err
	}
	return fs.d.Barrier()
}
