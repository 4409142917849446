package fs

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mit-pdos/go-simplefs/alloc"
	"github.com/mit-pdos/go-simplefs/common"
	"github.com/mit-pdos/go-simplefs/inode"
	"github.com/mit-pdos/go-simplefs/util"
)

// Report summarizes a consistency check.
type Report struct {
	Inodes     uint64 // in use
	FreeBlocks uint64
	UsedBlocks uint64
	Problems   []string
}

func (rep *Report) problem(format string, a ...interface{}) {
	rep.Problems = append(rep.Problems, fmt.Sprintf(format, a...))
}

// Check verifies that every data block is owned exactly once, either by the
// free list or by one direct pointer, that sizes fit the block map, and that
// directory entries name inodes in use. It returns ErrCorrupt if anything is
// wrong; the report lists every problem found.
func (r *Reader) Check() (*Report, error) {
	sb, err := r.Super()
	if err != nil {
		return nil, err
	}
	rep := &Report{}
	owner := make(map[common.Bnum]string)
	claim := func(bn common.Bnum, who string) {
		if !sb.IsDataBlock(bn) {
			rep.problem("%s: block %d outside the data region", who, bn)
			return
		}
		if prev, ok := owner[bn]; ok {
			rep.problem("block %d owned by %s and %s", bn, prev, who)
			return
		}
		owner[bn] = who
	}

	free, err := alloc.FreeList(r.r)
	if err != nil {
		rep.problem("free list: %v", err)
	}
	for _, bn := range free {
		claim(bn, "free list")
	}
	rep.FreeBlocks = uint64(len(free))

	inodes := make([]inode.Inode, sb.NInodes)
	for i := range inodes {
		ip, err := r.readSlot(common.Inum(i))
		if err != nil {
			return nil, err
		}
		inodes[i] = ip
		if ip.IsUnused() {
			continue
		}
		rep.Inodes++
		if uint64(ip.Size) > common.MAXFILE {
			rep.problem("inode %d: size %d", i, ip.Size)
		}
		for j, bn := range ip.Blocks {
			if bn == common.NULLBNUM {
				continue
			}
			claim(bn, fmt.Sprintf("inode %d[%d]", i, j))
			rep.UsedBlocks++
		}
	}

	if !inodes[common.ROOTINUM].IsDir() {
		rep.problem("root inode is %v", inodes[common.ROOTINUM].Kind)
	}
	for i := range inodes {
		ip := &inodes[i]
		if !ip.IsDir() {
			continue
		}
		if uint64(ip.Size)%common.DIRENTSZ != 0 {
			rep.problem("dir %d: size %d", i, ip.Size)
			continue
		}
		ents, err := r.ReadDir(ip)
		if err != nil {
			rep.problem("dir %d: %v", i, err)
			continue
		}
		for _, de := range ents {
			if uint32(de.Inum) >= sb.NInodes || inodes[de.Inum].IsUnused() {
				rep.problem("dir %d: entry %q names free inode %d", i, de.Name, de.Inum)
			}
		}
	}

	for bn := sb.DataStart(); bn < sb.NBlocks; bn++ {
		if _, ok := owner[bn]; !ok {
			rep.problem("block %d lost", bn)
		}
	}

	util.DPrintf(1, "Check: %d inodes, %d free, %d used, %d problems\n",
		rep.Inodes, rep.FreeBlocks, rep.UsedBlocks, len(rep.Problems))
	if len(rep.Problems) > 0 {
		return rep, errors.Wrapf(common.ErrCorrupt, "%d problems, first: %s",
			len(rep.Problems), rep.Problems[0])
	}
	return rep, nil
}
