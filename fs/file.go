package fs

import (
	"io"

	"github.com/pkg/errors"

	"github.com/mit-pdos/go-simplefs/addr"
	"github.com/mit-pdos/go-simplefs/buf"
	"github.com/mit-pdos/go-simplefs/common"
	"github.com/mit-pdos/go-simplefs/disk"
	"github.com/mit-pdos/go-simplefs/inode"
	"github.com/mit-pdos/go-simplefs/util"
)

// Read copies the bytes of ip starting at off into b and returns how many it
// copied, which is short when the file ends first. Reading at or past the end
// returns io.EOF. Unset block pointers read as zeros.
func (r *Reader) Read(ip *inode.Inode, b []byte, off uint64) (uint64, error) {
	size := uint64(ip.Size)
	if off >= size {
		return 0, io.EOF
	}
	end := util.Min(off+uint64(len(b)), size)
	blk := make(disk.Block, common.BlockSize)
	var n uint64
	for pos := off; pos < end; {
		i, boff := addr.FileIndex(pos)
		if i >= common.NDIRECT {
			return n, errors.Wrapf(common.ErrCorrupt, "size %d exceeds direct blocks", size)
		}
		cnt := util.Min(common.BlockSize-boff, end-pos)
		bn := ip.Blocks[i]
		if bn == common.NULLBNUM {
			for j := n; j < n+cnt; j++ {
				b[j] = 0
			}
		} else {
			if err := r.r.ReadSector(uint64(bn), blk); err != nil {
				return n, errors.Wrapf(err, "read block %d", bn)
			}
			copy(b[n:n+cnt], blk[boff:boff+cnt])
		}
		util.DPrintf(10, "Read: block %d [%d,%d)\n", bn, boff, boff+cnt)
		n += cnt
		pos += cnt
	}
	return n, nil
}

// Write copies b into ip at off, allocating blocks for unset pointers, and
// grows ip.Size to cover the bytes actually written. Partially covered
// blocks are read, patched, and written back. A write starting past MAXFILE
// (or at MAXFILE with data) fails with ErrFileTooLarge without touching ip;
// one that runs past the last direct block fails the same way after the
// blocks before it have been written.
//
// Write changes only the in-memory ip; the caller persists it with
// UpdateInode.
func (fs *FileSystem) Write(ip *inode.Inode, b []byte, off uint64) (uint64, error) {
	if off > common.MAXFILE || (off == common.MAXFILE && len(b) > 0) {
		return 0, errors.Wrapf(common.ErrFileTooLarge, "write at %d", off)
	}
	end := off + uint64(len(b))
	var n uint64
	var err error
	for pos := off; pos < end; {
		i, boff := addr.FileIndex(pos)
		if i >= common.NDIRECT {
			err = errors.Wrapf(common.ErrFileTooLarge, "write [%d,%d)", off, end)
			break
		}
		bn := ip.Blocks[i]
		if bn == common.NULLBNUM {
			bn, err = fs.AllocBlock()
			if err != nil {
				break
			}
			ip.Blocks[i] = bn
		}
		cnt := util.Min(common.BlockSize-boff, end-pos)
		blkbuf := buf.MkBuf(addr.MkAddr(bn, boff), cnt, b[n:n+cnt])
		if err = blkbuf.WriteDirect(fs.d); err != nil {
			err = errors.Wrapf(err, "write block %d", bn)
			break
		}
		util.DPrintf(10, "Write: block %d [%d,%d)\n", bn, boff, boff+cnt)
		n += cnt
		pos += cnt
	}
	// off+n <= MAXFILE: only direct blocks were written
	if n > 0 && off+n > uint64(ip.Size) {
		ip.Size = uint32(off + n)
	}
	return n, err
}

// ReadFile reads inum from start to end in block-sized chunks.
func (r *Reader) ReadFile(inum common.Inum) ([]byte, error) {
	ip, err := r.Stat(inum)
	if err != nil {
		return nil, err
	}
	data := make([]byte, 0, ip.Size)
	chunk := make([]byte, common.BlockSize)
	var off uint64
	for {
		n, err := r.Read(&ip, chunk, off)
		if err == io.EOF {
			return data, nil
		}
		if err != nil {
			return nil, err
		}
		data = append(data, chunk[:n]...)
		off += n
	}
}
