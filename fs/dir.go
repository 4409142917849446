package fs

import (
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/tchajed/marshal"

	"github.com/mit-pdos/go-simplefs/common"
	"github.com/mit-pdos/go-simplefs/inode"
)

// DirEnt is one directory record: a name of up to DIRSIZ bytes, zero padded
// on disk, and the inode it names. Names are non-empty and hold no NUL
// bytes, so trimming the padding recovers them exactly.
type DirEnt struct {
	Name string
	Inum common.Inum
}

func encodeDirEnt(de DirEnt) []byte {
	name := make([]byte, common.DIRSIZ)
	copy(name, de.Name)
	enc := marshal.NewEnc(common.DIRENTSZ)
	enc.PutBytes(name)
	enc.PutInt32(uint32(de.Inum))
	return enc.Finish()
}

func decodeDirEnt(b []byte) DirEnt {
	dec := marshal.NewDec(b)
	name := dec.GetBytes(common.DIRSIZ)
	inum := dec.GetInt32()
	return DirEnt{
		Name: string(bytes.TrimRight(name, "\x00")),
		Inum: common.Inum(inum),
	}
}

// checkName accepts names that fit an entry and survive its zero padding.
func checkName(name string) error {
	if uint64(len(name)) > common.DIRSIZ {
		return errors.Wrapf(common.ErrNameTooLong, "%q", name)
	}
	if name == "" || strings.IndexByte(name, 0) >= 0 {
		return errors.Wrapf(common.ErrInvalidName, "%q", name)
	}
	return nil
}

// DirAdd appends an entry for inum to the directory dp. Names are not
// checked for duplicates and removed slots are never reused. As with Write,
// the caller persists dp.
func (fs *FileSystem) DirAdd(dp *inode.Inode, name string, inum common.Inum) error {
	if err := checkName(name); err != nil {
		return err
	}
	if !dp.IsDir() {
		return errors.Wrapf(common.ErrNotDir, "add %q", name)
	}
	ent := encodeDirEnt(DirEnt{Name: name, Inum: inum})
	_, err := fs.Write(dp, ent, uint64(dp.Size))
	return err
}

// dirScan calls f on each entry of dp with its byte offset until f returns
// true.
func (r *Reader) dirScan(dp *inode.Inode, f func(de DirEnt, off uint64) bool) error {
	ent := make([]byte, common.DIRENTSZ)
	for off := uint64(0); ; off += common.DIRENTSZ {
		n, err := r.Read(dp, ent, off)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if n != common.DIRENTSZ {
			return errors.Wrapf(common.ErrCorrupt, "directory size %d", dp.Size)
		}
		if f(decodeDirEnt(ent), off) {
			return nil
		}
	}
}

// DirLookup returns the inode and byte offset of the first entry of dp
// named name.
func (r *Reader) DirLookup(dp *inode.Inode, name string) (common.Inum, uint64, error) {
	if !dp.IsDir() {
		return 0, 0, errors.Wrapf(common.ErrNotDir, "lookup %q", name)
	}
	var inum common.Inum
	var off uint64
	found := false
	err := r.dirScan(dp, func(de DirEnt, o uint64) bool {
		if de.Name == name {
			inum, off, found = de.Inum, o, true
		}
		return found
	})
	if err != nil {
		return 0, 0, err
	}
	if !found {
		return 0, 0, errors.Wrapf(common.ErrNotFound, "%q", name)
	}
	return inum, off, nil
}

// ReadDir lists every entry of dp in order.
func (r *Reader) ReadDir(dp *inode.Inode) ([]DirEnt, error) {
	if !dp.IsDir() {
		return nil, common.ErrNotDir
	}
	var ents []DirEnt
	err := r.dirScan(dp, func(de DirEnt, off uint64) bool {
		ents = append(ents, de)
		return false
	})
	return ents, err
}

// Namex walks the directories of path from the root and looks up name in the
// last one. A path of "/" (or "") names the root itself.
func (r *Reader) Namex(path string, name string) (common.Inum, error) {
	dp, err := r.ReadInode(common.ROOTDEV, common.ROOTINUM)
	if err != nil {
		return 0, err
	}
	for _, c := range strings.Split(path, "/") {
		if c == "" {
			continue
		}
		if !dp.IsDir() {
			return 0, errors.Wrapf(common.ErrNotDir, "%q in %q", c, path)
		}
		inum, _, err := r.DirLookup(&dp, c)
		if err != nil {
			return 0, errors.Wrapf(err, "in %q", path)
		}
		dp, err = r.ReadInode(common.ROOTDEV, inum)
		if err != nil {
			return 0, err
		}
	}
	if !dp.IsDir() {
		return 0, errors.Wrapf(common.ErrNotDir, "%q", path)
	}
	inum, _, err := r.DirLookup(&dp, name)
	return inum, err
}

// Namei resolves a whole path such as "/docs/readme".
func (r *Reader) Namei(path string) (common.Inum, error) {
	path = strings.TrimRight(path, "/")
	i := strings.LastIndex(path, "/")
	if path == "" {
		return common.ROOTINUM, nil
	}
	return r.Namex(path[:i+1], path[i+1:])
}
