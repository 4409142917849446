package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/minio/sha256-simd"
	"github.com/pkg/errors"

	"github.com/mit-pdos/go-simplefs/common"
	"github.com/mit-pdos/go-simplefs/disk"
	"github.com/mit-pdos/go-simplefs/fs"
	"github.com/mit-pdos/go-simplefs/inode"
)

// dirName is the root directory entry for a seeded host file: its base name,
// cut to DIRSIZ bytes.
func dirName(path string) string {
	name := filepath.Base(path)
	if uint64(len(name)) > common.DIRSIZ {
		name = name[:common.DIRSIZ]
	}
	return name
}

// verify reads inum back whole and compares its digest with want, the
// digest of data, then reads it again one byte at a time.
func verify(r *fs.Reader, inum common.Inum, data []byte, want [sha256.Size]byte) error {
	got, err := r.ReadFile(inum)
	if err != nil {
		return err
	}
	if sum := sha256.Sum256(got); sum != want {
		return errors.Errorf("inode %d: read back %d bytes with digest %x, wrote %d bytes with %x",
			inum, len(got), sum, len(data), want)
	}
	ip, err := r.Stat(inum)
	if err != nil {
		return err
	}
	b := make([]byte, 1)
	for i := range data {
		if _, err := r.Read(&ip, b, uint64(i)); err != nil {
			return errors.Wrapf(err, "inode %d offset %d", inum, i)
		}
		if b[0] != data[i] {
			return errors.Errorf("inode %d offset %d: read %#x, wrote %#x",
				inum, i, b[0], data[i])
		}
	}
	return nil
}

// manifestLine formats one entry in sha256sum's format.
func manifestLine(sum [sha256.Size]byte, name string) string {
	return fmt.Sprintf("%x  %s\n", sum, name)
}

// seed copies the host file at path into the root directory and returns the
// verified digest of its content.
func seed(fsys *fs.FileSystem, path string) (common.Inum, [sha256.Size]byte, error) {
	var sum [sha256.Size]byte
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return 0, sum, err
	}
	sum = sha256.Sum256(data)
	ip := inode.MkInode(inode.KindFile, common.ROOTDEV)
	inum, err := fsys.AllocInode(common.ROOTDEV, ip)
	if err != nil {
		return 0, sum, err
	}
	if _, err := fsys.Write(&ip, data, 0); err != nil {
		return 0, sum, errors.Wrapf(err, "write %s", path)
	}
	if err := fsys.UpdateInode(inum, &ip); err != nil {
		return 0, sum, err
	}
	if err := verify(&fsys.Reader, inum, data, sum); err != nil {
		return 0, sum, err
	}
	root, err := fsys.Stat(common.ROOTINUM)
	if err != nil {
		return 0, sum, err
	}
	if err := fsys.DirAdd(&root, dirName(path), inum); err != nil {
		return 0, sum, err
	}
	return inum, sum, fsys.UpdateInode(common.ROOTINUM, &root)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n\n%s [flags] IMAGE [FILE...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	backend := flag.String("backend", "file",
		fmt.Sprintf("Backend to use (possible: %v)", disk.List()))
	nblocks := flag.Uint("blocks", uint(common.FSSIZE), "Filesystem size in blocks")
	ninodes := flag.Uint("inodes", uint(common.NUMINODES), "Number of inodes")
	offset := flag.Uint64("offset", 0, "Sectors to leave untouched before the filesystem (e.g. a boot sector)")
	check := flag.Bool("check", true, "Check the filesystem when done")
	manifest := flag.String("manifest", "", "Write a sha256sum-style manifest of the seeded files to this path")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	d, err := disk.Open(*backend, flag.Arg(0), *offset+uint64(*nblocks))
	if err != nil {
		log.Fatal(err)
	}
	defer d.Close()
	if *offset > 0 {
		d, err = disk.Window(d, *offset, uint64(*nblocks))
		if err != nil {
			log.Fatal(err)
		}
	}

	fsys, err := fs.MkFileSystem(d)
	if err != nil {
		log.Fatal(err)
	}
	if err := fsys.Mkfs(uint32(*nblocks), uint32(*ninodes)); err != nil {
		log.Fatalf("format: %+v", err)
	}
	log.Printf("formatted %s: %d blocks, %d inodes, data at %d",
		flag.Arg(0), *nblocks, *ninodes, common.DataStart(uint32(*ninodes)))

	var lines []byte
	for _, path := range flag.Args()[1:] {
		inum, sum, err := seed(fsys, path)
		if err != nil {
			log.Fatalf("seed %s: %+v", path, err)
		}
		log.Printf("wrote %s as /%s (inode %d, sha256 %x)", path, dirName(path), inum, sum)
		lines = append(lines, manifestLine(sum, dirName(path))...)
	}
	if *manifest != "" {
		if err := ioutil.WriteFile(*manifest, lines, 0644); err != nil {
			log.Fatal(err)
		}
	}
	if err := d.Barrier(); err != nil {
		log.Fatal(err)
	}

	if *check {
		rep, err := fsys.Check()
		if err != nil {
			log.Fatalf("check: %v", err)
		}
		log.Printf("%d inodes in use, %d blocks used, %d free",
			rep.Inodes, rep.UsedBlocks, rep.FreeBlocks)
	}
}
