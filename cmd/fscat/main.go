// Command fscat prints a file from a filesystem image the way a boot loader
// would: it resolves the path, then reads one block at a time until EOF.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mit-pdos/go-simplefs/common"
	"github.com/mit-pdos/go-simplefs/disk"
	"github.com/mit-pdos/go-simplefs/fs"
	"github.com/mit-pdos/go-simplefs/inode"
)

// cat streams inum to w in block-sized reads.
func cat(r *fs.Reader, inum common.Inum, w io.Writer) (uint64, error) {
	ip, err := r.Stat(inum)
	if err != nil {
		return 0, err
	}
	b := make([]byte, common.BlockSize)
	var off uint64
	for {
		n, err := r.Read(&ip, b, off)
		if err == io.EOF {
			return off, nil
		}
		if err != nil {
			return off, err
		}
		if _, err := w.Write(b[:n]); err != nil {
			return off, err
		}
		off += n
	}
}

// list prints one line per entry of the directory inum.
func list(r *fs.Reader, inum common.Inum, w io.Writer) error {
	dp, err := r.Stat(inum)
	if err != nil {
		return err
	}
	ents, err := r.ReadDir(&dp)
	if err != nil {
		return err
	}
	for _, de := range ents {
		ip, err := r.Stat(de.Inum)
		if err != nil {
			fmt.Fprintf(w, "%-28s %4d  ?\n", de.Name, de.Inum)
			continue
		}
		fmt.Fprintf(w, "%-28s %4d  %-6v %d\n", de.Name, de.Inum, ip.Kind, ip.Size)
	}
	return nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n\n%s [flags] IMAGE [PATH]\n", os.Args[0])
		flag.PrintDefaults()
	}
	backend := flag.String("backend", "file",
		fmt.Sprintf("Backend to use (possible: %v)", disk.List()))
	offset := flag.Uint64("offset", 0, "Sectors before the filesystem")
	ls := flag.Bool("ls", false, "List PATH as a directory")
	check := flag.Bool("check", false, "Check the filesystem and print a summary")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := "/README"
	if flag.NArg() > 1 {
		path = flag.Arg(1)
	}

	d, err := disk.Open(*backend, flag.Arg(0), 0)
	if err != nil {
		log.Fatal(err)
	}
	defer d.Close()
	if *offset > 0 {
		d, err = disk.Window(d, *offset, 0)
		if err != nil {
			log.Fatal(err)
		}
	}
	r, err := fs.MkReader(d)
	if err != nil {
		log.Fatal(err)
	}

	if *check {
		rep, err := r.Check()
		if rep != nil {
			for _, p := range rep.Problems {
				fmt.Println(p)
			}
			fmt.Printf("%d inodes, %d blocks used, %d free\n",
				rep.Inodes, rep.UsedBlocks, rep.FreeBlocks)
		}
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	inum, err := r.Namei(path)
	if err != nil {
		log.Fatalf("%s: %v", path, err)
	}
	ip, err := r.Stat(inum)
	if err != nil {
		log.Fatal(err)
	}
	if *ls || ip.Kind == inode.KindDir {
		if err := list(r, inum, os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}
	if _, err := cat(r, inum, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
