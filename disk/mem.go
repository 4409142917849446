package disk

import (
	gdisk "github.com/tchajed/goose/machine/disk"

	"github.com/mit-pdos/go-simplefs/common"
	"github.com/mit-pdos/go-simplefs/util"
)

const sectorsPerBlock = gdisk.BlockSize / common.SectorSize

var _ Disk = (*gooseDisk)(nil)

// gooseDisk packs sectors into the 4 KiB blocks of a goose disk.
type gooseDisk struct {
	d        gdisk.Disk
	nsectors uint64
}

// NewMemDisk returns an in-memory disk of nsectors zeroed sectors.
func NewMemDisk(nsectors uint64) Disk {
	nblocks := util.RoundUp(nsectors, sectorsPerBlock)
	return &gooseDisk{d: gdisk.NewMemDisk(nblocks), nsectors: nsectors}
}

// FromGoose exposes every sector of a goose disk.
func FromGoose(d gdisk.Disk) Disk {
	return &gooseDisk{d: d, nsectors: d.Size() * sectorsPerBlock}
}

func sectorPos(s uint64) (uint64, uint64) {
	return s / sectorsPerBlock, (s % sectorsPerBlock) * common.SectorSize
}

func (d *gooseDisk) ReadSector(s uint64, b []byte) error {
	if err := checkAccess("read", s, d.nsectors, b); err != nil {
		return err
	}
	a, off := sectorPos(s)
	blk := d.d.Read(a)
	copy(b, blk[off:off+common.SectorSize])
	return nil
}

func (d *gooseDisk) WriteSector(s uint64, b []byte) (uint64, error) {
	if err := checkAccess("write", s, d.nsectors, b); err != nil {
		return 0, err
	}
	a, off := sectorPos(s)
	blk := d.d.Read(a)
	copy(blk[off:off+common.SectorSize], b)
	d.d.Write(a, blk)
	return uint64(len(b)), nil
}

func (d *gooseDisk) SectorSize() uint64 { return common.SectorSize }

func (d *gooseDisk) Size() uint64 { return d.nsectors }

func (d *gooseDisk) Barrier() error {
	d.d.Barrier()
	return nil
}

func (d *gooseDisk) Close() error {
	d.d.Close()
	return nil
}
