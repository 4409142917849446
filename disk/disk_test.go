package disk

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
	gdisk "github.com/tchajed/goose/machine/disk"

	"github.com/mit-pdos/go-simplefs/common"
)

const testSectors uint64 = 40

type DiskSuite struct {
	suite.Suite
	backend string
	dir     string
	d       Disk
}

func (suite *DiskSuite) path() string {
	return filepath.Join(suite.dir, "disk.img")
}

func (suite *DiskSuite) SetupTest() {
	dir, err := ioutil.TempDir("", "disk")
	suite.Require().NoError(err)
	suite.dir = dir
	suite.d, err = Open(suite.backend, suite.path(), testSectors)
	suite.Require().NoError(err)
}

func (suite *DiskSuite) TearDownTest() {
	suite.d.Close()
	os.RemoveAll(suite.dir)
}

func mkSector(b byte) Block {
	blk := make(Block, common.SectorSize)
	for i := range blk {
		blk[i] = b
	}
	return blk
}

func (suite *DiskSuite) read(s uint64) Block {
	b := make(Block, common.SectorSize)
	suite.Require().NoError(suite.d.ReadSector(s, b))
	return b
}

func (suite *DiskSuite) TestGeometry() {
	suite.Equal(common.SectorSize, suite.d.SectorSize())
	suite.Equal(testSectors, suite.d.Size())
}

func (suite *DiskSuite) TestInitiallyZero() {
	suite.Equal(mkSector(0), suite.read(0))
	suite.Equal(mkSector(0), suite.read(testSectors-1))
}

func (suite *DiskSuite) TestReadWrite() {
	n, err := suite.d.WriteSector(3, mkSector(3))
	suite.NoError(err)
	suite.Equal(common.SectorSize, n)
	suite.d.WriteSector(9, mkSector(9))
	suite.Equal(mkSector(3), suite.read(3))
	suite.Equal(mkSector(9), suite.read(9))
	suite.Equal(mkSector(0), suite.read(8), "neighbouring sectors untouched")
	suite.Equal(mkSector(0), suite.read(10))
}

func (suite *DiskSuite) TestShortBuffers() {
	suite.d.WriteSector(5, mkSector(1))
	n, err := suite.d.WriteSector(5, []byte{7, 7})
	suite.NoError(err)
	suite.Equal(uint64(2), n)

	expected := mkSector(1)
	expected[0], expected[1] = 7, 7
	suite.Equal(expected, suite.read(5))

	b := make([]byte, 4)
	suite.NoError(suite.d.ReadSector(5, b))
	suite.Equal([]byte{7, 7, 1, 1}, b)
}

func (suite *DiskSuite) TestOutOfRange() {
	err := suite.d.ReadSector(testSectors, make(Block, common.SectorSize))
	suite.Equal(ErrOutOfRange, errors.Cause(err))
	_, err = suite.d.WriteSector(testSectors, mkSector(1))
	suite.Equal(ErrOutOfRange, errors.Cause(err))
}

func (suite *DiskSuite) TestOversizedBufferPanics() {
	suite.Panics(func() {
		suite.d.ReadSector(0, make([]byte, common.SectorSize+1))
	})
}

func (suite *DiskSuite) TestBarrier() {
	suite.d.WriteSector(1, mkSector(1))
	suite.NoError(suite.d.Barrier())
}

func (suite *DiskSuite) TestReopen() {
	if suite.backend == "mem" {
		suite.T().Skip("mem disks do not persist")
	}
	suite.d.WriteSector(2, mkSector(2))
	suite.Require().NoError(suite.d.Barrier())
	suite.Require().NoError(suite.d.Close())

	d, err := Open(suite.backend, suite.path(), 0)
	suite.Require().NoError(err)
	suite.d = d
	suite.Equal(testSectors, d.Size())
	suite.Equal(mkSector(2), suite.read(2))
}

func TestBackends(t *testing.T) {
	for _, name := range List() {
		t.Run(name, func(t *testing.T) {
			suite.Run(t, &DiskSuite{backend: name})
		})
	}
}

func TestUnknownBackend(t *testing.T) {
	_, err := Open("tape", "", 1)
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestFromGoose(t *testing.T) {
	d := FromGoose(gdisk.NewMemDisk(2))
	if d.Size() != 2*sectorsPerBlock {
		t.Fatalf("size %d", d.Size())
	}
	d.WriteSector(sectorsPerBlock, mkSector(4))
	b := make(Block, common.SectorSize)
	d.ReadSector(sectorsPerBlock, b)
	if b[0] != 4 {
		t.Fatalf("read back %d", b[0])
	}
}

func TestWindow(t *testing.T) {
	base := NewMemDisk(10)
	w, err := Window(base, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if w.Size() != 9 {
		t.Fatalf("window size %d", w.Size())
	}
	w.WriteSector(0, mkSector(6))
	b := make(Block, common.SectorSize)
	base.ReadSector(1, b)
	if b[0] != 6 {
		t.Fatal("window sector 0 should be base sector 1")
	}
	base.ReadSector(0, b)
	if b[0] != 0 {
		t.Fatal("boot sector should be untouched")
	}
	if _, err := Window(base, 5, 6); errors.Cause(err) != ErrOutOfRange {
		t.Fatalf("expected out of range, got %v", err)
	}
}

func TestFileShortRead(t *testing.T) {
	dir, err := ioutil.TempDir("", "disk")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "disk.img")

	d, err := NewFileDisk(path, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	if _, err := d.WriteSector(3, mkSector(9)); err != nil {
		t.Fatal(err)
	}
	// shrink the image behind the disk: sector 3 is now half there
	if err := os.Truncate(path, int64(3*common.SectorSize+100)); err != nil {
		t.Fatal(err)
	}
	b := make(Block, common.SectorSize)
	if err := d.ReadSector(3, b); errors.Cause(err) != io.ErrUnexpectedEOF {
		t.Fatalf("expected short read, got %v", err)
	}
	if err := d.ReadSector(2, b); err != nil {
		t.Fatalf("whole sector: %v", err)
	}
}
