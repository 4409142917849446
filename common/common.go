package common

const (
	// BlockSize is the filesystem block size; one block is one sector.
	BlockSize  uint64 = 512
	SectorSize uint64 = BlockSize

	INODESZ  uint64 = 64 // on-disk size
	INODEBLK uint64 = BlockSize / INODESZ

	// NDIRECT is the number of direct block pointers in an inode
	NDIRECT uint64 = (INODESZ - 5*4) / 4
	MAXFILE uint64 = NDIRECT * BlockSize

	DIRSIZ     uint64 = 28
	DIRENTSZ   uint64 = DIRSIZ + 4
	DIRENTBLK  uint64 = BlockSize / DIRENTSZ
	NUMINODES  uint32 = 200
	FSSIZE     uint32 = 1000
	INODESTART Bnum   = 1
)

type Inum uint32
type Bnum = uint32
type DevId = uint32

const (
	SUPERBNUM Bnum = 0
	// NULLBNUM is never a data block: it is the superblock. It marks both an
	// unset direct pointer and the end of the free list.
	NULLBNUM Bnum = 0

	ROOTDEV  DevId = 0
	ROOTINUM Inum  = 0
)

// InodeBlocks is the number of blocks holding ninodes inode records.
func InodeBlocks(ninodes uint32) uint64 {
	return (uint64(ninodes) + INODEBLK - 1) / INODEBLK
}

// DataStart is the first data block for a table of ninodes inodes.
func DataStart(ninodes uint32) Bnum {
	return INODESTART + Bnum(InodeBlocks(ninodes))
}
