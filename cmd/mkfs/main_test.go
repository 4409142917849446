package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minio/sha256-simd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mit-pdos/go-simplefs/common"
	"github.com/mit-pdos/go-simplefs/disk"
	"github.com/mit-pdos/go-simplefs/fs"
)

func TestDirName(t *testing.T) {
	assert.Equal(t, "README", dirName("/usr/src/README"))
	long := strings.Repeat("k", 40)
	assert.Equal(t, long[:common.DIRSIZ], dirName("out/"+long))
}

func TestSeed(t *testing.T) {
	dir, err := ioutil.TempDir("", "mkfs")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "README")
	content := []byte(strings.Repeat("simple filesystem\n", 200))
	require.NoError(t, ioutil.WriteFile(path, content, 0644))

	fsys, err := fs.MkFileSystem(disk.NewMemDisk(200))
	require.NoError(t, err)
	require.NoError(t, fsys.Mkfs(200, 32))

	inum, sum, err := seed(fsys, path)
	require.NoError(t, err)
	assert.NotEqual(t, common.ROOTINUM, inum)
	assert.Equal(t, sha256.Sum256(content), sum)

	found, err := fsys.Namex("/", "README")
	require.NoError(t, err)
	assert.Equal(t, inum, found)
	got, err := fsys.ReadFile(found)
	assert.NoError(t, err)
	assert.Equal(t, content, got)
	_, err = fsys.Check()
	assert.NoError(t, err)
}

func TestSeedTooLarge(t *testing.T) {
	dir, err := ioutil.TempDir("", "mkfs")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "big")
	require.NoError(t, ioutil.WriteFile(path, make([]byte, common.MAXFILE+1), 0644))

	fsys, err := fs.MkFileSystem(disk.NewMemDisk(200))
	require.NoError(t, err)
	require.NoError(t, fsys.Mkfs(200, 32))
	_, _, err = seed(fsys, path)
	assert.Error(t, err)
}

func TestVerifyDetectsMismatch(t *testing.T) {
	fsys, err := fs.MkFileSystem(disk.NewMemDisk(200))
	require.NoError(t, err)
	require.NoError(t, fsys.Mkfs(200, 32))
	inum, err := fsys.CreateFile(common.ROOTINUM, "f", []byte("abc"))
	require.NoError(t, err)

	check := func(data []byte) error {
		return verify(&fsys.Reader, inum, data, sha256.Sum256(data))
	}
	assert.NoError(t, check([]byte("abc")))
	assert.Error(t, check([]byte("abd")))
	assert.Error(t, check([]byte("abcd")))
	assert.Error(t, check([]byte("ab")), "file longer than data")

	// content matches but the expected digest does not
	assert.Error(t, verify(&fsys.Reader, inum, []byte("abc"), sha256.Sum256([]byte("xyz"))))
}

func TestManifestLine(t *testing.T) {
	sum := sha256.Sum256([]byte("abc"))
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad  README\n",
		manifestLine(sum, "README"))
}
