package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mit-pdos/go-simplefs/common"
	"github.com/mit-pdos/go-simplefs/disk"
	"github.com/mit-pdos/go-simplefs/fs"
)

func TestCatAndList(t *testing.T) {
	fsys, err := fs.MkFileSystem(disk.NewMemDisk(100))
	require.NoError(t, err)
	require.NoError(t, fsys.Mkfs(100, 16))
	content := []byte(strings.Repeat("0123456789", 300))
	inum, err := fsys.CreateFile(common.ROOTINUM, "README", content)
	require.NoError(t, err)

	var out bytes.Buffer
	n, err := cat(&fsys.Reader, inum, &out)
	assert.NoError(t, err)
	assert.Equal(t, uint64(len(content)), n)
	assert.Equal(t, content, out.Bytes())

	out.Reset()
	assert.NoError(t, list(&fsys.Reader, common.ROOTINUM, &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "."))
	assert.True(t, strings.HasPrefix(lines[2], "README"))
	assert.Contains(t, lines[2], "3000")
}
