package common

import "github.com/pkg/errors"

// Errors returned by the filesystem. Callers compare errors.Cause(err)
// against these; device failures come back wrapped but otherwise unchanged.
// End of file is io.EOF.
var (
	ErrOutOfSpace     = errors.New("no space left on device")
	ErrNotFound       = errors.New("no such file or directory")
	ErrNotDir         = errors.New("not a directory")
	ErrFileTooLarge   = errors.New("file too large")
	ErrNameTooLong    = errors.New("file name too long")
	ErrInvalidName    = errors.New("invalid file name")
	ErrDeviceMismatch = errors.New("inode belongs to another device")
	ErrCorrupt        = errors.New("corrupt filesystem")
)
