package disk

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/mit-pdos/go-simplefs/util"
)

type factoryCallback func(path string, nsectors uint64) (Disk, error)

var backendFactories = map[string]factoryCallback{
	"file": func(path string, nsectors uint64) (Disk, error) {
		if nsectors == 0 {
			return OpenFileDisk(path)
		}
		return NewFileDisk(path, nsectors)
	},
	"bolt":   NewBoltDisk,
	"badger": NewBadgerDisk,
	"mem": func(path string, nsectors uint64) (Disk, error) {
		return NewMemDisk(nsectors), nil
	},
}

// List returns the names of the available backends.
func List() []string {
	keys := make([]string, 0, len(backendFactories))
	for k := range backendFactories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Open creates or reopens a disk with the named backend. nsectors == 0 opens
// an existing disk at its recorded size.
func Open(name string, path string, nsectors uint64) (Disk, error) {
	f, ok := backendFactories[name]
	if !ok {
		return nil, errors.Errorf("unknown backend %q (possible: %v)", name, List())
	}
	util.DPrintf(1, "disk.Open %s %s %d\n", name, path, nsectors)
	return f(path, nsectors)
}
