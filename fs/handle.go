package fs

import (
	"sync"
)

// Handle shares one filesystem between goroutines: any number of View calls
// run together, and an Update runs alone. Readers therefore never see a
// filesystem halfway through an allocate/write/update sequence.
type Handle struct {
	mu *sync.RWMutex
	fs *FileSystem
}

func MkHandle(fs *FileSystem) *Handle {
	return &Handle{mu: new(sync.RWMutex), fs: fs}
}

// View runs f with read-only access.
func (h *Handle) View(f func(r *Reader) error) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return f(&h.fs.Reader)
}

// Update runs f with exclusive access.
func (h *Handle) Update(f func(fs *FileSystem) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return f(h.fs)
}
