// Package vm provides the GPU virtual address space object that device
// memory is reserved from.
package vm

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// PageSize is the GPU page size.
const PageSize = 0x1000

// dirBaseCounter hands out distinct page-directory addresses so every
// space programs a different value into the MMUs.
var dirBaseCounter atomic.Uint64

// Space is one refcounted GPU virtual address space: a page directory
// address plus the page mappings installed in it.
type Space struct {
	name    string
	dirBase uint64
	refs    atomic.Int32

	mu    sync.Mutex
	pages map[uint64]uint64
}

// NewSpace creates an empty space holding one reference.
func NewSpace(name string) (*Space, error) {
	s := &Space{
		name:    name,
		dirBase: (dirBaseCounter.Add(1)) * PageSize,
		pages:   make(map[uint64]uint64),
	}
	s.refs.Store(1)

	return s, nil
}

// Name returns the space name.
func (s *Space) Name() string {
	return s.name
}

// DirBase returns the device-visible address of the page directory.
func (s *Space) DirBase() uint64 {
	return s.dirBase
}

// Retain takes an extra reference.
func (s *Space) Retain() *Space {
	s.refs.Add(1)
	return s
}

// Release drops one reference. The final release clears the mappings.
func (s *Space) Release() {
	refs := s.refs.Add(-1)
	if refs < 0 {
		panic("space " + s.name + " released more than retained")
	}

	if refs == 0 {
		s.mu.Lock()
		s.pages = nil
		s.mu.Unlock()
	}
}

// Map installs a page-aligned VA to device-address mapping.
func (s *Space) Map(va, devAddr uint64) error {
	if va%PageSize != 0 || devAddr%PageSize != 0 {
		return fmt.Errorf("space %s: map %#x -> %#x is not page aligned",
			s.name, va, devAddr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.pages[va]; taken {
		return fmt.Errorf("space %s: va %#x already mapped", s.name, va)
	}

	s.pages[va] = devAddr

	return nil
}

// Unmap removes a mapping installed by Map. Unmapping a hole is a no-op.
func (s *Space) Unmap(va uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pages, va)
}

// Translate resolves a page-aligned VA to its device address.
func (s *Space) Translate(va uint64) (devAddr uint64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	devAddr, ok = s.pages[va]

	return devAddr, ok
}

// NumPages returns the number of installed mappings.
func (s *Space) NumPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pages)
}
