package simplatform

import (
	"sync"

	"github.com/sarchlab/mali/device"
)

// Window sizes backing each populated IP. Reads outside every backed
// window float to zero, the way an unpopulated bus address reads. Pixel
// processors carry their management block 0x1000 into the window and get
// the larger size.
const (
	windowSize   = 0x1000
	ppWindowSize = 0x2000
)

// Simulated version register values. Any nonzero value satisfies the
// bring-up probes; the product IDs sit in the upper half-word.
const (
	gpVersionValue = 0x0B07_0101
	ppVersionValue = 0x0CD5_0101
	l2SizeValue    = 0x0000_0783
)

// RegisterFile is a flat 32-bit register aperture with backing only where
// the board populates an IP.
type RegisterFile struct {
	mu      sync.Mutex
	regs    map[uint32]uint32
	windows []regWindow
}

type regWindow struct {
	base uint32
	size uint32
}

// NewRegisterFile builds the aperture for a board of the given generation
// with numPP pixel processors, preloaded with reset values.
func NewRegisterFile(gen device.Generation, numPP int) *RegisterFile {
	f := &RegisterFile{
		regs: make(map[uint32]uint32),
	}

	for k := device.IPKind(0); k < device.NumIP; k++ {
		offset := k.Offset(gen)
		if offset < 0 || !kindPopulated(k, numPP) {
			continue
		}

		size := uint32(windowSize)
		if (k >= device.IPPP0 && k <= device.IPPP7) || k == device.IPPPBcast {
			size = ppWindowSize
		}

		f.windows = append(f.windows,
			regWindow{base: uint32(offset), size: size})
	}

	f.Poke(uint32(device.IPGP.Offset(gen))+device.RegGPVersion,
		gpVersionValue)
	for k := device.IPL2Cache0; k <= device.IPL2Cache2; k++ {
		if offset := k.Offset(gen); offset >= 0 {
			f.Poke(uint32(offset)+device.RegL2CacheSize, l2SizeValue)
		}
	}

	for i := 0; i < numPP; i++ {
		pp := device.IPPP0 + device.IPKind(i)
		f.Poke(uint32(pp.Offset(gen))+device.RegPPVersion, ppVersionValue)
	}

	return f
}

// kindPopulated reports whether the board actually solders the IP. Pixel
// processors and their MMUs beyond numPP exist in the descriptor table
// but not on the board.
func kindPopulated(k device.IPKind, numPP int) bool {
	if k >= device.IPPP0 && k <= device.IPPP7 {
		return int(k-device.IPPP0) < numPP
	}

	if k >= device.IPPPMMU0 && k <= device.IPPPMMU7 {
		return int(k-device.IPPPMMU0) < numPP
	}

	return true
}

// Read32 returns the register value, 0 for unbacked addresses.
func (f *RegisterFile) Read32(offset uint32) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.backed(offset) {
		return 0
	}

	return f.regs[offset]
}

// Write32 stores the register value. Writes to unbacked addresses are
// dropped.
func (f *RegisterFile) Write32(offset uint32, value uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.backed(offset) {
		return
	}

	f.regs[offset] = value
}

// Peek reads a register without the backing check, for tests.
func (f *RegisterFile) Peek(offset uint32) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.regs[offset]
}

// Poke stores a register without the backing check, for tests and reset
// values.
func (f *RegisterFile) Poke(offset uint32, value uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.regs[offset] = value
}

func (f *RegisterFile) backed(offset uint32) bool {
	for _, w := range f.windows {
		if offset >= w.base && offset < w.base+w.size {
			return true
		}
	}

	return false
}
