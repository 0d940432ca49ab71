package device

// RegisterSpace is the mapped register aperture of one device. Accesses
// use plain load/store semantics; ordering is the implementation's
// concern.
type RegisterSpace interface {
	Read32(offset uint32) uint32
	Write32(offset uint32, value uint32)
}

// Clock is one gateable clock obtained from the platform.
type Clock interface {
	Enable() error
	Disable()
}

// Reset is an optional reset line. It is deasserted during bring-up and
// asserted again during teardown.
type Reset interface {
	Deassert() error
	Assert()
}

// Regulator is an optional voltage regulator.
type Regulator interface {
	Enable() error
	Disable()
}

// DMAPage is one page of cache-coherent, write-combining memory visible
// to both the CPU and the device.
type DMAPage struct {
	CPU     []byte
	DevAddr uint64
}

// Platform resolves board resources for a device.
type Platform interface {
	// MapRegisters maps the device register aperture.
	MapRegisters() (RegisterSpace, error)

	// IRQByName resolves a named interrupt to its line number.
	IRQByName(name string) (int, error)

	// ClockByName looks up a named clock.
	ClockByName(name string) (Clock, error)

	// OptionalReset returns the reset line, (nil, nil) when the board has
	// none.
	OptionalReset() (Reset, error)

	// OptionalRegulator returns the named regulator, (nil, nil) when the
	// board has none.
	OptionalRegulator(name string) (Regulator, error)

	// AllocDMAPage allocates one coherent page.
	AllocDMAPage() (*DMAPage, error)

	// FreeDMAPage returns a page from AllocDMAPage.
	FreeDMAPage(page *DMAPage)
}

// Space is a GPU virtual address space object. The device holds the first
// reference of its default empty space.
type Space interface {
	// DirBase is the device-visible address of the top-level page
	// directory, programmed into each MMU.
	DirBase() uint64

	// Map installs a page-aligned VA to device-address mapping.
	Map(va, devAddr uint64) error

	// Unmap removes a mapping installed by Map.
	Unmap(va uint64)

	// Release drops one reference.
	Release()
}

// SpaceFactory creates the device's default empty address space.
type SpaceFactory func(name string) (Space, error)

// Scheduler wires assembled pipes into the job-scheduling subsystem. All
// teardown methods must not fail.
type Scheduler interface {
	// InitPipe prepares scheduler state for one pipe.
	InitPipe(pipe *Pipe, name string) error

	// FiniPipe drops the scheduler state of one pipe.
	FiniPipe(pipe *Pipe)

	// SetupGPPipe configures the graphics pipe after assembly.
	SetupGPPipe(d *Device) error

	// TeardownGPPipe undoes SetupGPPipe.
	TeardownGPPipe(d *Device)

	// SetupPPPipe configures the pixel pipe after assembly.
	SetupPPPipe(d *Device) error

	// TeardownPPPipe undoes SetupPPPipe.
	TeardownPPPipe(d *Device)
}
