package device

import (
	"errors"
	"fmt"
)

// Device is one GPU instance: the generation tag, every IP slot, the two
// pipes, the power handles, and the default address space. It exclusively
// owns all of them. Init and Fini are each called exactly once, serially,
// by the owning caller.
type Device struct {
	HookableBase

	name string
	id   string
	gen  Generation

	platform     Platform
	scheduler    Scheduler
	spaceFactory SpaceFactory

	regs RegisterSpace

	clkBus    Clock
	clkCore   Clock
	reset     Reset
	regulator Regulator

	emptySpace Space
	vaStart    uint64
	vaEnd      uint64
	dlbuPage   *DMAPage

	ips   [NumIP]IP
	pipes [NumPipe]Pipe

	completedStages int
}

// stage pairs one forward action with its inverse. The orchestrator walks
// the list forward on Init and the completed prefix backward on unwind
// and Fini, so failure handling is one data-driven loop rather than
// jump-label fallthrough.
type stage struct {
	name string
	init func(d *Device) error
	fini func(d *Device)
}

var initStages = []stage{
	{"clocks", (*Device).initClocks, (*Device).finiClocks},
	{"regulator", (*Device).initRegulator, (*Device).finiRegulator},
	{"address-space", (*Device).initAddressSpace, (*Device).finiAddressSpace},
	{"dlbu-buffer", (*Device).initDLBUBuffer, (*Device).finiDLBUBuffer},
	{"register-map", (*Device).initRegisterMap, (*Device).finiRegisterMap},
	{"ip-cores", (*Device).initIPCores, (*Device).finiIPCores},
	{"gp-pipe", (*Device).initGPPipe, (*Device).finiGPPipe},
	{"pp-pipe", (*Device).initPPPipe, (*Device).finiPPPipe},
}

// Init brings the device up. On failure every stage that completed is
// undone, strictly in reverse, and the device is left indistinguishable
// from never-initialized.
func (d *Device) Init() error {
	if d.completedStages != 0 {
		panic("device " + d.name + " already initialized")
	}

	for i, s := range initStages {
		info := StageInfo{Index: i, Name: s.name}
		d.InvokeHook(HookCtx{Domain: d, Pos: HookPosStageBegin, Item: info})

		if err := s.init(d); err != nil {
			d.unwind(i)
			d.completedStages = 0

			return fmt.Errorf("%s: %s: %w", d.name, s.name, err)
		}

		d.completedStages = i + 1
		d.InvokeHook(HookCtx{Domain: d, Pos: HookPosStageComplete, Item: info})
	}

	return nil
}

// Fini tears the device down in the exact mirror order of Init. It cannot
// fail. Calling it on a never-initialized or failed device is a no-op.
func (d *Device) Fini() {
	d.unwind(d.completedStages)
	d.completedStages = 0
}

func (d *Device) unwind(completed int) {
	for i := completed - 1; i >= 0; i-- {
		initStages[i].fini(d)
		d.InvokeHook(HookCtx{
			Domain: d,
			Pos:    HookPosStageUnwind,
			Item:   StageInfo{Index: i, Name: initStages[i].name},
		})
	}
}

// initAddressSpace creates the default empty space and fixes the virtual
// range for the generation. The generation with the DLBU keeps the top of
// the address space reserved for the broadcast-visible region.
func (d *Device) initAddressSpace() error {
	space, err := d.spaceFactory(d.name + ".EmptySpace")
	if err != nil {
		return fmt.Errorf("create empty address space: %w",
			errors.Join(ErrAllocationFailed, err))
	}

	d.emptySpace = space
	d.vaStart = 0

	if d.gen.HasDLBU() {
		d.vaEnd = VAReserveStart
	} else {
		d.vaEnd = VAReserveEnd
	}

	return nil
}

func (d *Device) finiAddressSpace() {
	d.emptySpace.Release()
	d.emptySpace = nil
}

// initDLBUBuffer allocates the coherent page the DLBU reads its master
// tile-list from and maps it at the fixed broadcast-visible address. The
// stage is a no-op on generations without the DLBU.
func (d *Device) initDLBUBuffer() error {
	if !d.gen.HasDLBU() {
		return nil
	}

	page, err := d.platform.AllocDMAPage()
	if err != nil {
		return fmt.Errorf("alloc dlbu page: %w",
			errors.Join(ErrAllocationFailed, err))
	}

	if err := d.emptySpace.Map(VAReserveDLBU, page.DevAddr); err != nil {
		d.platform.FreeDMAPage(page)
		return fmt.Errorf("map dlbu page: %w", err)
	}

	d.dlbuPage = page

	return nil
}

func (d *Device) finiDLBUBuffer() {
	if d.dlbuPage == nil {
		return
	}

	d.emptySpace.Unmap(VAReserveDLBU)
	d.platform.FreeDMAPage(d.dlbuPage)
	d.dlbuPage = nil
}

func (d *Device) initRegisterMap() error {
	regs, err := d.platform.MapRegisters()
	if err != nil {
		return fmt.Errorf("map registers: %w",
			errors.Join(ErrResourceUnavailable, err))
	}

	d.regs = regs

	return nil
}

func (d *Device) finiRegisterMap() {
	d.regs = nil
}

// initIPCores probes every descriptor slot in table order. On failure the
// slots that already came up are torn down here, in reverse, before the
// error propagates; earlier stages are the orchestrator's to unwind.
func (d *Device) initIPCores() error {
	for i := 0; i < int(NumIP); i++ {
		if err := d.initIP(IPKind(i)); err != nil {
			for j := i - 1; j >= 0; j-- {
				d.finiIP(IPKind(j))
			}

			return err
		}
	}

	return nil
}

func (d *Device) finiIPCores() {
	for i := int(NumIP) - 1; i >= 0; i-- {
		d.finiIP(IPKind(i))
	}
}

// Name returns the device name.
func (d *Device) Name() string {
	return d.name
}

// ID returns the unique instance ID.
func (d *Device) ID() string {
	return d.id
}

// Generation returns the hardware generation tag.
func (d *Device) Generation() Generation {
	return d.gen
}

// Ready reports whether Init ran to completion.
func (d *Device) Ready() bool {
	return d.completedStages == len(initStages)
}

// IP returns the runtime record of one descriptor slot.
func (d *Device) IP(kind IPKind) *IP {
	return &d.ips[kind]
}

// Pipe returns one of the two pipes.
func (d *Device) Pipe(kind PipeKind) *Pipe {
	return &d.pipes[kind]
}

// VARange returns the usable virtual address range.
func (d *Device) VARange() (start, end uint64) {
	return d.vaStart, d.vaEnd
}

// EmptySpace returns the default address space, nil before Init.
func (d *Device) EmptySpace() Space {
	return d.emptySpace
}

// DLBUDevAddr returns the device-visible address of the DLBU page. ok is
// false on generations without the DLBU or before Init.
func (d *Device) DLBUDevAddr() (addr uint64, ok bool) {
	if d.dlbuPage == nil {
		return 0, false
	}

	return d.dlbuPage.DevAddr, true
}
