package simplatform

import (
	"fmt"
	"sync"

	"github.com/sarchlab/mali/device"
)

const (
	irqBase     = 32
	dmaPoolBase = 0x1000_0000
)

// Platform is a simulated board implementing device.Platform.
type Platform struct {
	name string
	gen  device.Generation

	regs      *RegisterFile
	clocks    map[string]*Clock
	reset     *Reset
	regulator *Regulator
	irqs      map[string]int
	dma       *dmaPool
}

// Name returns the platform name.
func (p *Platform) Name() string {
	return p.name
}

// MapRegisters returns the board register file.
func (p *Platform) MapRegisters() (device.RegisterSpace, error) {
	return p.regs, nil
}

// RegisterFile returns the board register file with its test helpers.
func (p *Platform) RegisterFile() *RegisterFile {
	return p.regs
}

// IRQByName resolves a named interrupt.
func (p *Platform) IRQByName(name string) (int, error) {
	irq, ok := p.irqs[name]
	if !ok {
		return 0, fmt.Errorf("no irq named %q", name)
	}

	return irq, nil
}

// ClockByName looks up a named clock.
func (p *Platform) ClockByName(name string) (device.Clock, error) {
	clk, ok := p.clocks[name]
	if !ok {
		return nil, fmt.Errorf("no clock named %q", name)
	}

	return clk, nil
}

// OptionalReset returns the board reset line, (nil, nil) when absent.
func (p *Platform) OptionalReset() (device.Reset, error) {
	if p.reset == nil {
		return nil, nil
	}

	return p.reset, nil
}

// OptionalRegulator returns the named regulator, (nil, nil) when absent.
func (p *Platform) OptionalRegulator(name string) (device.Regulator, error) {
	if p.regulator == nil || p.regulator.name != name {
		return nil, nil
	}

	return p.regulator, nil
}

// AllocDMAPage allocates one coherent page.
func (p *Platform) AllocDMAPage() (*device.DMAPage, error) {
	return p.dma.alloc()
}

// FreeDMAPage returns a page from AllocDMAPage.
func (p *Platform) FreeDMAPage(page *device.DMAPage) {
	p.dma.free(page)
}

// OutstandingDMAPages returns the number of allocated, unfreed pages.
func (p *Platform) OutstandingDMAPages() int {
	return p.dma.outstanding()
}

// Clock is a simulated gateable clock.
type Clock struct {
	mu      sync.Mutex
	name    string
	rate    uint64
	enables int
}

// Enable gates the clock on.
func (c *Clock) Enable() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.enables++

	return nil
}

// Disable gates the clock off.
func (c *Clock) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.enables == 0 {
		panic("clock " + c.name + " disabled while off")
	}

	c.enables--
}

// Enabled reports whether the clock is gated on.
func (c *Clock) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.enables > 0
}

// Rate returns the clock rate in Hz.
func (c *Clock) Rate() uint64 {
	return c.rate
}

// Reset is a simulated reset line, asserted at power-on.
type Reset struct {
	mu       sync.Mutex
	asserted bool
}

// Deassert releases the line.
func (r *Reset) Deassert() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.asserted = false

	return nil
}

// Assert pulls the line back.
func (r *Reset) Assert() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.asserted = true
}

// Asserted reports the line state.
func (r *Reset) Asserted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.asserted
}

// Regulator is a simulated voltage regulator.
type Regulator struct {
	mu      sync.Mutex
	name    string
	enabled bool
}

// Enable powers the rail.
func (r *Regulator) Enable() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.enabled = true

	return nil
}

// Disable cuts the rail.
func (r *Regulator) Disable() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.enabled = false
}

// Enabled reports the rail state.
func (r *Regulator) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.enabled
}

type dmaPool struct {
	mu       sync.Mutex
	nextAddr uint64
	pages    map[uint64]*device.DMAPage
}

func (d *dmaPool) alloc() (*device.DMAPage, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	page := &device.DMAPage{
		CPU:     make([]byte, device.PageSize),
		DevAddr: d.nextAddr,
	}
	d.nextAddr += device.PageSize
	d.pages[page.DevAddr] = page

	return page, nil
}

func (d *dmaPool) free(page *device.DMAPage) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.pages[page.DevAddr]; !ok {
		panic(fmt.Sprintf("dma page %#x double freed", page.DevAddr))
	}

	delete(d.pages, page.DevAddr)
}

func (d *dmaPool) outstanding() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.pages)
}
