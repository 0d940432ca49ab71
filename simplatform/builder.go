// Package simplatform provides a simulated board: clocks, reset line,
// regulator, interrupt table, DMA page allocator, and a register file
// with reset values, all behind the device collaborator interfaces.
package simplatform

import (
	"fmt"

	"github.com/sarchlab/mali/device"
)

// Builder creates simulated platforms.
type Builder struct {
	gen          device.Generation
	numPP        int
	hasReset     bool
	hasRegulator bool
}

// MakeBuilder returns a new Builder with default parameters: a Mali400
// board with one pixel processor, a reset line, and a regulator.
func MakeBuilder() Builder {
	return Builder{
		gen:          device.Mali400,
		numPP:        1,
		hasReset:     true,
		hasRegulator: true,
	}
}

// WithGeneration sets the board generation.
func (b Builder) WithGeneration(gen device.Generation) Builder {
	b.gen = gen
	return b
}

// WithNumPP sets how many pixel processors the board populates.
func (b Builder) WithNumPP(numPP int) Builder {
	b.numPP = numPP
	return b
}

// WithoutReset removes the reset line from the board.
func (b Builder) WithoutReset() Builder {
	b.hasReset = false
	return b
}

// WithoutRegulator removes the regulator from the board.
func (b Builder) WithoutRegulator() Builder {
	b.hasRegulator = false
	return b
}

// Build creates the platform.
func (b Builder) Build(name string) *Platform {
	maxPP := 4
	if b.gen == device.Mali450 {
		maxPP = 8
	}

	if b.numPP < 1 || b.numPP > maxPP {
		panic(fmt.Sprintf("simplatform: %s supports 1 to %d pps, not %d",
			b.gen, maxPP, b.numPP))
	}

	p := &Platform{
		name:   name,
		gen:    b.gen,
		regs:   NewRegisterFile(b.gen, b.numPP),
		clocks: make(map[string]*Clock),
		irqs:   make(map[string]int),
		dma: &dmaPool{
			nextAddr: dmaPoolBase,
			pages:    make(map[uint64]*device.DMAPage),
		},
	}

	p.clocks["bus"] = &Clock{name: name + ".BusClk", rate: 100_000_000}
	p.clocks["core"] = &Clock{name: name + ".CoreClk", rate: 500_000_000}

	if b.hasReset {
		p.reset = &Reset{asserted: true}
	}

	if b.hasRegulator {
		p.regulator = &Regulator{name: "mali"}
	}

	for k := device.IPKind(0); k < device.NumIP; k++ {
		if irqName := k.IRQName(); irqName != "" {
			p.irqs[irqName] = irqBase + int(k)
		}
	}

	return p
}
