package device

import "fmt"

// PipeKind identifies one of the two execution pipes of a device.
type PipeKind int

const (
	// PipeGP is the graphics (vertex) pipe.
	PipeGP PipeKind = iota

	// PipePP is the pixel pipe.
	PipePP

	// NumPipe is the number of pipes per device.
	NumPipe
)

// Pipe membership capacities, indexed by hardware slot.
const (
	// MaxPipeProcessor is the most processors a pipe can reference.
	MaxPipeProcessor = 8

	// MaxPipeMMU matches MaxPipeProcessor: one MMU per processor.
	MaxPipeMMU = 8

	// MaxPipeL2Cache is the most cache-sharing groups a pipe can span.
	MaxPipeL2Cache = 2
)

// Pipe is an assembled, ready-to-schedule group of sub-blocks. It
// references IP records owned by the device and never outlives it.
// Invariant: processor i and MMU i belong together; the cache list holds
// one entry per sharing group.
type Pipe struct {
	name string

	l2Caches   [MaxPipeL2Cache]*IP
	numL2Cache int

	mmus   [MaxPipeMMU]*IP
	numMMU int

	processors   [MaxPipeProcessor]*IP
	numProcessor int

	bcastProcessor *IP
	bcastMMU       *IP
}

// Name returns the pipe name, "gp" or "pp".
func (p *Pipe) Name() string {
	return p.name
}

// NumProcessors returns the number of assembled processors.
func (p *Pipe) NumProcessors() int {
	return p.numProcessor
}

// Processor returns the i-th assembled processor.
func (p *Pipe) Processor(i int) *IP {
	return p.processors[i]
}

// NumMMUs returns the number of assembled MMUs.
func (p *Pipe) NumMMUs() int {
	return p.numMMU
}

// MMU returns the MMU paired with the i-th processor.
func (p *Pipe) MMU(i int) *IP {
	return p.mmus[i]
}

// NumL2Caches returns the number of deduplicated cache entries.
func (p *Pipe) NumL2Caches() int {
	return p.numL2Cache
}

// L2Cache returns the i-th cache entry.
func (p *Pipe) L2Cache(i int) *IP {
	return p.l2Caches[i]
}

// BcastProcessor returns the broadcast-processor alias, nil when the
// broadcast unit is absent.
func (p *Pipe) BcastProcessor() *IP {
	return p.bcastProcessor
}

// BcastMMU returns the broadcast-MMU alias, nil when the broadcast unit
// is absent.
func (p *Pipe) BcastMMU() *IP {
	return p.bcastMMU
}

func (p *Pipe) reset(name string) {
	*p = Pipe{name: name}
}

func (p *Pipe) addProcessor(ip *IP) {
	if p.numProcessor >= MaxPipeProcessor {
		panic(fmt.Sprintf("pipe %s: processor list overflow", p.name))
	}

	p.processors[p.numProcessor] = ip
	p.numProcessor++
}

func (p *Pipe) addMMU(ip *IP) {
	if p.numMMU >= MaxPipeMMU {
		panic(fmt.Sprintf("pipe %s: mmu list overflow", p.name))
	}

	p.mmus[p.numMMU] = ip
	p.numMMU++
}

func (p *Pipe) addL2Cache(ip *IP) {
	if p.numL2Cache >= MaxPipeL2Cache {
		panic(fmt.Sprintf("pipe %s: l2 cache list overflow", p.name))
	}

	p.l2Caches[p.numL2Cache] = ip
	p.numL2Cache++
}

// initGPPipe assembles the graphics pipe. Its three slots are mandatory
// on every generation, so no presence checks are needed.
func (d *Device) initGPPipe() error {
	pipe := &d.pipes[PipeGP]
	pipe.reset("gp")

	if err := d.scheduler.InitPipe(pipe, "gp"); err != nil {
		return err
	}

	pipe.addL2Cache(&d.ips[IPL2Cache0])
	pipe.addMMU(&d.ips[IPGPMMU])
	pipe.addProcessor(&d.ips[IPGP])

	if err := d.scheduler.SetupGPPipe(d); err != nil {
		d.scheduler.FiniPipe(pipe)
		return err
	}

	return nil
}

func (d *Device) finiGPPipe() {
	d.scheduler.TeardownGPPipe(d)
	d.scheduler.FiniPipe(&d.pipes[PipeGP])
}

// initPPPipe assembles the pixel pipe. A processor joins only when its
// same-index MMU and its cache group are present; the cache list is
// deduplicated per 4-processor group. Zero assembled processors is not an
// error here: the mandatory-slot checks during IP bring-up already
// guarantee pp0/ppmmu0.
func (d *Device) initPPPipe() error {
	pipe := &d.pipes[PipePP]
	pipe.reset("pp")

	if err := d.scheduler.InitPipe(pipe, "pp"); err != nil {
		return err
	}

	for i := 0; i < MaxPipeProcessor; i++ {
		pp := &d.ips[int(IPPP0)+i]
		ppmmu := &d.ips[int(IPPPMMU0)+i]

		var l2Cache *IP
		if d.gen == Mali400 {
			l2Cache = &d.ips[IPL2Cache0]
		} else {
			l2Cache = &d.ips[int(IPL2Cache1)+i>>2]
		}

		if pp.present && ppmmu.present && l2Cache.present {
			pipe.addMMU(ppmmu)
			pipe.addProcessor(pp)

			if pipe.l2Caches[i>>2] == nil {
				pipe.addL2Cache(l2Cache)
			}
		}
	}

	if d.ips[IPBcast].present {
		pipe.bcastProcessor = &d.ips[IPPPBcast]
		pipe.bcastMMU = &d.ips[IPPPMMUBcast]
	}

	if err := d.scheduler.SetupPPPipe(d); err != nil {
		d.scheduler.FiniPipe(pipe)
		return err
	}

	return nil
}

func (d *Device) finiPPPipe() {
	d.scheduler.TeardownPPPipe(d)
	d.scheduler.FiniPipe(&d.pipes[PipePP])
}
