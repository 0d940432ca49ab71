package device

import (
	"github.com/rs/xid"

	"github.com/sarchlab/mali/vm"
)

// Builder creates devices.
type Builder struct {
	gen          Generation
	platform     Platform
	scheduler    Scheduler
	spaceFactory SpaceFactory
}

// MakeBuilder returns a new Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		gen: Mali400,
	}
}

// WithGeneration sets the hardware generation.
func (b Builder) WithGeneration(gen Generation) Builder {
	b.gen = gen
	return b
}

// WithPlatform sets the platform that resolves board resources.
func (b Builder) WithPlatform(platform Platform) Builder {
	b.platform = platform
	return b
}

// WithScheduler sets the scheduling subsystem the pipes are wired into.
func (b Builder) WithScheduler(scheduler Scheduler) Builder {
	b.scheduler = scheduler
	return b
}

// WithSpaceFactory overrides how the default address space is created.
func (b Builder) WithSpaceFactory(factory SpaceFactory) Builder {
	b.spaceFactory = factory
	return b
}

// Build creates an unconfigured device. The caller still has to run Init.
func (b Builder) Build(name string) *Device {
	if b.platform == nil {
		panic("device builder: platform is required")
	}

	if b.scheduler == nil {
		panic("device builder: scheduler is required")
	}

	spaceFactory := b.spaceFactory
	if spaceFactory == nil {
		spaceFactory = func(name string) (Space, error) {
			return vm.NewSpace(name)
		}
	}

	d := &Device{
		name:         name,
		id:           xid.New().String(),
		gen:          b.gen,
		platform:     b.platform,
		scheduler:    b.scheduler,
		spaceFactory: spaceFactory,
	}

	for i := range d.ips {
		d.ips[i] = IP{dev: d, kind: IPKind(i)}
	}

	return d
}
