package device

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

// zeroRegs models an unbacked aperture: every read floats to zero and
// writes vanish, the way an unpopulated bus address behaves.
type zeroRegs struct{}

func (zeroRegs) Read32(uint32) uint32 { return 0 }

func (zeroRegs) Write32(uint32, uint32) {}

var _ = Describe("IP bring-up", func() {
	var (
		mockCtrl  *gomock.Controller
		platform  *MockPlatform
		scheduler *MockScheduler
		regs      *fakeRegs
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		platform = NewMockPlatform(mockCtrl)
		scheduler = NewMockScheduler(mockCtrl)
		regs = newFakeRegs()
	})

	buildDevice := func(gen Generation) *Device {
		d := MakeBuilder().
			WithGeneration(gen).
			WithPlatform(platform).
			WithScheduler(scheduler).
			Build("Dev")
		d.regs = regs

		return d
	}

	It("should succeed trivially on a slot absent from the generation",
		func() {
			d := buildDevice(Mali400)

			err := d.initIP(IPDLBU)

			Expect(err).To(BeNil())
			Expect(d.IP(IPDLBU).Present()).To(BeFalse())
		})

	It("should bring up an optional pixel processor that responds", func() {
		regs.presentPP(Mali400, 1)
		platform.EXPECT().IRQByName("pp1").Return(43, nil)

		d := buildDevice(Mali400)
		err := d.initIP(IPPP1)

		Expect(err).To(BeNil())
		Expect(d.IP(IPPP1).Present()).To(BeTrue())
		Expect(d.IP(IPPP1).IRQ()).To(Equal(43))
	})

	It("should swallow the failure of an optional pixel processor", func() {
		// No version preloaded, so the probe reads zero.
		platform.EXPECT().IRQByName("pp1").Return(43, nil)

		d := buildDevice(Mali400)
		err := d.initIP(IPPP1)

		Expect(err).To(BeNil())
		Expect(d.IP(IPPP1).Present()).To(BeFalse())
	})

	It("should abort on a mandatory slot that does not respond", func() {
		platform.EXPECT().IRQByName("gp").Return(42, nil)

		d := buildDevice(Mali400)
		err := d.initIP(IPGP)

		Expect(errors.Is(err, ErrMandatoryIPFailed)).To(BeTrue())
		Expect(d.IP(IPGP).Present()).To(BeFalse())
	})

	It("should abort when a mandatory slot's irq cannot be resolved",
		func() {
			regs.presentGP(Mali400)
			platform.EXPECT().IRQByName("gp").
				Return(0, errors.New("irq table full"))

			d := buildDevice(Mali400)
			err := d.initIP(IPGP)

			Expect(errors.Is(err, ErrMandatoryIPFailed)).To(BeTrue())
			Expect(errors.Is(err, ErrResourceUnavailable)).To(BeTrue())
		})

	It("should swallow an optional slot's irq resolution failure", func() {
		regs.presentPP(Mali400, 2)
		platform.EXPECT().IRQByName("pp2").
			Return(0, errors.New("irq table full"))

		d := buildDevice(Mali400)
		err := d.initIP(IPPP2)

		Expect(err).To(BeNil())
		Expect(d.IP(IPPP2).Present()).To(BeFalse())
	})

	It("should fail the mmu probe behind an unbacked window", func() {
		platform.EXPECT().IRQByName("gpmmu").Return(44, nil)

		d := buildDevice(Mali400)
		d.regs = zeroRegs{}
		err := d.initIP(IPGPMMU)

		Expect(errors.Is(err, ErrMandatoryIPFailed)).To(BeTrue())
	})

	It("should program the page directory into a responding mmu", func() {
		space := NewMockSpace(mockCtrl)
		space.EXPECT().DirBase().Return(uint64(0x7000))
		platform.EXPECT().IRQByName("gpmmu").Return(44, nil)

		d := buildDevice(Mali400)
		d.emptySpace = space
		err := d.initIP(IPGPMMU)

		Expect(err).To(BeNil())
		Expect(d.IP(IPGPMMU).Present()).To(BeTrue())

		base := uint32(IPGPMMU.Offset(Mali400))
		Expect(regs.mem[base+RegMMUDTEAddr]).To(Equal(uint32(0x7000)))
		Expect(regs.mem[base+RegMMUCommand]).
			To(Equal(MMUCommandEnablePaging))
	})

	It("should keep teardown a no-op for slots that never came up", func() {
		d := buildDevice(Mali400)
		hook := &captureHook{}
		d.AcceptHook(hook)

		d.finiIP(IPGP)

		Expect(hook.events).To(BeEmpty())
	})

	It("should tear down a present slot exactly once", func() {
		regs.presentGP(Mali400)
		platform.EXPECT().IRQByName("gp").Return(42, nil)

		d := buildDevice(Mali400)
		Expect(d.initIP(IPGP)).To(Succeed())

		hook := &captureHook{}
		d.AcceptHook(hook)

		d.finiIP(IPGP)
		d.finiIP(IPGP)

		Expect(hook.events).To(Equal([]string{"IPDown:gp"}))
		Expect(d.IP(IPGP).Present()).To(BeFalse())
	})

	It("should leave the gp interrupt mask armed after bring-up", func() {
		regs.presentGP(Mali400)
		platform.EXPECT().IRQByName("gp").Return(42, nil)

		d := buildDevice(Mali400)
		Expect(d.initIP(IPGP)).To(Succeed())

		base := uint32(IPGP.Offset(Mali400))
		Expect(regs.mem[base+RegGPIntMask]).To(Equal(GPIrqMaskUsed))

		d.finiIP(IPGP)
		Expect(regs.mem[base+RegGPIntMask]).To(Equal(uint32(0)))
	})
})
