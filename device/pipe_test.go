package device

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Pipe assembly", func() {
	var (
		mockCtrl  *gomock.Controller
		platform  *MockPlatform
		scheduler *MockScheduler
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		platform = NewMockPlatform(mockCtrl)
		scheduler = NewMockScheduler(mockCtrl)
	})

	buildDevice := func(gen Generation) *Device {
		return MakeBuilder().
			WithGeneration(gen).
			WithPlatform(platform).
			WithScheduler(scheduler).
			Build("Dev")
	}

	markPresent := func(d *Device, kinds ...IPKind) {
		for _, k := range kinds {
			d.ips[k].present = true
		}
	}

	It("should assemble the fixed graphics pipe", func() {
		d := buildDevice(Mali400)
		markPresent(d, IPL2Cache0, IPGPMMU, IPGP)

		scheduler.EXPECT().InitPipe(d.Pipe(PipeGP), "gp").Return(nil)
		scheduler.EXPECT().SetupGPPipe(d).Return(nil)

		Expect(d.initGPPipe()).To(Succeed())

		pipe := d.Pipe(PipeGP)
		Expect(pipe.Processor(0)).To(Equal(d.IP(IPGP)))
		Expect(pipe.MMU(0)).To(Equal(d.IP(IPGPMMU)))
		Expect(pipe.L2Cache(0)).To(Equal(d.IP(IPL2Cache0)))
	})

	It("should share one cache across a mali400 pixel pipe", func() {
		d := buildDevice(Mali400)
		markPresent(d, IPL2Cache0,
			IPPP0, IPPP1, IPPP2, IPPP3,
			IPPPMMU0, IPPPMMU1, IPPPMMU2, IPPPMMU3)

		scheduler.EXPECT().InitPipe(d.Pipe(PipePP), "pp").Return(nil)
		scheduler.EXPECT().SetupPPPipe(d).Return(nil)

		Expect(d.initPPPipe()).To(Succeed())

		pipe := d.Pipe(PipePP)
		Expect(pipe.NumProcessors()).To(Equal(4))
		Expect(pipe.NumMMUs()).To(Equal(4))
		Expect(pipe.NumL2Caches()).To(Equal(1))
		Expect(pipe.L2Cache(0)).To(Equal(d.IP(IPL2Cache0)))
	})

	It("should deduplicate the per-group caches on mali450", func() {
		d := buildDevice(Mali450)
		markPresent(d, IPL2Cache1, IPL2Cache2,
			IPPP0, IPPP1, IPPP2, IPPP3, IPPP4, IPPP5, IPPP6, IPPP7,
			IPPPMMU0, IPPPMMU1, IPPPMMU2, IPPPMMU3,
			IPPPMMU4, IPPPMMU5, IPPPMMU6, IPPPMMU7)

		scheduler.EXPECT().InitPipe(d.Pipe(PipePP), "pp").Return(nil)
		scheduler.EXPECT().SetupPPPipe(d).Return(nil)

		Expect(d.initPPPipe()).To(Succeed())

		pipe := d.Pipe(PipePP)
		Expect(pipe.NumProcessors()).To(Equal(8))
		Expect(pipe.NumL2Caches()).To(Equal(2))
		Expect(pipe.L2Cache(0)).To(Equal(d.IP(IPL2Cache1)))
		Expect(pipe.L2Cache(1)).To(Equal(d.IP(IPL2Cache2)))

		for i := 0; i < 8; i++ {
			Expect(pipe.Processor(i)).To(Equal(d.IP(IPPP0 + IPKind(i))))
			Expect(pipe.MMU(i)).To(Equal(d.IP(IPPPMMU0 + IPKind(i))))
		}
	})

	It("should skip a processor whose mmu never came up", func() {
		d := buildDevice(Mali400)
		markPresent(d, IPL2Cache0, IPPP0, IPPP1, IPPPMMU0)

		scheduler.EXPECT().InitPipe(d.Pipe(PipePP), "pp").Return(nil)
		scheduler.EXPECT().SetupPPPipe(d).Return(nil)

		Expect(d.initPPPipe()).To(Succeed())

		pipe := d.Pipe(PipePP)
		Expect(pipe.NumProcessors()).To(Equal(1))
		Expect(pipe.Processor(0)).To(Equal(d.IP(IPPP0)))
	})

	It("should skip a processor whose cache group never came up", func() {
		d := buildDevice(Mali450)
		markPresent(d, IPL2Cache1,
			IPPP0, IPPP1, IPPP4,
			IPPPMMU0, IPPPMMU1, IPPPMMU4)

		scheduler.EXPECT().InitPipe(d.Pipe(PipePP), "pp").Return(nil)
		scheduler.EXPECT().SetupPPPipe(d).Return(nil)

		Expect(d.initPPPipe()).To(Succeed())

		// pp4's group cache is l2_cache2, which is absent.
		pipe := d.Pipe(PipePP)
		Expect(pipe.NumProcessors()).To(Equal(2))
		Expect(pipe.NumL2Caches()).To(Equal(1))
	})

	It("should accept a pixel pipe with zero processors", func() {
		d := buildDevice(Mali400)
		markPresent(d, IPL2Cache0)

		scheduler.EXPECT().InitPipe(d.Pipe(PipePP), "pp").Return(nil)
		scheduler.EXPECT().SetupPPPipe(d).Return(nil)

		Expect(d.initPPPipe()).To(Succeed())
		Expect(d.Pipe(PipePP).NumProcessors()).To(Equal(0))
	})

	It("should alias the broadcast slots when the unit is present", func() {
		d := buildDevice(Mali450)
		markPresent(d, IPL2Cache1, IPPP0, IPPPMMU0,
			IPBcast, IPPPBcast, IPPPMMUBcast)

		scheduler.EXPECT().InitPipe(d.Pipe(PipePP), "pp").Return(nil)
		scheduler.EXPECT().SetupPPPipe(d).Return(nil)

		Expect(d.initPPPipe()).To(Succeed())

		pipe := d.Pipe(PipePP)
		Expect(pipe.BcastProcessor()).To(Equal(d.IP(IPPPBcast)))
		Expect(pipe.BcastMMU()).To(Equal(d.IP(IPPPMMUBcast)))
	})

	It("should propagate a pipe registration failure", func() {
		d := buildDevice(Mali400)
		markPresent(d, IPL2Cache0, IPGPMMU, IPGP)

		scheduler.EXPECT().InitPipe(d.Pipe(PipeGP), "gp").
			Return(errors.New("pipe table full"))

		Expect(d.initGPPipe()).ToNot(Succeed())
	})

	It("should unregister the pipe when scheduler wiring fails", func() {
		d := buildDevice(Mali400)
		markPresent(d, IPL2Cache0, IPPP0, IPPPMMU0)

		scheduler.EXPECT().InitPipe(d.Pipe(PipePP), "pp").Return(nil)
		scheduler.EXPECT().SetupPPPipe(d).
			Return(errors.New("no task slots"))
		scheduler.EXPECT().FiniPipe(d.Pipe(PipePP))

		Expect(d.initPPPipe()).ToNot(Succeed())
	})

	It("should reassemble cleanly after a previous attempt", func() {
		d := buildDevice(Mali400)
		markPresent(d, IPL2Cache0, IPPP0, IPPPMMU0)

		scheduler.EXPECT().InitPipe(d.Pipe(PipePP), "pp").
			Return(nil).Times(2)
		scheduler.EXPECT().SetupPPPipe(d).Return(nil).Times(2)
		scheduler.EXPECT().TeardownPPPipe(d)
		scheduler.EXPECT().FiniPipe(d.Pipe(PipePP))

		Expect(d.initPPPipe()).To(Succeed())
		d.finiPPPipe()
		Expect(d.initPPPipe()).To(Succeed())

		Expect(d.Pipe(PipePP).NumProcessors()).To(Equal(1))
	})
})
