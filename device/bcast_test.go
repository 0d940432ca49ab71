package device

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Broadcast unit", func() {
	var (
		mockCtrl *gomock.Controller
		regs     *fakeRegs
		d        *Device
		maskAddr uint32
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		regs = newFakeRegs()

		d = MakeBuilder().
			WithGeneration(Mali450).
			WithPlatform(NewMockPlatform(mockCtrl)).
			WithScheduler(NewMockScheduler(mockCtrl)).
			Build("Dev")
		d.regs = regs

		maskAddr = uint32(IPBcast.Offset(Mali450)) + RegBcastBroadcastMask
	})

	It("should seed both mask halves from the present processors", func() {
		d.ips[IPPP0].present = true
		d.ips[IPPP2].present = true

		Expect(d.initIP(IPBcast)).To(Succeed())

		Expect(regs.mem[maskAddr]).To(Equal(uint32(0x0005_0005)))
	})

	It("should recompute dispatch without touching interrupt enables",
		func() {
			d.ips[IPPP0].present = true
			d.ips[IPPP2].present = true
			Expect(d.initIP(IPBcast)).To(Succeed())

			pipe := d.Pipe(PipePP)
			pipe.reset("pp")
			pipe.addProcessor(d.IP(IPPP0))
			pipe.addProcessor(d.IP(IPPP2))

			d.BcastEnable(1)
			Expect(regs.mem[maskAddr]).To(Equal(uint32(0x0001_0005)))

			d.BcastEnable(2)
			Expect(regs.mem[maskAddr]).To(Equal(uint32(0x0005_0005)))
		})

	It("should ignore dispatch updates when the unit is absent", func() {
		pipe := d.Pipe(PipePP)
		pipe.reset("pp")

		Expect(func() { d.BcastEnable(0) }).ToNot(Panic())
		Expect(regs.mem).ToNot(HaveKey(maskAddr))
	})

	It("should clear the mask on teardown", func() {
		d.ips[IPPP0].present = true
		Expect(d.initIP(IPBcast)).To(Succeed())
		Expect(regs.mem[maskAddr]).ToNot(Equal(uint32(0)))

		d.finiIP(IPBcast)

		Expect(regs.mem[maskAddr]).To(Equal(uint32(0)))
	})
})
