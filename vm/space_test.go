package vm

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Space", func() {
	var s *Space

	BeforeEach(func() {
		var err error
		s, err = NewSpace("Dev.EmptySpace")
		Expect(err).To(BeNil())
	})

	It("should hand out distinct page-aligned directory bases", func() {
		other, err := NewSpace("Other")
		Expect(err).To(BeNil())

		Expect(s.DirBase() % PageSize).To(Equal(uint64(0)))
		Expect(other.DirBase()).ToNot(Equal(s.DirBase()))
	})

	It("should map and translate pages", func() {
		Expect(s.Map(0x1000, 0x8000_0000)).To(Succeed())

		devAddr, ok := s.Translate(0x1000)
		Expect(ok).To(BeTrue())
		Expect(devAddr).To(Equal(uint64(0x8000_0000)))
		Expect(s.NumPages()).To(Equal(1))
	})

	It("should reject unaligned mappings", func() {
		Expect(s.Map(0x1004, 0x8000_0000)).ToNot(Succeed())
		Expect(s.Map(0x1000, 0x8000_0004)).ToNot(Succeed())
		Expect(s.NumPages()).To(Equal(0))
	})

	It("should reject double mappings", func() {
		Expect(s.Map(0x1000, 0x8000_0000)).To(Succeed())
		Expect(s.Map(0x1000, 0x9000_0000)).ToNot(Succeed())

		devAddr, _ := s.Translate(0x1000)
		Expect(devAddr).To(Equal(uint64(0x8000_0000)))
	})

	It("should unmap pages and tolerate unmapping holes", func() {
		Expect(s.Map(0x1000, 0x8000_0000)).To(Succeed())

		s.Unmap(0x1000)
		s.Unmap(0x2000)

		_, ok := s.Translate(0x1000)
		Expect(ok).To(BeFalse())
		Expect(s.NumPages()).To(Equal(0))
	})

	It("should survive until the last reference is released", func() {
		Expect(s.Map(0x1000, 0x8000_0000)).To(Succeed())

		s.Retain()
		s.Release()

		_, ok := s.Translate(0x1000)
		Expect(ok).To(BeTrue())

		s.Release()
		Expect(s.NumPages()).To(Equal(0))
	})

	It("should panic on release of a dead space", func() {
		s.Release()

		Expect(func() { s.Release() }).To(Panic())
	})
})
