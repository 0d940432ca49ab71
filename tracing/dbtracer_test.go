package tracing_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mali/device"
	"github.com/sarchlab/mali/sched"
	"github.com/sarchlab/mali/simplatform"
	"github.com/sarchlab/mali/tracing"
)

type fakeRecorder struct {
	tables  []string
	entries []tracing.LifecycleEntry
}

func (r *fakeRecorder) CreateTable(tableName string, _ any) {
	r.tables = append(r.tables, tableName)
}

func (r *fakeRecorder) InsertData(_ string, entry any) {
	r.entries = append(r.entries, entry.(tracing.LifecycleEntry))
}

func (r *fakeRecorder) ListTables() []string {
	return r.tables
}

func (r *fakeRecorder) Flush() {
}

var _ = Describe("DBTracer", func() {
	var (
		recorder *fakeRecorder
		d        *device.Device
	)

	BeforeEach(func() {
		recorder = &fakeRecorder{}

		platform := simplatform.MakeBuilder().Build("Board")
		d = device.MakeBuilder().
			WithPlatform(platform).
			WithScheduler(sched.New()).
			Build("Dev")

		tracing.CollectLifecycleTrace(d, recorder)
	})

	It("should create the lifecycle table once", func() {
		Expect(recorder.tables).To(Equal([]string{"mali_lifecycle"}))
	})

	It("should record the bring-up sequence", func() {
		Expect(d.Init()).To(Succeed())

		Expect(recorder.entries).ToNot(BeEmpty())

		first := recorder.entries[0]
		Expect(first.Pos).To(Equal("StageBegin"))
		Expect(first.Stage).To(Equal("clocks"))
		Expect(first.Device).To(Equal("Dev"))
		Expect(first.DeviceID).ToNot(BeEmpty())

		last := recorder.entries[len(recorder.entries)-1]
		Expect(last.Pos).To(Equal("StageComplete"))
		Expect(last.Stage).To(Equal("pp-pipe"))

		ipUps := []string{}
		for _, e := range recorder.entries {
			if e.Pos == "IPUp" {
				ipUps = append(ipUps, e.IP)
			}
		}
		Expect(ipUps).To(ContainElement("gp"))
		Expect(ipUps).To(ContainElement("pp0"))
	})

	It("should number entries sequentially", func() {
		Expect(d.Init()).To(Succeed())

		for i, e := range recorder.entries {
			Expect(e.Seq).To(Equal(i + 1))
		}
	})

	It("should record teardown as unwind events", func() {
		Expect(d.Init()).To(Succeed())
		d.Fini()

		last := recorder.entries[len(recorder.entries)-1]
		Expect(last.Pos).To(Equal("StageUnwind"))
		Expect(last.Stage).To(Equal("clocks"))

		ipDowns := []string{}
		for _, e := range recorder.entries {
			if e.Pos == "IPDown" {
				ipDowns = append(ipDowns, e.IP)
			}
		}
		Expect(ipDowns).To(ContainElement("gp"))
	})
})
