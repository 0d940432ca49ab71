package tracing

import (
	"github.com/sarchlab/mali/datarecording"
	"github.com/sarchlab/mali/device"
)

const lifecycleTable = "mali_lifecycle"

// DBTracer records lifecycle events into a DataRecorder.
type DBTracer struct {
	recorder datarecording.DataRecorder
	seq      int
}

// NewDBTracer creates a DBTracer and its table.
func NewDBTracer(recorder datarecording.DataRecorder) *DBTracer {
	recorder.CreateTable(lifecycleTable, LifecycleEntry{})

	return &DBTracer{recorder: recorder}
}

// Func implements device.Hook.
func (t *DBTracer) Func(ctx device.HookCtx) {
	t.seq++
	t.recorder.InsertData(lifecycleTable, entryFromCtx(ctx, t.seq))
}

// CollectLifecycleTrace attaches a DBTracer to a device.
func CollectLifecycleTrace(
	d *device.Device,
	recorder datarecording.DataRecorder,
) *DBTracer {
	t := NewDBTracer(recorder)
	d.AcceptHook(t)

	return t
}
