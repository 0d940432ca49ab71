// Package tracing records device lifecycle activity through hooks.
package tracing

import (
	"fmt"
	"log"

	"github.com/sarchlab/mali/device"
)

// LifecycleEntry is one recorded lifecycle event.
type LifecycleEntry struct {
	DeviceID string
	Device   string
	Pos      string
	Stage    string
	IP       string
	Seq      int
}

// entryFromCtx flattens a hook context into a record.
func entryFromCtx(ctx device.HookCtx, seq int) LifecycleEntry {
	entry := LifecycleEntry{
		DeviceID: ctx.Domain.ID(),
		Device:   ctx.Domain.Name(),
		Pos:      ctx.Pos.Name,
		Seq:      seq,
	}

	switch item := ctx.Item.(type) {
	case device.StageInfo:
		entry.Stage = item.Name
	case *device.IP:
		entry.IP = item.Name()
	}

	return entry
}

// LogTracer writes lifecycle events to the standard logger.
type LogTracer struct {
	seq int
}

// NewLogTracer creates a LogTracer.
func NewLogTracer() *LogTracer {
	return &LogTracer{}
}

// Func implements device.Hook.
func (t *LogTracer) Func(ctx device.HookCtx) {
	t.seq++
	entry := entryFromCtx(ctx, t.seq)

	what := entry.Stage
	if what == "" {
		what = entry.IP
	}

	log.Printf("%s: %s %s", entry.Device, entry.Pos, what)
}

// CollectLifecycleLog attaches a LogTracer to a device.
func CollectLifecycleLog(d *device.Device) *LogTracer {
	t := NewLogTracer()
	d.AcceptHook(t)

	return t
}

// String renders an entry for debugging.
func (e LifecycleEntry) String() string {
	return fmt.Sprintf("%d %s %s stage=%q ip=%q",
		e.Seq, e.Device, e.Pos, e.Stage, e.IP)
}
