package device

// HookPos is a position in the device lifecycle that hooks can attach to.
type HookPos struct {
	Name string
}

// Lifecycle hook positions.
var (
	// HookPosStageBegin triggers before an init stage runs. Item is a
	// StageInfo.
	HookPosStageBegin = &HookPos{Name: "StageBegin"}

	// HookPosStageComplete triggers after an init stage succeeds. Item is
	// a StageInfo.
	HookPosStageComplete = &HookPos{Name: "StageComplete"}

	// HookPosStageUnwind triggers when a completed stage is undone,
	// during both failure unwind and Fini. Item is a StageInfo.
	HookPosStageUnwind = &HookPos{Name: "StageUnwind"}

	// HookPosIPUp triggers when a sub-block finishes bring-up. Item is
	// the *IP.
	HookPosIPUp = &HookPos{Name: "IPUp"}

	// HookPosIPDown triggers when a present sub-block is torn down. Item
	// is the *IP.
	HookPosIPDown = &HookPos{Name: "IPDown"}
)

// StageInfo identifies one orchestrator stage in a hook invocation.
type StageInfo struct {
	Index int
	Name  string
}

// HookCtx carries the information about the site where a hook triggers.
type HookCtx struct {
	Domain *Device
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hook is a short piece of program invoked at lifecycle positions.
type Hook interface {
	Func(ctx HookCtx)
}

// Hookable is an object that accepts hooks.
type Hookable interface {
	AcceptHook(hook Hook)
}

// HookableBase provides the hook bookkeeping for the Device.
type HookableBase struct {
	hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// InvokeHook triggers the registered hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
