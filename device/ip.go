package device

import (
	"errors"
	"fmt"
	"log"
)

// IP is the runtime record of one descriptor slot on one device. It is
// created zeroed and absent when the device is built, becomes present only
// through successful bring-up, and lives exactly as long as the device.
type IP struct {
	dev     *Device
	kind    IPKind
	regs    RegWindow
	irq     int
	present bool
}

// Name returns the display name of the slot.
func (ip *IP) Name() string {
	return ip.kind.String()
}

// Kind returns the slot identifier.
func (ip *IP) Kind() IPKind {
	return ip.kind
}

// Present reports whether bring-up succeeded for this slot.
func (ip *IP) Present() bool {
	return ip.present
}

// IRQ returns the resolved interrupt line, 0 when the slot has none.
func (ip *IP) IRQ() int {
	return ip.irq
}

// RegBase returns the register-window base within the device aperture.
func (ip *IP) RegBase() uint32 {
	return ip.regs.base
}

// RegWindow is one IP's register window within the device aperture.
type RegWindow struct {
	space RegisterSpace
	base  uint32
}

func (w RegWindow) read(reg uint32) uint32 {
	return w.space.Read32(w.base + reg)
}

func (w RegWindow) write(reg, value uint32) {
	w.space.Write32(w.base+reg, value)
}

// poll waits for reg&mask == want. The model has nothing to truly wait
// for, so the retry bound only catches wedged state.
func (w RegWindow) poll(reg, mask, want uint32) error {
	for i := 0; i < regPollRetries; i++ {
		if w.read(reg)&mask == want {
			return nil
		}
	}

	return fmt.Errorf("register %#x stuck at %#x", w.base+reg, w.read(reg))
}

// initIP brings up one descriptor slot. A negative offset for the device's
// generation is trivial success. Bring-up failure of an optional slot is
// logged and swallowed; failure of a mandatory slot aborts device init.
func (d *Device) initIP(kind IPKind) error {
	desc := &ipDescTable[kind]
	ip := &d.ips[kind]
	offset := desc.offset[d.gen]

	if offset < 0 {
		return nil
	}

	ip.regs = RegWindow{space: d.regs, base: uint32(offset)}

	err := d.bringUpIP(desc, ip)
	if err == nil {
		ip.present = true
		d.InvokeHook(HookCtx{Domain: d, Pos: HookPosIPUp, Item: ip})

		return nil
	}

	if desc.mustHave[d.gen] {
		return fmt.Errorf("bring up %s: %w", desc.name,
			errors.Join(ErrMandatoryIPFailed, err))
	}

	log.Printf("%s: optional ip %s unavailable: %v", d.name, desc.name, err)

	return nil
}

func (d *Device) bringUpIP(desc *ipDesc, ip *IP) error {
	if desc.irqName != "" {
		irq, err := d.platform.IRQByName(desc.irqName)
		if err != nil {
			return fmt.Errorf("resolve irq %q: %w", desc.irqName,
				errors.Join(ErrResourceUnavailable, err))
		}

		ip.irq = irq
	}

	return desc.init(ip)
}

// finiIP tears down one slot. It is a no-op unless the slot is present,
// and it is called exactly once per slot, in reverse slot order.
func (d *Device) finiIP(kind IPKind) {
	desc := &ipDescTable[kind]
	ip := &d.ips[kind]

	if !ip.present {
		return
	}

	desc.fini(ip)
	ip.present = false
	d.InvokeHook(HookCtx{Domain: d, Pos: HookPosIPDown, Item: ip})
}
