package device

import (
	"errors"
	"fmt"
)

// initClocks brings up the bus clock, the core clock, and the optional
// reset line, in that order. Whatever succeeded before a failure is
// undone here, in reverse, before the error is returned.
func (d *Device) initClocks() error {
	clkBus, err := d.platform.ClockByName("bus")
	if err != nil {
		return fmt.Errorf("get bus clock: %w",
			errors.Join(ErrResourceUnavailable, err))
	}

	clkCore, err := d.platform.ClockByName("core")
	if err != nil {
		return fmt.Errorf("get core clock: %w",
			errors.Join(ErrResourceUnavailable, err))
	}

	if err := clkBus.Enable(); err != nil {
		return fmt.Errorf("enable bus clock: %w", err)
	}

	if err := clkCore.Enable(); err != nil {
		clkBus.Disable()
		return fmt.Errorf("enable core clock: %w", err)
	}

	reset, err := d.platform.OptionalReset()
	if err != nil {
		clkCore.Disable()
		clkBus.Disable()

		return fmt.Errorf("get reset control: %w",
			errors.Join(ErrResourceUnavailable, err))
	}

	if reset != nil {
		if err := reset.Deassert(); err != nil {
			clkCore.Disable()
			clkBus.Disable()

			return fmt.Errorf("deassert reset: %w", err)
		}
	}

	d.clkBus = clkBus
	d.clkCore = clkCore
	d.reset = reset

	return nil
}

func (d *Device) finiClocks() {
	if d.reset != nil {
		d.reset.Assert()
	}

	d.clkCore.Disable()
	d.clkBus.Disable()

	d.clkBus = nil
	d.clkCore = nil
	d.reset = nil
}

// initRegulator is an independently unwindable stage: the regulator may
// be absent, but when it is present, enabling it must succeed.
func (d *Device) initRegulator() error {
	regulator, err := d.platform.OptionalRegulator("mali")
	if err != nil {
		return fmt.Errorf("get regulator: %w",
			errors.Join(ErrResourceUnavailable, err))
	}

	if regulator == nil {
		return nil
	}

	if err := regulator.Enable(); err != nil {
		return fmt.Errorf("enable regulator: %w", err)
	}

	d.regulator = regulator

	return nil
}

func (d *Device) finiRegulator() {
	if d.regulator == nil {
		return
	}

	d.regulator.Disable()
	d.regulator = nil
}
