package device

import "fmt"

func gpInit(ip *IP) error {
	version := ip.regs.read(RegGPVersion)
	if version == 0 {
		return fmt.Errorf("%s: no version response", ip.Name())
	}

	ip.regs.write(RegGPIntMask, 0)
	ip.regs.write(RegGPIntClear, GPIrqMaskAll)
	ip.regs.write(RegGPCmd, GPCmdSoftReset)

	if err := ip.regs.poll(RegGPStatus, GPStatusActive, 0); err != nil {
		return fmt.Errorf("%s: soft reset: %w", ip.Name(), err)
	}

	ip.regs.write(RegGPIntMask, GPIrqMaskUsed)

	return nil
}

func gpFini(ip *IP) {
	ip.regs.write(RegGPIntMask, 0)
}
