package device

import "fmt"

func ppInit(ip *IP) error {
	version := ip.regs.read(RegPPVersion)
	if version == 0 {
		return fmt.Errorf("%s: no version response", ip.Name())
	}

	ip.regs.write(RegPPIntMask, 0)
	ip.regs.write(RegPPIntClear, PPIrqMaskAll)
	ip.regs.write(RegPPCtrl, PPCtrlSoftReset)

	if err := ip.regs.poll(RegPPStatus, PPStatusActive, 0); err != nil {
		return fmt.Errorf("%s: soft reset: %w", ip.Name(), err)
	}

	ip.regs.write(RegPPIntMask, PPIrqMaskUsed)

	return nil
}

func ppFini(ip *IP) {
	ip.regs.write(RegPPIntMask, 0)
}

// The pp_bcast window fans register writes out to every pixel processor,
// so there is no version register to probe behind it.
func ppBcastInit(ip *IP) error {
	ip.regs.write(RegPPIntClear, PPIrqMaskAll)
	ip.regs.write(RegPPIntMask, PPIrqMaskUsed)

	return nil
}

func ppBcastFini(ip *IP) {
	ip.regs.write(RegPPIntMask, 0)
}
