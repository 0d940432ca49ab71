package device

import "fmt"

func mmuInit(ip *IP) error {
	ip.regs.write(RegMMUDTEAddr, mmuProbePattern)

	readBack := ip.regs.read(RegMMUDTEAddr) &^ (PageSize - 1)
	if readBack != mmuProbeExpect {
		return fmt.Errorf("%s: dte write test failed: got %#x",
			ip.Name(), readBack)
	}

	ip.regs.write(RegMMUDTEAddr, 0)
	ip.regs.write(RegMMUCommand, MMUCommandHardReset)

	if err := ip.regs.poll(RegMMUDTEAddr, ^uint32(0), 0); err != nil {
		return fmt.Errorf("%s: hard reset: %w", ip.Name(), err)
	}

	ip.regs.write(RegMMUIntMask, MMUIntPageFault|MMUIntReadBusError)
	ip.regs.write(RegMMUDTEAddr, uint32(ip.dev.emptySpace.DirBase()))
	ip.regs.write(RegMMUCommand, MMUCommandEnablePaging)

	return nil
}

func mmuFini(ip *IP) {
	ip.regs.write(RegMMUIntMask, 0)
	ip.regs.write(RegMMUCommand, MMUCommandDisablePaging)
}

// The ppmmu_bcast window only replays writes to the real MMUs, which have
// already been probed and programmed through their own slots.
func mmuBcastInit(ip *IP) error {
	return nil
}

func mmuBcastFini(ip *IP) {
}
