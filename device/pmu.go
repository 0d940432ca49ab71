package device

import "fmt"

// The PMU powers the other sub-blocks. A set bit in the status register
// means the domain is powered down.
func pmuInit(ip *IP) error {
	ip.regs.write(RegPMUIntMask, 0)

	down := ip.regs.read(RegPMUStatus) & PMUAllDomains
	if down == 0 {
		return nil
	}

	ip.regs.write(RegPMUPowerUp, down)
	if err := ip.regs.poll(RegPMUStatus, down, 0); err != nil {
		return fmt.Errorf("power up domains %#x: %w", down, err)
	}

	return nil
}

func pmuFini(ip *IP) {
	ip.regs.write(RegPMUPowerDown, PMUAllDomains)
}
