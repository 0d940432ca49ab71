package device

// The DLBU reads its master tile-list from the coherent page allocated
// during address-space bootstrap. Bit 0 of the physical address register
// enables the unit.
func dlbuInit(ip *IP) error {
	ip.regs.write(RegDLBUMasterTLListPhysAddr,
		uint32(ip.dev.dlbuPage.DevAddr)|1)
	ip.regs.write(RegDLBUMasterTLListVAddr, uint32(VAReserveDLBU))

	return nil
}

func dlbuFini(ip *IP) {
	ip.regs.write(RegDLBUMasterTLListPhysAddr, 0)
}
