package device

// bcastInit seeds the broadcast mask register from the physically present
// pixel processors: the low 16 bits enable their interrupts once, the
// high 16 bits start with all of them dispatchable.
func bcastInit(ip *IP) error {
	var mask uint32
	for k := IPPP0; k <= IPPP7; k++ {
		if ip.dev.ips[k].present {
			mask |= 1 << uint(k-IPPP0)
		}
	}

	ip.regs.write(RegBcastBroadcastMask, mask<<16|mask)

	return nil
}

func bcastFini(ip *IP) {
	ip.regs.write(RegBcastBroadcastMask, 0)
}

// BcastEnable recomputes the dispatch half of the broadcast mask for the
// first numPP processors assembled into the pixel pipe. The interrupt
// half in the low 16 bits is left untouched.
func (d *Device) BcastEnable(numPP int) {
	pipe := &d.pipes[PipePP]
	ip := &d.ips[IPBcast]

	if !ip.present {
		return
	}

	mask := ip.regs.read(RegBcastBroadcastMask) & 0x0000FFFF

	for i := 0; i < numPP; i++ {
		pp := pipe.processors[i]
		mask |= 1 << (16 + uint(pp.kind-IPPP0))
	}

	ip.regs.write(RegBcastBroadcastMask, mask)
}
