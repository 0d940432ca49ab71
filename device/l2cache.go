package device

import (
	"fmt"
	"log"
)

func l2CacheInit(ip *IP) error {
	size := ip.regs.read(RegL2CacheSize)
	log.Printf("%s: %s size register %#x", ip.dev.name, ip.Name(), size)

	if err := l2CacheFlush(ip); err != nil {
		return err
	}

	ip.regs.write(RegL2CacheMaxReads, L2CacheMaxReadsDefault)
	ip.regs.write(RegL2CacheEnable,
		L2CacheEnableAccess|L2CacheEnableReadAlloc)

	return nil
}

func l2CacheFini(ip *IP) {
	ip.regs.write(RegL2CacheEnable, 0)
}

func l2CacheFlush(ip *IP) error {
	ip.regs.write(RegL2CacheCommand, L2CacheCommandClearAll)

	err := ip.regs.poll(RegL2CacheStatus, L2CacheStatusCommandBusy, 0)
	if err != nil {
		return fmt.Errorf("%s: clear all: %w", ip.Name(), err)
	}

	return nil
}
