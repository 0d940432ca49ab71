package device

// Register offsets are relative to each IP's register window. The window
// base is the device aperture plus the per-generation offset from the
// descriptor table.
const (
	// PMU
	RegPMUPowerUp   uint32 = 0x00
	RegPMUPowerDown uint32 = 0x04
	RegPMUStatus    uint32 = 0x08
	RegPMUIntMask   uint32 = 0x0C

	// L2 cache
	RegL2CacheSize     uint32 = 0x04
	RegL2CacheStatus   uint32 = 0x08
	RegL2CacheCommand  uint32 = 0x10
	RegL2CacheMaxReads uint32 = 0x18
	RegL2CacheEnable   uint32 = 0x1C

	// GP
	RegGPIntRawstat uint32 = 0x20
	RegGPIntClear   uint32 = 0x24
	RegGPIntMask    uint32 = 0x28
	RegGPCmd        uint32 = 0x30
	RegGPStatus     uint32 = 0x34
	RegGPVersion    uint32 = 0x6C

	// PP. The management block sits 0x1000 into the window.
	RegPPVersion    uint32 = 0x1000
	RegPPStatus     uint32 = 0x1008
	RegPPCtrl       uint32 = 0x100C
	RegPPIntRawstat uint32 = 0x1020
	RegPPIntClear   uint32 = 0x1024
	RegPPIntMask    uint32 = 0x1028

	// MMU
	RegMMUDTEAddr       uint32 = 0x00
	RegMMUStatus        uint32 = 0x04
	RegMMUCommand       uint32 = 0x08
	RegMMUPageFaultAddr uint32 = 0x0C
	RegMMUIntRawstat    uint32 = 0x10
	RegMMUIntClear      uint32 = 0x14
	RegMMUIntMask       uint32 = 0x18

	// DLBU
	RegDLBUMasterTLListPhysAddr uint32 = 0x00
	RegDLBUMasterTLListVAddr    uint32 = 0x04
	RegDLBUTLListVBaseAddr      uint32 = 0x08
	RegDLBUFBDim                uint32 = 0x0C

	// Broadcast unit. A single 32-bit register: bits 0-15 are the
	// interrupt-enable mask, bits 16-31 the dispatch mask.
	RegBcastBroadcastMask uint32 = 0x00
)

// Register field values.
const (
	PMUAllDomains uint32 = 0x0FFF

	L2CacheCommandClearAll   uint32 = 1 << 0
	L2CacheStatusCommandBusy uint32 = 1 << 0
	L2CacheEnableAccess      uint32 = 1 << 0
	L2CacheEnableReadAlloc   uint32 = 1 << 2
	L2CacheMaxReadsDefault   uint32 = 0x1C

	GPCmdSoftReset  uint32 = 1 << 5
	GPStatusActive  uint32 = 0x3
	GPIrqMaskAll    uint32 = 0x000F03FF
	GPIrqMaskUsed   uint32 = 0x000F0383
	PPCtrlSoftReset uint32 = 1 << 7
	PPStatusActive  uint32 = 1 << 0
	PPIrqMaskAll    uint32 = 0x00001FFF
	PPIrqMaskUsed   uint32 = 0x00001F00

	MMUCommandEnablePaging  uint32 = 0x00
	MMUCommandDisablePaging uint32 = 0x01
	MMUCommandHardReset     uint32 = 0x06
	MMUIntPageFault         uint32 = 1 << 0
	MMUIntReadBusError      uint32 = 1 << 1

	// DTE address registers only hold page-aligned values.
	mmuProbePattern uint32 = 0xCAFEBABE
	mmuProbeExpect  uint32 = 0xCAFEB000
)

// Virtual address layout.
const (
	// PageSize is the GPU page size.
	PageSize = 0x1000

	// VAReserveStart is the bottom of the reserved broadcast-visible
	// region at the top of the 32-bit GPU address space.
	VAReserveStart uint64 = 0xFFF0_0000

	// VAReserveDLBU is where the DLBU page is mapped in every space.
	VAReserveDLBU = VAReserveStart

	// VAReserveEnd is the first address past the GPU address space.
	VAReserveEnd uint64 = 0x1_0000_0000
)

// regPollRetries bounds register polls. The model has no real hardware to
// wait for, so a poll either passes immediately or the state is wedged.
const regPollRetries = 100
