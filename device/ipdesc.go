package device

// IPKind identifies one slot in the descriptor table.
type IPKind int

// Descriptor table slots, in bring-up order. Teardown walks the same
// slots in reverse.
const (
	IPPMU IPKind = iota
	IPL2Cache0
	IPL2Cache1
	IPL2Cache2
	IPGP
	IPPP0
	IPPP1
	IPPP2
	IPPP3
	IPPP4
	IPPP5
	IPPP6
	IPPP7
	IPGPMMU
	IPPPMMU0
	IPPPMMU1
	IPPPMMU2
	IPPPMMU3
	IPPPMMU4
	IPPPMMU5
	IPPPMMU6
	IPPPMMU7
	IPDLBU
	IPBcast
	IPPPBcast
	IPPPMMUBcast

	// NumIP is the number of descriptor slots.
	NumIP
)

// ipDesc is the static per-kind metadata. offset uses -1 for "does not
// exist on this generation".
type ipDesc struct {
	name     string
	irqName  string
	mustHave [numGenerations]bool
	offset   [numGenerations]int32

	init func(ip *IP) error
	fini func(ip *IP)
}

// ipDescTable is filled in init. The per-kind init funcs reach back into
// the table through IPKind.String, so a composite-literal initializer
// would form an initialization cycle.
var ipDescTable [NumIP]ipDesc

func init() {
	ipDescTable = [NumIP]ipDesc{
		IPPMU: {
			name:    "pmu",
			irqName: "pmu",
			offset:  [numGenerations]int32{0x02000, 0x02000},
			init:    pmuInit,
			fini:    pmuFini,
		},
		IPL2Cache0: {
			name:     "l2_cache0",
			mustHave: [numGenerations]bool{true, true},
			offset:   [numGenerations]int32{0x01000, 0x10000},
			init:     l2CacheInit,
			fini:     l2CacheFini,
		},
		IPL2Cache1: {
			name:     "l2_cache1",
			mustHave: [numGenerations]bool{false, true},
			offset:   [numGenerations]int32{-1, 0x01000},
			init:     l2CacheInit,
			fini:     l2CacheFini,
		},
		IPL2Cache2: {
			name:   "l2_cache2",
			offset: [numGenerations]int32{-1, 0x11000},
			init:   l2CacheInit,
			fini:   l2CacheFini,
		},
		IPGP: {
			name:     "gp",
			irqName:  "gp",
			mustHave: [numGenerations]bool{true, true},
			offset:   [numGenerations]int32{0x00000, 0x00000},
			init:     gpInit,
			fini:     gpFini,
		},
		IPPP0: {
			name:     "pp0",
			irqName:  "pp0",
			mustHave: [numGenerations]bool{true, true},
			offset:   [numGenerations]int32{0x08000, 0x08000},
			init:     ppInit,
			fini:     ppFini,
		},
		IPPP1: {
			name:    "pp1",
			irqName: "pp1",
			offset:  [numGenerations]int32{0x0A000, 0x0A000},
			init:    ppInit,
			fini:    ppFini,
		},
		IPPP2: {
			name:    "pp2",
			irqName: "pp2",
			offset:  [numGenerations]int32{0x0C000, 0x0C000},
			init:    ppInit,
			fini:    ppFini,
		},
		IPPP3: {
			name:    "pp3",
			irqName: "pp3",
			offset:  [numGenerations]int32{0x0E000, 0x0E000},
			init:    ppInit,
			fini:    ppFini,
		},
		IPPP4: {
			name:    "pp4",
			irqName: "pp4",
			offset:  [numGenerations]int32{-1, 0x28000},
			init:    ppInit,
			fini:    ppFini,
		},
		IPPP5: {
			name:    "pp5",
			irqName: "pp5",
			offset:  [numGenerations]int32{-1, 0x2A000},
			init:    ppInit,
			fini:    ppFini,
		},
		IPPP6: {
			name:    "pp6",
			irqName: "pp6",
			offset:  [numGenerations]int32{-1, 0x2C000},
			init:    ppInit,
			fini:    ppFini,
		},
		IPPP7: {
			name:    "pp7",
			irqName: "pp7",
			offset:  [numGenerations]int32{-1, 0x2E000},
			init:    ppInit,
			fini:    ppFini,
		},
		IPGPMMU: {
			name:     "gpmmu",
			irqName:  "gpmmu",
			mustHave: [numGenerations]bool{true, true},
			offset:   [numGenerations]int32{0x03000, 0x03000},
			init:     mmuInit,
			fini:     mmuFini,
		},
		IPPPMMU0: {
			name:     "ppmmu0",
			irqName:  "ppmmu0",
			mustHave: [numGenerations]bool{true, true},
			offset:   [numGenerations]int32{0x04000, 0x04000},
			init:     mmuInit,
			fini:     mmuFini,
		},
		IPPPMMU1: {
			name:    "ppmmu1",
			irqName: "ppmmu1",
			offset:  [numGenerations]int32{0x05000, 0x05000},
			init:    mmuInit,
			fini:    mmuFini,
		},
		IPPPMMU2: {
			name:    "ppmmu2",
			irqName: "ppmmu2",
			offset:  [numGenerations]int32{0x06000, 0x06000},
			init:    mmuInit,
			fini:    mmuFini,
		},
		IPPPMMU3: {
			name:    "ppmmu3",
			irqName: "ppmmu3",
			offset:  [numGenerations]int32{0x07000, 0x07000},
			init:    mmuInit,
			fini:    mmuFini,
		},
		IPPPMMU4: {
			name:    "ppmmu4",
			irqName: "ppmmu4",
			offset:  [numGenerations]int32{-1, 0x1C000},
			init:    mmuInit,
			fini:    mmuFini,
		},
		IPPPMMU5: {
			name:    "ppmmu5",
			irqName: "ppmmu5",
			offset:  [numGenerations]int32{-1, 0x1D000},
			init:    mmuInit,
			fini:    mmuFini,
		},
		IPPPMMU6: {
			name:    "ppmmu6",
			irqName: "ppmmu6",
			offset:  [numGenerations]int32{-1, 0x1E000},
			init:    mmuInit,
			fini:    mmuFini,
		},
		IPPPMMU7: {
			name:    "ppmmu7",
			irqName: "ppmmu7",
			offset:  [numGenerations]int32{-1, 0x1F000},
			init:    mmuInit,
			fini:    mmuFini,
		},
		IPDLBU: {
			name:     "dlbu",
			mustHave: [numGenerations]bool{false, true},
			offset:   [numGenerations]int32{-1, 0x14000},
			init:     dlbuInit,
			fini:     dlbuFini,
		},
		IPBcast: {
			name:     "bcast",
			mustHave: [numGenerations]bool{false, true},
			offset:   [numGenerations]int32{-1, 0x13000},
			init:     bcastInit,
			fini:     bcastFini,
		},
		IPPPBcast: {
			name:     "pp_bcast",
			irqName:  "pp",
			mustHave: [numGenerations]bool{false, true},
			offset:   [numGenerations]int32{-1, 0x16000},
			init:     ppBcastInit,
			fini:     ppBcastFini,
		},
		IPPPMMUBcast: {
			name:     "ppmmu_bcast",
			mustHave: [numGenerations]bool{false, true},
			offset:   [numGenerations]int32{-1, 0x15000},
			init:     mmuBcastInit,
			fini:     mmuBcastFini,
		},
	}
}

// String returns the display name of the slot.
func (k IPKind) String() string {
	if k < 0 || k >= NumIP {
		return "invalid"
	}

	return ipDescTable[k].name
}

// IRQName returns the interrupt name of the slot, "" when the slot has no
// interrupt.
func (k IPKind) IRQName() string {
	return ipDescTable[k].irqName
}

// Offset returns the register-window offset of the slot on the given
// generation, -1 when the slot does not exist there.
func (k IPKind) Offset(g Generation) int32 {
	return ipDescTable[k].offset[g]
}

// MustHave reports whether the slot is mandatory on the given generation.
func (k IPKind) MustHave(g Generation) bool {
	return ipDescTable[k].mustHave[g]
}
