package device

import "fmt"

// Generation selects which column of the IP descriptor table applies and
// which pipeline topology rules are in effect. It is fixed for the life of
// a Device.
type Generation int

const (
	// Mali400 is the single-L2 generation without load-balancing hardware.
	Mali400 Generation = iota

	// Mali450 is the generation with per-group L2 caches, the DLBU, and
	// the broadcast unit.
	Mali450

	numGenerations
)

func (g Generation) String() string {
	switch g {
	case Mali400:
		return "mali400"
	case Mali450:
		return "mali450"
	}

	return fmt.Sprintf("generation(%d)", int(g))
}

// ParseGeneration converts a generation name such as "mali400" into a
// Generation value.
func ParseGeneration(name string) (Generation, error) {
	switch name {
	case "mali400":
		return Mali400, nil
	case "mali450":
		return Mali450, nil
	}

	return 0, fmt.Errorf("unknown generation %q", name)
}

// HasDLBU reports whether the generation carries the distributed
// load-balancing unit and therefore needs the coherent DLBU page.
func (g Generation) HasDLBU() bool {
	return g == Mali450
}
