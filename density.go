package htmlposter

import "fmt"

// Density is the requested output resolution in pixels per inch.
type Density int

// baselineDensity is the CSS reference density: a device scale factor of
// 1.0 corresponds to 96 ppi.
const baselineDensity = 96.0

// Density presets for common export targets.
const (
	// Screen is suited for on-screen previews.
	Screen Density = 72
	// Print is suited for standard desktop printing.
	Print Density = 150
	// HQPrint is suited for high-quality print production.
	HQPrint Density = 300
	// UltraPrint is suited for large-format or ultra-high-quality printing.
	UltraPrint Density = 600
)

// presetNames maps option names to their densities, in display order.
var presetNames = []struct {
	Name    string
	Density Density
}{
	{"screen", Screen},
	{"print", Print},
	{"hq-print", HQPrint},
	{"ultra-print", UltraPrint},
}

// ScaleFactor returns the device scale factor (device pixel ratio) that
// realizes the density relative to the 96 ppi baseline.
func (d Density) ScaleFactor() float64 {
	return float64(d) / baselineDensity
}

func (d Density) validate() error {
	if d <= 0 {
		return fmt.Errorf("htmlposter: density must be positive, got %d", d)
	}
	return nil
}

// ParsePreset resolves a preset name ("screen", "print", "hq-print",
// "ultra-print") to its density. Arbitrary positive densities need no
// preset; construct a [Density] directly instead.
func ParsePreset(name string) (Density, error) {
	for _, p := range presetNames {
		if p.Name == name {
			return p.Density, nil
		}
	}
	return 0, fmt.Errorf("htmlposter: unknown density preset %q (options: %v)", name, Presets())
}

// Presets returns the recognized preset names in display order.
func Presets() []string {
	names := make([]string, len(presetNames))
	for i, p := range presetNames {
		names[i] = p.Name
	}
	return names
}
