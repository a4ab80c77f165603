package correlate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	acpiSegmentRe = regexp.MustCompile(`ACPI\((.*?)\)`)
	pciRootRe     = regexp.MustCompile(`^PCIROOT\((\d+)\)`)
	pciSegmentRe  = regexp.MustCompile(`^PCI\(([0-9A-Fa-f]+)\)`)
)

// locationPaths picks the first PCI-style and first ACPI-style entry out of
// a device's raw location path list and formats both.
func locationPaths(raw []string) (pci, acpi string) {
	for _, p := range raw {
		up := strings.ToUpper(p)
		if pci == "" && strings.HasPrefix(up, "PCIROOT") {
			pci = FormatPCIPath(p)
		}
		if acpi == "" && strings.HasPrefix(up, "ACPI") {
			acpi = FormatACPIPath(p)
		}
	}
	return pci, acpi
}

// FormatACPIPath converts a raw `ACPI(_SB_)#ACPI(PCI0)` location path to
// the dotted `\_SB_.PCI0` form. A path without ACPI segments is returned
// unchanged.
func FormatACPIPath(raw string) string {
	if raw == "" {
		return ""
	}

	matches := acpiSegmentRe.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return raw
	}

	segments := make([]string, len(matches))
	for i, m := range matches {
		segments[i] = m[1]
	}
	return `\` + strings.Join(segments, ".")
}

// FormatPCIPath converts a raw `PCIROOT(0)#PCI(1C04)` location path to the
// `PciRoot(0x0)/Pci(0x1C,0x4)` form. The 16-bit PCI segment value packs the
// device number in the high byte and the function number in the low byte.
func FormatPCIPath(raw string) string {
	if raw == "" {
		return ""
	}

	var parts []string
	for _, seg := range strings.Split(raw, "#") {
		if m := pciRootRe.FindStringSubmatch(seg); m != nil {
			val, err := strconv.Atoi(m[1])
			if err == nil {
				parts = append(parts, fmt.Sprintf("PciRoot(0x%X)", val))
			}
			continue
		}
		if m := pciSegmentRe.FindStringSubmatch(seg); m != nil {
			val, err := strconv.ParseUint(m[1], 16, 32)
			if err == nil {
				parts = append(parts, fmt.Sprintf("Pci(0x%X,0x%X)", val>>8, val&0xFF))
			}
		}
	}
	return strings.Join(parts, "/")
}
