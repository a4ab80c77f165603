package correlate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPCIPath(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"root only", "PCIROOT(0)", "PciRoot(0x0)"},
		{"root and device", "PCIROOT(0)#PCI(1C04)", "PciRoot(0x0)/Pci(0x1C,0x4)"},
		{"device and function", "PCIROOT(1)#PCI(0801)#PCI(0000)", "PciRoot(0x1)/Pci(0x8,0x1)/Pci(0x0,0x0)"},
		{"empty", "", ""},
		{"unrecognized segments skipped", "PCIROOT(0)#USB(1)", "PciRoot(0x0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPCIPath(tt.raw))
		})
	}
}

func TestFormatACPIPath(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"two segments", "ACPI(_SB_)#ACPI(PCI0)", `\_SB_.PCI0`},
		{"deep chain", "ACPI(_SB_)#ACPI(PCI0)#ACPI(GPP8)", `\_SB_.PCI0.GPP8`},
		{"no acpi tags", "PCIROOT(0)", "PCIROOT(0)"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatACPIPath(tt.raw))
		})
	}
}

func TestLocationPathsPicksFirstOfEachKind(t *testing.T) {
	pci, acpi := locationPaths([]string{
		"PCIROOT(0)#PCI(1C04)",
		"ACPI(_SB_)#ACPI(PCI0)",
		"PCIROOT(9)#PCI(0000)",
	})

	assert.Equal(t, "PciRoot(0x0)/Pci(0x1C,0x4)", pci)
	assert.Equal(t, `\_SB_.PCI0`, acpi)
}
