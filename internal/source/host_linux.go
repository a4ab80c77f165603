//go:build linux

package source

import (
	"fmt"

	"github.com/siderolabs/go-smbios/smbios"

	"github.com/go-tangra/go-tangra-hardware/internal/hardware"
)

type hostSource struct{}

// HostIdentity reads the system identity from the firmware entry point.
func (hostSource) HostIdentity() (hardware.SystemIdentity, error) {
	s, err := smbios.New()
	if err != nil {
		return hardware.SystemIdentity{}, fmt.Errorf("open firmware interface: %w", err)
	}

	return hardware.SystemIdentity{
		UUID:         s.SystemInformation.UUID,
		SerialNumber: s.SystemInformation.SerialNumber,
		Manufacturer: s.SystemInformation.Manufacturer,
		Model:        s.SystemInformation.ProductName,
	}, nil
}
