//go:build windows

package source

import (
	"fmt"

	"github.com/yusufpapurcu/wmi"

	"github.com/go-tangra/go-tangra-hardware/internal/hardware"
)

type win32ComputerSystem struct {
	Manufacturer string
	Model        string
}

type win32BIOS struct {
	SerialNumber string
}

type win32ComputerSystemProduct struct {
	UUID string
}

type hostSource struct{}

// HostIdentity queries the management service for manufacturer, model,
// chassis serial number and platform UUID.
func (hostSource) HostIdentity() (hardware.SystemIdentity, error) {
	var cs []win32ComputerSystem
	if err := wmi.Query("SELECT Manufacturer, Model FROM Win32_ComputerSystem", &cs); err != nil {
		return hardware.SystemIdentity{}, fmt.Errorf("query computer system: %w", err)
	}

	var bios []win32BIOS
	if err := wmi.Query("SELECT SerialNumber FROM Win32_BIOS", &bios); err != nil {
		return hardware.SystemIdentity{}, fmt.Errorf("query bios: %w", err)
	}

	var product []win32ComputerSystemProduct
	if err := wmi.Query("SELECT UUID FROM Win32_ComputerSystemProduct", &product); err != nil {
		return hardware.SystemIdentity{}, fmt.Errorf("query system product: %w", err)
	}

	identity := hardware.SystemIdentity{}
	if len(cs) > 0 {
		identity.Manufacturer = cs[0].Manufacturer
		identity.Model = cs[0].Model
	}
	if len(bios) > 0 {
		identity.SerialNumber = bios[0].SerialNumber
	}
	if len(product) > 0 {
		identity.UUID = product[0].UUID
	}
	return identity, nil
}
