// Package source detects and exposes the per-platform hardware sources the
// correlation engine reads from. Each capability is optional; a platform
// that cannot serve a component leaves it nil and the aggregator folds the
// component as failed.
package source

import "github.com/go-tangra/go-tangra-hardware/internal/hardware"

// DisplaySource enumerates display adapters joined with their active
// outputs.
type DisplaySource interface {
	Displays() (pairs []hardware.AdapterOutputPair, messages []string, err error)
}

// NetworkSource produces the correlated physical network adapter records.
type NetworkSource interface {
	NetworkDevices() (records []hardware.DeviceRecord, messages []string, err error)
}

// AudioSource produces the two-level audio hardware/endpoint record set.
type AudioSource interface {
	AudioDevices() (records []hardware.DeviceRecord, messages []string, err error)
}

// FirmwareSource decodes the firmware tables into a board/chassis/processor
// identity.
type FirmwareSource interface {
	FirmwareIdentity() (identity *hardware.FirmwareIdentity, messages []string, err error)
}

// HostSource reads the host's manufacturer, model, serial number and UUID.
type HostSource interface {
	HostIdentity() (hardware.SystemIdentity, error)
}

// Set is the capability set available on this host.
type Set struct {
	Display  DisplaySource
	Network  NetworkSource
	Audio    AudioSource
	Firmware FirmwareSource
	Host     HostSource
}
