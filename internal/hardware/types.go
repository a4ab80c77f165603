// Package hardware defines the records produced by the cross-source
// correlation engine and the snapshot that aggregates them.
package hardware

import (
	"time"

	"github.com/go-tangra/go-tangra-hardware/internal/outcome"
)

// DeviceType classifies a correlated device record.
type DeviceType string

const (
	DeviceHardware DeviceType = "Hardware"
	DeviceEndpoint DeviceType = "Endpoint"
	DeviceAdapter  DeviceType = "Adapter"
)

// DataFlow is the direction of an audio endpoint.
type DataFlow string

const (
	FlowRender  DataFlow = "Render"
	FlowCapture DataFlow = "Capture"
)

// DeviceRecord is one correlated hardware device. Identity is the
// (Type, Identifier) pair. ParentIdentifier is a non-owning back-reference
// used only for correlation lookups.
type DeviceRecord struct {
	Type             DeviceType `json:"type"`
	Name             string     `json:"name"`
	Manufacturer     string     `json:"manufacturer,omitempty"`
	Identifier       string     `json:"identifier"`
	ParentIdentifier string     `json:"parent_identifier,omitempty"`
	VendorID         string     `json:"vendor_id,omitempty"`
	DeviceID         string     `json:"device_id,omitempty"`
	DataFlow         DataFlow   `json:"data_flow,omitempty"`
	PCIPath          string     `json:"pci_path,omitempty"`
	ACPIPath         string     `json:"acpi_path,omitempty"`
}

// AdapterOutputPair joins a display adapter description with one of its
// output device names. The output device name is the join key against the
// OS display-device identifier space.
type AdapterOutputPair struct {
	AdapterDescription string `json:"adapter_description"`
	OutputDeviceName   string `json:"output_device_name"`
}

// FirmwareIdentity holds the board, chassis and processor identity decoded
// from the firmware tables. Chassis type and processor upgrade are already
// mapped to their descriptive names.
type FirmwareIdentity struct {
	BoardManufacturer   string `json:"board_manufacturer,omitempty"`
	BoardProduct        string `json:"board_product,omitempty"`
	BoardVersion        string `json:"board_version,omitempty"`
	BoardSerial         string `json:"board_serial,omitempty"`
	ChassisManufacturer string `json:"chassis_manufacturer,omitempty"`
	ChassisType         string `json:"chassis_type,omitempty"`
	ProcessorSocket     string `json:"processor_socket,omitempty"`
	ProcessorVersion    string `json:"processor_version,omitempty"`
	ProcessorUpgrade    string `json:"processor_upgrade,omitempty"`
}

// SystemIdentity identifies the host the snapshot was taken on.
type SystemIdentity struct {
	UUID         string `json:"uuid,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
}

// Status is the folded result of one component collector.
type Status struct {
	State    outcome.State `json:"state"`
	Messages []string      `json:"messages,omitempty"`
}

// DisplayComponent holds the adapter/output pairs of the display subsystem.
type DisplayComponent struct {
	Status  Status              `json:"status"`
	Outputs []AdapterOutputPair `json:"outputs,omitempty"`
}

// DeviceComponent holds correlated device records for one subsystem.
type DeviceComponent struct {
	Status  Status         `json:"status"`
	Records []DeviceRecord `json:"records,omitempty"`
}

// FirmwareComponent holds the decoded firmware identity.
type FirmwareComponent struct {
	Status   Status            `json:"status"`
	Identity *FirmwareIdentity `json:"identity,omitempty"`
}

// Component names as they appear in the snapshot outcome map and the wire
// encoding.
const (
	ComponentDisplay  = "display"
	ComponentNetwork  = "network"
	ComponentAudio    = "audio"
	ComponentFirmware = "firmware"
)

// Snapshot is one complete hardware collection run. It is built once per
// invocation and never mutated afterwards; no state survives across runs.
type Snapshot struct {
	ID            string           `json:"id"`
	Hostname      string           `json:"hostname"`
	Platform      string           `json:"platform,omitempty"`
	KernelVersion string           `json:"kernel_version,omitempty"`
	CollectedAt   time.Time        `json:"collected_at"`
	System        SystemIdentity   `json:"system"`
	Display       DisplayComponent `json:"display"`
	Network       DeviceComponent  `json:"network"`
	Audio         DeviceComponent  `json:"audio"`
	Firmware      FirmwareComponent `json:"firmware"`
}

// Outcomes returns the per-component fold as a name-to-status map.
func (s *Snapshot) Outcomes() map[string]Status {
	return map[string]Status{
		ComponentDisplay:  s.Display.Status,
		ComponentNetwork:  s.Network.Status,
		ComponentAudio:    s.Audio.Status,
		ComponentFirmware: s.Firmware.Status,
	}
}
