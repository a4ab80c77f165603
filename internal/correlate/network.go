package correlate

import (
	"fmt"
	"strings"

	"github.com/go-tangra/go-tangra-hardware/internal/hardware"
)

// NetAdapter is one OS-level network adapter (source A), keyed by its
// persisted configuration GUID. Loopback adapters are excluded by the
// enumerator.
type NetAdapter struct {
	GUID        string
	Name        string
	Description string
}

// ClassDevice is one entry of the network device-class tree (source B).
// ConfigID is the persisted configuration identifier stored with the
// device; InstanceID is its stable hardware-instance identifier.
type ClassDevice struct {
	InstanceID    string
	ConfigID      string
	Manufacturer  string
	LocationPaths []string
}

// fallbackManufacturer is emitted when no class-tree entry matches an
// adapter's GUID.
const fallbackManufacturer = "Unknown"

// ResolveNetworkIdentity joins each source-A adapter against the source-B
// class tree by case-insensitive GUID comparison. A match overrides the
// fallback GUID with the device's stable instance identifier and
// manufacturer; without a match the adapter is still emitted with
// manufacturer "Unknown" and the GUID as identifier. Source-A order is
// preserved.
func ResolveNetworkIdentity(adapters []NetAdapter, devices []ClassDevice) []hardware.DeviceRecord {
	records := make([]hardware.DeviceRecord, 0, len(adapters))
	for _, a := range adapters {
		rec := hardware.DeviceRecord{
			Type:         hardware.DeviceHardware,
			Name:         a.Name,
			Manufacturer: fallbackManufacturer,
			Identifier:   a.GUID,
		}

		for _, d := range devices {
			if strings.EqualFold(d.ConfigID, a.GUID) {
				rec.Identifier = d.InstanceID
				if d.Manufacturer != "" {
					rec.Manufacturer = d.Manufacturer
				}
				rec.PCIPath, rec.ACPIPath = locationPaths(d.LocationPaths)
				break
			}
		}

		records = append(records, rec)
	}
	return records
}

// FilterPhysical keeps only records whose resolved identifier carries a PCI
// or USB bus-type marker, excluding virtual and software adapters. The
// filter is idempotent.
func FilterPhysical(records []hardware.DeviceRecord) []hardware.DeviceRecord {
	out := make([]hardware.DeviceRecord, 0, len(records))
	for _, r := range records {
		id := strings.ToUpper(r.Identifier)
		if strings.Contains(id, "PCI") || strings.Contains(id, "USB") {
			out = append(out, r)
		}
	}
	return out
}

// CorrelateNetwork runs identity resolution, the physical-bus filter and
// vendor/device ID extraction. Records whose identifier yields no parsable
// vendor/device pair, or whose location paths could not be determined, are
// still emitted, with a message, so the caller can fold the run into a
// partial outcome.
func CorrelateNetwork(adapters []NetAdapter, devices []ClassDevice) ([]hardware.DeviceRecord, []string) {
	records := FilterPhysical(ResolveNetworkIdentity(adapters, devices))

	var messages []string
	for i := range records {
		if records[i].PCIPath == "" && records[i].ACPIPath == "" {
			messages = append(messages, fmt.Sprintf("could not determine location paths for %q", records[i].Name))
		}

		vendor, device, ok := ParseVendorDevice(records[i].Identifier)
		if !ok {
			messages = append(messages, fmt.Sprintf("could not parse vendor/device ID from %q", records[i].Identifier))
			continue
		}
		records[i].VendorID = vendor
		records[i].DeviceID = device
	}
	return records, messages
}

// ParseVendorDevice extracts the 4-digit vendor and device IDs from a
// hardware instance identifier, accepting both the PCI (VEN_/DEV_) and USB
// (VID_/PID_) marker pairs.
func ParseVendorDevice(identifier string) (vendor, device string, ok bool) {
	if v, d, ok := cutPair(identifier, "VEN_", "DEV_"); ok {
		return v, d, true
	}
	return cutPair(identifier, "VID_", "PID_")
}

func cutPair(s, vendorMarker, deviceMarker string) (string, string, bool) {
	_, v, okV := strings.Cut(s, vendorMarker)
	_, d, okD := strings.Cut(s, deviceMarker)
	if !okV || !okD || len(v) < 4 || len(d) < 4 {
		return "", "", false
	}
	return v[:4], d[:4], true
}
