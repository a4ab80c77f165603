package correlate

import (
	"strings"

	"github.com/go-tangra/go-tangra-hardware/internal/hardware"
)

// MediaDevice is one media-class device with its device-tree children in
// first-child-then-siblings order.
type MediaDevice struct {
	InstanceID   string
	Class        string
	FriendlyName string
	Manufacturer string
	HardwareIDs  []string
	HasProblem   bool
	Children     []ChildNode
}

// ChildNode is one device-tree child of a media device. Children without a
// resolvable friendly name carry an empty string and are skipped.
type ChildNode struct {
	InstanceID   string
	FriendlyName string
}

// Endpoint is one active logical audio endpoint. The enumerator supplies
// render endpoints before capture endpoints, so a name shared across both
// flows resolves to render.
type Endpoint struct {
	FriendlyName string
	Flow         hardware.DataFlow
}

// virtualBusPrefixes root the instance identifiers of software-enumerated
// devices; anything under them is not physical audio hardware.
var virtualBusPrefixes = []string{`SWD\`, `ROOT\`}

// softwareClasses are device classes that never describe a physical audio
// controller.
var softwareClasses = map[string]struct{}{
	"AudioEndpoint":  {},
	"SoftwareDevice": {},
	"System":         {},
}

// IsHardwareAudioDevice applies the physical-hardware filter predicates: a
// device survives only if it is not rooted under a virtual bus, its class
// is not a software/virtual/system class, its problem flag is clear, and at
// least one hardware ID carries a vendor-ID marker (VEN_ or VID_). The
// predicates are fixed for data parity with the consuming layer.
func IsHardwareAudioDevice(d MediaDevice) bool {
	id := strings.ToUpper(d.InstanceID)
	for _, prefix := range virtualBusPrefixes {
		if strings.HasPrefix(id, prefix) {
			return false
		}
	}

	if _, ok := softwareClasses[d.Class]; ok {
		return false
	}
	if d.HasProblem {
		return false
	}

	for _, hwid := range d.HardwareIDs {
		up := strings.ToUpper(hwid)
		if strings.Contains(up, "VEN_") || strings.Contains(up, "VID_") {
			return true
		}
	}
	return false
}

// ResolveEndpointFlow resolves the data-flow direction of a device-tree
// child by friendly-name string equality against the active endpoint list.
// The join key is ambiguous: two endpoints sharing a friendly name cannot
// be told apart, and the first match wins. A child matching neither flow
// resolves to false.
func ResolveEndpointFlow(name string, endpoints []Endpoint) (hardware.DataFlow, bool) {
	for _, e := range endpoints {
		if e.FriendlyName == name {
			return e.Flow, true
		}
	}
	return "", false
}

// CorrelateAudio builds the two-level audio record set: surviving hardware
// devices, each followed by the children whose data-flow direction resolved
// through the endpoint name join. Children that fail the join are dropped
// silently; the count of drops is returned for boundary logging only and
// never affects the outcome fold.
func CorrelateAudio(devices []MediaDevice, endpoints []Endpoint) (records []hardware.DeviceRecord, dropped int) {
	for _, d := range devices {
		if !IsHardwareAudioDevice(d) {
			continue
		}

		records = append(records, hardware.DeviceRecord{
			Type:         hardware.DeviceHardware,
			Name:         d.FriendlyName,
			Manufacturer: d.Manufacturer,
			Identifier:   d.InstanceID,
		})

		for _, child := range d.Children {
			if child.FriendlyName == "" {
				dropped++
				continue
			}
			flow, ok := ResolveEndpointFlow(child.FriendlyName, endpoints)
			if !ok {
				dropped++
				continue
			}
			records = append(records, hardware.DeviceRecord{
				Type:             hardware.DeviceEndpoint,
				Name:             child.FriendlyName,
				DataFlow:         flow,
				Identifier:       child.InstanceID,
				ParentIdentifier: d.InstanceID,
			})
		}
	}
	return records, dropped
}
