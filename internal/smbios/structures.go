package smbios

import "fmt"

// Baseboard is the decoded baseboard (type 2) structure.
type Baseboard struct {
	Manufacturer string
	Product      string
	Version      string
	SerialNumber string
}

// Chassis is the decoded system-enclosure (type 3) structure. TypeName is
// the chassis-type byte resolved through the lookup table.
type Chassis struct {
	Manufacturer string
	Type         byte
	TypeName     string
}

// Processor is the decoded processor (type 4) structure. UpgradeName is the
// processor-upgrade byte resolved through the lookup table.
type Processor struct {
	SocketDesignation string
	Manufacturer      string
	Version           string
	MaxSpeedMHz       uint16
	CurrentSpeedMHz   uint16
	Upgrade           byte
	UpgradeName       string
}

func (t Table) stringRef(offset int) string {
	b, ok := t.ByteAt(offset)
	if !ok {
		return ""
	}
	return t.StringAt(int(b))
}

// DecodeBaseboard decodes a type 2 structure.
func DecodeBaseboard(t Table) (Baseboard, error) {
	if t.Header.Type != TypeBaseboard {
		return Baseboard{}, fmt.Errorf("smbios: structure type %d is not a baseboard", t.Header.Type)
	}
	return Baseboard{
		Manufacturer: t.stringRef(0x04),
		Product:      t.stringRef(0x05),
		Version:      t.stringRef(0x06),
		SerialNumber: t.stringRef(0x07),
	}, nil
}

// DecodeChassis decodes a type 3 structure.
func DecodeChassis(t Table) (Chassis, error) {
	if t.Header.Type != TypeChassis {
		return Chassis{}, fmt.Errorf("smbios: structure type %d is not a chassis", t.Header.Type)
	}
	chassisType, _ := t.ByteAt(0x05)
	return Chassis{
		Manufacturer: t.stringRef(0x04),
		Type:         chassisType,
		TypeName:     ChassisTypeName(chassisType),
	}, nil
}

// DecodeProcessor decodes a type 4 structure.
func DecodeProcessor(t Table) (Processor, error) {
	if t.Header.Type != TypeProcessor {
		return Processor{}, fmt.Errorf("smbios: structure type %d is not a processor", t.Header.Type)
	}

	maxSpeed, _ := t.WordAt(0x14)
	curSpeed, _ := t.WordAt(0x16)
	upgrade, _ := t.ByteAt(0x19)

	return Processor{
		SocketDesignation: t.stringRef(0x04),
		Manufacturer:      t.stringRef(0x07),
		Version:           t.stringRef(0x10),
		MaxSpeedMHz:       maxSpeed,
		CurrentSpeedMHz:   curSpeed,
		Upgrade:           upgrade,
		UpgradeName:       ProcessorUpgradeName(upgrade),
	}, nil
}
