package smbios

// processorUpgradeNames maps the processor-upgrade byte of a processor
// structure to its socket name. Values outside the populated range resolve
// to "Unknown".
var processorUpgradeNames = map[byte]string{
	0x00: "Reserved",
	0x01: "Other",
	0x02: "Unknown",
	0x03: "Daughter Board",
	0x04: "ZIF Socket",
	0x05: "Replaceable Piggy Back",
	0x06: "None",
	0x07: "LIF Socket",
	0x08: "Slot 1",
	0x09: "Slot 2",
	0x0A: "370-pin Socket",
	0x0B: "Slot A",
	0x0C: "Slot M",
	0x0D: "Socket 423",
	0x0E: "Socket A (Socket 462)",
	0x0F: "Socket 478",
	0x10: "Socket 754",
	0x11: "Socket 940",
	0x12: "Socket 939",
	0x13: "Socket mPGA604",
	0x14: "Socket LGA771",
	0x15: "Socket LGA775",
	0x16: "Socket S1",
	0x17: "Socket AM2",
	0x18: "Socket F (1207)",
	0x19: "Socket LGA1366",
	0x1A: "Socket G34",
	0x1B: "Socket AM3",
	0x1C: "Socket C32",
	0x1D: "Socket LGA1156",
	0x1E: "Socket LGA1567",
	0x1F: "Socket PGA988A",
	0x20: "Socket BGA1288",
	0x21: "Socket rPGA988B",
	0x22: "Socket BGA1023",
	0x23: "Socket BGA1224",
	0x24: "Socket LGA1155",
	0x25: "Socket LGA1356",
	0x26: "Socket LGA2011",
	0x27: "Socket FS1",
	0x28: "Socket FS2",
	0x29: "Socket FM1",
	0x2A: "Socket FM2",
	0x2B: "Socket LGA2011-3",
	0x2C: "Socket LGA1356-3",
	0x2D: "Socket LGA1150",
	0x2E: "Socket BGA1168",
	0x2F: "Socket BGA1234",
	0x30: "Socket BGA1364",
	0x31: "Socket AM4",
	0x32: "Socket LGA1151",
	0x33: "Socket BGA1356",
	0x34: "Socket BGA1440",
	0x35: "Socket BGA1515",
	0x36: "Socket LGA3647-1",
	0x37: "Socket SP3",
	0x38: "Socket SP3r2",
	0x39: "Socket LGA2066",
	0x3A: "Socket BGA1392",
	0x3B: "Socket BGA1510",
	0x3C: "Socket BGA1528",
	0x3D: "Socket LGA4189",
	0x3E: "Socket LGA1200",
	0x3F: "Socket LGA4677",
	0x40: "Socket LGA1700",
	0x41: "Socket BGA1744",
	0x42: "Socket BGA1781",
	0x43: "Socket BGA1211",
	0x44: "Socket BGA2422",
	0x45: "Socket LGA1211",
	0x46: "Socket LGA2422",
	0x47: "Socket LGA5773",
	0x48: "Socket BGA5773",
	0x49: "Socket AM5",
	0x4A: "Socket SP5",
	0x4B: "Socket SP6",
	0x4C: "Socket BGA883",
	0x4D: "Socket BGA1190",
	0x4E: "Socket BGA4129",
	0x4F: "Socket LGA4710",
	0x50: "Socket LGA7529",
	0x51: "Socket BGA1964",
	0x52: "Socket BGA1792",
	0x53: "Socket BGA2049",
	0x54: "Socket BGA2551",
	0x55: "Socket LGA1851",
	0x56: "Socket BGA2114",
	0x57: "Socket BGA2833",
}

// ProcessorUpgradeName resolves a processor-upgrade byte to its socket name.
func ProcessorUpgradeName(value byte) string {
	if name, ok := processorUpgradeNames[value]; ok {
		return name
	}
	return "Unknown"
}
