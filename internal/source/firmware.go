package source

import (
	"fmt"

	"github.com/go-tangra/go-tangra-hardware/internal/hardware"
	"github.com/go-tangra/go-tangra-hardware/internal/smbios"
)

// identityFromTables decodes a raw firmware table blob into the identity
// fields. A malformed tail degrades to a message while the structures
// decoded before it are kept; an undecodable blob is an error.
func identityFromTables(blob []byte) (*hardware.FirmwareIdentity, []string, error) {
	tables, err := smbios.Decode(blob)
	var messages []string
	if err != nil {
		if len(tables) == 0 {
			return nil, nil, fmt.Errorf("decode firmware tables: %w", err)
		}
		messages = append(messages, err.Error())
	}

	identity := &hardware.FirmwareIdentity{}
	for _, t := range tables {
		switch t.Header.Type {
		case smbios.TypeBaseboard:
			board, err := smbios.DecodeBaseboard(t)
			if err != nil {
				messages = append(messages, err.Error())
				continue
			}
			identity.BoardManufacturer = board.Manufacturer
			identity.BoardProduct = board.Product
			identity.BoardVersion = board.Version
			identity.BoardSerial = board.SerialNumber
		case smbios.TypeChassis:
			chassis, err := smbios.DecodeChassis(t)
			if err != nil {
				messages = append(messages, err.Error())
				continue
			}
			identity.ChassisManufacturer = chassis.Manufacturer
			identity.ChassisType = chassis.TypeName
		case smbios.TypeProcessor:
			// Multi-socket hosts report one structure per socket; the
			// first populated one identifies the platform.
			if identity.ProcessorVersion != "" {
				continue
			}
			proc, err := smbios.DecodeProcessor(t)
			if err != nil {
				messages = append(messages, err.Error())
				continue
			}
			identity.ProcessorSocket = proc.SocketDesignation
			identity.ProcessorVersion = proc.Version
			identity.ProcessorUpgrade = proc.UpgradeName
		}
	}

	return identity, messages, nil
}
