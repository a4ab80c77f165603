//go:build linux

package source

import (
	"fmt"
	"os"

	"github.com/go-tangra/go-tangra-hardware/internal/hardware"
)

// dmiTablePath exposes the raw firmware table blob on kernels with sysfs
// DMI support.
const dmiTablePath = "/sys/firmware/dmi/tables/DMI"

type firmwareSource struct{}

func (firmwareSource) FirmwareIdentity() (*hardware.FirmwareIdentity, []string, error) {
	blob, err := os.ReadFile(dmiTablePath)
	if err != nil {
		return nil, nil, fmt.Errorf("read firmware tables: %w", err)
	}
	return identityFromTables(blob)
}
