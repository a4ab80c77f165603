//go:build windows

package source

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/go-tangra/go-tangra-hardware/internal/hardware"
)

var (
	modkernel32                = windows.NewLazySystemDLL("kernel32.dll")
	procGetSystemFirmwareTable = modkernel32.NewProc("GetSystemFirmwareTable")
)

// 'RSMB' firmware table provider.
const firmwareProviderRSMB = 0x52534D42

// rawTableHeaderSize is the metadata prefix the OS prepends to the table
// blob (calling method, version bytes and blob length).
const rawTableHeaderSize = 8

func firmwareTableBlob() ([]byte, error) {
	size, _, _ := procGetSystemFirmwareTable.Call(firmwareProviderRSMB, 0, 0, 0)
	if size == 0 {
		return nil, fmt.Errorf("firmware table size query failed")
	}

	buf := make([]byte, size)
	n, _, _ := procGetSystemFirmwareTable.Call(
		firmwareProviderRSMB,
		0,
		uintptr(unsafe.Pointer(&buf[0])),
		size,
	)
	if n == 0 || n > size {
		return nil, fmt.Errorf("firmware table read failed")
	}
	if n <= rawTableHeaderSize {
		return nil, fmt.Errorf("firmware table blob truncated at %d bytes", n)
	}
	return buf[rawTableHeaderSize:n], nil
}

type firmwareSource struct{}

func (firmwareSource) FirmwareIdentity() (*hardware.FirmwareIdentity, []string, error) {
	blob, err := firmwareTableBlob()
	if err != nil {
		return nil, nil, err
	}
	return identityFromTables(blob)
}
