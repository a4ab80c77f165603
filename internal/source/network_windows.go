//go:build windows

package source

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/go-tangra/go-tangra-hardware/internal/correlate"
	"github.com/go-tangra/go-tangra-hardware/internal/hardware"
)

// adapterList enumerates OS-level network adapters, excluding loopback.
// The adapter name reported by the stack is its configuration GUID.
func adapterList() ([]correlate.NetAdapter, error) {
	var size uint32 = 15000
	var buf []byte
	for {
		buf = make([]byte, size)
		err := windows.GetAdaptersAddresses(
			windows.AF_UNSPEC,
			windows.GAA_FLAG_INCLUDE_PREFIX,
			0,
			(*windows.IpAdapterAddresses)(unsafe.Pointer(&buf[0])),
			&size,
		)
		if err == nil {
			break
		}
		if err != windows.ERROR_BUFFER_OVERFLOW {
			return nil, fmt.Errorf("enumerate network adapters: %w", err)
		}
	}
	if size == 0 {
		return nil, nil
	}

	var adapters []correlate.NetAdapter
	for aa := (*windows.IpAdapterAddresses)(unsafe.Pointer(&buf[0])); aa != nil; aa = aa.Next {
		if aa.IfType == windows.IF_TYPE_SOFTWARE_LOOPBACK {
			continue
		}
		adapters = append(adapters, correlate.NetAdapter{
			GUID:        windows.BytePtrToString(aa.AdapterName),
			Name:        windows.UTF16PtrToString(aa.FriendlyName),
			Description: windows.UTF16PtrToString(aa.Description),
		})
	}
	return adapters, nil
}

type networkSource struct{}

func (networkSource) NetworkDevices() ([]hardware.DeviceRecord, []string, error) {
	adapters, err := adapterList()
	if err != nil {
		return nil, nil, err
	}

	var messages []string
	devices, err := networkClassDevices()
	if err != nil {
		// Without the class tree every identity falls back to its GUID.
		messages = append(messages, err.Error())
	}

	records, parseMessages := correlate.CorrelateNetwork(adapters, devices)
	return records, append(messages, parseMessages...), nil
}
