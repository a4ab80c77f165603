//go:build windows

package source

import (
	"fmt"
	"unsafe"

	"github.com/go-ole/go-ole"
	"github.com/rs/zerolog"
	"golang.org/x/sys/windows"

	"github.com/go-tangra/go-tangra-hardware/internal/correlate"
	"github.com/go-tangra/go-tangra-hardware/internal/hardware"
)

var (
	clsidMMDeviceEnumerator = ole.NewGUID("{BCDE0395-E52F-467C-8E3D-C4579291692E}")
	iidIMMDeviceEnumerator  = ole.NewGUID("{A95664D2-9614-4F35-A746-DE8DB63617E6}")
)

var (
	modole32             = windows.NewLazySystemDLL("ole32.dll")
	procPropVariantClear = modole32.NewProc("PropVariantClear")
)

const (
	eRender           = 0
	eCapture          = 1
	deviceStateActive = 0x1
	stgmRead          = 0
	vtLpwstr          = 31
	hrSFalse          = 0x00000001

	slotEnumAudioEndpoints      = 3
	slotCollectionGetCount      = 3
	slotCollectionItem          = 4
	slotDeviceOpenPropertyStore = 4
	slotStoreGetValue           = 5
)

type propVariant struct {
	VT       uint16
	reserved [3]uint16
	Val      uintptr
	_        uintptr
}

// activeEndpoints lists the active logical audio endpoints, render flow
// before capture flow so a friendly name shared across both resolves to
// render.
func activeEndpoints() ([]correlate.Endpoint, error) {
	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		oleErr, ok := err.(*ole.OleError)
		if !ok || (oleErr.Code() != ole.S_OK && oleErr.Code() != hrSFalse) {
			return nil, fmt.Errorf("com initialization: %w", err)
		}
	}
	defer ole.CoUninitialize()

	unknown, err := ole.CreateInstance(clsidMMDeviceEnumerator, iidIMMDeviceEnumerator)
	if err != nil {
		return nil, fmt.Errorf("create endpoint enumerator: %w", err)
	}
	enum := (*comObject)(unsafe.Pointer(unknown))
	defer enum.release()

	flows := []struct {
		direction uintptr
		flow      hardware.DataFlow
	}{
		{eRender, hardware.FlowRender},
		{eCapture, hardware.FlowCapture},
	}

	var endpoints []correlate.Endpoint
	for _, f := range flows {
		names, err := endpointNames(enum, f.direction)
		if err != nil {
			return endpoints, err
		}
		for _, name := range names {
			endpoints = append(endpoints, correlate.Endpoint{FriendlyName: name, Flow: f.flow})
		}
	}
	return endpoints, nil
}

func endpointNames(enum *comObject, direction uintptr) ([]string, error) {
	var collection *comObject
	hr := enum.call(slotEnumAudioEndpoints, direction, deviceStateActive, uintptr(unsafe.Pointer(&collection)))
	if int32(hr) < 0 {
		return nil, fmt.Errorf("enumerate audio endpoints: hresult %#x", hr)
	}
	defer collection.release()

	var count uint32
	if hr := collection.call(slotCollectionGetCount, uintptr(unsafe.Pointer(&count))); int32(hr) < 0 {
		return nil, fmt.Errorf("audio endpoint count: hresult %#x", hr)
	}

	var names []string
	for i := uint32(0); i < count; i++ {
		var device *comObject
		if hr := collection.call(slotCollectionItem, uintptr(i), uintptr(unsafe.Pointer(&device))); int32(hr) < 0 {
			continue
		}
		if name := endpointFriendlyName(device); name != "" {
			names = append(names, name)
		}
		device.release()
	}
	return names, nil
}

func endpointFriendlyName(device *comObject) string {
	var store *comObject
	if hr := device.call(slotDeviceOpenPropertyStore, stgmRead, uintptr(unsafe.Pointer(&store))); int32(hr) < 0 {
		return ""
	}
	defer store.release()

	var value propVariant
	hr := store.call(slotStoreGetValue,
		uintptr(unsafe.Pointer(&devpkeyDeviceFriendlyName)),
		uintptr(unsafe.Pointer(&value)),
	)
	if int32(hr) < 0 {
		return ""
	}
	defer procPropVariantClear.Call(uintptr(unsafe.Pointer(&value)))

	if value.VT != vtLpwstr || value.Val == 0 {
		return ""
	}
	return windows.UTF16PtrToString((*uint16)(unsafe.Pointer(value.Val)))
}

type audioSource struct {
	log zerolog.Logger
}

func (s audioSource) AudioDevices() ([]hardware.DeviceRecord, []string, error) {
	devices, err := mediaDevices()
	if err != nil {
		return nil, nil, err
	}

	var messages []string
	endpoints, err := activeEndpoints()
	if err != nil {
		// Without the endpoint list no child can resolve a flow; the
		// hardware level is still reported.
		messages = append(messages, err.Error())
	}

	records, dropped := correlate.CorrelateAudio(devices, endpoints)
	if dropped > 0 {
		s.log.Debug().Int("dropped", dropped).Msg("audio tree children without endpoint match")
	}
	return records, messages, nil
}
