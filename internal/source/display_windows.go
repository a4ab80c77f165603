//go:build windows

package source

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/go-tangra/go-tangra-hardware/internal/correlate"
	"github.com/go-tangra/go-tangra-hardware/internal/hardware"
)

var (
	moddxgi                = windows.NewLazySystemDLL("dxgi.dll")
	procCreateDXGIFactory1 = moddxgi.NewProc("CreateDXGIFactory1")
)

var iidIDXGIFactory1 = windows.GUID{
	Data1: 0x770aae78, Data2: 0xf26f, Data3: 0x4dba,
	Data4: [8]byte{0xa8, 0x29, 0x25, 0x3c, 0x83, 0xd1, 0xb3, 0x87},
}

const (
	dxgiErrorNotFound = 0x887A0002

	// Vtable slots past the IUnknown/IDXGIObject prefix.
	slotFactoryEnumAdapters1 = 12
	slotAdapterEnumOutputs   = 7
	slotAdapterGetDesc1      = 10
	slotOutputGetDesc        = 7
	slotRelease              = 2
)

// comObject is a raw COM interface pointer; the first field of the pointed-to
// object is its vtable.
type comObject struct {
	vtbl *[32]uintptr
}

func (o *comObject) call(slot int, args ...uintptr) uintptr {
	callArgs := append([]uintptr{uintptr(unsafe.Pointer(o))}, args...)
	ret, _, _ := syscall.SyscallN(o.vtbl[slot], callArgs...)
	return ret
}

func (o *comObject) release() {
	o.call(slotRelease)
}

type dxgiAdapterDesc1 struct {
	Description           [128]uint16
	VendorID              uint32
	DeviceID              uint32
	SubSysID              uint32
	Revision              uint32
	DedicatedVideoMemory  uintptr
	DedicatedSystemMemory uintptr
	SharedSystemMemory    uintptr
	AdapterLUID           int64
	Flags                 uint32
}

type dxgiOutputDesc struct {
	DeviceName         [32]uint16
	DesktopCoordinates struct{ Left, Top, Right, Bottom int32 }
	AttachedToDesktop  int32
	Rotation           uint32
	Monitor            uintptr
}

// dxgiAdapter is a fully-materialized adapter: the COM objects are released
// before it is handed to the correlator.
type dxgiAdapter struct {
	desc    string
	outputs []string
	err     error
}

func (a dxgiAdapter) Description() string        { return a.desc }
func (a dxgiAdapter) Outputs() ([]string, error) { return a.outputs, a.err }

// dxgiEnumerator walks the graphics adapters through the DXGI factory.
type dxgiEnumerator struct{}

func (dxgiEnumerator) Adapters() ([]correlate.DisplayAdapter, error) {
	var factory *comObject
	hr, _, _ := procCreateDXGIFactory1.Call(
		uintptr(unsafe.Pointer(&iidIDXGIFactory1)),
		uintptr(unsafe.Pointer(&factory)),
	)
	if int32(hr) < 0 {
		return nil, fmt.Errorf("create graphics factory (hresult %#x): %w", hr, correlate.ErrSourceUnavailable)
	}
	defer factory.release()

	var adapters []correlate.DisplayAdapter
	for i := uint32(0); ; i++ {
		var adapter *comObject
		hr := factory.call(slotFactoryEnumAdapters1, uintptr(i), uintptr(unsafe.Pointer(&adapter)))
		if uint32(hr) == dxgiErrorNotFound {
			break
		}
		if int32(hr) < 0 {
			return adapters, fmt.Errorf("enumerate adapter %d: hresult %#x", i, hr)
		}

		adapters = append(adapters, readAdapter(adapter))
		adapter.release()
	}
	return adapters, nil
}

func readAdapter(adapter *comObject) dxgiAdapter {
	var desc dxgiAdapterDesc1
	out := dxgiAdapter{}
	if hr := adapter.call(slotAdapterGetDesc1, uintptr(unsafe.Pointer(&desc))); int32(hr) < 0 {
		out.err = fmt.Errorf("adapter description: hresult %#x", hr)
		return out
	}
	out.desc = windows.UTF16ToString(desc.Description[:])

	for j := uint32(0); ; j++ {
		var output *comObject
		hr := adapter.call(slotAdapterEnumOutputs, uintptr(j), uintptr(unsafe.Pointer(&output)))
		if uint32(hr) == dxgiErrorNotFound {
			break
		}
		if int32(hr) < 0 {
			out.err = fmt.Errorf("enumerate output %d: hresult %#x", j, hr)
			return out
		}

		var odesc dxgiOutputDesc
		hr = output.call(slotOutputGetDesc, uintptr(unsafe.Pointer(&odesc)))
		output.release()
		if int32(hr) < 0 {
			out.err = fmt.Errorf("output %d description: hresult %#x", j, hr)
			return out
		}
		out.outputs = append(out.outputs, windows.UTF16ToString(odesc.DeviceName[:]))
	}
	return out
}

// displaySource joins adapters with their outputs through the correlator.
type displaySource struct {
	enum correlate.DisplayEnumerator
}

func (s displaySource) Displays() ([]hardware.AdapterOutputPair, []string, error) {
	return correlate.AllAdapterOutputs(s.enum)
}
