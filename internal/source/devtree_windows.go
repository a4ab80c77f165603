//go:build windows

package source

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/go-tangra/go-tangra-hardware/internal/correlate"
)

// Device setup class GUIDs for the network and media classes.
var (
	devClassNet = windows.GUID{
		Data1: 0x4d36e972, Data2: 0xe325, Data3: 0x11ce,
		Data4: [8]byte{0xbf, 0xc1, 0x08, 0x00, 0x2b, 0xe1, 0x03, 0x18},
	}
	devClassMedia = windows.GUID{
		Data1: 0x4d36e96c, Data2: 0xe325, Data3: 0x11ce,
		Data4: [8]byte{0xbf, 0xc1, 0x08, 0x00, 0x2b, 0xe1, 0x03, 0x18},
	}
)

var (
	modcfgmgr32              = windows.NewLazySystemDLL("cfgmgr32.dll")
	procCMGetChild           = modcfgmgr32.NewProc("CM_Get_Child")
	procCMGetSibling         = modcfgmgr32.NewProc("CM_Get_Sibling")
	procCMGetDeviceIDW       = modcfgmgr32.NewProc("CM_Get_Device_IDW")
	procCMGetDevNodeStatus   = modcfgmgr32.NewProc("CM_Get_DevNode_Status")
	procCMGetDevNodeProperty = modcfgmgr32.NewProc("CM_Get_DevNode_PropertyW")
)

const (
	crSuccess         = 0
	dnHasProblem      = 0x00000400
	devPropTypeString = 0x00000012
	maxDeviceIDLen    = 260
)

type devPropKey struct {
	fmtid windows.GUID
	pid   uint32
}

var (
	devpkeyDeviceFriendlyName = devPropKey{
		fmtid: windows.GUID{
			Data1: 0xa45c254e, Data2: 0xdf1c, Data3: 0x4efd,
			Data4: [8]byte{0x80, 0x20, 0x67, 0xd1, 0x46, 0xa8, 0x50, 0xe0},
		},
		pid: 14,
	}
	devpkeyName = devPropKey{
		fmtid: windows.GUID{
			Data1: 0xb725f130, Data2: 0x47ef, Data3: 0x101a,
			Data4: [8]byte{0xa5, 0xf1, 0x02, 0x60, 0x8c, 0x9e, 0xeb, 0xac},
		},
		pid: 10,
	}
)

// networkClassDevices walks the network device-class tree and reads the
// persisted configuration GUID each driver stored in its software key.
func networkClassDevices() ([]correlate.ClassDevice, error) {
	set, err := windows.SetupDiGetClassDevsEx(&devClassNet, "", 0, windows.DIGCF_PRESENT, 0, "")
	if err != nil {
		return nil, fmt.Errorf("open network device class: %w", err)
	}
	defer set.Close()

	var devices []correlate.ClassDevice
	for i := 0; ; i++ {
		data, err := set.EnumDeviceInfo(i)
		if err != nil {
			break
		}

		instanceID, err := set.DeviceInstanceID(data)
		if err != nil {
			continue
		}

		device := correlate.ClassDevice{
			InstanceID:    instanceID,
			Manufacturer:  stringProperty(set, data, windows.SPDRP_MFG),
			LocationPaths: multiStringProperty(set, data, windows.SPDRP_LOCATION_PATHS),
		}

		if key, err := set.OpenDevRegKey(data, windows.DICS_FLAG_GLOBAL, 0, windows.DIREG_DRV, windows.KEY_READ); err == nil {
			k := registry.Key(key)
			if guid, _, err := k.GetStringValue("NetCfgInstanceId"); err == nil {
				device.ConfigID = guid
			}
			k.Close()
		}

		devices = append(devices, device)
	}
	return devices, nil
}

// mediaDevices walks the media device-class tree, capturing each device's
// tree children in first-child-then-siblings order.
func mediaDevices() ([]correlate.MediaDevice, error) {
	set, err := windows.SetupDiGetClassDevsEx(&devClassMedia, "", 0, windows.DIGCF_PRESENT, 0, "")
	if err != nil {
		return nil, fmt.Errorf("open media device class: %w", err)
	}
	defer set.Close()

	var devices []correlate.MediaDevice
	for i := 0; ; i++ {
		data, err := set.EnumDeviceInfo(i)
		if err != nil {
			break
		}

		instanceID, err := set.DeviceInstanceID(data)
		if err != nil {
			continue
		}

		name := stringProperty(set, data, windows.SPDRP_FRIENDLYNAME)
		if name == "" {
			name = stringProperty(set, data, windows.SPDRP_DEVICEDESC)
		}

		devices = append(devices, correlate.MediaDevice{
			InstanceID:   instanceID,
			Class:        stringProperty(set, data, windows.SPDRP_CLASS),
			FriendlyName: name,
			Manufacturer: stringProperty(set, data, windows.SPDRP_MFG),
			HardwareIDs:  multiStringProperty(set, data, windows.SPDRP_HARDWAREID),
			HasProblem:   devNodeHasProblem(data.DevInst),
			Children:     childNodes(data.DevInst),
		})
	}
	return devices, nil
}

func stringProperty(set windows.DevInfo, data *windows.DevInfoData, prop windows.SPDRP) string {
	v, err := set.DeviceRegistryProperty(data, prop)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func multiStringProperty(set windows.DevInfo, data *windows.DevInfoData, prop windows.SPDRP) []string {
	v, err := set.DeviceRegistryProperty(data, prop)
	if err != nil {
		return nil
	}
	s, _ := v.([]string)
	return s
}

func devNodeHasProblem(devInst uint32) bool {
	var status, problem uint32
	ret, _, _ := procCMGetDevNodeStatus.Call(
		uintptr(unsafe.Pointer(&status)),
		uintptr(unsafe.Pointer(&problem)),
		uintptr(devInst),
		0,
	)
	return ret == crSuccess && status&dnHasProblem != 0
}

// childNodes walks a device's tree children: first child, then that child's
// siblings until the chain ends.
func childNodes(devInst uint32) []correlate.ChildNode {
	var child uint32
	ret, _, _ := procCMGetChild.Call(uintptr(unsafe.Pointer(&child)), uintptr(devInst), 0)
	if ret != crSuccess {
		return nil
	}

	var nodes []correlate.ChildNode
	for {
		nodes = append(nodes, correlate.ChildNode{
			InstanceID:   devNodeID(child),
			FriendlyName: devNodeName(child),
		})

		var sibling uint32
		ret, _, _ := procCMGetSibling.Call(uintptr(unsafe.Pointer(&sibling)), uintptr(child), 0)
		if ret != crSuccess {
			break
		}
		child = sibling
	}
	return nodes
}

func devNodeID(devInst uint32) string {
	var buf [maxDeviceIDLen]uint16
	ret, _, _ := procCMGetDeviceIDW.Call(
		uintptr(devInst),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		0,
	)
	if ret != crSuccess {
		return ""
	}
	return windows.UTF16ToString(buf[:])
}

func devNodeName(devInst uint32) string {
	if s := devNodeStringProperty(devInst, &devpkeyDeviceFriendlyName); s != "" {
		return s
	}
	return devNodeStringProperty(devInst, &devpkeyName)
}

func devNodeStringProperty(devInst uint32, key *devPropKey) string {
	var propType uint32
	buf := make([]uint16, maxDeviceIDLen)
	size := uint32(len(buf) * 2)
	ret, _, _ := procCMGetDevNodeProperty.Call(
		uintptr(devInst),
		uintptr(unsafe.Pointer(key)),
		uintptr(unsafe.Pointer(&propType)),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&size)),
		0,
	)
	if ret != crSuccess || propType != devPropTypeString {
		return ""
	}
	return windows.UTF16ToString(buf)
}
