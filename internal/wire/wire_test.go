package wire

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-tangra/go-tangra-hardware/internal/hardware"
)

func TestEncodeNetworkRoundTrip(t *testing.T) {
	records := []hardware.DeviceRecord{
		{
			Type:         hardware.DeviceHardware,
			Name:         "Intel(R) Ethernet Connection I219-V",
			Manufacturer: "Intel",
			Identifier:   `PCI\VEN_8086&DEV_15B8\3&11583659&0&FE`,
		},
		{
			Type:         hardware.DeviceHardware,
			Name:         "USB 10/100/1000 LAN",
			Manufacturer: "Unknown",
			Identifier:   `{E3A2B4C6-0000-0000-0000-000000000001}`,
		},
	}

	blob := EncodeNetwork(records)
	parsed, err := ParseBlob(blob)
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	assert.Equal(t, "Intel", parsed[0]["Manufacturer"])
	assert.Equal(t, `PCI\VEN_8086&DEV_15B8\3&11583659&0&FE`, parsed[0]["PNPDeviceID"])
	assert.Equal(t, "Intel(R) Ethernet Connection I219-V", parsed[0]["Name"])
	assert.Equal(t, "Unknown", parsed[1]["Manufacturer"])
}

func TestEncodeAudioTwoLevel(t *testing.T) {
	records := []hardware.DeviceRecord{
		{
			Type:         hardware.DeviceHardware,
			Name:         "Realtek High Definition Audio",
			Manufacturer: "Realtek",
			Identifier:   `HDAUDIO\FUNC_01&VEN_10EC&DEV_0897\4&2`,
		},
		{
			Type:             hardware.DeviceEndpoint,
			Name:             "Speakers",
			DataFlow:         hardware.FlowRender,
			ParentIdentifier: `HDAUDIO\FUNC_01&VEN_10EC&DEV_0897\4&2`,
		},
	}

	parsed, err := ParseBlob(EncodeAudio(records))
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	assert.Equal(t, "Hardware", parsed[0]["Type"])
	assert.Equal(t, "Endpoint", parsed[1]["Type"])
	assert.Equal(t, "Render", parsed[1]["DataFlow"])
	assert.Equal(t, parsed[0]["PNPDeviceID"], parsed[1]["ParentPNPDeviceID"])
}

func TestEmptyResultIsErrorRecord(t *testing.T) {
	blobs := map[string]string{
		"network":  EncodeNetwork(nil),
		"audio":    EncodeAudio(nil),
		"display":  EncodeDisplay(nil),
		"firmware": EncodeFirmware(nil),
	}

	for name, blob := range blobs {
		t.Run(name, func(t *testing.T) {
			assert.True(t, IsErrorRecord(blob))
			assert.True(t, strings.HasSuffix(blob, "\n"))

			_, err := ParseBlob(blob)
			assert.Error(t, err)
		})
	}
}

func TestDisplayClipLengths(t *testing.T) {
	long := strings.Repeat("x", 300)
	pairs := []hardware.AdapterOutputPair{{AdapterDescription: long, OutputDeviceName: long}}

	parsed, err := ParseBlob(EncodeDisplay(pairs))
	require.NoError(t, err)
	require.Len(t, parsed, 1)

	assert.Len(t, parsed[0]["AdapterDescription"], MaxAdapterDescChars)
	assert.Len(t, parsed[0]["OutputDeviceName"], MaxOutputNameChars)
}

func TestClipShortStringsUntouched(t *testing.T) {
	assert.Equal(t, `\\.\DISPLAY1`, Clip(`\\.\DISPLAY1`, MaxOutputNameChars))
	assert.Equal(t, "", Clip("anything", 0))
}

// Values containing the reserved separators cannot round-trip; the protocol
// defines no escaping. This pins the known encoding gap.
func TestReservedSeparatorGap(t *testing.T) {
	records := []hardware.DeviceRecord{{
		Type:         hardware.DeviceHardware,
		Name:         "Adapter|with=separators",
		Manufacturer: "Vendor",
		Identifier:   "ID1",
	}}

	parsed, err := ParseBlob(EncodeNetwork(records))
	require.NoError(t, err)
	assert.NotEqual(t, "Adapter|with=separators", parsed[0]["Name"])
}
