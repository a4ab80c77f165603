package correlate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-tangra/go-tangra-hardware/internal/hardware"
)

func realtekController() MediaDevice {
	return MediaDevice{
		InstanceID:   `HDAUDIO\FUNC_01&VEN_10EC&DEV_0897\4&2`,
		Class:        "MEDIA",
		FriendlyName: "Realtek High Definition Audio",
		Manufacturer: "Realtek",
		HardwareIDs:  []string{`HDAUDIO\FUNC_01&VEN_10EC&DEV_0897`},
		Children: []ChildNode{
			{InstanceID: `SWD\MMDEVAPI\{0.0.0.00000000}.{a}`, FriendlyName: "Speakers"},
			{InstanceID: `SWD\MMDEVAPI\{0.0.1.00000000}.{b}`, FriendlyName: "Microphone"},
		},
	}
}

func TestIsHardwareAudioDevice(t *testing.T) {
	tests := []struct {
		name   string
		device MediaDevice
		want   bool
	}{
		{"physical controller", realtekController(), true},
		{
			"virtual bus root",
			MediaDevice{InstanceID: `SWD\MMDEVAPI\X`, Class: "MEDIA", HardwareIDs: []string{`VEN_10EC`}},
			false,
		},
		{
			"root enumerated",
			MediaDevice{InstanceID: `ROOT\MEDIA\0000`, Class: "MEDIA", HardwareIDs: []string{`VEN_10EC`}},
			false,
		},
		{
			"software class",
			MediaDevice{InstanceID: `HDAUDIO\X`, Class: "AudioEndpoint", HardwareIDs: []string{`VEN_10EC`}},
			false,
		},
		{
			"problem flag set",
			MediaDevice{InstanceID: `HDAUDIO\X`, Class: "MEDIA", HasProblem: true, HardwareIDs: []string{`VEN_10EC`}},
			false,
		},
		{
			"no vendor markers",
			MediaDevice{InstanceID: `HDAUDIO\X`, Class: "MEDIA", HardwareIDs: []string{`HDAUDIO\SUBSYS_10438445`}},
			false,
		},
		{
			"usb vendor marker",
			MediaDevice{InstanceID: `USB\X`, Class: "MEDIA", HardwareIDs: []string{`USB\VID_046D&PID_0A8F`}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHardwareAudioDevice(tt.device))
		})
	}
}

func TestCorrelateAudioTwoLevel(t *testing.T) {
	endpoints := []Endpoint{
		{FriendlyName: "Speakers", Flow: hardware.FlowRender},
		{FriendlyName: "Microphone", Flow: hardware.FlowCapture},
	}

	records, dropped := CorrelateAudio([]MediaDevice{realtekController()}, endpoints)
	require.Len(t, records, 3)
	assert.Zero(t, dropped)

	assert.Equal(t, hardware.DeviceHardware, records[0].Type)
	assert.Equal(t, "Realtek High Definition Audio", records[0].Name)

	assert.Equal(t, hardware.DeviceEndpoint, records[1].Type)
	assert.Equal(t, hardware.FlowRender, records[1].DataFlow)
	assert.Equal(t, records[0].Identifier, records[1].ParentIdentifier)

	assert.Equal(t, hardware.FlowCapture, records[2].DataFlow)
}

func TestCorrelateAudioDropsUnmatchedChildren(t *testing.T) {
	device := realtekController()
	device.Children = append(device.Children, ChildNode{FriendlyName: "Phantom Endpoint"})

	records, dropped := CorrelateAudio([]MediaDevice{device}, []Endpoint{
		{FriendlyName: "Speakers", Flow: hardware.FlowRender},
	})

	// Hardware record plus the one resolvable child.
	require.Len(t, records, 2)
	assert.Equal(t, 2, dropped)
}

func TestCorrelateAudioFiltersNonHardware(t *testing.T) {
	virtual := MediaDevice{
		InstanceID:   `ROOT\MEDIA\0000`,
		Class:        "MEDIA",
		FriendlyName: "Virtual Cable",
		HardwareIDs:  []string{`VEN_FFFF`},
	}

	records, _ := CorrelateAudio([]MediaDevice{virtual, realtekController()}, nil)
	require.Len(t, records, 1)
	assert.Equal(t, "Realtek High Definition Audio", records[0].Name)
}

// Two endpoints sharing a friendly name are indistinguishable; the first
// flow in enumeration order wins.
func TestResolveEndpointFlowAmbiguousName(t *testing.T) {
	endpoints := []Endpoint{
		{FriendlyName: "Headset", Flow: hardware.FlowRender},
		{FriendlyName: "Headset", Flow: hardware.FlowCapture},
	}

	flow, ok := ResolveEndpointFlow("Headset", endpoints)
	require.True(t, ok)
	assert.Equal(t, hardware.FlowRender, flow)

	_, ok = ResolveEndpointFlow("Absent", endpoints)
	assert.False(t, ok)
}
