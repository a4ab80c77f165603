package convert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-tangra/go-tangra-hardware/internal/hardware"
	"github.com/go-tangra/go-tangra-hardware/internal/outcome"
	"github.com/go-tangra/go-tangra-hardware/internal/store"
)

func TestSnapshotRoundTrip(t *testing.T) {
	snap := &hardware.Snapshot{
		ID:          "a2f1c7e0-0000-0000-0000-000000000001",
		Hostname:    "host-a",
		CollectedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		System: hardware.SystemIdentity{
			UUID:         "03000200-0400-0500-0006-000700080009",
			SerialNumber: "SN-12345",
		},
		Network: hardware.DeviceComponent{
			Status: hardware.Status{State: outcome.StatePartial, Messages: []string{"one anomaly"}},
			Records: []hardware.DeviceRecord{
				{Type: hardware.DeviceHardware, Name: "Ethernet", Identifier: `PCI\VEN_8086&DEV_15B8\3`},
			},
		},
	}

	rec, err := SnapshotToRecord(snap)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, rec.SnapshotID)
	assert.Equal(t, "host-a", rec.Hostname)
	assert.Equal(t, "SN-12345", rec.SystemSerial)
	assert.Equal(t, snap.CollectedAt, rec.CollectedAt)

	back, err := RecordToSnapshot(rec)
	require.NoError(t, err)
	assert.Equal(t, snap.Network.Status, back.Network.Status)
	require.Len(t, back.Network.Records, 1)
	assert.Equal(t, `PCI\VEN_8086&DEV_15B8\3`, back.Network.Records[0].Identifier)
}

func TestRecordToSnapshotMalformed(t *testing.T) {
	_, err := RecordToSnapshot(&store.SnapshotRecord{SnapshotJSON: "{not json"})
	assert.Error(t, err)
}
