// Package convert maps hardware snapshots to and from their stored form.
package convert

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-tangra/go-tangra-hardware/internal/hardware"
	"github.com/go-tangra/go-tangra-hardware/internal/store"
)

// SnapshotToRecord converts a snapshot to a store record.
func SnapshotToRecord(snap *hardware.Snapshot) (*store.SnapshotRecord, error) {
	jsonBytes, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot to JSON: %w", err)
	}

	collectedAt := snap.CollectedAt
	if collectedAt.IsZero() {
		collectedAt = time.Now().UTC()
	}

	return &store.SnapshotRecord{
		SnapshotID:   snap.ID,
		Hostname:     snap.Hostname,
		SystemUUID:   snap.System.UUID,
		SystemSerial: snap.System.SerialNumber,
		CollectedAt:  collectedAt,
		SnapshotJSON: string(jsonBytes),
	}, nil
}

// RecordToSnapshot converts a store record back to a snapshot.
func RecordToSnapshot(rec *store.SnapshotRecord) (*hardware.Snapshot, error) {
	var snap hardware.Snapshot
	if err := json.Unmarshal([]byte(rec.SnapshotJSON), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot JSON: %w", err)
	}
	return &snap, nil
}
