package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(hostname string, collectedAt time.Time) *SnapshotRecord {
	return &SnapshotRecord{
		SnapshotID:   "a2f1c7e0-0000-0000-0000-000000000001",
		Hostname:     hostname,
		SystemUUID:   "03000200-0400-0500-0006-000700080009",
		SystemSerial: "SN-12345",
		CollectedAt:  collectedAt,
		SnapshotJSON: `{"id":"a2f1c7e0-0000-0000-0000-000000000001"}`,
	}
}

func TestInsertAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, storedAt, err := s.Insert(ctx, sampleRecord("host-a", time.Now().UTC()))
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.False(t, storedAt.IsZero())

	rec, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "host-a", rec.Hostname)
	assert.Equal(t, "SN-12345", rec.SystemSerial)
	assert.NotEmpty(t, rec.SnapshotJSON)
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), 42)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGetLatestByHostname(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	older := sampleRecord("host-a", time.Now().UTC().Add(-time.Hour))
	newer := sampleRecord("host-a", time.Now().UTC())
	newer.SystemSerial = "SN-LATEST"

	_, _, err := s.Insert(ctx, older)
	require.NoError(t, err)
	_, _, err = s.Insert(ctx, newer)
	require.NoError(t, err)

	rec, err := s.GetLatestByHostname(ctx, "host-a")
	require.NoError(t, err)
	assert.Equal(t, "SN-LATEST", rec.SystemSerial)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, _, err := s.Insert(ctx, sampleRecord("host-a", time.Now().UTC()))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))
	assert.ErrorIs(t, s.Delete(ctx, id), sql.ErrNoRows)
}

func TestListFilterAndPaging(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rec := sampleRecord("host-a", time.Now().UTC().Add(-time.Duration(i)*time.Minute))
		_, _, err := s.Insert(ctx, rec)
		require.NoError(t, err)
	}
	_, _, err := s.Insert(ctx, sampleRecord("host-b", time.Now().UTC()))
	require.NoError(t, err)

	records, total, err := s.List(ctx, ListFilter{Hostname: "host-a", PageSize: 2, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, records, 2)
	// Summaries omit the JSON payload.
	assert.Empty(t, records[0].SnapshotJSON)
	// Newest first.
	assert.True(t, records[0].CollectedAt.After(records[1].CollectedAt))
}

func TestPurge(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, _, err := s.Insert(ctx, sampleRecord("host-a", time.Now().UTC().Add(-48*time.Hour)))
	require.NoError(t, err)
	_, _, err = s.Insert(ctx, sampleRecord("host-a", time.Now().UTC()))
	require.NoError(t, err)

	n, err := s.Purge(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, total, err := s.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
