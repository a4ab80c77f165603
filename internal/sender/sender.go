// Package sender submits snapshots to a remote collector.
package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-tangra/go-tangra-hardware/internal/hardware"
)

type submitRequest struct {
	Snapshot *hardware.Snapshot `json:"snapshot"`
}

type submitResponse struct {
	ID       int64     `json:"id"`
	StoredAt time.Time `json:"stored_at"`
}

// Send submits the snapshot to the collector at addr. When secret is
// non-empty, it is sent as the X-API-Key header. Returns the assigned
// record ID.
func Send(ctx context.Context, addr string, secret string, snap *hardware.Snapshot) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	body, err := json.Marshal(submitRequest{Snapshot: snap})
	if err != nil {
		return 0, fmt.Errorf("marshal snapshot: %w", err)
	}

	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, addr+"/v1/snapshots", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-API-Key", secret)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("submit snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, fmt.Errorf("submit snapshot: collector returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	return out.ID, nil
}
