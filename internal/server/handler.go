package server

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	kratoshttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/rs/zerolog"

	"github.com/go-tangra/go-tangra-hardware/internal/convert"
	"github.com/go-tangra/go-tangra-hardware/internal/hardware"
	"github.com/go-tangra/go-tangra-hardware/internal/store"
)

// SubmitSnapshotRequest carries one snapshot from a probe.
type SubmitSnapshotRequest struct {
	Snapshot *hardware.Snapshot `json:"snapshot"`
}

// SubmitSnapshotResponse returns the assigned storage ID.
type SubmitSnapshotResponse struct {
	ID       int64     `json:"id"`
	StoredAt time.Time `json:"stored_at"`
}

// GetSnapshotResponse returns one stored snapshot.
type GetSnapshotResponse struct {
	ID       int64              `json:"id"`
	Snapshot *hardware.Snapshot `json:"snapshot"`
	StoredAt time.Time          `json:"stored_at"`
}

// SnapshotSummary is one row of a snapshot listing.
type SnapshotSummary struct {
	ID           int64     `json:"id"`
	SnapshotID   string    `json:"snapshot_id"`
	Hostname     string    `json:"hostname"`
	SystemUUID   string    `json:"system_uuid,omitempty"`
	SystemSerial string    `json:"system_serial,omitempty"`
	CollectedAt  time.Time `json:"collected_at"`
	StoredAt     time.Time `json:"stored_at"`
}

// ListSnapshotsResponse returns one page of snapshot summaries.
type ListSnapshotsResponse struct {
	Snapshots  []SnapshotSummary `json:"snapshots"`
	TotalCount int               `json:"total_count"`
}

// Handler implements the snapshot HTTP API backed by the store.
type Handler struct {
	store *store.Store
	log   zerolog.Logger
}

func NewHandler(s *store.Store, log zerolog.Logger) *Handler {
	return &Handler{store: s, log: log}
}

// RegisterRoutes binds the snapshot API onto the HTTP server. Every route
// goes through the middleware chain.
func (h *Handler) RegisterRoutes(srv *kratoshttp.Server) {
	r := srv.Route("/v1")
	r.POST("/snapshots", h.handleSubmit)
	r.GET("/snapshots", h.handleList)
	r.GET("/snapshots/{id}", h.handleGet)
	r.DELETE("/snapshots/{id}", h.handleDelete)
	r.GET("/hosts/{hostname}/latest", h.handleLatest)
}

func (h *Handler) handleSubmit(ctx kratoshttp.Context) error {
	var req SubmitSnapshotRequest
	if err := ctx.Bind(&req); err != nil {
		return kerrors.BadRequest("INVALID_ARGUMENT", "malformed request body")
	}

	kratoshttp.SetOperation(ctx, "SubmitSnapshot")
	out, err := ctx.Middleware(func(ctx context.Context, in any) (any, error) {
		return h.submit(ctx, in.(*SubmitSnapshotRequest))
	})(ctx, &req)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (h *Handler) submit(ctx context.Context, req *SubmitSnapshotRequest) (*SubmitSnapshotResponse, error) {
	if req.Snapshot == nil {
		return nil, kerrors.BadRequest("INVALID_ARGUMENT", "snapshot is required")
	}
	if req.Snapshot.Hostname == "" {
		return nil, kerrors.BadRequest("INVALID_ARGUMENT", "hostname is required")
	}

	rec, err := convert.SnapshotToRecord(req.Snapshot)
	if err != nil {
		return nil, kerrors.InternalServer("INTERNAL", err.Error())
	}

	id, storedAt, err := h.store.Insert(ctx, rec)
	if err != nil {
		return nil, kerrors.InternalServer("INTERNAL", err.Error())
	}

	h.log.Info().
		Int64("id", id).
		Str("hostname", req.Snapshot.Hostname).
		Msg("snapshot stored")

	return &SubmitSnapshotResponse{ID: id, StoredAt: storedAt}, nil
}

func (h *Handler) handleGet(ctx kratoshttp.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	kratoshttp.SetOperation(ctx, "GetSnapshot")
	out, err := ctx.Middleware(func(ctx context.Context, in any) (any, error) {
		return h.get(ctx, in.(int64))
	})(ctx, id)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (h *Handler) get(ctx context.Context, id int64) (*GetSnapshotResponse, error) {
	rec, err := h.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kerrors.NotFound("NOT_FOUND", "snapshot not found")
		}
		return nil, kerrors.InternalServer("INTERNAL", err.Error())
	}

	snap, err := convert.RecordToSnapshot(rec)
	if err != nil {
		return nil, kerrors.InternalServer("INTERNAL", err.Error())
	}

	return &GetSnapshotResponse{ID: rec.ID, Snapshot: snap, StoredAt: rec.StoredAt}, nil
}

func (h *Handler) handleDelete(ctx kratoshttp.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	kratoshttp.SetOperation(ctx, "DeleteSnapshot")
	out, err := ctx.Middleware(func(ctx context.Context, in any) (any, error) {
		return h.delete(ctx, in.(int64))
	})(ctx, id)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (h *Handler) delete(ctx context.Context, id int64) (*struct{}, error) {
	if err := h.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kerrors.NotFound("NOT_FOUND", "snapshot not found")
		}
		return nil, kerrors.InternalServer("INTERNAL", err.Error())
	}
	return &struct{}{}, nil
}

func (h *Handler) handleList(ctx kratoshttp.Context) error {
	filter := store.ListFilter{
		Hostname:   ctx.Query().Get("hostname"),
		SystemUUID: ctx.Query().Get("system_uuid"),
	}
	filter.PageSize, _ = strconv.Atoi(ctx.Query().Get("page_size"))
	filter.Page, _ = strconv.Atoi(ctx.Query().Get("page"))

	if after := ctx.Query().Get("collected_after"); after != "" {
		t, err := time.Parse(time.RFC3339, after)
		if err != nil {
			return kerrors.BadRequest("INVALID_ARGUMENT", "collected_after must be RFC 3339")
		}
		filter.CollectedAfter = &t
	}
	if before := ctx.Query().Get("collected_before"); before != "" {
		t, err := time.Parse(time.RFC3339, before)
		if err != nil {
			return kerrors.BadRequest("INVALID_ARGUMENT", "collected_before must be RFC 3339")
		}
		filter.CollectedBefore = &t
	}

	kratoshttp.SetOperation(ctx, "ListSnapshots")
	out, err := ctx.Middleware(func(ctx context.Context, in any) (any, error) {
		return h.list(ctx, in.(store.ListFilter))
	})(ctx, filter)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (h *Handler) list(ctx context.Context, filter store.ListFilter) (*ListSnapshotsResponse, error) {
	records, total, err := h.store.List(ctx, filter)
	if err != nil {
		return nil, kerrors.InternalServer("INTERNAL", err.Error())
	}

	summaries := make([]SnapshotSummary, len(records))
	for i, rec := range records {
		summaries[i] = SnapshotSummary{
			ID:           rec.ID,
			SnapshotID:   rec.SnapshotID,
			Hostname:     rec.Hostname,
			SystemUUID:   rec.SystemUUID,
			SystemSerial: rec.SystemSerial,
			CollectedAt:  rec.CollectedAt,
			StoredAt:     rec.StoredAt,
		}
	}

	return &ListSnapshotsResponse{Snapshots: summaries, TotalCount: total}, nil
}

func (h *Handler) handleLatest(ctx kratoshttp.Context) error {
	hostname := ctx.Vars().Get("hostname")
	if hostname == "" {
		return kerrors.BadRequest("INVALID_ARGUMENT", "hostname is required")
	}

	kratoshttp.SetOperation(ctx, "GetLatestByHostname")
	out, err := ctx.Middleware(func(ctx context.Context, in any) (any, error) {
		return h.latest(ctx, in.(string))
	})(ctx, hostname)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (h *Handler) latest(ctx context.Context, hostname string) (*GetSnapshotResponse, error) {
	rec, err := h.store.GetLatestByHostname(ctx, hostname)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kerrors.NotFound("NOT_FOUND", "no snapshot for hostname")
		}
		return nil, kerrors.InternalServer("INTERNAL", err.Error())
	}

	snap, err := convert.RecordToSnapshot(rec)
	if err != nil {
		return nil, kerrors.InternalServer("INTERNAL", err.Error())
	}

	return &GetSnapshotResponse{ID: rec.ID, Snapshot: snap, StoredAt: rec.StoredAt}, nil
}

func pathID(ctx kratoshttp.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Vars().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, kerrors.BadRequest("INVALID_ARGUMENT", "id must be a positive integer")
	}
	return id, nil
}
