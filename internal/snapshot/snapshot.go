// Package snapshot aggregates the per-component hardware collectors into a
// single immutable snapshot.
package snapshot

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/host"

	"github.com/go-tangra/go-tangra-hardware/internal/hardware"
	"github.com/go-tangra/go-tangra-hardware/internal/outcome"
	"github.com/go-tangra/go-tangra-hardware/internal/source"
)

// Collector runs every available hardware source and folds each component
// independently: one failing component never aborts the others.
type Collector struct {
	sources source.Set
	log     zerolog.Logger
}

func New(sources source.Set, log zerolog.Logger) *Collector {
	return &Collector{sources: sources, log: log}
}

// Collect builds one complete snapshot. The snapshot is always returned;
// component failures are recorded in the per-component status instead of
// an error.
func (c *Collector) Collect(ctx context.Context) *hardware.Snapshot {
	snap := &hardware.Snapshot{
		ID:          uuid.NewString(),
		CollectedAt: time.Now().UTC(),
	}

	c.collectHostInfo(ctx, snap)
	snap.Display = c.collectDisplay()
	snap.Network = c.collectNetwork()
	snap.Audio = c.collectAudio()
	snap.Firmware = c.collectFirmware()

	for name, status := range snap.Outcomes() {
		c.log.Info().
			Str("component", name).
			Str("state", string(status.State)).
			Int("messages", len(status.Messages)).
			Msg("component collected")
	}
	return snap
}

func (c *Collector) collectHostInfo(ctx context.Context, snap *hardware.Snapshot) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("host metadata unavailable")
	} else {
		snap.Hostname = info.Hostname
		snap.Platform = info.Platform
		snap.KernelVersion = info.KernelVersion
	}

	if c.sources.Host == nil {
		return
	}
	identity, err := c.sources.Host.HostIdentity()
	if err != nil {
		c.log.Warn().Err(err).Msg("host identity unavailable")
		return
	}
	snap.System = identity
}

func (c *Collector) collectDisplay() hardware.DisplayComponent {
	if c.sources.Display == nil {
		return hardware.DisplayComponent{Status: unavailable("display")}
	}

	pairs, messages, err := c.sources.Display.Displays()
	if err != nil {
		return hardware.DisplayComponent{Status: failed(err)}
	}

	o := outcome.Fold(pairs, messages)
	data, _ := o.Data()
	return hardware.DisplayComponent{Status: statusOf(o), Outputs: data}
}

func (c *Collector) collectNetwork() hardware.DeviceComponent {
	if c.sources.Network == nil {
		return hardware.DeviceComponent{Status: unavailable("network")}
	}
	return c.deviceComponent(c.sources.Network.NetworkDevices())
}

func (c *Collector) collectAudio() hardware.DeviceComponent {
	if c.sources.Audio == nil {
		return hardware.DeviceComponent{Status: unavailable("audio")}
	}
	return c.deviceComponent(c.sources.Audio.AudioDevices())
}

func (c *Collector) deviceComponent(records []hardware.DeviceRecord, messages []string, err error) hardware.DeviceComponent {
	if err != nil {
		return hardware.DeviceComponent{Status: failed(err)}
	}

	o := outcome.Fold(records, messages)
	data, _ := o.Data()
	return hardware.DeviceComponent{Status: statusOf(o), Records: data}
}

func (c *Collector) collectFirmware() hardware.FirmwareComponent {
	if c.sources.Firmware == nil {
		return hardware.FirmwareComponent{Status: unavailable("firmware")}
	}

	identity, messages, err := c.sources.Firmware.FirmwareIdentity()
	if err != nil {
		return hardware.FirmwareComponent{Status: failed(err)}
	}

	o := outcome.Partial(identity, messages...)
	return hardware.FirmwareComponent{Status: statusOf(o), Identity: identity}
}

func statusOf[T any](o outcome.Outcome[T]) hardware.Status {
	return hardware.Status{State: o.State(), Messages: o.Messages()}
}

func failed(err error) hardware.Status {
	return hardware.Status{State: outcome.StateFailed, Messages: []string{err.Error()}}
}

func unavailable(component string) hardware.Status {
	return hardware.Status{
		State:    outcome.StateFailed,
		Messages: []string{component + " source unavailable on this platform"},
	}
}
