package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/go-tangra/go-tangra-hardware/internal/hardware"
	"github.com/go-tangra/go-tangra-hardware/internal/logger"
	"github.com/go-tangra/go-tangra-hardware/internal/outcome"
	"github.com/go-tangra/go-tangra-hardware/internal/query"
	"github.com/go-tangra/go-tangra-hardware/internal/sender"
	"github.com/go-tangra/go-tangra-hardware/internal/snapshot"
	"github.com/go-tangra/go-tangra-hardware/internal/source"
	"github.com/go-tangra/go-tangra-hardware/internal/wire"
)

func main() {
	outputFile := flag.String("o", "", "write output to file instead of stdout")
	wireFormat := flag.Bool("wire", false, "emit the pipe-delimited text protocol instead of JSON")
	submitAddr := flag.String("submit", "", "submit the snapshot to a collector at this address")
	apiSecret := flag.String("secret", "", "X-API-Key secret for the collector")
	rawQuery := flag.String("query", "", "run an ad-hoc structured query and print the flattened rows")
	namespace := flag.String("namespace", "", "management namespace for -query (default root\\cimv2)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log, err := logger.New(logger.Config{Debug: *debug, Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *rawQuery != "" {
		fmt.Print(query.NewExecutor(log).Query(*rawQuery, *namespace))
		return
	}

	ctx := context.Background()
	snap := snapshot.New(source.Detect(log), log).Collect(ctx)

	w := os.Stdout
	if *outputFile != "" {
		f, err := os.Create(*outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: cannot create output file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	if *wireFormat {
		writeWire(w, snap)
	} else {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			fmt.Fprintf(os.Stderr, "error: encoding snapshot: %v\n", err)
			os.Exit(1)
		}
	}

	if *outputFile != "" {
		fmt.Fprintf(os.Stderr, "snapshot written to %s\n", *outputFile)
	}

	if *submitAddr != "" {
		id, err := sender.Send(ctx, *submitAddr, *apiSecret, snap)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "snapshot submitted, record id %d\n", id)
	}
}

// writeWire renders each component through the text protocol, one section
// per component. Failed components render their first message as a failure
// record.
func writeWire(w *os.File, snap *hardware.Snapshot) {
	sections := []struct {
		name string
		body string
	}{
		{hardware.ComponentDisplay, displaySection(snap)},
		{hardware.ComponentNetwork, deviceSection(snap.Network, wire.EncodeNetwork)},
		{hardware.ComponentAudio, deviceSection(snap.Audio, wire.EncodeAudio)},
		{hardware.ComponentFirmware, firmwareSection(snap)},
	}

	for _, s := range sections {
		fmt.Fprintf(w, "[%s]\n%s", s.name, s.body)
	}
}

func displaySection(snap *hardware.Snapshot) string {
	if failed, msg := failureOf(snap.Display.Status); failed {
		return wire.ErrorRecord(msg)
	}
	return wire.EncodeDisplay(snap.Display.Outputs)
}

func deviceSection(c hardware.DeviceComponent, encode func([]hardware.DeviceRecord) string) string {
	if failed, msg := failureOf(c.Status); failed {
		return wire.ErrorRecord(msg)
	}
	return encode(c.Records)
}

func firmwareSection(snap *hardware.Snapshot) string {
	if failed, msg := failureOf(snap.Firmware.Status); failed {
		return wire.ErrorRecord(msg)
	}
	return wire.EncodeFirmware(snap.Firmware.Identity)
}

func failureOf(s hardware.Status) (bool, string) {
	if s.State != outcome.StateFailed {
		return false, ""
	}
	if len(s.Messages) > 0 {
		return true, s.Messages[0]
	}
	return true, "collection failed"
}
