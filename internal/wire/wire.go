// Package wire implements the flat line-oriented text protocol that carries
// correlated hardware records back to the calling layer.
//
// Each record is one newline-terminated line of `Key=Value` tokens joined by
// `|`. No escaping is defined for `|`, `=` or newline inside values; values
// containing them cannot be round-tripped. That gap is inherited from the
// protocol and deliberately not papered over here.
package wire

import (
	"fmt"
	"strings"

	"github.com/go-tangra/go-tangra-hardware/internal/hardware"
)

// Compatibility clip lengths, in characters. The protocol historically
// crossed a fixed-size buffer boundary; strings are unbounded everywhere
// inside the engine and clipped only here.
const (
	MaxOutputNameChars  = 128
	MaxAdapterDescChars = 32
)

// ErrorPrefix marks a failure record. Callers special-case lines starting
// with this literal.
const ErrorPrefix = "Error: "

// Clip truncates s to at most max characters.
func Clip(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// ErrorRecord renders the failure record for a diagnostic message. A
// failure record is a record like any other and carries the trailing
// newline itself.
func ErrorRecord(diagnostic string) string {
	return ErrorPrefix + diagnostic + "\n"
}

// IsErrorRecord reports whether a line is a failure record.
func IsErrorRecord(line string) bool {
	return strings.HasPrefix(line, ErrorPrefix)
}

func joinPairs(pairs ...[2]string) string {
	tokens := make([]string, len(pairs))
	for i, p := range pairs {
		tokens[i] = p[0] + "=" + p[1]
	}
	return strings.Join(tokens, "|")
}

// EncodeNetwork renders one line per network adapter record. An empty record
// set is surfaced as a failure record, never as empty success.
func EncodeNetwork(records []hardware.DeviceRecord) string {
	if len(records) == 0 {
		return ErrorRecord("no physical network adapters found")
	}

	var b strings.Builder
	for _, r := range records {
		b.WriteString(joinPairs(
			[2]string{"Manufacturer", r.Manufacturer},
			[2]string{"PNPDeviceID", r.Identifier},
			[2]string{"Name", r.Name},
		))
		b.WriteByte('\n')
	}
	return b.String()
}

// EncodeAudio renders hardware records each followed by its endpoint
// records, preserving record order within both levels.
func EncodeAudio(records []hardware.DeviceRecord) string {
	if len(records) == 0 {
		return ErrorRecord("no audio hardware devices found")
	}

	var b strings.Builder
	for _, r := range records {
		switch r.Type {
		case hardware.DeviceEndpoint:
			b.WriteString(joinPairs(
				[2]string{"Type", string(hardware.DeviceEndpoint)},
				[2]string{"Name", r.Name},
				[2]string{"DataFlow", string(r.DataFlow)},
				[2]string{"ParentPNPDeviceID", r.ParentIdentifier},
			))
		default:
			b.WriteString(joinPairs(
				[2]string{"Type", string(hardware.DeviceHardware)},
				[2]string{"Name", r.Name},
				[2]string{"Manufacturer", r.Manufacturer},
				[2]string{"PNPDeviceID", r.Identifier},
			))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// EncodeDisplay renders adapter/output pairs. The clip lengths are applied
// here and nowhere else.
func EncodeDisplay(pairs []hardware.AdapterOutputPair) string {
	if len(pairs) == 0 {
		return ErrorRecord("no display outputs found")
	}

	var b strings.Builder
	for _, p := range pairs {
		b.WriteString(joinPairs(
			[2]string{"AdapterDescription", Clip(p.AdapterDescription, MaxAdapterDescChars)},
			[2]string{"OutputDeviceName", Clip(p.OutputDeviceName, MaxOutputNameChars)},
		))
		b.WriteByte('\n')
	}
	return b.String()
}

// EncodeFirmware renders the decoded firmware identity as a single record.
func EncodeFirmware(id *hardware.FirmwareIdentity) string {
	if id == nil {
		return ErrorRecord("no firmware identity decoded")
	}
	return joinPairs(
		[2]string{"BoardManufacturer", id.BoardManufacturer},
		[2]string{"BoardProduct", id.BoardProduct},
		[2]string{"ChassisType", id.ChassisType},
		[2]string{"ProcessorSocket", id.ProcessorSocket},
		[2]string{"ProcessorUpgrade", id.ProcessorUpgrade},
	) + "\n"
}

// ParseLine splits one record into its key/value tokens. Tokens without `=`
// are skipped, matching the tolerant consumer on the other side of the
// boundary.
func ParseLine(line string) map[string]string {
	fields := map[string]string{}
	for _, tok := range strings.Split(line, "|") {
		k, v, ok := strings.Cut(tok, "=")
		if !ok {
			continue
		}
		fields[k] = v
	}
	return fields
}

// ParseBlob splits a multi-record blob into per-line field maps, skipping
// blank lines.
func ParseBlob(blob string) ([]map[string]string, error) {
	if IsErrorRecord(strings.TrimSpace(blob)) {
		return nil, fmt.Errorf("failure record: %s", strings.TrimPrefix(strings.TrimSpace(blob), ErrorPrefix))
	}

	var out []map[string]string
	for _, line := range strings.Split(blob, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, ParseLine(line))
	}
	return out, nil
}
