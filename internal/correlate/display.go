package correlate

import (
	"fmt"

	"github.com/go-tangra/go-tangra-hardware/internal/hardware"
)

// DisplayAdapter is one display adapter as reported by the display stack.
type DisplayAdapter interface {
	// Description returns the adapter's human-readable description.
	Description() string

	// Outputs returns the adapter's output device names in index order.
	Outputs() ([]string, error)
}

// DisplayEnumerator walks display adapters in index order.
type DisplayEnumerator interface {
	Adapters() ([]DisplayAdapter, error)
}

// AdapterForOutput returns the description of the adapter that owns the
// given output device name. The comparison is a case-sensitive exact match
// on the narrowed name; output device names are unique within the display
// subsystem, so the first match wins. Returns ErrNotFound after a full
// enumeration without a match. Adapters whose output walk fails are
// skipped, matching the tolerant native walk.
func AdapterForOutput(enum DisplayEnumerator, outputName string) (string, error) {
	if outputName == "" {
		return "", fmt.Errorf("%w: empty output device name", ErrInvalidArgument)
	}

	adapters, err := enum.Adapters()
	if err != nil {
		return "", fmt.Errorf("enumerate display adapters: %w", err)
	}

	for _, a := range adapters {
		outputs, err := a.Outputs()
		if err != nil {
			continue
		}
		for _, name := range outputs {
			if name == outputName {
				return a.Description(), nil
			}
		}
	}

	return "", fmt.Errorf("%w: no adapter owns output %q", ErrNotFound, outputName)
}

// AllAdapterOutputs flattens the full adapter/output walk into pairs,
// preserving enumeration order. Per-adapter output failures degrade to
// messages rather than aborting the walk.
func AllAdapterOutputs(enum DisplayEnumerator) ([]hardware.AdapterOutputPair, []string, error) {
	adapters, err := enum.Adapters()
	if err != nil {
		return nil, nil, fmt.Errorf("enumerate display adapters: %w", err)
	}

	var pairs []hardware.AdapterOutputPair
	var messages []string
	for _, a := range adapters {
		outputs, err := a.Outputs()
		if err != nil {
			messages = append(messages, fmt.Sprintf("enumerate outputs of adapter %q: %v", a.Description(), err))
			continue
		}
		for _, name := range outputs {
			pairs = append(pairs, hardware.AdapterOutputPair{
				AdapterDescription: a.Description(),
				OutputDeviceName:   name,
			})
		}
	}

	return pairs, messages, nil
}
