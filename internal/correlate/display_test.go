package correlate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	desc    string
	outputs []string
	err     error
}

func (f fakeAdapter) Description() string { return f.desc }

func (f fakeAdapter) Outputs() ([]string, error) { return f.outputs, f.err }

type fakeEnumerator struct {
	adapters []DisplayAdapter
	err      error
}

func (f fakeEnumerator) Adapters() ([]DisplayAdapter, error) { return f.adapters, f.err }

func twoAdapterSetup() fakeEnumerator {
	return fakeEnumerator{adapters: []DisplayAdapter{
		fakeAdapter{desc: "NVIDIA GeForce RTX 3080", outputs: []string{`\\.\DISPLAY1`}},
		fakeAdapter{desc: "Intel(R) UHD Graphics 770", outputs: []string{`\\.\DISPLAY2`}},
	}}
}

func TestAdapterForOutput(t *testing.T) {
	enum := twoAdapterSetup()

	desc, err := AdapterForOutput(enum, `\\.\DISPLAY2`)
	require.NoError(t, err)
	assert.Equal(t, "Intel(R) UHD Graphics 770", desc)

	desc, err = AdapterForOutput(enum, `\\.\DISPLAY1`)
	require.NoError(t, err)
	assert.Equal(t, "NVIDIA GeForce RTX 3080", desc)
}

func TestAdapterForOutputNotFound(t *testing.T) {
	_, err := AdapterForOutput(twoAdapterSetup(), `\\.\DISPLAY3`)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdapterForOutputEmptyName(t *testing.T) {
	_, err := AdapterForOutput(twoAdapterSetup(), "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAdapterForOutputCaseSensitive(t *testing.T) {
	_, err := AdapterForOutput(twoAdapterSetup(), `\\.\display2`)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdapterForOutputFactoryFailure(t *testing.T) {
	enum := fakeEnumerator{err: ErrSourceUnavailable}

	_, err := AdapterForOutput(enum, `\\.\DISPLAY1`)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestAdapterForOutputSkipsFailingAdapter(t *testing.T) {
	enum := fakeEnumerator{adapters: []DisplayAdapter{
		fakeAdapter{desc: "Broken", err: errors.New("output walk failed")},
		fakeAdapter{desc: "Working", outputs: []string{`\\.\DISPLAY1`}},
	}}

	desc, err := AdapterForOutput(enum, `\\.\DISPLAY1`)
	require.NoError(t, err)
	assert.Equal(t, "Working", desc)
}

func TestAllAdapterOutputsOrderAndMessages(t *testing.T) {
	enum := fakeEnumerator{adapters: []DisplayAdapter{
		fakeAdapter{desc: "GPU A", outputs: []string{`\\.\DISPLAY1`, `\\.\DISPLAY2`}},
		fakeAdapter{desc: "Broken", err: errors.New("walk failed")},
		fakeAdapter{desc: "GPU B", outputs: []string{`\\.\DISPLAY3`}},
	}}

	pairs, messages, err := AllAdapterOutputs(enum)
	require.NoError(t, err)
	require.Len(t, pairs, 3)
	assert.Equal(t, "GPU A", pairs[0].AdapterDescription)
	assert.Equal(t, `\\.\DISPLAY2`, pairs[1].OutputDeviceName)
	assert.Equal(t, "GPU B", pairs[2].AdapterDescription)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "Broken")
}
