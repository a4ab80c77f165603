package outcome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessCarriesNoMessages(t *testing.T) {
	o := Success([]string{"a", "b"})

	assert.Equal(t, StateSuccess, o.State())
	assert.Empty(t, o.Messages())

	data, ok := o.Data()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, data)
}

func TestPartialWithoutMessagesIsSuccess(t *testing.T) {
	o := Partial(42)
	assert.Equal(t, StateSuccess, o.State())
}

func TestPartialKeepsMessageOrder(t *testing.T) {
	o := Partial([]int{1}, "first", "second")

	assert.Equal(t, StatePartial, o.State())
	assert.Equal(t, []string{"first", "second"}, o.Messages())
}

func TestFailedNeverCarriesData(t *testing.T) {
	o := Failed[[]int]("enumeration handle could not be obtained")

	assert.Equal(t, StateFailed, o.State())
	_, ok := o.Data()
	assert.False(t, ok)
}

func TestFold(t *testing.T) {
	tests := []struct {
		name     string
		records  []string
		messages []string
		want     State
	}{
		{"clean run", []string{"r1"}, nil, StateSuccess},
		{"empty clean run", nil, nil, StateSuccess},
		{"anomalies with survivors", []string{"r1"}, []string{"m"}, StatePartial},
		{"anomalies without survivors", nil, []string{"m"}, StateFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.records, tt.messages).State())
		})
	}
}

func TestMessagesAreCopied(t *testing.T) {
	msgs := []string{"original"}
	o := Failed[int](msgs...)

	msgs[0] = "mutated"
	assert.Equal(t, []string{"original"}, o.Messages())
}
