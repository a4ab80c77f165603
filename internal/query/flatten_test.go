package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlattenRow(t *testing.T) {
	tests := []struct {
		name  string
		props []Property
		want  string
	}{
		{
			"mixed scalar types",
			[]Property{
				{Name: "Name", Value: "Intel(R) Ethernet"},
				{Name: "Index", Value: 7},
				{Name: "Enabled", Value: true},
				{Name: "Speed", Value: uint64(1000000000)},
			},
			"Name=Intel(R) Ethernet|Index=7|Enabled=true|Speed=1000000000",
		},
		{
			"nil renders empty",
			[]Property{{Name: "MACAddress", Value: nil}},
			"MACAddress=",
		},
		{
			"float",
			[]Property{{Name: "Load", Value: 1.5}},
			"Load=1.5",
		},
		{
			"array fallback",
			[]Property{{Name: "IPAddress", Value: []string{"10.0.0.1", "fe80::1"}}},
			"IPAddress=[10.0.0.1 fe80::1]",
		},
		{
			"empty row",
			nil,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FlattenRow(tt.props))
		})
	}
}

func TestFlattenRowsPreservesOrder(t *testing.T) {
	out := FlattenRows([][]Property{
		{{Name: "Caption", Value: "first"}},
		{{Name: "Caption", Value: "second"}},
	})

	assert.Equal(t, "Caption=first\nCaption=second\n", out)
}

func TestFlattenRowsEmpty(t *testing.T) {
	assert.Empty(t, FlattenRows(nil))
}
