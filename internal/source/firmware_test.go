package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildStruct assembles one firmware structure: header, formatted area and
// string table.
func buildStruct(typ byte, formatted []byte, strs ...string) []byte {
	length := byte(4 + len(formatted))
	out := []byte{typ, length, 0x00, 0x00}
	out = append(out, formatted...)
	if len(strs) == 0 {
		return append(out, 0x00, 0x00)
	}
	for _, s := range strs {
		out = append(out, s...)
		out = append(out, 0x00)
	}
	return append(out, 0x00)
}

func testBlob() []byte {
	var blob []byte
	// Baseboard: manufacturer, product, version, serial.
	blob = append(blob, buildStruct(2, []byte{0x01, 0x02, 0x03, 0x04},
		"ASUSTeK COMPUTER INC.", "ROG STRIX B550-F", "Rev X.0x", "200000000000")...)
	// Chassis: manufacturer string, type 0x03 (Desktop).
	blob = append(blob, buildStruct(3, []byte{0x01, 0x03, 0x00, 0x00, 0x00},
		"Default string")...)
	// Processor: socket(1), type, family, manufacturer(2), id, version(3),
	// voltage, clock, max speed, current speed, status, upgrade 0x31.
	formatted := make([]byte, 0x1B-4)
	formatted[0x04-0x04] = 0x01
	formatted[0x07-0x04] = 0x02
	formatted[0x10-0x04] = 0x03
	formatted[0x14-0x04] = 0xA0 // 4000 MHz
	formatted[0x15-0x04] = 0x0F
	formatted[0x19-0x04] = 0x31
	blob = append(blob, buildStruct(4, formatted,
		"AM4", "Advanced Micro Devices, Inc.", "AMD Ryzen 7 5800X")...)
	// End-of-table marker.
	blob = append(blob, buildStruct(127, nil)...)
	return blob
}

func TestIdentityFromTables(t *testing.T) {
	identity, messages, err := identityFromTables(testBlob())
	require.NoError(t, err)
	assert.Empty(t, messages)

	assert.Equal(t, "ASUSTeK COMPUTER INC.", identity.BoardManufacturer)
	assert.Equal(t, "ROG STRIX B550-F", identity.BoardProduct)
	assert.Equal(t, "Rev X.0x", identity.BoardVersion)
	assert.Equal(t, "200000000000", identity.BoardSerial)
	assert.Equal(t, "Default string", identity.ChassisManufacturer)
	assert.Equal(t, "Desktop", identity.ChassisType)
	assert.Equal(t, "AM4", identity.ProcessorSocket)
	assert.Equal(t, "AMD Ryzen 7 5800X", identity.ProcessorVersion)
	assert.Equal(t, "Socket AM4", identity.ProcessorUpgrade)
}

func TestIdentityFromTablesMalformedTail(t *testing.T) {
	blob := testBlob()
	// Replace the end marker with a baseboard declaring an impossible length.
	blob = append(blob[:len(blob)-6], 0x02, 0x05, 0x00, 0x00)

	identity, messages, err := identityFromTables(blob)
	require.NoError(t, err)
	require.NotEmpty(t, messages)
	assert.Equal(t, "ROG STRIX B550-F", identity.BoardProduct)
}

func TestIdentityFromTablesUndecodableBlob(t *testing.T) {
	// First structure is already malformed, so nothing decodes.
	_, _, err := identityFromTables([]byte{0x02, 0x05, 0x00, 0x00})
	assert.Error(t, err)
}

func TestIdentityFromTablesFirstProcessorWins(t *testing.T) {
	var blob []byte
	first := make([]byte, 0x1B-4)
	first[0x10-0x04] = 0x01
	blob = append(blob, buildStruct(4, first, "CPU 0")...)
	second := make([]byte, 0x1B-4)
	second[0x10-0x04] = 0x01
	blob = append(blob, buildStruct(4, second, "CPU 1")...)
	blob = append(blob, buildStruct(127, nil)...)

	identity, _, err := identityFromTables(blob)
	require.NoError(t, err)
	assert.Equal(t, "CPU 0", identity.ProcessorVersion)
}
