//go:build windows

package source

import "github.com/rs/zerolog"

// Detect assembles the full capability set available on Windows hosts.
func Detect(log zerolog.Logger) Set {
	return Set{
		Display:  displaySource{enum: dxgiEnumerator{}},
		Network:  networkSource{},
		Audio:    audioSource{log: log},
		Firmware: firmwareSource{},
		Host:     hostSource{},
	}
}
