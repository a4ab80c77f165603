//go:build linux

package source

import "github.com/rs/zerolog"

// Detect assembles the capability set available on Linux hosts. The
// display, network and audio trees have no enumerators here; those
// components fold as failed.
func Detect(log zerolog.Logger) Set {
	return Set{
		Firmware: firmwareSource{},
		Host:     hostSource{},
	}
}
