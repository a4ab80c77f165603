//go:build !windows && !linux

package source

import "github.com/rs/zerolog"

// Detect returns an empty capability set; every component folds as failed.
func Detect(log zerolog.Logger) Set {
	return Set{}
}
