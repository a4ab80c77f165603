//go:build !windows

package query

import "github.com/rs/zerolog"

type noopExecutor struct {
	log zerolog.Logger
}

// NewExecutor returns a stub on platforms without a management service.
// Queries yield an empty result, which callers treat as inconclusive.
func NewExecutor(log zerolog.Logger) Executor {
	return noopExecutor{log: log}
}

func (e noopExecutor) Query(query, namespace string) string {
	e.log.Debug().
		Str("query", query).
		Str("namespace", namespace).
		Msg("management service not available on this platform")
	return ""
}
