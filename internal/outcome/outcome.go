// Package outcome implements the partial-success result model shared by all
// hardware component collectors.
package outcome

// State classifies a collection result.
type State string

const (
	StateSuccess State = "success"
	StatePartial State = "partial"
	StateFailed  State = "failed"
)

// Outcome is the result of running one component collector. A Success carries
// data and no messages. A Partial carries data alongside at least one
// recoverable-anomaly message. A Failed carries only messages.
type Outcome[T any] struct {
	state    State
	data     T
	hasData  bool
	messages []string
}

// Success wraps data collected without any anomalies.
func Success[T any](data T) Outcome[T] {
	return Outcome[T]{state: StateSuccess, data: data, hasData: true}
}

// Partial wraps data collected alongside recoverable anomalies. With no
// messages the result is indistinguishable from a clean run and is returned
// as a Success.
func Partial[T any](data T, messages ...string) Outcome[T] {
	if len(messages) == 0 {
		return Success(data)
	}
	return Outcome[T]{state: StatePartial, data: data, hasData: true, messages: copyMessages(messages)}
}

// Failed records a collector that produced no usable data.
func Failed[T any](messages ...string) Outcome[T] {
	return Outcome[T]{state: StateFailed, messages: copyMessages(messages)}
}

// Fold classifies a slice-producing collector run: no messages is a Success,
// messages with surviving records a Partial, messages without records a
// Failed.
func Fold[T any](records []T, messages []string) Outcome[[]T] {
	switch {
	case len(messages) == 0:
		return Success(records)
	case len(records) == 0:
		return Failed[[]T](messages...)
	default:
		return Partial(records, messages...)
	}
}

// State returns the result classification.
func (o Outcome[T]) State() State { return o.state }

// Data returns the collected data and whether any is present. Failed
// outcomes never carry data.
func (o Outcome[T]) Data() (T, bool) { return o.data, o.hasData }

// Messages returns the accumulated anomaly messages in the order they were
// recorded.
func (o Outcome[T]) Messages() []string { return copyMessages(o.messages) }

func copyMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, len(messages))
	copy(out, messages)
	return out
}
