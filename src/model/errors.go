package model

import "fmt"

// PreconditionError means an order was rejected by the account gating rules
// (insufficient balance, wrong position state). Callers skip the current
// tick instead of aborting the process.
type PreconditionError struct {
	Side   OrderSide
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot %s: %s", e.Side, e.Reason)
}

// TransportError wraps a failed exchange call. The bot loop logs it and
// retries on the next tick.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status=%d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ConfigurationError is fatal; it aborts construction at startup.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Reason
}
