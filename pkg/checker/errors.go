package checker

import "fmt"

// Error taxonomy, kept deliberately small: validation failures belong to
// the caller (HTTP 400), configuration failures to the operator (500),
// upstream failures to the data provider (502). Data anomalies such as
// unparseable timestamps or amounts never become errors at all; the
// classifier absorbs them.

// ValidationError rejects a request before any fetch happens. Type is an
// optional machine-readable tag like "graduated".
type ValidationError struct {
	Msg  string
	Type string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConfigError means the service itself is misconfigured; retrying the
// request will not help.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// UpstreamError wraps a transport or schema failure from the data
// provider. The serving process must survive these.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *UpstreamError) Unwrap() error { return e.Err }

func upstream(op string, err error) error {
	return &UpstreamError{Op: op, Err: err}
}
