package domain

import "fmt"

// UnknownIndexError reports a request for an index key absent from the
// catalog. A caller bug; never retried.
type UnknownIndexError struct {
	Key string
}

func (e *UnknownIndexError) Error() string {
	return fmt.Sprintf("unknown climate index %q", e.Key)
}

// UnknownVariableError reports a request for a variable the collection does
// not carry. A caller bug; never retried.
type UnknownVariableError struct {
	Variable string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q", e.Variable)
}

// DataAccessError wraps a backend fetch failure. The same request may be
// retried: failed fetches are never cached, so a retry goes back to the
// backend.
type DataAccessError struct {
	Variable Variable
	Model    string
	Err      error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("fetching %s for model %s: %v", e.Variable, e.Model, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// IndexComputationError wraps a failure inside one index's reduction
// algorithm, carrying the index key for context.
type IndexComputationError struct {
	Index string
	Err   error
}

func (e *IndexComputationError) Error() string {
	return fmt.Sprintf("computing index %s: %v", e.Index, e.Err)
}

func (e *IndexComputationError) Unwrap() error { return e.Err }

// ValidationError reports invalid caller input (bad period, bad bounds).
// Never retried; the input must be corrected.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
