package store

import "fmt"

// RemoteWriteError wraps a transport or service failure from Table.Create.
// The underlying error is kept as-is for inspection with errors.As.
type RemoteWriteError struct {
	Collection string
	Err        error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("store: create record in %s: %v", e.Collection, e.Err)
}

func (e *RemoteWriteError) Unwrap() error {
	return e.Err
}

// RemoteQueryError wraps a transport or service failure from Table.Where.
type RemoteQueryError struct {
	Collection string
	Filter     string
	Err        error
}

func (e *RemoteQueryError) Error() string {
	return fmt.Sprintf("store: query %s where %q: %v", e.Collection, e.Filter, e.Err)
}

func (e *RemoteQueryError) Unwrap() error {
	return e.Err
}
