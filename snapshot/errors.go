package snapshot

import "fmt"

// FetchError means the bytes never arrived: transport failure, timeout
// or a non-2xx response from the read source.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means the bytes arrived but did not decode into a usable
// table: no header, missing required columns, or an unparseable body.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
