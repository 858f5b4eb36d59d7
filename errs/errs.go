//	Recoverable errors in go-csvpivot.
//
//	Every fallible operation in the library returns *Error or succeeds.
//	The kind set is closed: rendering and description switch over all four
//	kinds, and foreign errors enter only through Csv, IO and From.
package errs

import (
	"fmt"
	"encoding/csv"
	"github.com/go-errors/errors"
)

type (
	Kind uint8

	//	Immutable once constructed
	Error struct {
		kind		Kind
		msg			string
		line_num	int
		err			error
	}
)

const (
	//	Malformed CSV structure, eg. inconsistent row width
	CSV_ERROR Kind = iota
	//	Bad aggregator configuration, eg. field names or delimiter parsing
	INVALID_CONFIGURATION
	//	Underlying file or stream access failure
	IO_ERROR
	//	A value in the values column failed to convert
	PARSING_ERROR
)

//	Wrap a CSV library error
func Csv(err error) *Error {
	return &Error{kind: CSV_ERROR, err: err}
}

//	Invalid aggregator configuration
func Invalid_config(msg string) *Error {
	return &Error{kind: INVALID_CONFIGURATION, msg: msg}
}

//	Wrap an IO error
func IO(err error) *Error {
	return &Error{kind: IO_ERROR, err: err}
}

//	Value conversion failed at the 0-indexed record line_num
func Parsing(line_num int, reason string) *Error {
	return &Error{kind: PARSING_ERROR, msg: reason, line_num: line_num}
}

//	Promote a foreign error at a fallible boundary. Errors from the CSV
//	library become CSV_ERROR, everything else IO_ERROR
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	if is_csv(err) {
		return Csv(err)
	}
	return IO(err)
}

func (e *Error) Error() string {
	switch e.kind {
	case INVALID_CONFIGURATION:
		return "Could not properly configure the aggregator: "+e.msg
	case PARSING_ERROR:
		//	Records are stored 0-indexed and rendered 1-indexed
		return fmt.Sprintf("Could not parse record %d: %s", e.line_num+1, e.msg)
	default:
		//	CSV_ERROR and IO_ERROR render the wrapped error verbatim
		return e.err.Error()
	}
}

//	Terse category label
func (e *Error) Description() string {
	switch e.kind {
	case INVALID_CONFIGURATION:
		return "could not configure the aggregator"
	case PARSING_ERROR:
		return "failed to parse values column"
	default:
		return e.err.Error()
	}
}

func (e *Error) Kind() Kind {
	return e.kind
}

//	Wrapped foreign error for CSV_ERROR and IO_ERROR, nil otherwise
func (e *Error) Unwrap() error {
	return e.err
}

//	0-indexed record number for PARSING_ERROR, -1 otherwise
func (e *Error) Line() int {
	if e.kind != PARSING_ERROR {
		return -1
	}
	return e.line_num
}

func is_csv(err error) bool {
	if _, ok := err.(*csv.ParseError); ok {
		return true
	}
	return errors.Is(err, csv.ErrBareQuote) ||
		errors.Is(err, csv.ErrQuote) ||
		errors.Is(err, csv.ErrFieldCount)
}
