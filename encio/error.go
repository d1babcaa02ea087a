// Package encio provides the error kinds, signing, masking and logging shared by the dop codec packages.
package encio

import (
	"errors"
	"runtime"
)

// Error handling in dop groups every failure into a small set of kinds, wrapped with extra information by Error.
// Decoding never panics on bad data; the first error is latched and later reads return zero values,
// so a caller checks once, after the whole decode.
// Panics are only used when there is a clear misuse of the library; programmer error.
//
// Errors can be checked with
//
//	if errors.Is(err, encio.ErrSign) {
//		// corrupted or tampered message
//	}
var (
	// ErrSize is returned when the declared total length of a message does not match the bytes received.
	ErrSize = errors.New("size error")

	// ErrSign is returned when a message's signature does not match its content.
	ErrSign = errors.New("sign error")

	// ErrData is returned when the read data is impossible to decode;
	// truncated values, unknown type tags or unparseable schemas.
	ErrData = errors.New("data error")

	// ErrMask is returned when a masked message has no mask key, or the key is wrong.
	ErrMask = errors.New("mask error")

	// ErrBadType is returned when a value does not conform to the type it is encoded as.
	ErrBadType = errors.New("bad type")

	// ErrBadConfig is returned when an Encoder or Decoder is used in a way its options do not allow.
	ErrBadConfig = errors.New("bad config")

	// ErrPacked is returned when an Encoder is packed a second time.
	ErrPacked = errors.New("already packed")
)

// Code is the numeric form of the decode error kinds.
type Code int

// Decode error codes.
const (
	Success Code = iota
	CodeSize
	CodeSign
	CodeData
	CodeMask
)

// CodeOf returns the Code for err. Errors of other kinds give CodeData.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrSize):
		return CodeSize
	case errors.Is(err, ErrSign):
		return CodeSign
	case errors.Is(err, ErrMask):
		return CodeMask
	default:
		return CodeData
	}
}

// String implements fmt.Stringer.
func (c Code) String() string {
	switch c {
	case Success:
		return "success"
	case CodeSize:
		return "data length error"
	case CodeSign:
		return "data signature error"
	case CodeData:
		return "data error"
	case CodeMask:
		return "data unmask error"
	default:
		return "unknown error"
	}
}

// NewError returns an Error wrapping err with message and caller.
// If caller is empty, it is automatically filled with the calling functions name.
func NewError(err error, message string, caller string) error {
	if caller == "" {
		caller = GetCaller(1)
	}

	return Error{
		Err:     err,
		Message: message,
		Caller:  caller,
	}
}

// Error is returned when an error is encountered while encoding or decoding.
type Error struct {
	Err     error
	Message string
	Caller  string
}

// Error implements error
func (e Error) Error() (str string) {
	if e.Caller != "" {
		str = e.Caller + ": "
	}

	str += e.Err.Error()

	if e.Message != "" {
		str += " (" + e.Message + ")"
	}

	return str
}

// Unwrap implements errors's Unwrap()
func (e Error) Unwrap() error {
	return e.Err
}

// GetCaller returns the name of the calling function, skipping skip functions.
// i.e. 0 writes the calling function, 1 the function calling that etc...
func GetCaller(skip int) string {
	pcs := make([]uintptr, 1)
	n := runtime.Callers(2+skip, pcs)
	if n != 1 {
		return "Unknown Function"
	}

	frames := runtime.CallersFrames(pcs)
	frame, _ := frames.Next()
	return frame.Function
}
