package bson

import (
	"fmt"

	"github.com/pkg/errors"
)

// FormatError reports malformed BSON bytes: a bad length prefix, a
// missing terminator, an unknown type tag, a binary-length mismatch,
// truncated input, or invalid UTF-8. The decode surface collapses all
// of these to this single error kind, keeping a byte offset where one
// is known (-1 otherwise).
type FormatError struct {
	Offset int
	msg    string
	cause  error
}

func (e *FormatError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("invalid BSON at offset %d: %s", e.Offset, e.msg)
	}
	return fmt.Sprintf("invalid BSON: %s", e.msg)
}

func (e *FormatError) Cause() error  { return e.cause }
func (e *FormatError) Unwrap() error { return e.cause }

func errFormatf(offset int, format string, args ...interface{}) error {
	return &FormatError{Offset: offset, msg: fmt.Sprintf(format, args...)}
}

func errTruncated(pos, want, have int) error {
	return &FormatError{
		Offset: pos,
		msg:    fmt.Sprintf("need %d bytes at offset %d, have %d remaining", want, pos, have-pos),
	}
}

func errUnknownTag(tag byte) error {
	return &FormatError{Offset: -1, msg: fmt.Sprintf("unknown BSON type tag %#x", tag)}
}

func errUnimplementedTag(t Tag) error {
	return &FormatError{Offset: -1, msg: fmt.Sprintf("BSON type tag %#x is reserved and not implemented", byte(t))}
}

// UnsupportedObjectError reports a host value with no BSON mapping:
// the to_encodable hook was not provided, failed, or itself returned
// a value with no mapping. Path is the dotted field/index path at
// which the value was found, empty at the root.
type UnsupportedObjectError struct {
	Path  string
	Value interface{}
	cause error
}

func (e *UnsupportedObjectError) Error() string {
	prefix := ""
	if e.Path != "" {
		prefix = e.Path + ": "
	}
	if e.cause != nil {
		return fmt.Sprintf("%sbson: cannot encode %T: %v", prefix, e.Value, e.cause)
	}
	return fmt.Sprintf("%sbson: cannot encode %T", prefix, e.Value)
}

func (e *UnsupportedObjectError) Cause() error  { return e.cause }
func (e *UnsupportedObjectError) Unwrap() error { return e.cause }

func errUnsupported(path string, v interface{}, cause error) error {
	return &UnsupportedObjectError{Path: path, Value: v, cause: cause}
}

// CyclicError specializes UnsupportedObjectError for a reference cycle
// caught by the encode adapter's identity stack.
type CyclicError struct {
	*UnsupportedObjectError
}

func errCyclic(path string, v interface{}) error {
	return &CyclicError{&UnsupportedObjectError{
		Path:  path,
		Value: v,
		cause: errors.New("cyclic reference detected"),
	}}
}

// OverflowError reports a host integer outside the 64-bit signed
// range.
type OverflowError struct {
	Path  string
	Value interface{}
}

func (e *OverflowError) Error() string {
	prefix := ""
	if e.Path != "" {
		prefix = e.Path + ": "
	}
	return fmt.Sprintf("%sbson: integer %v overflows 64-bit signed range", prefix, e.Value)
}

func errOverflow(path string, v interface{}) error {
	return &OverflowError{Path: path, Value: v}
}
