// Package errors wraps pkg/errors and adds error codes. Every failure that
// crosses a store boundary carries exactly one Code, which callers recover
// with CodeOf or test with Is.
package errors

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Code is an error code which can be used to check against a given error. For
// example, see the Is() method.
type Code string

// ErrUncoded is the code reported by CodeOf for errors that were not created
// by New.
const ErrUncoded Code = "Uncoded"

// New returns an error carrying code and message, annotated with a stack.
func New(code Code, message string) error {
	return errors.WithStack(codedError{
		Code:    code,
		Message: message,
	})
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func Cause(err error) error {
	return errors.Cause(err)
}

func Errorf(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

// Is is a fork of the Is() method from `pkg/errors` which takes as its target
// an error Code instead of an error.
func Is(err error, target Code) bool {
	match := codedError{
		Code: target,
	}
	return errors.Is(err, match)
}

// CodeOf returns the code of the first coded error in err's chain. Errors
// without a code report ErrUncoded and false.
func CodeOf(err error) (Code, bool) {
	if err == nil {
		return "", false
	}
	var ce codedError
	if errors.As(err, &ce) {
		return ce.Code, true
	}
	return ErrUncoded, false
}

// MessageOf returns the message the coded error in err's chain was created
// with, or err.Error() when the chain has no coded error.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var ce codedError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

func WithMessage(err error, message string) error {
	return errors.WithMessage(err, message)
}

func WithMessagef(err error, format string, args ...interface{}) error {
	return errors.WithMessagef(err, format, args...)
}

func WithStack(err error) error {
	return errors.WithStack(err)
}

func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

func Wrapf(err error, fmt string, args ...interface{}) error {
	return errors.Wrapf(err, fmt, args...)
}

// codedError is the fundamental type used by this package to provide coded
// errors.
type codedError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Wrapped string `json:"wrapped,omitempty"`
}

func (ce codedError) Error() string {
	if ce.Wrapped != "" {
		return ce.Wrapped
	}
	return ce.Message
}

func (ce codedError) Is(err error) bool {
	if e, ok := err.(codedError); ok && ce.Code == e.Code {
		return true
	}
	return false
}

// MarshalJSON returns err as a json object (as a string) representing a
// codedError. If err is not already a codedError, the json object still
// represents one but its `code` value is empty.
func MarshalJSON(err error) string {
	cause := Cause(err)

	var out *codedError

	switch v := cause.(type) {
	case codedError:
		v.Wrapped = err.Error()
		out = &v
	default:
		out = &codedError{
			Message: cause.Error(),
			Wrapped: err.Error(),
		}
	}

	j, jerr := json.Marshal(out)
	if jerr != nil {
		return out.Error()
	}

	return string(j)
}

// UnmarshalJSON converts the contents of r into a codedError. If the bytes
// can't unmarshal to a codedError, a normal error is returned containing the
// string value of the bytes.
func UnmarshalJSON(r io.Reader) error {
	b, _ := io.ReadAll(r)

	out := &codedError{}
	if err := json.Unmarshal(b, out); err != nil {
		return errors.New(string(b))
	}
	return out
}
