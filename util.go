package zynqboot

import (
	"errors"
	"fmt"

	"github.com/hashicorp/errwrap"
)

var (
	// ErrTruncatedInput is returned when fewer bytes remain than a read requires.
	ErrTruncatedInput = errors.New("truncated input")

	// ErrMalformedChain is returned when the image header chain revisits an
	// offset or points outside the input.
	ErrMalformedChain = errors.New("malformed image header chain")
)

// eMsg wraps err with a short description of what was being done when it
// occurred. The description comes first and is separated from the cause by ';'.
func eMsg(err error, msg string) error {
	return errwrap.Wrapf(msg+"; {{err}}", err)
}

// eDetail attaches detail to a sentinel cause, keeping it reachable for errors.Is.
func eDetail(cause error, format string, a ...interface{}) error {
	return errwrap.Wrapf(fmt.Sprintf(format, a...)+": {{err}}", cause)
}

// GetErrors returns the wrapped errors from one error.
func GetErrors(err error) []string {
	if err == nil {
		return []string{}
	}

	if w, ok := err.(errwrap.Wrapper); ok {
		wrapped := w.WrappedErrors()
		return []string{wrapped[0].Error(), wrapped[1].Error()}
	}

	return []string{err.Error()}
}
