package entities

import (
	"errors"
	"fmt"
)

var (
	ErrModelUndefined = errors.New("model is undefined")
	ErrFamilyNotFound = errors.New("model family not found")
	ErrWalkTimeout    = errors.New("walk timed out")
	ErrNoSuchObject   = errors.New("no such object")
	ErrNoInterfaces   = errors.New("vendor builder returned no interfaces")
)

// FatalError aborts the remaining queries of a device
type FatalError struct {
	Target string
	OID    string
	Err    error
}

func (e *FatalError) Error() string {
	if e.OID == "" {
		return fmt.Sprintf("%s: %v", e.Target, e.Err)
	}
	return fmt.Sprintf("%s: oid %s: %v", e.Target, e.OID, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// SoftError is recorded against a device while polling continues
type SoftError struct {
	Target string
	OID    string
	Err    error
}

func (e *SoftError) Error() string {
	if e.OID == "" {
		return fmt.Sprintf("%s: %v", e.Target, e.Err)
	}
	return fmt.Sprintf("%s: oid %s: %v", e.Target, e.OID, e.Err)
}

func (e *SoftError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err carries a FatalError
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}
