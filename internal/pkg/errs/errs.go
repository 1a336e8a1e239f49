// Package errs narrows github.com/cockroachdb/errors to the three
// operations this codebase uses, so call sites never import the
// library directly.
package errs

import (
	cr "github.com/cockroachdb/errors"
)

// Wrap annotates err with msg, keeping the cause chain and stack
// intact. Returns nil when err is nil so callers can wrap
// unconditionally.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// New creates an error with a stack trace. Package-level sentinels
// (ErrSpotOccupied, ErrInvalidSignature, ...) are built with this.
func New(msg string) error {
	return cr.New(msg)
}

// Mark attaches markErr as an errors.Is target of err without
// replacing the cause. Usecases mark low-level failures with their
// sentinel so handlers can branch on errors.Is while logs keep the
// original detail.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}
