/*
DESCRIPTION
  errors.go defines the IPA's closed error taxonomy: every error the
  Orchestrator returns or logs is classified into one of a fixed set of
  kinds, so callers can distinguish fatal init/configure failures from
  per-frame conditions that are recovered in place.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ipa

import "github.com/pkg/errors"

// ErrorKind classifies an Error by how the Orchestrator must react to it.
type ErrorKind int

const (
	// UnsupportedHardware is an unknown ISP revision at Init; fatal.
	UnsupportedHardware ErrorKind = iota

	// MissingControl is a required sensor control range not reported at
	// Configure; fatal.
	MissingControl

	// InvalidStats is a stats buffer smaller than expected, or a meas_type
	// missing required bits; recoverable, the frame completes with stale
	// outputs.
	InvalidStats

	// BufferMappingFailed is an mmap failure for a shared buffer; fatal for
	// that buffer's frame.
	BufferMappingFailed

	// UnknownEvent is a pipeline event with an unrecognized opcode; logged
	// and dropped.
	UnknownEvent

	// AlgorithmDegenerate is AWB below minValidZones, AGC's histogram empty,
	// or AF's contrast reading zero; recovered by reusing the previous
	// result.
	AlgorithmDegenerate
)

func (k ErrorKind) String() string {
	switch k {
	case UnsupportedHardware:
		return "UnsupportedHardware"
	case MissingControl:
		return "MissingControl"
	case InvalidStats:
		return "InvalidStats"
	case BufferMappingFailed:
		return "BufferMappingFailed"
	case UnknownEvent:
		return "UnknownEvent"
	case AlgorithmDegenerate:
		return "AlgorithmDegenerate"
	default:
		return "Unknown"
	}
}

// Error pairs an ErrorKind with the underlying cause.
type Error struct {
	Kind  ErrorKind
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// Fatal reports whether e must abort the call it was returned from, rather
// than being recovered in place.
func (e *Error) Fatal() bool {
	switch e.Kind {
	case UnsupportedHardware, MissingControl, BufferMappingFailed:
		return true
	default:
		return false
	}
}

// wrapErr classifies cause as kind, preserving it as the error chain's
// cause for errors.Is/As.
func wrapErr(kind ErrorKind, cause error) *Error {
	return &Error{Kind: kind, cause: cause}
}

// newErr builds a classified Error from a message, with no underlying
// cause.
func newErr(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, cause: errors.New(msg)}
}
