// Copyright (c) 2019 Cisco and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sfcerr defines the error taxonomy shared by all layers of the
// Neutron SFC redirection adapter.
//
// Every error produced by the adapter is (or wraps) an *Error carrying one
// of five kinds. Callers branch on the kind using the Is* predicates, which
// look through github.com/pkg/errors wrapping.
package sfcerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies adapter errors.
type Kind int

const (
	// InvalidArgument means a required field was missing or malformed.
	// Raised before any remote call.
	InvalidArgument Kind = iota

	// NotFound means a referenced id does not resolve in the backend.
	NotFound

	// Conflict means the operation would violate an invariant
	// (duplicate hook, group already chained, protected identity change).
	Conflict

	// Unsupported means the backend offers no primitive for the operation.
	Unsupported

	// BackendFault means the backend answered with a failure response.
	BackendFault
)

// String converts Kind into a human-readable string.
func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid-argument"
	case NotFound:
		return "not-found"
	case Conflict:
		return "conflict"
	case Unsupported:
		return "unsupported"
	case BackendFault:
		return "backend-fault"
	}
	return "INVALID"
}

// Error is the concrete error type of the adapter.
type Error struct {
	Kind    Kind
	Message string

	// Code and Fault are set for BackendFault only: the status code
	// and the fault message reported by the backend.
	Code  int
	Fault string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == BackendFault {
		return fmt.Sprintf("%s (status %d): %s", e.Message, e.Code, e.Fault)
	}
	return e.Message
}

// InvalidArgumentf returns an InvalidArgument error.
func InvalidArgumentf(format string, args ...interface{}) error {
	return &Error{Kind: InvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// NullArgument returns the InvalidArgument error used for a missing required field.
func NullArgument(field string) error {
	return InvalidArgumentf("null passed for %s!", field)
}

// NotFoundf returns a NotFound error.
func NotFoundf(format string, args ...interface{}) error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

// NotFoundByID returns the NotFound error naming the expected type and the id.
func NotFoundByID(what, id string) error {
	return NotFoundf("cannot find %s by id: %s", what, id)
}

// Conflictf returns a Conflict error.
func Conflictf(format string, args ...interface{}) error {
	return &Error{Kind: Conflict, Message: fmt.Sprintf(format, args...)}
}

// Unsupportedf returns an Unsupported error.
func Unsupportedf(format string, args ...interface{}) error {
	return &Error{Kind: Unsupported, Message: fmt.Sprintf(format, args...)}
}

// Fault returns a BackendFault error with the code and message reported by the backend.
func Fault(code int, fault string, format string, args ...interface{}) error {
	return &Error{Kind: BackendFault, Message: fmt.Sprintf(format, args...), Code: code, Fault: fault}
}

// KindOf returns the kind of the given error. Errors not produced by
// this package are reported as BackendFault with ok=false.
func KindOf(err error) (kind Kind, ok bool) {
	if err == nil {
		return 0, false
	}
	if e, isErr := errors.Cause(err).(*Error); isErr {
		return e.Kind, true
	}
	return BackendFault, false
}

func is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsInvalidArgument returns true if err is (or wraps) an InvalidArgument error.
func IsInvalidArgument(err error) bool { return is(err, InvalidArgument) }

// IsNotFound returns true if err is (or wraps) a NotFound error.
func IsNotFound(err error) bool { return is(err, NotFound) }

// IsConflict returns true if err is (or wraps) a Conflict error.
func IsConflict(err error) bool { return is(err, Conflict) }

// IsUnsupported returns true if err is (or wraps) an Unsupported error.
func IsUnsupported(err error) bool { return is(err, Unsupported) }

// IsBackendFault returns true if err is (or wraps) a BackendFault error.
func IsBackendFault(err error) bool { return is(err, BackendFault) }
