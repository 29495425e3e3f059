// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
	"fmt"
)

// A Kind classifies a ConfigurationError.
type Kind int

const (
	// MissingTarget indicates that neither a connection string nor an
	// ensemble provider was configured.
	MissingTarget Kind = iota + 1
	// ConflictingTarget indicates that both a connection string and an
	// ensemble provider were configured.
	ConflictingTarget
	// UnknownRetryPolicy indicates that the retry policy type
	// identifier is not one of the known identifiers. The error Value
	// is the identifier.
	UnknownRetryPolicy
	// NotBuilt indicates that the client was requested before it was
	// successfully built.
	NotBuilt
	// InvalidAttribute indicates that a configuration attribute has a
	// value which cannot be parsed. The error Value names the
	// attribute.
	InvalidAttribute
	// DuplicateElement indicates that a nested configuration element
	// which may occur at most once occurred more than once. The error
	// Value names the element.
	DuplicateElement
	// UnresolvedReference indicates that a reference attribute names
	// an object which is unknown or has the wrong type. The error
	// Value is the reference name.
	UnresolvedReference
)

var kindNames = map[Kind]string{
	MissingTarget:       "MissingTarget",
	ConflictingTarget:   "ConflictingTarget",
	UnknownRetryPolicy:  "UnknownRetryPolicy",
	NotBuilt:            "NotBuilt",
	InvalidAttribute:    "InvalidAttribute",
	DuplicateElement:    "DuplicateElement",
	UnresolvedReference: "UnresolvedReference",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// A ConfigurationError reports a problem with the client configuration,
// detected before any network I/O takes place.
type ConfigurationError struct {
	// Kind classifies the error.
	Kind Kind
	// Value is the offending value, if any. Its meaning depends on Kind.
	Value string
	// Err is the underlying cause, if any (for example a strconv error
	// behind an InvalidAttribute).
	Err error
}

// Sentinel errors for use with errors.Is. Any *ConfigurationError
// matches the sentinel with the same Kind, regardless of Value.
var (
	ErrMissingTarget       error = &ConfigurationError{Kind: MissingTarget}
	ErrConflictingTarget   error = &ConfigurationError{Kind: ConflictingTarget}
	ErrUnknownRetryPolicy  error = &ConfigurationError{Kind: UnknownRetryPolicy}
	ErrNotBuilt            error = &ConfigurationError{Kind: NotBuilt}
	ErrInvalidAttribute    error = &ConfigurationError{Kind: InvalidAttribute}
	ErrDuplicateElement    error = &ConfigurationError{Kind: DuplicateElement}
	ErrUnresolvedReference error = &ConfigurationError{Kind: UnresolvedReference}
)

// New constructs a ConfigurationError of the given kind.
func New(kind Kind, value string) *ConfigurationError {
	return &ConfigurationError{Kind: kind, Value: value}
}

func (e *ConfigurationError) Error() string {
	var msg string
	switch e.Kind {
	case MissingTarget:
		msg = "one of connection string or ensemble provider must be configured"
	case ConflictingTarget:
		msg = "one of connection string or ensemble provider must be configured, but not both"
	case UnknownRetryPolicy:
		msg = fmt.Sprintf("retry policy %q is invalid/unknown", e.Value)
	case NotBuilt:
		msg = "client has not been built"
	case InvalidAttribute:
		msg = fmt.Sprintf("attribute %q has an invalid value", e.Value)
	case DuplicateElement:
		msg = fmt.Sprintf("element %q may occur at most once", e.Value)
	case UnresolvedReference:
		msg = fmt.Sprintf("reference %q cannot be resolved", e.Value)
	default:
		msg = fmt.Sprintf("%s: %s", e.Kind, e.Value)
	}
	if e.Err != nil {
		return "zkx: " + msg + ": " + e.Err.Error()
	}
	return "zkx: " + msg
}

// Unwrap returns the underlying cause, if any.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *ConfigurationError of the same Kind.
func (e *ConfigurationError) Is(target error) bool {
	var t *ConfigurationError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *ConfigurationError in err's
// chain, or zero if there is none.
func KindOf(err error) Kind {
	var e *ConfigurationError
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
