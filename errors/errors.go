// Package errors provides error handling for insights.
//
// It re-exports github.com/cockroachdb/errors so every package wraps, hints
// and inspects errors the same way:
//
//	if err := state.Compile(m); err != nil {
//	    return errors.Wrap(err, "filter")
//	}
//
//	if errors.Is(err, errors.ErrInvalidFilter) {
//	    // configuration mistake made by the caller
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	GetAllDetails = crdb.GetAllDetails
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// AssertionFailedf reports a broken internal invariant.
var AssertionFailedf = crdb.AssertionFailedf

// Configuration errors: the caller passed something the engine cannot use.
// They are returned synchronously from the call that introduced them.
var (
	// ErrInvalidFilter indicates an unknown filter key or a malformed filter value
	ErrInvalidFilter = New("invalid filter")

	// ErrInvalidFocus indicates a focus argument that cannot be turned into a predicate
	ErrInvalidFocus = New("invalid focus")

	// ErrInvalidTemplate indicates a tooltip template that does not parse
	ErrInvalidTemplate = New("invalid tooltip template")

	// ErrInvalidAttr indicates an attribute name other than id, size, cluster or text
	ErrInvalidAttr = New("invalid attribute")

	// ErrInvalidConfig indicates out-of-range options
	ErrInvalidConfig = New("invalid configuration")
)

// Runtime invariant violations.
var (
	// ErrNotComputed indicates an operation that needs the graph index before it exists
	ErrNotComputed = New("graph data not computed")

	// ErrAlreadyComputed indicates a change that is only valid before the index is built
	ErrAlreadyComputed = New("graph data already computed")

	// ErrMissingOffset indicates a tooltip render without any offset
	ErrMissingOffset = New("tooltip offset not set")

	// ErrRenderInProgress indicates a re-entrant render call
	ErrRenderInProgress = New("render already in progress")

	// ErrStopped indicates a tick delivered to a stopped simulation
	ErrStopped = New("simulation stopped")

	// ErrNotFound indicates an unknown node id
	ErrNotFound = New("not found")

	// ErrInvalidData indicates a dataset file that cannot be turned into nodes and links
	ErrInvalidData = New("invalid dataset")
)

// IsConfigError reports whether err was caused by caller-supplied configuration.
func IsConfigError(err error) bool {
	return err != nil && IsAny(err,
		ErrInvalidFilter,
		ErrInvalidFocus,
		ErrInvalidTemplate,
		ErrInvalidAttr,
		ErrInvalidConfig,
	)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrapf(ErrNotFound, format, args...)
}
