// Package utils provides small cross-cutting helpers shared by the raw,
// query, binding and edit/encode layers.
package utils

import "fmt"

// Kind classifies an Error by the taxonomy in the design: structural,
// type-coercion, semantic-lookup and edit/encode failures.
type Kind uint8

const (
	// KindUnknown is the zero value; never produced by this package.
	KindUnknown Kind = iota

	// Structural errors — fatal to the current decode.
	KindBadMagic
	KindTruncated
	KindUnalignedOffset
	KindUnsupportedVersion
	KindBadToken
	KindTrailing
	KindBadStringOffset

	// Type coercion errors — surfaced by typed property views.
	KindBadPropertyLength
	KindNotUtf8
	KindNotNulTerminated
	KindOversizedCell

	// Semantic lookup errors — local to a single query, never fatal to
	// the tree.
	KindPathNotFound
	KindPhandleNotFound
	KindNoInterruptParent
	KindMissingCellsProperty
	KindUntranslatableAddress

	// Edit/encode errors.
	KindDuplicateChildName
	KindCycleDetected
	KindStringTableOverflow
)

func (k Kind) String() string {
	switch k {
	case KindBadMagic:
		return "BadMagic"
	case KindTruncated:
		return "Truncated"
	case KindUnalignedOffset:
		return "UnalignedOffset"
	case KindUnsupportedVersion:
		return "UnsupportedVersion"
	case KindBadToken:
		return "BadToken"
	case KindTrailing:
		return "Trailing"
	case KindBadStringOffset:
		return "BadStringOffset"
	case KindBadPropertyLength:
		return "BadPropertyLength"
	case KindNotUtf8:
		return "NotUtf8"
	case KindNotNulTerminated:
		return "NotNulTerminated"
	case KindOversizedCell:
		return "OversizedCell"
	case KindPathNotFound:
		return "PathNotFound"
	case KindPhandleNotFound:
		return "PhandleNotFound"
	case KindNoInterruptParent:
		return "NoInterruptParent"
	case KindMissingCellsProperty:
		return "MissingCellsProperty"
	case KindUntranslatableAddress:
		return "UntranslatableAddress"
	case KindDuplicateChildName:
		return "DuplicateChildName"
	case KindCycleDetected:
		return "CycleDetected"
	case KindStringTableOverflow:
		return "StringTableOverflow"
	default:
		return "Unknown"
	}
}

// Error is the structured error type returned throughout this module. It
// carries the offending byte offset and/or tree path for diagnostics, the
// taxonomy kind, and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Context string
	Offset  int64 // -1 when not applicable
	Path    string
	Cause   error
}

// New builds an *Error with no byte offset or path.
func New(kind Kind, context string) *Error {
	return &Error{Kind: kind, Context: context, Offset: -1}
}

// AtOffset builds an *Error carrying a byte offset into the source blob.
func AtOffset(kind Kind, context string, offset int64) *Error {
	return &Error{Kind: kind, Context: context, Offset: offset}
}

// AtPath builds an *Error carrying a tree path.
func AtPath(kind Kind, context string, path string) *Error {
	return &Error{Kind: kind, Context: context, Offset: -1, Path: path}
}

// Wrap creates a contextual error around cause. Returns nil if cause is
// nil, mirroring the teacher's WrapError.
func Wrap(kind Kind, context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Context: context, Offset: -1, Cause: cause}
}

func (e *Error) Error() string {
	loc := ""
	switch {
	case e.Path != "":
		loc = fmt.Sprintf(" (path %q)", e.Path)
	case e.Offset >= 0:
		loc = fmt.Sprintf(" (offset 0x%x)", e.Offset)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v%s", e.Kind, e.Context, e.Cause, loc)
	}
	return fmt.Sprintf("%s: %s%s", e.Kind, e.Context, loc)
}

// Unwrap provides compatibility with errors.Unwrap() and errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, utils.New(utils.KindPathNotFound, "")).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}
