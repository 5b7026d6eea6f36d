package fdt

import "github.com/gofdt/fdt/internal/utils"

// Kind classifies an Error by the taxonomy in §7: structural,
// type-coercion, semantic-lookup and edit/encode failures. Callers match
// against it with errors.As and compare the Kind field, or use
// errors.Is against a zero-value *Error carrying the wanted Kind.
type Kind = utils.Kind

// Error is the structured error type returned throughout this module. It
// carries the offending byte offset and/or tree path for diagnostics,
// the taxonomy Kind, and an optional wrapped cause, mirroring the
// teacher's *utils.H5Error with an added Kind field and Is support so
// callers can use errors.Is/errors.As against sentinel kinds.
type Error = utils.Error

// Structural error kinds (§7): fatal to the current decode.
const (
	KindBadMagic           = utils.KindBadMagic
	KindTruncated          = utils.KindTruncated
	KindUnalignedOffset    = utils.KindUnalignedOffset
	KindUnsupportedVersion = utils.KindUnsupportedVersion
	KindBadToken           = utils.KindBadToken
	KindTrailing           = utils.KindTrailing
	KindBadStringOffset    = utils.KindBadStringOffset
)

// Type-coercion error kinds (§7): surfaced by typed property views.
const (
	KindBadPropertyLength = utils.KindBadPropertyLength
	KindNotUtf8           = utils.KindNotUtf8
	KindNotNulTerminated  = utils.KindNotNulTerminated
	KindOversizedCell     = utils.KindOversizedCell
)

// Semantic-lookup error kinds (§7): local to a single query, never fatal
// to the tree.
const (
	KindPathNotFound          = utils.KindPathNotFound
	KindPhandleNotFound       = utils.KindPhandleNotFound
	KindNoInterruptParent     = utils.KindNoInterruptParent
	KindMissingCellsProperty  = utils.KindMissingCellsProperty
	KindUntranslatableAddress = utils.KindUntranslatableAddress
)

// Edit/encode error kinds (§7).
const (
	KindDuplicateChildName  = utils.KindDuplicateChildName
	KindCycleDetected       = utils.KindCycleDetected
	KindStringTableOverflow = utils.KindStringTableOverflow
)
