package fdt_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofdt/fdt"
)

func TestPropertyTypedViewErrorsCarryKind(t *testing.T) {
	tr := buildSampleTree(t)
	f, err := fdt.Decode(encode(t, tr))
	require.NoError(t, err)

	uart, ok := f.GetByPath("/soc/uart@3000000")
	require.True(t, ok)

	reg, ok := uart.FindProperty("reg")
	require.True(t, ok)

	_, err = reg.AsString() // reg is an 8-byte cell array with interior NUL bytes
	require.Error(t, err)

	var fdtErr *fdt.Error
	require.True(t, errors.As(err, &fdtErr))
	assert.Equal(t, fdt.KindNotNulTerminated, fdtErr.Kind)
}

func TestPathNotFoundIsDistinguishable(t *testing.T) {
	tr := fdt.NewEditableTree()
	err := tr.RemoveByPath("/nope")
	require.Error(t, err)

	var fdtErr *fdt.Error
	require.True(t, errors.As(err, &fdtErr))
	assert.Equal(t, fdt.KindPathNotFound, fdtErr.Kind)
}
