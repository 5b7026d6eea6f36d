package rawfdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildStructBlock assembles a minimal tree:
//
//	/ {
//	  compatible = "vendor,board";
//	  #address-cells = <2>;
//	  child@0 {
//	    reg = <0 0>;
//	  };
//	}
func buildStructBlock() (structBlock, strings []byte) {
	var sb []byte
	var st []byte

	addString := func(s string) uint32 {
		off := uint32(len(st))
		st = append(st, s...)
		st = append(st, 0)
		return off
	}

	appendName := func(name string) {
		sb = append(sb, name...)
		sb = append(sb, 0)
		for len(sb)%4 != 0 {
			sb = append(sb, 0)
		}
	}
	appendU32 := func(v uint32) {
		sb = append(sb, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
	appendProp := func(name string, value []byte) {
		appendU32(TokenProp)
		appendU32(uint32(len(value)))
		appendU32(addString(name))
		sb = append(sb, value...)
		for len(sb)%4 != 0 {
			sb = append(sb, 0)
		}
	}

	appendU32(TokenBeginNode)
	appendName("")
	appendProp("compatible", append([]byte("vendor,board"), 0))
	appendProp("#address-cells", []byte{0, 0, 0, 2})
	appendU32(TokenNop)

	appendU32(TokenBeginNode)
	appendName("child@0")
	appendProp("reg", []byte{0, 0, 0, 0, 0, 0, 0, 0})
	appendU32(TokenEndNode)

	appendU32(TokenEndNode)
	appendU32(TokenEnd)

	return sb, st
}

func TestScannerWalksTree(t *testing.T) {
	structBlock, strings := buildStructBlock()
	s := NewScanner(structBlock, strings, 0)

	var kinds []uint32
	var names []string
	for {
		tok, ok, err := s.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		kinds = append(kinds, tok.Kind)
		if tok.Kind == TokenBeginNode {
			names = append(names, tok.Name)
		}
		if tok.Kind == TokenEnd {
			break
		}
	}

	assert.Equal(t, []string{"", "child@0"}, names)
	assert.Equal(t, TokenEnd, kinds[len(kinds)-1])
	// NOP must have been silently skipped: no NOP kind should appear.
	for _, k := range kinds {
		assert.NotEqual(t, TokenNop, k)
	}
}

func TestScannerPropValues(t *testing.T) {
	structBlock, strings := buildStructBlock()
	s := NewScanner(structBlock, strings, 0)

	var props []Token
	for {
		tok, ok, err := s.Next()
		require.NoError(t, err)
		if !ok || tok.Kind == TokenEnd {
			break
		}
		if tok.Kind == TokenProp {
			props = append(props, tok)
		}
	}

	require.Len(t, props, 3)
	assert.Equal(t, "compatible", props[0].PropName)
	assert.Equal(t, "vendor,board\x00", string(props[0].PropValue))
	assert.Equal(t, "#address-cells", props[1].PropName)
	assert.Equal(t, []byte{0, 0, 0, 2}, props[1].PropValue)
	assert.Equal(t, "reg", props[2].PropName)
}

func TestScannerTrailingAfterEnd(t *testing.T) {
	structBlock, strings := buildStructBlock()
	// Append a stray token after END.
	structBlock = append(structBlock, byte(TokenBeginNode>>24), byte(TokenBeginNode>>16), byte(TokenBeginNode>>8), byte(TokenBeginNode))

	s := NewScanner(structBlock, strings, 0)
	var err error
	for {
		var tok Token
		var ok bool
		tok, ok, err = s.Next()
		if err != nil || !ok {
			break
		}
		_ = tok
	}
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Trailing")
}

func TestScannerBadStringOffset(t *testing.T) {
	structBlock, _ := buildStructBlock()
	s := NewScanner(structBlock, nil, 0)
	var err error
	for {
		_, ok, e := s.Next()
		if e != nil {
			err = e
			break
		}
		if !ok {
			break
		}
	}
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BadStringOffset")
}

func TestScannerRestartFromSavedCursor(t *testing.T) {
	structBlock, strings := buildStructBlock()
	s := NewScanner(structBlock, strings, 0)

	tok, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, TokenBeginNode, tok.Kind)

	saved := s.Pos()
	// Resume into a brand-new scanner from the saved cursor; must see the
	// same next token as continuing on s would.
	restarted := NewScanner(structBlock, strings, saved)
	tok2, ok2, err2 := restarted.Next()
	require.NoError(t, err2)
	require.True(t, ok2)

	tok3, ok3, err3 := s.Next()
	require.NoError(t, err3)
	require.True(t, ok3)

	assert.Equal(t, tok3.Kind, tok2.Kind)
	assert.Equal(t, tok3.PropName, tok2.PropName)
}
