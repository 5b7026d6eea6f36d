package rawfdt

import (
	"github.com/gofdt/fdt/internal/utils"
)

// Structure-block token codes (Devicetree Spec v0.4 §5.4.1).
const (
	TokenBeginNode uint32 = 0x1
	TokenEndNode   uint32 = 0x2
	TokenProp      uint32 = 0x3
	TokenNop       uint32 = 0x4
	TokenEnd       uint32 = 0x9
)

// Token is one structural token produced by the Scanner. PropValue is a
// slice into the caller's blob; Name and PropName are copied out as Go
// strings.
type Token struct {
	Kind   uint32
	Offset int // byte offset of the token code within the structure block

	// Valid for TokenBeginNode.
	Name string

	// Valid for TokenProp.
	PropName  string
	PropValue []byte
}

// Scanner is a stateless, restartable iterator over a structure block. It
// produces tokens as slices into the underlying blob; NOP is skipped
// silently and at most one TokenEnd is ever produced.
type Scanner struct {
	structBlock []byte
	strings     []byte
	pos         int
	done        bool
}

// NewScanner creates a Scanner over the given structure and string
// blocks. pos may be any valid token boundary within structBlock,
// allowing restart from a saved cursor (§4.3).
func NewScanner(structBlock, strings []byte, pos int) *Scanner {
	return &Scanner{structBlock: structBlock, strings: strings, pos: pos}
}

// Pos returns the current cursor, usable to restart a new Scanner later.
func (s *Scanner) Pos() int { return s.pos }

// Next returns the next meaningful token (NOP is consumed and skipped).
// After a TokenEnd has been returned, a further call returns ok=false with
// no error if no bytes remain, or a Trailing error if non-NOP bytes
// follow.
func (s *Scanner) Next() (tok Token, ok bool, err error) {
	for {
		if s.done {
			if s.pos >= len(s.structBlock) {
				return Token{}, false, nil
			}
			k, _, nextPos, terr := s.readTokenCode()
			if terr != nil {
				return Token{}, false, terr
			}
			if k == TokenNop {
				s.pos = nextPos
				continue
			}
			return Token{}, false, utils.AtOffset(utils.KindTrailing, "tokens found after END", int64(s.pos))
		}

		if s.pos+4 > len(s.structBlock) {
			return Token{}, false, utils.AtOffset(utils.KindTruncated, "structure block truncated mid-token", int64(s.pos))
		}
		kind, tokStart, nextPos, terr := s.readTokenCode()
		if terr != nil {
			return Token{}, false, terr
		}

		switch kind {
		case TokenNop:
			s.pos = nextPos
			continue

		case TokenBeginNode:
			name, after, nerr := s.readName(nextPos)
			if nerr != nil {
				return Token{}, false, nerr
			}
			s.pos = after
			return Token{Kind: TokenBeginNode, Offset: tokStart, Name: name}, true, nil

		case TokenEndNode:
			s.pos = nextPos
			return Token{Kind: TokenEndNode, Offset: tokStart}, true, nil

		case TokenProp:
			propTok, after, perr := s.readProp(nextPos, tokStart)
			if perr != nil {
				return Token{}, false, perr
			}
			s.pos = after
			return propTok, true, nil

		case TokenEnd:
			s.pos = nextPos
			s.done = true
			return Token{Kind: TokenEnd, Offset: tokStart}, true, nil

		default:
			return Token{}, false, utils.AtOffset(utils.KindBadToken, "unrecognized structure token", int64(tokStart))
		}
	}
}

// readTokenCode decodes the 4-byte token code at s.pos and returns its
// starting offset and the offset immediately after the code.
func (s *Scanner) readTokenCode() (kind uint32, tokStart, after int, err error) {
	if s.pos+4 > len(s.structBlock) {
		return 0, 0, 0, utils.AtOffset(utils.KindTruncated, "structure block truncated reading token code", int64(s.pos))
	}
	kind = utils.U32(s.structBlock, s.pos)
	return kind, s.pos, s.pos + 4, nil
}

// readName reads a NUL-terminated name starting at off, padded to a
// 4-byte boundary.
func (s *Scanner) readName(off int) (string, int, error) {
	end := off
	for {
		if end >= len(s.structBlock) {
			return "", 0, utils.AtOffset(utils.KindTruncated, "node name missing NUL terminator", int64(off))
		}
		if s.structBlock[end] == 0 {
			break
		}
		end++
	}
	name := string(s.structBlock[off:end])
	after := utils.Align4(end + 1 - off)
	return name, off + after, nil
}

// readProp reads a PROP payload: (u32 len, u32 name_off, bytes[len])
// padded to 4 bytes, per §6.
func (s *Scanner) readProp(off, tokStart int) (Token, int, error) {
	if off+8 > len(s.structBlock) {
		return Token{}, 0, utils.AtOffset(utils.KindTruncated, "PROP header truncated", int64(off))
	}
	length := utils.U32(s.structBlock, off)
	nameOff := utils.U32(s.structBlock, off+4)
	valueStart := off + 8

	name, err := s.resolveName(nameOff)
	if err != nil {
		return Token{}, 0, err
	}

	if uint64(valueStart)+uint64(length) > uint64(len(s.structBlock)) {
		return Token{}, 0, utils.AtOffset(utils.KindTruncated, "PROP value extends past structure block", int64(valueStart))
	}
	value := s.structBlock[valueStart : valueStart+int(length)]
	after := valueStart + utils.Align4(int(length))

	return Token{Kind: TokenProp, Offset: tokStart, PropName: name, PropValue: value}, after, nil
}

// resolveName resolves a string-table offset into a NUL-terminated name,
// validating that it fits entirely within the strings block.
func (s *Scanner) resolveName(off uint32) (string, error) {
	if int(off) >= len(s.strings) {
		return "", utils.AtOffset(utils.KindBadStringOffset, "property name offset out of range", int64(off))
	}
	end := int(off)
	for end < len(s.strings) && s.strings[end] != 0 {
		end++
	}
	if end >= len(s.strings) {
		return "", utils.AtOffset(utils.KindBadStringOffset, "property name missing NUL terminator", int64(off))
	}
	return string(s.strings[off:end]), nil
}
