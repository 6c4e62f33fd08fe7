package guid

import (
	"errors"
	"fmt"
)

// TextLen is the length of the canonical 8-4-4-4-12 text form.
const TextLen = 36

// SeparatorOffsets lists the hyphen positions of the text form.
var SeparatorOffsets = [4]int{8, 13, 18, 23}

var ErrInvalidFormat = errors.New("guid: invalid format")

const hexDigits = "0123456789ABCDEF"

// GUID is a firmware protocol identifier. Values compare bitwise with ==.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// IsSeparator reports whether offset holds a hyphen in the text form.
func IsSeparator(offset int) bool {
	for _, sep := range SeparatorOffsets {
		if offset == sep {
			return true
		}
	}
	return false
}

// IsHex reports whether c is a hexadecimal digit in either case.
func IsHex(c rune) bool {
	_, ok := hexValue(c)
	return ok
}

// Parse decodes the 36-character text form. Input from the template editor
// is validated again here since pasted and command-line text reaches the same path.
func Parse(s string) (GUID, error) {
	if len(s) != TextLen {
		return GUID{}, fmt.Errorf("%w: length %d, want %d", ErrInvalidFormat, len(s), TextLen)
	}
	for i := 0; i < TextLen; i++ {
		c := rune(s[i])
		if IsSeparator(i) {
			if c != '-' {
				return GUID{}, fmt.Errorf("%w: expected '-' at offset %d", ErrInvalidFormat, i)
			}
			continue
		}
		if !IsHex(c) {
			return GUID{}, fmt.Errorf("%w: non-hex %q at offset %d", ErrInvalidFormat, c, i)
		}
	}

	var g GUID
	g.Data1 = uint32(decodeHex(s[0:8]))
	g.Data2 = uint16(decodeHex(s[9:13]))
	g.Data3 = uint16(decodeHex(s[14:18]))
	g.Data4[0] = byte(decodeHex(s[19:21]))
	g.Data4[1] = byte(decodeHex(s[21:23]))
	for i := 0; i < 6; i++ {
		off := 24 + i*2
		g.Data4[2+i] = byte(decodeHex(s[off : off+2]))
	}
	return g, nil
}

// MustParse is Parse for static tables; it panics on malformed input.
func MustParse(s string) GUID {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

// Format renders g in uppercase 8-4-4-4-12 form. The output always parses.
func Format(g GUID) string {
	buf := make([]byte, 0, TextLen)
	buf = appendHex(buf, uint64(g.Data1), 8)
	buf = append(buf, '-')
	buf = appendHex(buf, uint64(g.Data2), 4)
	buf = append(buf, '-')
	buf = appendHex(buf, uint64(g.Data3), 4)
	buf = append(buf, '-')
	buf = appendHex(buf, uint64(g.Data4[0]), 2)
	buf = appendHex(buf, uint64(g.Data4[1]), 2)
	buf = append(buf, '-')
	for _, b := range g.Data4[2:] {
		buf = appendHex(buf, uint64(b), 2)
	}
	return string(buf)
}

func (g GUID) String() string {
	return Format(g)
}

// IsZero reports whether every field of g is zero.
func (g GUID) IsZero() bool {
	return g == GUID{}
}

// MarshalText implements encoding.TextMarshaler.
func (g GUID) MarshalText() ([]byte, error) {
	return []byte(Format(g)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler with Parse semantics.
func (g *GUID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

func hexValue(c rune) (uint64, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint64(c - '0'), true
	case c >= 'A' && c <= 'F':
		return uint64(c-'A') + 10, true
	case c >= 'a' && c <= 'f':
		return uint64(c-'a') + 10, true
	default:
		return 0, false
	}
}

// decodeHex assumes s was validated by Parse.
func decodeHex(s string) uint64 {
	var v uint64
	for i := 0; i < len(s); i++ {
		d, _ := hexValue(rune(s[i]))
		v = v<<4 | d
	}
	return v
}

func appendHex(buf []byte, v uint64, width int) []byte {
	for shift := (width - 1) * 4; shift >= 0; shift -= 4 {
		buf = append(buf, hexDigits[(v>>uint(shift))&0xF])
	}
	return buf
}
