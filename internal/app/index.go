package app

import "math"

// ParseIndex reads an operator-typed handle index. Leading spaces are
// skipped. A "0x" prefix, or any hex letter in the text, selects base 16;
// otherwise base 10. Parsing stops at the first character that is not a
// digit of the chosen base, so empty or garbage input reads as 0. Values
// past the uint64 range saturate.
func ParseIndex(s string) uint64 {
	i := 0
	for i < len(s) && s[i] == ' ' {
		i++
	}
	s = s[i:]
	if s == "" {
		return 0
	}

	base := uint64(10)
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	} else {
		for j := 0; j < len(s); j++ {
			if isHexLetter(s[j]) {
				base = 16
				break
			}
		}
	}

	var value uint64
	for j := 0; j < len(s); j++ {
		digit, ok := digitValue(s[j], base)
		if !ok {
			break
		}
		if value > (math.MaxUint64-digit)/base {
			return math.MaxUint64
		}
		value = value*base + digit
	}
	return value
}

func isHexLetter(c byte) bool {
	return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func digitValue(c byte, base uint64) (uint64, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint64(c - '0'), true
	case base == 16 && c >= 'a' && c <= 'f':
		return uint64(c-'a') + 10, true
	case base == 16 && c >= 'A' && c <= 'F':
		return uint64(c-'A') + 10, true
	}
	return 0, false
}

// ordinal narrows a parsed index to an int; values that do not fit map to
// -1, which every snapshot rejects as out of range.
func ordinal(v uint64) int {
	if v > math.MaxInt {
		return -1
	}
	return int(v)
}
