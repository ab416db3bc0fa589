package transform

import (
	"math/big"
	"strings"

	"dahu/internal/errors"
)

// ParseTruthTable reads a truth table of l variables, first point first.
// Two forms are accepted: a "0x" prefixed hexadecimal number whose binary
// expansion, left-padded with zeros to 2^l bits, is the table; or a string of
// exactly 2^l characters '0' and '1'.
func ParseTruthTable(s string, l int) ([]uint8, error) {
	if err := CheckLocality(l); err != nil {
		return nil, err
	}
	n := 1 << l
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		out := make([]uint8, 0, len(s))
		for i, c := range s {
			if c != '0' && c != '1' {
				return nil, errors.InvalidArgument("truth table", "character %d is %q, want 0 or 1", i, c)
			}
			out = append(out, uint8(c-'0'))
		}
		if err := CheckLength("truth table", len(out), n); err != nil {
			return nil, err
		}
		return out, nil
	}

	digits := s[2:]
	v, ok := new(big.Int).SetString(digits, 16)
	if !ok || strings.ContainsAny(digits, "+-_") {
		return nil, errors.InvalidArgument("truth table", "%q is not hexadecimal", digits)
	}
	if v.BitLen() > n {
		return nil, errors.InvalidArgument("truth table", "more than %d significant bits", n)
	}
	out := make([]uint8, n)
	for p := range out {
		out[p] = uint8(v.Bit(n - 1 - p))
	}
	return out, nil
}

// FormatHex renders tt as a "0x" prefixed hexadecimal number, the inverse of
// ParseTruthTable. Leading zero digits are kept so the width is fixed.
func FormatHex(tt []uint8) string {
	v := new(big.Int)
	for p, b := range tt {
		v.SetBit(v, len(tt)-1-p, uint(b&1))
	}
	width := (len(tt) + 3) / 4
	text := v.Text(16)
	if len(text) < width {
		text = strings.Repeat("0", width-len(text)) + text
	}
	return "0x" + text
}
