package message

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Line - builds message text from a single inbound line framed by bufio.ScanLines.
// Invalid unicode sequences and control characters (CR and LF included) are dropped,
// tab is kept as is.
func Line(p []byte) string {
	if utf8.Valid(p) && bytes.IndexFunc(p, isDropped) < 0 {
		return string(p)
	}

	b := strings.Builder{}
	b.Grow(len(p))
	for len(p) > 0 {
		r, size := utf8.DecodeRune(p)
		p = p[size:]
		if r == utf8.RuneError && size <= 1 {
			// invalid sequence
			continue
		}
		if isDropped(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isDropped(r rune) bool {
	return r != '\t' && unicode.IsControl(r)
}
