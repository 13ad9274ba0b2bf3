package xlsx

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var escapeRe = regexp.MustCompile(`_x[0-9A-Fa-f]{4}_`)

// escape encodes characters XML cannot carry as _xHHHH_. Literal text which
// looks like an escape gets its underscore escaped.
func escape(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r < 0x20 && r != '\t' && r != '\n' && r != '\r':
			fmt.Fprintf(&b, "_x%04X_", r)
		case r == '_' && escapeRe.MatchString(s[i:min(len(s), i+7)]):
			b.WriteString("_x005F_")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// unescape is inverse of escape.
func unescape(s string) string {
	if !strings.Contains(s, "_x") {
		return s
	}
	return escapeRe.ReplaceAllStringFunc(s, func(m string) string {
		v, err := strconv.ParseUint(m[2:6], 16, 16)
		if err != nil {
			return m
		}
		return string(rune(v))
	})
}
