package css

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"golang.org/x/image/colornames"
)

// SheetColor converts CSS color value to spreadsheet font color "RRGGBB".
// Spreadsheet fonts have no notion of named or functional colors, so hex,
// named (SVG list), rgb() and rgba() values are resolved here. Alpha is
// dropped. Values which cannot be resolved are reported with false.
func SheetColor(value string) (string, bool) {
	l := css.NewLexer(parse.NewInputString(strings.TrimSpace(value)))
	tt, data := l.Next()
	for tt == css.WhitespaceToken {
		tt, data = l.Next()
	}
	switch tt {
	case css.HashToken:
		return hexColor(string(data[1:]))
	case css.IdentToken:
		c, ok := colornames.Map[strings.ToLower(string(data))]
		if !ok {
			return "", false
		}
		return rgbHex(c), true
	case css.FunctionToken:
		name := strings.ToLower(string(data))
		if name != "rgb(" && name != "rgba(" {
			return "", false
		}
		return rgbFunction(l)
	}
	return "", false
}

func hexColor(hex string) (string, bool) {
	switch len(hex) {
	case 3, 4:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	case 8:
		hex = hex[:6]
	default:
		return "", false
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return "", false
	}
	return strings.ToUpper(hex), true
}

func rgbHex(c color.RGBA) string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// rgbFunction reads arguments of rgb() after the function token. Both comma
// and space separated forms are accepted.
func rgbFunction(l *css.Lexer) (string, bool) {
	var channels []uint8
	for {
		tt, data := l.Next()
		switch tt {
		case css.WhitespaceToken, css.CommaToken:
			continue
		case css.DelimToken:
			// "/" in front of alpha in space separated syntax
			if len(channels) == 3 {
				continue
			}
			return "", false
		case css.NumberToken, css.PercentageToken:
			if len(channels) == 3 {
				// alpha
				continue
			}
			v, ok := channel(tt, data)
			if !ok {
				return "", false
			}
			channels = append(channels, v)
		case css.RightParenthesisToken, css.ErrorToken:
			if len(channels) != 3 {
				return "", false
			}
			return rgbHex(color.RGBA{R: channels[0], G: channels[1], B: channels[2]}), true
		default:
			return "", false
		}
	}
}

func channel(tt css.TokenType, data []byte) (uint8, bool) {
	s := string(data)
	scale := 1.0
	if tt == css.PercentageToken {
		s, scale = strings.TrimSuffix(s, "%"), 2.55
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	v *= scale
	if v < 0 || v > 255.5 {
		return 0, false
	}
	return uint8(v + 0.5), true
}

// FromSheetColor converts spreadsheet font color, "RRGGBB" or "AARRGGBB",
// to CSS hex color.
func FromSheetColor(rgb string) string {
	rgb = strings.TrimPrefix(rgb, "#")
	if len(rgb) == 8 {
		rgb = rgb[2:]
	}
	if len(rgb) != 6 {
		return ""
	}
	if _, err := strconv.ParseUint(rgb, 16, 32); err != nil {
		return ""
	}
	return "#" + strings.ToLower(rgb)
}
