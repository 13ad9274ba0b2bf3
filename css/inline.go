// Package css reads inline style declarations of book elements.
package css

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Declaration is single "property: value" pair of a style attribute.
type Declaration struct {
	Property string
	Value    string
}

// Declarations keeps inline declarations in source order.
type Declarations []Declaration

// ParseInline parses value of style attribute. Malformed declarations are
// skipped, property names are lowercased.
func ParseInline(style string) Declarations {
	var decls Declarations
	if strings.TrimSpace(style) == "" {
		return decls
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader([]byte(style))), true)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return decls
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			var value strings.Builder
			for _, v := range parser.Values() {
				value.Write(v.Data)
			}
			decls = append(decls, Declaration{
				Property: strings.ToLower(string(data)),
				Value:    strings.TrimSpace(value.String()),
			})
		}
	}
}

// Get returns value of the last declaration for property, the one which wins.
func (d Declarations) Get(property string) (string, bool) {
	property = strings.ToLower(property)
	for i := len(d) - 1; i >= 0; i-- {
		if d[i].Property == property {
			return d[i].Value, true
		}
	}
	return "", false
}

// String formats declarations the way editor writes them: "a:b; c:d;".
func (d Declarations) String() string {
	var b strings.Builder
	for i, decl := range d {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(decl.Property)
		b.WriteByte(':')
		b.WriteString(decl.Value)
		b.WriteByte(';')
	}
	return b.String()
}

// Color extracts text color from style attribute value. Hex colors are
// normalized to lower case.
func Color(style string) string {
	c, ok := ParseInline(style).Get("color")
	if !ok {
		return ""
	}
	if strings.HasPrefix(c, "#") {
		return strings.ToLower(c)
	}
	return c
}

// ColorStyle is inverse of Color, it produces style attribute value for a span.
func ColorStyle(color string) string {
	return Declarations{{Property: "color", Value: color}}.String()
}

// BackgroundImage returns url of background-image declaration, empty when
// there is none.
func BackgroundImage(style string) string {
	v, ok := ParseInline(style).Get("background-image")
	if !ok {
		return ""
	}
	_, rest, ok := strings.Cut(v, "url(")
	if !ok {
		return ""
	}
	rest, _, _ = strings.Cut(rest, ")")
	return strings.Trim(strings.TrimSpace(rest), `'"`)
}
