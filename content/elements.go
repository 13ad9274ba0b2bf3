package content

import (
	"slices"
	"strings"

	"github.com/beevik/etree"
)

// Classes returns element classes.
func Classes(e *etree.Element) []string {
	return strings.Fields(e.SelectAttrValue("class", ""))
}

// HasClass reports whether element has the class.
func HasClass(e *etree.Element, class string) bool {
	return slices.Contains(Classes(e), class)
}

// AddClass adds class when element does not have it yet.
func AddClass(e *etree.Element, class string) {
	classes := Classes(e)
	if slices.Contains(classes, class) {
		return
	}
	e.CreateAttr("class", strings.Join(append(classes, class), " "))
}

// RemoveClass removes class, attribute is dropped when nothing is left.
func RemoveClass(e *etree.Element, class string) {
	classes := Classes(e)
	if !slices.Contains(classes, class) {
		return
	}
	classes = slices.DeleteFunc(classes, func(c string) bool { return c == class })
	if len(classes) == 0 {
		e.RemoveAttr("class")
		return
	}
	e.CreateAttr("class", strings.Join(classes, " "))
}

// SetAttr sets attribute value.
func SetAttr(e *etree.Element, key, value string) {
	e.CreateAttr(key, value)
}

// Lang returns lang attribute.
func Lang(e *etree.Element) string {
	return e.SelectAttrValue("lang", "")
}

// FindAll returns descendants of the element matching predicate in document
// order.
func FindAll(e *etree.Element, match func(*etree.Element) bool) []*etree.Element {
	var found []*etree.Element
	walk(e, func(c *etree.Element) bool {
		if match(c) {
			found = append(found, c)
		}
		return true
	})
	return found
}

// FindFirst returns first descendant matching predicate or nil.
func FindFirst(e *etree.Element, match func(*etree.Element) bool) *etree.Element {
	var found *etree.Element
	walk(e, func(c *etree.Element) bool {
		if match(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

func walk(e *etree.Element, visit func(*etree.Element) bool) bool {
	if e == nil {
		return true
	}
	for _, c := range e.ChildElements() {
		if !visit(c) || !walk(c, visit) {
			return false
		}
	}
	return true
}

// Ancestor returns nearest ancestor matching predicate or nil.
func Ancestor(e *etree.Element, match func(*etree.Element) bool) *etree.Element {
	for p := e.Parent(); p != nil; p = p.Parent() {
		if match(p) {
			return p
		}
	}
	return nil
}

// InnerXML serializes element children. Empty elements other than void ones
// get explicit end tags, so result reads back the same as HTML.
func InnerXML(e *etree.Element) string {
	var b strings.Builder
	ws := etree.WriteSettings{CanonicalText: true, CanonicalAttrVal: true}
	e = e.Copy()
	closeEmptyElements(e)
	for _, c := range e.Child {
		c.WriteTo(&b, &ws)
	}
	return b.String()
}

// SetInnerXML replaces element children with parsed fragment. Fragment which
// is not well formed is stored as text and false is returned.
func SetInnerXML(e *etree.Element, fragment string) bool {
	for len(e.Child) > 0 {
		e.RemoveChildAt(0)
	}
	doc := newTree()
	doc.ReadSettings.Permissive = false
	doc.ReadSettings.AutoClose = nil
	if err := doc.ReadFromString("<fragment>" + fragment + "</fragment>"); err != nil {
		e.SetText(fragment)
		return false
	}
	root := doc.Root()
	for len(root.Child) > 0 {
		e.AddChild(root.Child[0])
	}
	return true
}

// TextContent returns concatenated text of all descendants.
func TextContent(e *etree.Element) string {
	var b strings.Builder
	textContent(&b, e)
	return b.String()
}

func textContent(b *strings.Builder, e *etree.Element) {
	for _, c := range e.Child {
		switch t := c.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			textContent(b, t)
		}
	}
}

// Unwrap replaces element with its children.
func Unwrap(e *etree.Element) {
	parent := e.Parent()
	if parent == nil {
		return
	}
	at := e.Index()
	parent.RemoveChildAt(at)
	for i := len(e.Child) - 1; i >= 0; i-- {
		parent.InsertChildAt(at, e.Child[i])
	}
}
