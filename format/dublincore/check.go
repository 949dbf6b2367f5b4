package dublincore

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// NamespaceError reports a prefix used outside the scope of any declaration
// binding it. Messages follow libxml2's wording so they classify the same
// way as diagnostics from upstream validators.
type NamespaceError struct {
	Prefix  string
	Attr    string
	Element string
	Line    int
	Column  int
}

func (e *NamespaceError) Error() string {
	if e.Attr != "" {
		return fmt.Sprintf("Namespace prefix %s for %s on %s is not defined, line %d, column %d",
			e.Prefix, e.Attr, e.Element, e.Line, e.Column)
	}
	return fmt.Sprintf("Namespace prefix %s on %s is not defined, line %d, column %d",
		e.Prefix, e.Element, e.Line, e.Column)
}

// Check parses data as namespace-well-formed XML: tags nest, there is one
// root element, and every prefix is declared in scope.
func (f *Format) Check(data []byte) error {
	return Check(data)
}

// Check is the engine-independent form of Format.Check.
func Check(data []byte) error {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.Strict = true

	scopes := []map[string]bool{{"xml": true, "xmlns": true}}
	var open []xml.Name
	roots := 0

	for {
		line, col := d.InputPos()
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(open) == 0 {
				roots++
				if roots > 1 {
					return &xml.SyntaxError{Msg: fmt.Sprintf("extra content at the end of the document: <%s>", qname(t.Name)), Line: line}
				}
			}

			bound := make(map[string]bool)
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" {
					bound[a.Name.Local] = true
				}
			}
			scopes = append(scopes, bound)

			if p := t.Name.Space; p != "" && !isBound(scopes, p) {
				return &NamespaceError{Prefix: p, Element: t.Name.Local, Line: line, Column: col}
			}
			for _, a := range t.Attr {
				if p := a.Name.Space; p != "" && !isBound(scopes, p) {
					return &NamespaceError{Prefix: p, Attr: a.Name.Local, Element: t.Name.Local, Line: line, Column: col}
				}
			}
			open = append(open, t.Name)

		case xml.EndElement:
			if len(open) == 0 {
				return &xml.SyntaxError{Msg: fmt.Sprintf("unexpected end element </%s>", qname(t.Name)), Line: line}
			}
			top := open[len(open)-1]
			if top != t.Name {
				return &xml.SyntaxError{Msg: fmt.Sprintf("element <%s> closed by </%s>", qname(top), qname(t.Name)), Line: line}
			}
			open = open[:len(open)-1]
			scopes = scopes[:len(scopes)-1]

		case xml.CharData:
			if len(open) == 0 && len(bytes.TrimSpace(t)) > 0 {
				return &xml.SyntaxError{Msg: "content is not allowed outside the root element", Line: line}
			}
		}
	}

	line, _ := d.InputPos()
	if len(open) > 0 {
		return &xml.SyntaxError{Msg: fmt.Sprintf("unexpected EOF: <%s> is not closed", qname(open[len(open)-1])), Line: line}
	}
	if roots == 0 {
		return &xml.SyntaxError{Msg: "document has no root element", Line: line}
	}
	return nil
}

func isBound(scopes []map[string]bool, prefix string) bool {
	for i := len(scopes) - 1; i >= 0; i-- {
		if scopes[i][prefix] {
			return true
		}
	}
	return false
}

func qname(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
