// Package helpers provides text utilities shared by the repair engines.
package helpers

import (
	"regexp"
	"strings"
)

var (
	// Quote patterns. A doubled token must start with a token character so
	// adjacent empty values ("", "" or x="">) are not mistaken for one.
	quoteRunRegex     = regexp.MustCompile(`"{3,}`)
	doubledTokenRegex = regexp.MustCompile(`""([^",:\[\]{}<>/=\s][^"\r\n]*?)""`)

	// XML declaration at the very start of a document, with its line break
	prologRegex = regexp.MustCompile(`^\s*<\?xml[^>]*\?>[ \t]*(?:\r?\n)?`)

	// Closing tag that ends the text, ignoring trailing whitespace
	trailingCloseRegex = regexp.MustCompile(`</\s*([A-Za-z_][\w.\-]*(?::[A-Za-z_][\w.\-]*)?)\s*>\s*$`)
)

// CollapseQuotes undoes doubled quoting: runs of three or more double
// quotes become one, and a doubled-quoted token such as ""title"" becomes
// "title". An empty pair ("") is a valid empty value and is kept. Applying
// it twice yields the same text.
func CollapseQuotes(s string) string {
	if !strings.Contains(s, `""`) {
		return s
	}
	s = quoteRunRegex.ReplaceAllString(s, `"`)
	return doubledTokenRegex.ReplaceAllString(s, `"$1"`)
}

// HasDoubledQuoting reports whether a token is wrapped in doubled quotes,
// e.g. ""title"": ""Example"".
func HasDoubledQuoting(s string) bool {
	return doubledTokenRegex.MatchString(s)
}

// SplitProlog separates a leading XML declaration from the rest of the text.
// The prolog keeps its trailing line break.
func SplitProlog(s string) (prolog, rest string) {
	loc := prologRegex.FindStringIndex(s)
	if loc == nil {
		return "", s
	}
	return s[:loc[1]], s[loc[1]:]
}

// Tag locates a tag in a text by byte offsets.
type Tag struct {
	Name  string
	Start int
	End   int
}

// Text returns the tag's source text.
func (t Tag) Text(s string) string {
	return s[t.Start:t.End]
}

// LastClosingTag finds a closing tag at the end of the text.
func LastClosingTag(s string) (Tag, bool) {
	m := trailingCloseRegex.FindStringSubmatchIndex(s)
	if m == nil {
		return Tag{}, false
	}
	// m[1] includes trailing whitespace; end the tag at its '>'.
	end := m[0] + strings.IndexByte(s[m[0]:], '>') + 1
	return Tag{Name: s[m[2]:m[3]], Start: m[0], End: end}, true
}

// FirstOpeningTag finds the first opening (not self-closing) tag named name
// that starts before limit.
func FirstOpeningTag(s, name string, limit int) (Tag, bool) {
	re, err := regexp.Compile(`<` + regexp.QuoteMeta(name) + `(?:\s[^>]*)?>`)
	if err != nil {
		return Tag{}, false
	}
	if limit > len(s) {
		limit = len(s)
	}
	for _, loc := range re.FindAllStringIndex(s[:limit], -1) {
		if s[loc[1]-2] == '/' {
			continue
		}
		return Tag{Name: name, Start: loc[0], End: loc[1]}, true
	}
	return Tag{}, false
}

// Prefix returns the namespace prefix of a qualified name, or "".
func Prefix(name string) string {
	if i := strings.IndexByte(name, ':'); i > 0 {
		return name[:i]
	}
	return ""
}
