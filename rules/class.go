package rules

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Class is a diagnostic class with a known repair.
type Class int

const (
	// Unclassified diagnostics have no repair rule and go straight to
	// validation.
	Unclassified Class = iota
	// MissingDCNamespace covers undefined dc or dcterms prefixes.
	MissingDCNamespace
	// MalformedRDFDescriptionAbout covers an undefined rdf prefix on the
	// about attribute of an rdf:Description element.
	MalformedRDFDescriptionAbout
)

var classNames = map[Class]string{
	Unclassified:                 "unclassified",
	MissingDCNamespace:           "missing_dc_namespace",
	MalformedRDFDescriptionAbout: "malformed_rdf_description_about",
}

// Classes lists every class in declaration order.
func Classes() []Class {
	return []Class{Unclassified, MissingDCNamespace, MalformedRDFDescriptionAbout}
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// ParseClass converts a class name to a Class.
func ParseClass(s string) (Class, error) {
	for c, name := range classNames {
		if name == s {
			return c, nil
		}
	}
	return Unclassified, fmt.Errorf("unknown diagnostic class: %s", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Class) UnmarshalText(text []byte) error {
	parsed, err := ParseClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Class) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return c.UnmarshalText([]byte(s))
}
