// Package rules classifies validator diagnostics into repair classes.
//
// A diagnostic message is classified once, when a record enters the
// pipeline. Repair engines then switch over the resulting Class instead of
// re-inspecting the message text. Rules are ordered by priority and the
// first match wins, so the more specific patterns (an undefined rdf prefix
// on a Description attribute) must outrank the broader ones.
package rules

import (
	"embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed classes/*.yaml
var embeddedRules embed.FS

// Field names available to conditions.
const (
	FieldMessage = "message"
	FieldFormat  = "format"
)

// RuleSet contains the classification rules for a batch.
type RuleSet struct {
	// Name identifies this rule set
	Name string `yaml:"name" json:"name"`

	// Description documents what these rules are for
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Rules is the list of classification rules
	Rules []Rule `yaml:"rules" json:"rules"`
}

// Rule defines a single conditional classification.
type Rule struct {
	// Name identifies this rule for debugging/logging
	Name string `yaml:"name" json:"name"`

	// Description documents what this rule does
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Priority determines rule evaluation order (higher = first). Default is 0.
	Priority int `yaml:"priority,omitempty" json:"priority,omitempty"`

	// When defines the conditions that must be met for this rule to apply
	When Condition `yaml:"when" json:"when"`

	// Class is assigned when the conditions are met
	Class Class `yaml:"class" json:"class"`
}

// Condition defines when a rule should be applied.
type Condition struct {
	// Field is the diagnostic field to check ("message" or "format")
	Field string `yaml:"field,omitempty" json:"field,omitempty"`

	// Equals matches exact value
	Equals string `yaml:"equals,omitempty" json:"equals,omitempty"`

	// Contains matches if the field contains this substring
	Contains string `yaml:"contains,omitempty" json:"contains,omitempty"`

	// Matches is a regex pattern to match against
	Matches string `yaml:"matches,omitempty" json:"matches,omitempty"`

	// In matches if the field value is in this list
	In []string `yaml:"in,omitempty" json:"in,omitempty"`

	// All requires all sub-conditions to match (AND)
	All []Condition `yaml:"all,omitempty" json:"all,omitempty"`

	// Any requires at least one sub-condition to match (OR)
	Any []Condition `yaml:"any,omitempty" json:"any,omitempty"`

	// Not inverts the sub-condition
	Not *Condition `yaml:"not,omitempty" json:"not,omitempty"`

	re *regexp.Regexp
}

// Match holds the outcome of classifying one diagnostic.
type Match struct {
	Class    Class
	RuleName string
}

// Classifier evaluates a compiled rule set.
type Classifier struct {
	name  string
	rules []Rule
}

// NewClassifier compiles a rule set. Regex patterns are compiled up front so
// a bad pattern fails at load time rather than silently never matching.
func NewClassifier(rs *RuleSet) (*Classifier, error) {
	rules := make([]Rule, len(rs.Rules))
	copy(rules, rs.Rules)

	for i := range rules {
		if rules[i].Class == Unclassified {
			return nil, fmt.Errorf("rule %q: class is required", rules[i].Name)
		}
		if err := rules[i].When.compile(); err != nil {
			return nil, fmt.Errorf("rule %q: %w", rules[i].Name, err)
		}
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})

	return &Classifier{name: rs.Name, rules: rules}, nil
}

// Name returns the name of the underlying rule set.
func (c *Classifier) Name() string {
	return c.name
}

// Rules returns the compiled rules in evaluation order.
func (c *Classifier) Rules() []Rule {
	return c.rules
}

// Classify returns the class of a diagnostic message for a format. Messages
// that match no rule are Unclassified.
func (c *Classifier) Classify(message, format string) Match {
	fieldValues := map[string]string{
		FieldMessage: message,
		FieldFormat:  format,
	}

	for _, rule := range c.rules {
		if rule.When.Evaluate(fieldValues) {
			return Match{Class: rule.Class, RuleName: rule.Name}
		}
	}

	return Match{Class: Unclassified}
}

func (c *Condition) compile() error {
	if c.Matches != "" {
		re, err := regexp.Compile(c.Matches)
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", c.Matches, err)
		}
		c.re = re
	}
	for i := range c.All {
		if err := c.All[i].compile(); err != nil {
			return err
		}
	}
	for i := range c.Any {
		if err := c.Any[i].compile(); err != nil {
			return err
		}
	}
	if c.Not != nil {
		return c.Not.compile()
	}
	return nil
}

// Evaluate checks if the condition matches the given field values.
func (c *Condition) Evaluate(fieldValues map[string]string) bool {
	if len(c.All) > 0 {
		for i := range c.All {
			if !c.All[i].Evaluate(fieldValues) {
				return false
			}
		}
		return true
	}

	if len(c.Any) > 0 {
		for i := range c.Any {
			if c.Any[i].Evaluate(fieldValues) {
				return true
			}
		}
		return false
	}

	if c.Not != nil {
		return !c.Not.Evaluate(fieldValues)
	}

	if c.Field == "" {
		return true
	}

	value, exists := fieldValues[c.Field]
	if !exists {
		return false
	}

	if c.Equals != "" {
		return strings.EqualFold(value, c.Equals)
	}

	// Contains is case sensitive: validator messages quote prefixes verbatim
	// and "dc" must not match "DC".
	if c.Contains != "" {
		return strings.Contains(value, c.Contains)
	}

	if c.Matches != "" {
		re := c.re
		if re == nil {
			var err error
			if re, err = regexp.Compile(c.Matches); err != nil {
				return false
			}
		}
		return re.MatchString(value)
	}

	if len(c.In) > 0 {
		for _, v := range c.In {
			if strings.EqualFold(value, v) {
				return true
			}
		}
		return false
	}

	return true
}

// DefaultRuleSet returns the embedded classification rules.
func DefaultRuleSet() (*RuleSet, error) {
	data, err := embeddedRules.ReadFile("classes/default.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded rules: %w", err)
	}
	return LoadRuleSetFromBytes(data)
}

// DefaultClassifier compiles the embedded rule set.
func DefaultClassifier() (*Classifier, error) {
	rs, err := DefaultRuleSet()
	if err != nil {
		return nil, err
	}
	return NewClassifier(rs)
}

// LoadRuleSet loads a rule set from a YAML file.
func LoadRuleSet(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	return LoadRuleSetFromBytes(data)
}

// LoadRuleSetFromBytes loads a rule set from YAML bytes.
func LoadRuleSetFromBytes(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parsing rules YAML: %w", err)
	}
	return &rs, nil
}
