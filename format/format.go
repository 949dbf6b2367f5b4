// Package format defines the interface for record repair engines.
package format

import (
	"github.com/lehigh-university-libraries/metafix/rules"
)

// Engine repairs and checks records of one serialization.
type Engine interface {
	// Name returns the format identifier (e.g., "dublincore", "jsonld")
	Name() string

	// Description returns a human-readable format description
	Description() string

	// Extensions returns file extensions associated with this format
	Extensions() []string

	// CanParse returns true if the input looks like this format
	CanParse(peek []byte) bool

	// Repair applies the engine's rules to a record. It never fails: records
	// the engine refuses to touch come back with Unrepairable set.
	Repair(in Input) Outcome

	// Check parses data and returns the parser's error, if any.
	Check(data []byte) error
}

// Input is one record handed to an engine.
type Input struct {
	// RecordID names the record in logs
	RecordID string

	// SourcePath is the file the text was read from; audit entries name it
	// when set, otherwise RecordID
	SourcePath string

	// Text is the raw record text
	Text string

	// Class is the classified diagnostic that triggered the repair
	Class rules.Class
}

// Outcome is the result of applying an engine's rules.
type Outcome struct {
	// Text is the rewritten record, or the input text when nothing applied
	Text string

	// Applied lists the rules that changed the text, in order
	Applied []string

	// Comments lists comments removed from the record
	Comments []Comment

	// Unrepairable is set when the engine declined to correct the record
	Unrepairable *Unrepairable
}

// Changed reports whether any rule rewrote the text.
func (o Outcome) Changed() bool {
	return len(o.Applied) > 0
}

// Comment is an audit entry for a comment stripped from a record.
type Comment struct {
	File string `json:"file"`
	Text string `json:"text"`
}

// Unrepairable explains why an engine left a record for manual review.
type Unrepairable struct {
	Reason      string `json:"reason"`
	Instruction string `json:"instruction"`
}
