package jsonld

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lehigh-university-libraries/metafix/format"
	"github.com/lehigh-university-libraries/metafix/helpers"
)

// Rule names reported in Outcome.Applied.
const (
	RuleStripComments  = "strip_comments"
	RuleCollapseQuotes = "collapse_quotes"
	RuleCloseBrace     = "close_brace"
)

// ManualReview is the instruction attached to records the engine will not
// correct.
const ManualReview = "manual review required: only a single missing closing brace is repaired automatically"

// Block, line and shell comments that open a line, after optional
// indentation. One alternation keeps matches in document order and lets a
// block comment swallow any // or # it contains.
var commentRegex = regexp.MustCompile(`(?m)^[ \t]*(/\*[\s\S]*?\*/|//[^\r\n]*|#[^\r\n]*)`)

// BraceBalance counts curly braces in a record.
type BraceBalance struct {
	Open  int `json:"open"`
	Close int `json:"close"`
}

// CountBraces counts every '{' and '}' in text, quoted or not.
func CountBraces(text string) BraceBalance {
	return BraceBalance{
		Open:  strings.Count(text, "{"),
		Close: strings.Count(text, "}"),
	}
}

// Balanced reports whether open and close counts match.
func (b BraceBalance) Balanced() bool {
	return b.Open == b.Close
}

// Repairable reports whether exactly one closing brace is missing.
func (b BraceBalance) Repairable() bool {
	return b.Open == b.Close+1
}

func (b BraceBalance) String() string {
	return fmt.Sprintf("%d open, %d close", b.Open, b.Close)
}

// StripComments removes comments from text and returns one audit entry per
// removed comment, in document order.
func StripComments(file, text string) (string, []format.Comment) {
	matches := commentRegex.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	comments := make([]format.Comment, 0, len(matches))
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		comments = append(comments, format.Comment{
			File: file,
			Text: text[m[2]:m[3]],
		})
		last = m[1]
	}
	b.WriteString(text[last:])

	return b.String(), comments
}

// CollapseDoubledQuotes collapses doubled quoting, but only when a doubled
// quoted token is present; lone "" pairs are valid empty strings.
func CollapseDoubledQuotes(text string) string {
	if !helpers.HasDoubledQuoting(text) {
		return text
	}
	return helpers.CollapseQuotes(text)
}

// CloseBrace appends the one closing brace a truncated record is missing.
// Any other imbalance is left untouched.
func CloseBrace(text string) (string, BraceBalance) {
	bal := CountBraces(text)
	if !bal.Repairable() {
		return text, bal
	}
	return text + "}\n", bal
}

// Repair strips comments, normalizes doubled quoting and closes a single
// missing brace. Records with any other brace imbalance are returned with
// Unrepairable set and no brace changes.
func (f *Format) Repair(in format.Input) format.Outcome {
	out := format.Outcome{Text: in.Text}

	file := in.SourcePath
	if file == "" {
		file = in.RecordID
	}
	text, comments := StripComments(file, out.Text)
	if len(comments) > 0 {
		out.Applied = append(out.Applied, RuleStripComments)
		out.Comments = comments
		out.Text = text
	}

	if next := CollapseDoubledQuotes(out.Text); next != out.Text {
		out.Applied = append(out.Applied, RuleCollapseQuotes)
		out.Text = next
	}

	next, bal := CloseBrace(out.Text)
	switch {
	case bal.Balanced():
	case bal.Repairable():
		out.Applied = append(out.Applied, RuleCloseBrace)
		out.Text = next
	default:
		out.Unrepairable = &format.Unrepairable{
			Reason:      "unbalanced braces: " + bal.String(),
			Instruction: ManualReview,
		}
	}

	return out
}
