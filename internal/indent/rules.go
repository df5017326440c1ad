package indent

import (
	"fmt"
	"strings"

	"github.com/dshills/textform/internal/engine/buffer"
)

// Direction is the opinion a single rule holds about the current line.
type Direction uint8

const (
	None Direction = iota
	Increase
	Decrease
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case None:
		return "none"
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	default:
		return "unknown"
	}
}

// Verdict is the result of evaluating one rule.
// Range is the reference line range the verdict is anchored to.
type Verdict struct {
	Direction Direction
	Range     buffer.Range
}

// Fired reports whether the rule expressed an opinion.
func (v Verdict) Fired() bool {
	return v.Direction != None
}

// Context is the pair of lines a rule is evaluated against.
type Context struct {
	Storage   buffer.Storage
	Reference buffer.Range
	Current   buffer.Range

	referenceText string
	currentText   string
}

// NewContext builds a Context, reading the trimmed text of both lines once.
func NewContext(s buffer.Storage, reference, current buffer.Range) Context {
	return Context{
		Storage:       s,
		Reference:     reference,
		Current:       current,
		referenceText: buffer.TrimmedText(s, reference),
		currentText:   buffer.TrimmedText(s, current),
	}
}

// ReferenceText returns the reference line without surrounding whitespace.
func (c Context) ReferenceText() string {
	return c.referenceText
}

// CurrentText returns the current line without surrounding whitespace.
func (c Context) CurrentText() string {
	return c.currentText
}

func (c Context) verdict(d Direction) Verdict {
	return Verdict{Direction: d, Range: c.Reference}
}

// Rule is a stateless indentation pattern.
//
// The set of rules is closed: the variants in this package are the only
// implementations.
type Rule interface {
	// Evaluate returns the rule's verdict for ctx. It must not mutate storage.
	Evaluate(ctx Context) Verdict

	fmt.Stringer
	rule()
}

// PrecedingLinePrefixIndenter asks for an increase when the reference line
// starts with Prefix.
type PrecedingLinePrefixIndenter struct {
	Prefix string
}

// Evaluate implements Rule.
func (p PrecedingLinePrefixIndenter) Evaluate(ctx Context) Verdict {
	if p.Prefix != "" && strings.HasPrefix(ctx.ReferenceText(), p.Prefix) {
		return ctx.verdict(Increase)
	}
	return Verdict{}
}

func (p PrecedingLinePrefixIndenter) String() string {
	return fmt.Sprintf("preceding-prefix(%q)", p.Prefix)
}

func (PrecedingLinePrefixIndenter) rule() {}

// PrecedingLineSuffixIndenter asks for an increase when the reference line
// ends with Suffix.
type PrecedingLineSuffixIndenter struct {
	Suffix string
}

// Evaluate implements Rule.
func (p PrecedingLineSuffixIndenter) Evaluate(ctx Context) Verdict {
	if p.Suffix != "" && strings.HasSuffix(ctx.ReferenceText(), p.Suffix) {
		return ctx.verdict(Increase)
	}
	return Verdict{}
}

func (p PrecedingLineSuffixIndenter) String() string {
	return fmt.Sprintf("preceding-suffix(%q)", p.Suffix)
}

func (PrecedingLineSuffixIndenter) rule() {}

// CurrentLinePrefixOutdenter asks for a decrease when the current line starts
// with Prefix. If Exclude is set and reports true for the reference line the
// rule stays silent, so a line that was already outdented does not pull the
// next one further left.
type CurrentLinePrefixOutdenter struct {
	Prefix  string
	Exclude LinePredicate
}

// Evaluate implements Rule.
func (c CurrentLinePrefixOutdenter) Evaluate(ctx Context) Verdict {
	if c.Prefix == "" || !strings.HasPrefix(ctx.CurrentText(), c.Prefix) {
		return Verdict{}
	}
	if c.Exclude != nil && c.Exclude(ctx.Storage, ctx.Reference) {
		return Verdict{}
	}
	return ctx.verdict(Decrease)
}

func (c CurrentLinePrefixOutdenter) String() string {
	if c.Exclude != nil {
		return fmt.Sprintf("current-prefix(%q, conditional)", c.Prefix)
	}
	return fmt.Sprintf("current-prefix(%q)", c.Prefix)
}

func (CurrentLinePrefixOutdenter) rule() {}

// DefaultRules returns the bracket rules used when no rules are configured:
// lines ending in an opener indent the next line, and lines starting with a
// closer are outdented.
func DefaultRules() []Rule {
	return []Rule{
		PrecedingLineSuffixIndenter{Suffix: "{"},
		PrecedingLineSuffixIndenter{Suffix: "["},
		PrecedingLineSuffixIndenter{Suffix: "("},
		CurrentLinePrefixOutdenter{Prefix: "}"},
		CurrentLinePrefixOutdenter{Prefix: "]"},
		CurrentLinePrefixOutdenter{Prefix: ")"},
	}
}

// BracketRules returns an indenter and an outdenter for each open/close pair.
func BracketRules(pairs ...[2]string) []Rule {
	rules := make([]Rule, 0, len(pairs)*2)
	for _, pair := range pairs {
		rules = append(rules, PrecedingLineSuffixIndenter{Suffix: pair[0]})
	}
	for _, pair := range pairs {
		rules = append(rules, CurrentLinePrefixOutdenter{Prefix: pair[1]})
	}
	return rules
}

// resolve evaluates every rule and applies the precedence policy.
func resolve(ctx Context, rules []Rule) Kind {
	var increase, decrease bool
	for _, r := range rules {
		switch r.Evaluate(ctx).Direction {
		case Increase:
			increase = true
		case Decrease:
			decrease = true
		}
	}

	switch {
	case increase && decrease:
		return Equal
	case increase:
		return RelativeIncrease
	case decrease:
		return RelativeDecrease
	default:
		return Equal
	}
}
