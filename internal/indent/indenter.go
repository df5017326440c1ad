package indent

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dshills/textform/internal/engine/buffer"
)

// ErrUnableToComputeReferenceRange is returned when no line before the
// location qualifies as a reference. This is the expected outcome for the
// first line of a document; callers should fall back to zero indentation.
var ErrUnableToComputeReferenceRange = errors.New("unable to compute reference range")

// Kind classifies an indentation result.
type Kind uint8

const (
	Equal Kind = iota
	RelativeIncrease
	RelativeDecrease
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Equal:
		return "equal"
	case RelativeIncrease:
		return "relativeIncrease"
	case RelativeDecrease:
		return "relativeDecrease"
	default:
		return "unknown"
	}
}

// Indentation is the outcome of ComputeIndentation.
// Range is the reference line's content range; its leading whitespace is the
// baseline the result is relative to.
type Indentation struct {
	Kind  Kind
	Range buffer.Range
}

// String returns a human-readable representation of the result.
func (i Indentation) String() string {
	return fmt.Sprintf("%s%s", i.Kind, i.Range)
}

// Indenter computes indentation from a reference line and a fixed rule set.
// An Indenter is immutable after construction and safe for concurrent use.
type Indenter struct {
	rules     []Rule
	predicate LinePredicate
	logger    *slog.Logger
}

// Option configures an Indenter.
type Option func(*Indenter)

// WithRules replaces the default rules. Calling it with no rules yields a
// pure propagation indenter that always reports Equal.
func WithRules(rules ...Rule) Option {
	return func(i *Indenter) {
		i.rules = slices.Clone(rules)
		if i.rules == nil {
			i.rules = []Rule{}
		}
	}
}

// WithReferencePredicate sets the predicate reference lines must satisfy.
func WithReferencePredicate(p LinePredicate) Option {
	return func(i *Indenter) {
		if p != nil {
			i.predicate = p
		}
	}
}

// WithLogger sets the logger used for decision tracing.
func WithLogger(l *slog.Logger) Option {
	return func(i *Indenter) {
		if l != nil {
			i.logger = l
		}
	}
}

// New creates an Indenter. Without options it uses DefaultRules and accepts
// any non-empty line as a reference.
func New(opts ...Option) *Indenter {
	i := &Indenter{
		rules:     DefaultRules(),
		predicate: NonEmptyLine,
		logger:    slog.Default().With("component", "indenter"),
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Rules returns a copy of the configured rules.
func (i *Indenter) Rules() []Rule {
	return slices.Clone(i.rules)
}

// ComputeIndentation determines the indentation of the line containing loc.
func (i *Indenter) ComputeIndentation(loc buffer.Location, s buffer.Storage) (Indentation, error) {
	current, reference, err := i.referenceLine(loc, s)
	if err != nil {
		return Indentation{}, err
	}

	kind := resolve(NewContext(s, reference, current), i.rules)

	i.logger.Debug("computed indentation",
		"location", loc,
		"current", current.String(),
		"reference", reference.String(),
		"kind", kind.String())

	return Indentation{Kind: kind, Range: reference}, nil
}

// referenceLine finds the line containing loc and the nearest preceding line
// accepted by the reference predicate.
func (i *Indenter) referenceLine(loc buffer.Location, s buffer.Storage) (current, reference buffer.Range, err error) {
	current, ok := s.LineRange(loc)
	if !ok {
		return buffer.Range{}, buffer.Range{}, ErrUnableToComputeReferenceRange
	}

	pos := current.Start
	for pos > 0 {
		line, ok := s.LineRange(pos - 1)
		if !ok || line.Start >= pos {
			break
		}
		if i.predicate(s, line) {
			return current, line, nil
		}
		pos = line.Start
	}

	return buffer.Range{}, buffer.Range{}, ErrUnableToComputeReferenceRange
}

// ComputeIndentationString computes the indentation for the line containing
// r.Start and renders it as whitespace. When no reference line exists the
// result is the empty string.
func (i *Indenter) ComputeIndentationString(r buffer.Range, s buffer.Storage, unit string, width int) string {
	result, err := i.ComputeIndentation(r.Start, s)
	if err != nil {
		return ""
	}

	text, err := Render(result, s, unit, width)
	if err != nil {
		i.logger.Debug("rendering indentation failed", "range", r.String(), "error", err)
		return ""
	}
	return text
}
