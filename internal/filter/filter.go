// Package filter runs text mutations through an ordered chain of stages
// before they reach storage.
//
// Each stage inspects a mutation and either lets it continue down the chain
// or reports that it has fully handled it. A stage that returns Discard has
// already made whatever buffer changes it wanted; the pipeline then skips the
// remaining stages and does not apply the original mutation.
package filter

import (
	"fmt"
	"log/slog"

	"github.com/dshills/textform/internal/engine/buffer"
)

// Action is a stage's decision about a mutation.
type Action uint8

const (
	// Continue passes the mutation to the next stage.
	Continue Action = iota
	// Discard stops the pipeline; the stage handled the mutation itself.
	Discard
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case Continue:
		return "continue"
	case Discard:
		return "discard"
	default:
		return "unknown"
	}
}

// Filter is one stage of a mutation pipeline.
type Filter interface {
	// ProcessMutation inspects m before it is applied to s.
	ProcessMutation(m buffer.Mutation, s buffer.Storage) (Action, error)
}

// Func adapts a function to the Filter interface.
type Func func(m buffer.Mutation, s buffer.Storage) (Action, error)

// ProcessMutation implements Filter.
func (f Func) ProcessMutation(m buffer.Mutation, s buffer.Storage) (Action, error) {
	if f == nil {
		return Continue, nil
	}
	return f(m, s)
}

// Pipeline applies mutations through an ordered list of filters.
// The filter list is fixed at construction.
type Pipeline struct {
	filters []Filter
	logger  *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithPipelineLogger sets the pipeline's logger.
func WithPipelineLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPipeline creates a pipeline running filters in order.
func NewPipeline(filters []Filter, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		filters: append([]Filter(nil), filters...),
		logger:  slog.Default().With("component", "filter-pipeline"),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Len returns the number of filters.
func (p *Pipeline) Len() int {
	return len(p.filters)
}

// Apply runs m through the filters and, unless one of them discards it,
// applies it to s.
func (p *Pipeline) Apply(m buffer.Mutation, s buffer.Storage) error {
	for i, f := range p.filters {
		action, err := f.ProcessMutation(m, s)
		if err != nil {
			return fmt.Errorf("filter %d on %s: %w", i, m, err)
		}
		if action == Discard {
			p.logger.Debug("mutation handled by filter", "filter", i, "mutation", m.String())
			return nil
		}
	}

	return s.ApplyMutation(m)
}
