// Package trigger recognizes when a run of typed text spells out a matching
// string, such as a closing delimiter, so that a substitution can fire.
package trigger

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/textform/internal/engine/buffer"
)

// State is the recognizer's classification of the edits seen so far.
type State uint8

const (
	// Idle means recent edits are not relevant to the matching string.
	Idle State = iota
	// Tracking means recent edits form a strict prefix of the matching string.
	Tracking
	// Triggered means recent edits spell out the full matching string.
	Triggered
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Tracking:
		return "tracking"
	case Triggered:
		return "triggered"
	default:
		return "unknown"
	}
}

// Recognizer tracks whether consecutive mutations consist solely of the
// characters of a matching string, in order.
//
// Characters are grapheme clusters. A Recognizer is not safe for concurrent
// use; each pipeline owns its own instance.
type Recognizer struct {
	matching string
	target   []string // grapheme clusters of matching

	state State
	run   int // clusters of target matched so far
}

// NewRecognizer creates a recognizer watching for matching.
func NewRecognizer(matching string) *Recognizer {
	return &Recognizer{
		matching: matching,
		target:   graphemes(matching),
	}
}

// MatchingString returns the string the recognizer watches for.
func (r *Recognizer) MatchingString() string {
	return r.matching
}

// State returns the current state.
func (r *Recognizer) State() State {
	return r.state
}

// Reset returns the recognizer to Idle.
func (r *Recognizer) Reset() {
	r.state = Idle
	r.run = 0
}

// ProcessMutation updates the state from the mutation's inserted text.
// Mutations with no inserted text, and recognizers with an empty matching
// string, leave the state unchanged.
func (r *Recognizer) ProcessMutation(m buffer.Mutation) {
	if len(r.target) == 0 || m.Text == "" {
		return
	}

	inserted := graphemes(m.Text)

	run := r.run
	if r.state == Triggered {
		run = 0
	}

	switch {
	case r.extends(run, inserted):
		run += len(inserted)
	case run > 0 && r.extends(0, inserted):
		run = len(inserted)
	default:
		r.Reset()
		return
	}

	r.run = run
	if run == len(r.target) {
		r.state = Triggered
	} else {
		r.state = Tracking
	}
}

// extends reports whether inserted continues a run of length run.
func (r *Recognizer) extends(run int, inserted []string) bool {
	if run+len(inserted) > len(r.target) {
		return false
	}
	for i, cluster := range inserted {
		if r.target[run+i] != cluster {
			return false
		}
	}
	return true
}

// graphemes splits s into grapheme clusters.
func graphemes(s string) []string {
	var clusters []string
	state := -1
	for len(s) > 0 {
		cluster, rest, _, newState := uniseg.StepString(s, state)
		clusters = append(clusters, cluster)
		s = rest
		state = newState
	}
	return clusters
}
