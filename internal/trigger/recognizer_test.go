package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/dshills/textform/internal/engine/buffer"
)

func feed(r *Recognizer, texts ...string) {
	loc := 0
	for _, text := range texts {
		r.ProcessMutation(buffer.NewInsert(loc, text))
		loc += len(text)
	}
}

func TestRecognizerTransitions(t *testing.T) {
	tests := []struct {
		name     string
		matching string
		inputs   []string
		want     []State
	}{
		{
			name:     "single character triggers",
			matching: "}",
			inputs:   []string{"}"},
			want:     []State{Triggered},
		},
		{
			name:     "triggered is re-entrant",
			matching: "}",
			inputs:   []string{"}", "}", "}"},
			want:     []State{Triggered, Triggered, Triggered},
		},
		{
			name:     "non matching resets",
			matching: "}",
			inputs:   []string{"}", "a"},
			want:     []State{Triggered, Idle},
		},
		{
			name:     "tracks multi character run",
			matching: "end",
			inputs:   []string{"e", "n", "d"},
			want:     []State{Tracking, Tracking, Triggered},
		},
		{
			name:     "broken run goes idle",
			matching: "end",
			inputs:   []string{"e", "x"},
			want:     []State{Tracking, Idle},
		},
		{
			name:     "fresh run restarts tracking",
			matching: "end",
			inputs:   []string{"e", "n", "e"},
			want:     []State{Tracking, Tracking, Tracking},
		},
		{
			name:     "whole string in one mutation",
			matching: "end",
			inputs:   []string{"end"},
			want:     []State{Triggered},
		},
		{
			name:     "run restarts after trigger",
			matching: "}}",
			inputs:   []string{"}", "}", "}", "}"},
			want:     []State{Tracking, Triggered, Tracking, Triggered},
		},
		{
			name:     "overlong insert goes idle",
			matching: "ab",
			inputs:   []string{"abc"},
			want:     []State{Idle},
		},
		{
			name:     "combining sequence is one character",
			matching: "e\u0301",
			inputs:   []string{"e", "e\u0301"},
			want:     []State{Idle, Triggered},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecognizer(tt.matching)
			assert.Equal(t, Idle, r.State())

			for i, input := range tt.inputs {
				r.ProcessMutation(buffer.NewInsert(i, input))
				assert.Equal(t, tt.want[i], r.State(), "after input %d (%q)", i, input)
			}
		})
	}
}

func TestRecognizerIgnoresEmptyInput(t *testing.T) {
	r := NewRecognizer("end")
	feed(r, "e")
	assert.Equal(t, Tracking, r.State())

	r.ProcessMutation(buffer.NewDelete(0, 1))
	assert.Equal(t, Tracking, r.State())

	feed(r, "nd")
	assert.Equal(t, Triggered, r.State())
}

func TestRecognizerEmptyMatchingString(t *testing.T) {
	r := NewRecognizer("")
	feed(r, "a", "", "b")
	assert.Equal(t, Idle, r.State())
	assert.Equal(t, "", r.MatchingString())
}

func TestRecognizerReset(t *testing.T) {
	r := NewRecognizer("}")
	feed(r, "}")
	r.Reset()
	assert.Equal(t, Idle, r.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "tracking", Tracking.String())
	assert.Equal(t, "triggered", Triggered.String())
	assert.Equal(t, "unknown", State(9).String())
}

func TestRecognizerReplayIsDeterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		matching := rapid.StringMatching(`[ab}]{0,3}`).Draw(rt, "matching")
		inputs := rapid.SliceOfN(rapid.StringMatching(`[ab}]{0,2}`), 0, 20).Draw(rt, "inputs")

		first := NewRecognizer(matching)
		second := NewRecognizer(matching)
		feed(first, inputs...)
		feed(second, inputs...)

		if first.State() != second.State() {
			rt.Fatalf("replay diverged: %s vs %s", first.State(), second.State())
		}
	})
}

func TestRecognizerTriggersOnlyOnMatchingText(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		input := rapid.StringMatching(`[a-z]{1,3}`).Draw(rt, "input")

		r := NewRecognizer("}")
		feed(r, input)

		if r.State() != Idle {
			rt.Fatalf("input %q moved recognizer to %s", input, r.State())
		}
	})
}
