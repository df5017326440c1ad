package config

import (
	"fmt"
	"log/slog"

	"github.com/rivo/uniseg"

	"github.com/dshills/textform/internal/engine/buffer"
	"github.com/dshills/textform/internal/filter"
	"github.com/dshills/textform/internal/indent"
	luapolicy "github.com/dshills/textform/internal/plugin/lua"
)

// Engine is an indenter and typing pipeline assembled from a Config.
type Engine struct {
	Indenter *indent.Indenter
	Pipeline *filter.Pipeline
	Unit     string
	TabWidth int

	script *luapolicy.State
	logger *slog.Logger
}

// Build assembles the engine described by c. Relative paths are read from
// fsys against the directory of the loaded file. The returned engine must be
// closed when it owns a Lua state.
func (c *Config) Build(fsys FileSystem) (*Engine, error) {
	e := &Engine{
		Unit:     c.Unit(),
		TabWidth: c.Indent.TabWidth,
		logger:   slog.Default().With("component", "config"),
	}

	var lang LanguageConfiguration
	if c.Language != "" {
		data, err := fsys.ReadFile(c.resolve(c.Language))
		if err != nil {
			return nil, fmt.Errorf("reading language configuration: %w", err)
		}
		if lang, err = ParseLanguageConfiguration(data); err != nil {
			return nil, fmt.Errorf("%s: %w", c.Language, err)
		}
	}

	if c.Script != "" {
		src, err := fsys.ReadFile(c.resolve(c.Script))
		if err != nil {
			return nil, fmt.Errorf("reading script: %w", err)
		}
		e.script = luapolicy.NewState()
		if err := e.script.DoString(string(src)); err != nil {
			e.Close()
			return nil, fmt.Errorf("loading script %s: %w", c.Script, err)
		}
	}

	predicate, err := c.referencePredicate(e.script, lang)
	if err != nil {
		e.Close()
		return nil, err
	}

	e.Indenter = indent.New(
		indent.WithRules(c.rules(lang)...),
		indent.WithReferencePredicate(predicate),
	)

	var filters []filter.Filter
	for _, tr := range c.Triggers {
		provider, err := c.provider(tr, e)
		if err != nil {
			e.Close()
			return nil, err
		}
		filters = append(filters, filter.NewLineLeadingWhitespaceFilter(tr.String, provider))
	}
	if c.Indent.Newline {
		filters = append(filters, filter.NewNewlineIndentFilter(e.Indenter, e.Unit, e.TabWidth))
	}
	e.Pipeline = filter.NewPipeline(filters)

	e.logger.Debug("built engine",
		"rules", len(e.Indenter.Rules()),
		"filters", e.Pipeline.Len(),
		"unit", e.Unit,
		"script", c.Script != "")
	return e, nil
}

// rules returns the configured rules followed by the language's bracket
// rules, or the defaults when neither is present.
func (c *Config) rules(lang LanguageConfiguration) []indent.Rule {
	if len(c.Rules) == 0 && len(lang.Brackets) == 0 {
		return indent.DefaultRules()
	}
	rules := make([]indent.Rule, 0, len(c.Rules)+2*len(lang.Brackets))
	for _, r := range c.Rules {
		rules = append(rules, r.rule())
	}
	return append(rules, lang.Rules()...)
}

func (c *Config) referencePredicate(script *luapolicy.State, lang LanguageConfiguration) (indent.LinePredicate, error) {
	switch c.Indent.Reference {
	case ReferenceScript:
		return script.Predicate(c.Indent.Function)
	case ReferenceNonBlank:
		prefix := c.Indent.SkipPrefix
		if prefix == "" {
			prefix = lang.LineComment
		}
		if prefix == "" {
			return indent.NonBlankLine, nil
		}
		return indent.NonEmptyLineWithoutPrefixPredicate(prefix), nil
	default:
		if c.Indent.SkipPrefix != "" {
			return indent.NonEmptyLineWithoutPrefixPredicate(c.Indent.SkipPrefix), nil
		}
		return indent.NonEmptyLine, nil
	}
}

func (c *Config) provider(tr TriggerConfig, e *Engine) (filter.SubstitutionFunc, error) {
	switch tr.Action {
	case ActionClear:
		return filter.ConstantProvider(""), nil
	case ActionScript:
		return e.script.Provider(tr.Function)
	default:
		return filter.ReindentProvider(e.Indenter, e.Unit, e.TabWidth), nil
	}
}

// Type feeds text through the pipeline one grapheme cluster at a time as
// if typed at loc, and returns the location after the typed text.
func (e *Engine) Type(s buffer.Storage, loc buffer.Location, text string) (buffer.Location, error) {
	state := -1
	for len(text) > 0 {
		var cluster string
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)

		before := s.Len()
		if err := e.Pipeline.Apply(buffer.NewInsert(loc, cluster), s); err != nil {
			return loc, fmt.Errorf("typing %q at %d: %w", cluster, loc, err)
		}
		loc += s.Len() - before
	}
	return loc, nil
}

// Close releases the engine's Lua state, if any.
func (e *Engine) Close() {
	if e.script != nil {
		e.script.Close()
	}
}
