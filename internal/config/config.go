// Package config loads indentation settings, rule sets and trigger filters
// from TOML files.
//
// A configuration file looks like:
//
//	language = "go.language-configuration.json"
//
//	[indent]
//	use_tabs = true
//	size = 4
//	tab_width = 4
//	reference = "non-blank"    # or "non-empty", "script"
//	skip_prefix = "//"
//	newline = true
//
//	[[rule]]
//	kind = "preceding-suffix"  # "preceding-prefix", "current-prefix"
//	literal = "{"
//
//	[[rule]]
//	kind = "current-prefix"
//	literal = "else"
//	exclude_prefix = "else"
//
//	[[trigger]]
//	string = "}"
//	action = "reindent"        # or "clear", "script"
//
// When neither rules nor a language file are given the bracket defaults from
// the indent package apply.
package config

import (
	"fmt"
	"strings"

	"github.com/dshills/textform/internal/indent"
)

// Reference predicate modes.
const (
	ReferenceNonEmpty = "non-empty"
	ReferenceNonBlank = "non-blank"
	ReferenceScript   = "script"
)

// Rule kinds.
const (
	KindPrecedingPrefix = "preceding-prefix"
	KindPrecedingSuffix = "preceding-suffix"
	KindCurrentPrefix   = "current-prefix"
)

// Trigger actions.
const (
	ActionReindent = "reindent"
	ActionClear    = "clear"
	ActionScript   = "script"
)

// Config is the full configuration.
type Config struct {
	Language string          `toml:"language"`
	Script   string          `toml:"script"`
	Indent   IndentConfig    `toml:"indent"`
	Rules    []RuleConfig    `toml:"rule"`
	Triggers []TriggerConfig `toml:"trigger"`

	// baseDir resolves relative paths; set by the loader.
	baseDir string
}

// IndentConfig holds indentation style and reference-line settings.
type IndentConfig struct {
	UseTabs    bool   `toml:"use_tabs"`
	Size       int    `toml:"size"`
	TabWidth   int    `toml:"tab_width"`
	Reference  string `toml:"reference"`
	SkipPrefix string `toml:"skip_prefix"`
	Function   string `toml:"function"`
	Newline    bool   `toml:"newline"`
}

// RuleConfig describes one pattern rule.
type RuleConfig struct {
	Kind          string `toml:"kind"`
	Literal       string `toml:"literal"`
	ExcludePrefix string `toml:"exclude_prefix"`
	ExcludeSuffix string `toml:"exclude_suffix"`
}

// TriggerConfig describes one leading-whitespace trigger filter.
type TriggerConfig struct {
	String   string `toml:"string"`
	Action   string `toml:"action"`
	Function string `toml:"function"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() Config {
	return Config{
		Indent: IndentConfig{
			UseTabs:   true,
			Size:      4,
			TabWidth:  4,
			Reference: ReferenceNonEmpty,
			Newline:   true,
		},
		Triggers: []TriggerConfig{
			{String: "}", Action: ActionReindent},
			{String: "]", Action: ActionReindent},
			{String: ")", Action: ActionReindent},
		},
	}
}

// Unit returns the indentation unit string.
func (c *Config) Unit() string {
	return indent.Unit(c.Indent.UseTabs, c.Indent.Size)
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if c.Indent.Size <= 0 {
		return &ValidationError{Path: "indent.size", Message: "must be positive", Value: c.Indent.Size}
	}
	if c.Indent.TabWidth <= 0 {
		return &ValidationError{Path: "indent.tab_width", Message: "must be positive", Value: c.Indent.TabWidth}
	}

	switch c.Indent.Reference {
	case ReferenceNonEmpty, ReferenceNonBlank:
	case ReferenceScript:
		if c.Script == "" || c.Indent.Function == "" {
			return &ValidationError{Path: "indent.reference", Message: "script reference needs script and indent.function", Value: c.Indent.Reference}
		}
	default:
		return &ValidationError{Path: "indent.reference", Message: "unknown reference mode", Value: c.Indent.Reference}
	}

	for i, r := range c.Rules {
		path := fmt.Sprintf("rule[%d]", i)
		if r.Literal == "" {
			return &ValidationError{Path: path + ".literal", Message: "must not be empty", Value: r.Literal}
		}
		switch r.Kind {
		case KindPrecedingPrefix, KindPrecedingSuffix:
			if r.ExcludePrefix != "" || r.ExcludeSuffix != "" {
				return &ValidationError{Path: path, Message: "exclusions apply only to current-prefix rules", Value: r.Kind}
			}
		case KindCurrentPrefix:
		default:
			return &ValidationError{Path: path + ".kind", Message: "unknown rule kind", Value: r.Kind}
		}
	}

	for i, tr := range c.Triggers {
		path := fmt.Sprintf("trigger[%d]", i)
		if strings.TrimSpace(tr.String) == "" {
			return &ValidationError{Path: path + ".string", Message: "must contain a non-space character", Value: tr.String}
		}
		switch tr.Action {
		case ActionReindent, ActionClear:
		case ActionScript:
			if c.Script == "" || tr.Function == "" {
				return &ValidationError{Path: path, Message: "script action needs script and function", Value: tr.Action}
			}
		default:
			return &ValidationError{Path: path + ".action", Message: "unknown action", Value: tr.Action}
		}
	}

	return nil
}

// rule converts a RuleConfig to an indent.Rule.
func (r RuleConfig) rule() indent.Rule {
	switch r.Kind {
	case KindPrecedingPrefix:
		return indent.PrecedingLinePrefixIndenter{Prefix: r.Literal}
	case KindPrecedingSuffix:
		return indent.PrecedingLineSuffixIndenter{Suffix: r.Literal}
	default:
		out := indent.CurrentLinePrefixOutdenter{Prefix: r.Literal}
		switch {
		case r.ExcludePrefix != "":
			out.Exclude = indent.LineHasPrefix(r.ExcludePrefix)
		case r.ExcludeSuffix != "":
			out.Exclude = indent.LineHasSuffix(r.ExcludeSuffix)
		}
		return out
	}
}
