package config

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/textform/internal/engine/buffer"
	"github.com/dshills/textform/internal/indent"
)

func loadString(t *testing.T, files fstest.MapFS, text string) (*Config, error) {
	t.Helper()
	files["textform.toml"] = &fstest.MapFile{Data: []byte(text)}
	return LoadFS(files, "textform.toml")
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := loadString(t, fstest.MapFS{}, "[indent]\nuse_tabs = false\nsize = 2\n")
	require.NoError(t, err)

	assert.Equal(t, "  ", cfg.Unit())
	assert.Equal(t, 4, cfg.Indent.TabWidth)
	assert.Equal(t, ReferenceNonEmpty, cfg.Indent.Reference)
	assert.True(t, cfg.Indent.Newline)
	assert.Len(t, cfg.Triggers, 3)
}

func TestLoadReplacesTriggers(t *testing.T) {
	cfg, err := loadString(t, fstest.MapFS{}, `
[[trigger]]
string = "end"
action = "reindent"
`)
	require.NoError(t, err)
	require.Len(t, cfg.Triggers, 1)
	assert.Equal(t, "end", cfg.Triggers[0].String)
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := LoadFS(fstest.MapFS{}, "missing.toml")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoadUnknownKey(t *testing.T) {
	_, err := loadString(t, fstest.MapFS{}, "[indent]\nsize = 2\nwidth = 8\n")
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "textform.toml", pe.Path)
	assert.Equal(t, 3, pe.Line)
	assert.Contains(t, pe.Message, "width")
}

func TestLoadSyntaxError(t *testing.T) {
	_, err := loadString(t, fstest.MapFS{}, "[indent\nsize = 2\n")

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Positive(t, pe.Line)
	assert.Contains(t, pe.Error(), "textform.toml")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"size", func(c *Config) { c.Indent.Size = 0 }, "indent.size"},
		{"tab width", func(c *Config) { c.Indent.TabWidth = -1 }, "indent.tab_width"},
		{"reference", func(c *Config) { c.Indent.Reference = "any" }, "indent.reference"},
		{"script reference", func(c *Config) { c.Indent.Reference = ReferenceScript }, "indent.reference"},
		{"empty literal", func(c *Config) { c.Rules = []RuleConfig{{Kind: KindPrecedingSuffix}} }, "rule[0].literal"},
		{"rule kind", func(c *Config) { c.Rules = []RuleConfig{{Kind: "suffix", Literal: "{"}} }, "rule[0].kind"},
		{"exclusion", func(c *Config) {
			c.Rules = []RuleConfig{{Kind: KindPrecedingPrefix, Literal: "if", ExcludePrefix: "x"}}
		}, "rule[0]"},
		{"blank trigger", func(c *Config) { c.Triggers = []TriggerConfig{{String: " ", Action: ActionClear}} }, "trigger[0].string"},
		{"action", func(c *Config) { c.Triggers = []TriggerConfig{{String: "}", Action: "drop"}} }, "trigger[0].action"},
		{"script action", func(c *Config) { c.Triggers = []TriggerConfig{{String: "}", Action: ActionScript}} }, "trigger[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.ErrorIs(t, err, ErrValidationFailed)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.path, ve.Path)
		})
	}

	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
}

func TestParseLanguageConfiguration(t *testing.T) {
	lc, err := ParseLanguageConfiguration([]byte(`{
		"comments": {"lineComment": "//", "blockComment": ["/*", "*/"]},
		"brackets": [["{", "}"], ["[", "]"], ["(", ")"], ["<"], [1, 2]],
		"autoClosingPairs": []
	}`))
	require.NoError(t, err)

	assert.Equal(t, [][2]string{{"{", "}"}, {"[", "]"}, {"(", ")"}}, lc.Brackets)
	assert.Equal(t, "//", lc.LineComment)
	assert.Len(t, lc.Rules(), 6)

	_, err = ParseLanguageConfiguration([]byte(`{"brackets": `))
	assert.ErrorIs(t, err, ErrInvalidLanguageConfiguration)

	_, err = ParseLanguageConfiguration([]byte(`{"brackets": "{}"}`))
	assert.ErrorIs(t, err, ErrInvalidLanguageConfiguration)

	lc, err = ParseLanguageConfiguration([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, lc.Brackets)
	assert.Empty(t, lc.LineComment)
}

func buildString(t *testing.T, files fstest.MapFS, text string) *Engine {
	t.Helper()
	cfg, err := loadString(t, files, text)
	require.NoError(t, err)

	e, err := cfg.Build(files)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestBuildDefaultsTypesBlock(t *testing.T) {
	e := buildString(t, fstest.MapFS{}, "")
	assert.Equal(t, indent.DefaultRules(), e.Indenter.Rules())

	b := buffer.NewBuffer()
	loc, err := e.Type(b, 0, "if x {\nfoo\n}")
	require.NoError(t, err)

	assert.Equal(t, "if x {\n\tfoo\n}", b.Text())
	assert.Equal(t, b.Len(), loc)
}

func TestBuildRulesAndLanguage(t *testing.T) {
	files := fstest.MapFS{
		"lang/ruby.json": &fstest.MapFile{Data: []byte(`{
			"comments": {"lineComment": "#"},
			"brackets": [["[", "]"]]
		}`)},
	}
	e := buildString(t, files, `
language = "lang/ruby.json"

[indent]
use_tabs = false
size = 2
reference = "non-blank"

[[rule]]
kind = "preceding-prefix"
literal = "def "

[[rule]]
kind = "current-prefix"
literal = "end"

[[trigger]]
string = "end"
action = "reindent"
`)
	assert.Len(t, e.Indenter.Rules(), 4)

	b := buffer.NewBuffer()
	_, err := e.Type(b, 0, "def run\nwork\n# note\nend")
	require.NoError(t, err)
	assert.Equal(t, "def run\n  work\n  # note\nend", b.Text())
}

func TestBuildClearTrigger(t *testing.T) {
	e := buildString(t, fstest.MapFS{}, `
[indent]
newline = false

[[trigger]]
string = "#"
action = "clear"
`)

	b := buffer.NewBufferFromString("\t\t")
	_, err := e.Type(b, 2, "#if")
	require.NoError(t, err)
	assert.Equal(t, "#if", b.Text())
}

const policyScript = `
function halve(ws, line)
  return string.sub(ws, 1, math.floor(#ws / 2))
end

function code_line(line)
  return string.find(line, "^%s*%-%-") == nil and #line > 0
end
`

func TestBuildScriptPolicies(t *testing.T) {
	files := fstest.MapFS{
		"policy.lua": &fstest.MapFile{Data: []byte(policyScript)},
	}
	e := buildString(t, files, `
script = "policy.lua"

[indent]
reference = "script"
function = "code_line"

[[trigger]]
string = ";"
action = "script"
function = "halve"
`)

	b := buffer.NewBufferFromString("\t\t\t\tx")
	_, err := e.Type(b, b.Len(), ";")
	require.NoError(t, err)
	assert.Equal(t, "\t\tx;", b.Text())

	b = buffer.NewBufferFromString("\tlocal x\n-- note\n")
	got, err := e.Indenter.ComputeIndentation(b.Len(), b)
	require.NoError(t, err)
	assert.Equal(t, buffer.NewRange(0, 8), got.Range)
}

func TestBuildErrors(t *testing.T) {
	cfg, err := loadString(t, fstest.MapFS{}, `language = "none.json"`)
	require.NoError(t, err)
	_, err = cfg.Build(fstest.MapFS{})
	assert.Error(t, err)

	files := fstest.MapFS{"bad.json": &fstest.MapFile{Data: []byte(`[`)}}
	cfg, err = loadString(t, files, `language = "bad.json"`)
	require.NoError(t, err)
	_, err = cfg.Build(files)
	assert.ErrorIs(t, err, ErrInvalidLanguageConfiguration)

	files = fstest.MapFS{"p.lua": &fstest.MapFile{Data: []byte(policyScript)}}
	cfg, err = loadString(t, files, `
script = "p.lua"

[[trigger]]
string = ";"
action = "script"
function = "missing"
`)
	require.NoError(t, err)
	_, err = cfg.Build(files)
	assert.Error(t, err)

	files = fstest.MapFS{"broken.lua": &fstest.MapFile{Data: []byte(`function (`)}}
	cfg, err = loadString(t, files, `script = "broken.lua"`)
	require.NoError(t, err)
	_, err = cfg.Build(files)
	assert.Error(t, err)
}
