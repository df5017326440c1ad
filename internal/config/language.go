package config

import (
	"errors"

	"github.com/tidwall/gjson"

	"github.com/dshills/textform/internal/indent"
)

// ErrInvalidLanguageConfiguration is returned for malformed
// language-configuration.json data.
var ErrInvalidLanguageConfiguration = errors.New("invalid language configuration")

// LanguageConfiguration is the indentation-relevant subset of a
// language-configuration.json file.
type LanguageConfiguration struct {
	Brackets    [][2]string
	LineComment string
}

// ParseLanguageConfiguration reads the "brackets" pairs and the
// "comments.lineComment" marker. Other keys are ignored, as are bracket
// entries that are not two-string arrays.
func ParseLanguageConfiguration(data []byte) (LanguageConfiguration, error) {
	var lc LanguageConfiguration
	if !gjson.ValidBytes(data) {
		return lc, ErrInvalidLanguageConfiguration
	}

	brackets := gjson.GetBytes(data, "brackets")
	if brackets.Exists() && !brackets.IsArray() {
		return lc, ErrInvalidLanguageConfiguration
	}
	brackets.ForEach(func(_, pair gjson.Result) bool {
		items := pair.Array()
		if len(items) != 2 || items[0].Type != gjson.String || items[1].Type != gjson.String {
			return true
		}
		if items[0].Str == "" || items[1].Str == "" {
			return true
		}
		lc.Brackets = append(lc.Brackets, [2]string{items[0].Str, items[1].Str})
		return true
	})

	if c := gjson.GetBytes(data, "comments.lineComment"); c.Type == gjson.String {
		lc.LineComment = c.Str
	}
	return lc, nil
}

// Rules returns bracket rules for the configuration's pairs.
func (lc LanguageConfiguration) Rules() []indent.Rule {
	return indent.BracketRules(lc.Brackets...)
}
