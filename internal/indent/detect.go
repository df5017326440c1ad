package indent

import "strings"

// DetectUnit looks at text to determine whether tabs or spaces are used for
// indentation and returns the unit string ("\t" or a run of spaces).
// Defaults to "\t" if no indentation is found.
func DetectUnit(text string) string {
	tabCount := 0
	spaceCount := 0
	minSpaceWidth := 0

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if len(line) == 0 {
			continue
		}
		switch line[0] {
		case '\t':
			tabCount++
		case ' ':
			w := len(line) - len(strings.TrimLeft(line, " "))
			if w == len(line) {
				// whitespace-only lines say nothing about style
				continue
			}
			spaceCount++
			if minSpaceWidth == 0 || w < minSpaceWidth {
				minSpaceWidth = w
			}
		}
	}

	if spaceCount > tabCount && minSpaceWidth > 0 {
		return strings.Repeat(" ", minSpaceWidth)
	}
	return "\t"
}
