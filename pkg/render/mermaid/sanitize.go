package mermaid

import "strings"

// reservedChars break the flowchart grammar when they appear in a node id.
const reservedChars = `@[]-><{}()=&|~,"%^*_`

// idSeparator replaces each reserved character in an id.
const idSeparator = "//"

// reservedWords are rewritten in order after the character pass. The
// replacements are plain substring rewrites, not word-aware: "stylesheet"
// becomes "style_sheet". Existing diagrams depend on these exact ids.
var reservedWords = []struct{ old, new string }{
	{"/graph/", "/_graph_/"},
	{"style", "style_"},
	{"graph", "graph_"},
	{"class", "class_"},
}

// ID converts a path into a node or subgraph identifier that is safe to use
// unquoted in a flowchart.
func ID(path string) string {
	var b strings.Builder
	b.Grow(len(path))
	for _, r := range path {
		if strings.ContainsRune(reservedChars, r) {
			b.WriteString(idSeparator)
			continue
		}
		b.WriteRune(r)
	}
	id := b.String()
	for _, w := range reservedWords {
		id = strings.ReplaceAll(id, w.old, w.new)
	}
	return id
}

// Label converts text into a label safe to place inside a quoted string.
// Only double quotes are replaced, with the flowchart entity code.
func Label(text string) string {
	return strings.ReplaceAll(text, `"`, "#quot;")
}
