package graph

import "strings"

// Separator joins path segments in every path this package produces.
const Separator = "/"

// SplitPath splits p on forward and backward slashes. Empty segments are
// kept, so SplitPath("") returns a single empty segment.
func SplitPath(p string) []string {
	segs := make([]string, 0, strings.Count(p, "/")+strings.Count(p, `\`)+1)
	start := 0
	for i := 0; i < len(p); i++ {
		if p[i] == '/' || p[i] == '\\' {
			segs = append(segs, p[start:i])
			start = i + 1
		}
	}
	return append(segs, p[start:])
}

// JoinPath joins segments with [Separator].
func JoinPath(segs []string) string {
	return strings.Join(segs, Separator)
}

// BaseName returns the last segment of p.
func BaseName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}
