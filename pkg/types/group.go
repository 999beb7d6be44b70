package types

import "strings"

// Group represents a named collection of tag lines from a tag file.
// Name is the header interior with the surrounding brackets stripped
// and is otherwise kept verbatim. Tags preserve input order; duplicate
// lines are allowed and a group may hold no tags at all.
type Group struct {
	Name string
	Tags []string
}

// Header returns the group's header line as it appears in a tag file.
func (g *Group) Header() string {
	return "[" + g.Name + "]"
}

// ParseResult represents the output of parsing a single tag file.
// Groups appear in discovery order.
type ParseResult struct {
	Groups []Group
}

// GroupCount returns the number of groups in the result.
func (pr *ParseResult) GroupCount() int {
	return len(pr.Groups)
}

// TagCount returns the total number of tag lines across all groups.
func (pr *ParseResult) TagCount() int {
	count := 0
	for i := range pr.Groups {
		count += len(pr.Groups[i].Tags)
	}
	return count
}

// Reconstruct renders the result back into tag file form: each group's
// header re-wrapped in brackets, followed by its tag lines, all joined
// by the given delimiter. Re-parsing the reconstruction with the same
// delimiter yields an equivalent ParseResult.
func (pr *ParseResult) Reconstruct(delimiter rune) string {
	var sb strings.Builder
	sep := string(delimiter)
	for i := range pr.Groups {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(pr.Groups[i].Header())
		for _, tag := range pr.Groups[i].Tags {
			sb.WriteString(sep)
			sb.WriteString(tag)
		}
	}
	return sb.String()
}
