// Package types provides shared type definitions for the tag file toolkit.
//
// This package defines the domain types used across all components: groups,
// parse results, decomposed tags, and format errors.
//
// # Core Types
//
// Group represents a named collection of tag lines read from a tag file:
//
//	group := types.Group{
//	    Name: "Generic",
//	    Tags: []string{"red_hair female dress", "dancing fire smile"},
//	}
//
// ParseResult holds the groups of one parsed file in discovery order:
//
//	result.GroupCount() // number of [header] lines seen
//	result.TagCount()   // total non-blank, non-header lines
//
// Reconstruct renders a result back into tag file form, and re-parsing the
// reconstruction yields an equivalent result:
//
//	text := result.Reconstruct('\n')
//
// # Decomposed Tags
//
// Tag is the token unit produced by the tagset package when a tag line is
// split into individual tags. A leading '-' marks negation:
//
//	types.Tag{Name: "negated_tag", Negated: true}.String() // "-negated_tag"
//
// # Errors
//
// FormatError is returned by the parser when a tag line appears before any
// group header has been declared:
//
//	var fe *types.FormatError
//	if errors.As(err, &fe) {
//	    fmt.Printf("bad line %d: %s\n", fe.Line, fe.Segment)
//	}
package types
