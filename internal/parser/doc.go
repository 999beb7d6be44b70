// Package parser implements the tag file format: a line-delimited text
// format where a line wrapped in brackets opens a named group and every
// following non-blank line is a tag line of that group.
//
// # Basic Usage
//
//	p := parser.New()
//	result, err := p.Parse("[Generic]\nred_hair female dress\ndancing fire smile")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, group := range result.Groups {
//	    fmt.Printf("%s: %d tag lines\n", group.Name, len(group.Tags))
//	}
//
// # Format Rules
//
// Input is split into logical lines by a configurable delimiter (newline by
// default). Each line is trimmed of leading and trailing whitespace before
// classification:
//
//   - A line matching [interior] opens a group named by the verbatim
//     interior text. "[]" is legal and names the group "".
//   - Any other non-blank line is a tag line of the current group, kept
//     verbatim after trimming.
//   - Blank lines are skipped and never produce tag entries.
//   - A line with an unmatched bracket is an ordinary tag line, not an
//     error; header recognition is purely syntactic.
//
// Duplicate header names open distinct groups. Merging, as well as the
// decomposition of a tag line into individual tags, is left to callers
// (see the tagset package).
//
// # Custom Delimiters
//
// Any single character can delimit lines:
//
//	p := parser.New(parser.WithDelimiter(';'))
//	result, _ := p.Parse("[A];tag1;tag2")
//
// # Error Handling
//
// The only failure mode is a tag line appearing before any group header,
// reported as *types.FormatError. On failure no partial result is
// returned. Empty input is not an error; it parses to zero groups.
package parser
