// Package tagset decomposes raw tag lines into individual tags.
//
// The parser deliberately keeps tag lines verbatim; splitting a line into
// tokens and recognizing negated tags is this package's job.
//
//	tags := tagset.Split("Testing_tag -negated_tag")
//	// [{Testing_tag false} {negated_tag true}]
//
// Expand applies Split to every line of a group:
//
//	tags := tagset.Expand(group)
//
// Tokens are whitespace separated. A leading '-' negates a tag and is
// stripped from its name; tag names are otherwise kept verbatim, including
// case and non-ASCII characters.
package tagset
