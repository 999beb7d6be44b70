package types

import "fmt"

// FormatError reports a tag line that appears before any group header
// has been declared. Line is the 1-based logical line number (counting
// delimiter-separated segments, blank segments included) and Segment is
// the trimmed offending text.
type FormatError struct {
	Line    int
	Segment string
}

// Error implements the error interface
func (fe *FormatError) Error() string {
	return fmt.Sprintf("line %d: tag %q appears before any group header", fe.Line, fe.Segment)
}
