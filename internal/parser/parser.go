package parser

import (
	"strings"

	"github.com/MightyChubz/tag-parser/pkg/types"
)

// DefaultDelimiter is the line delimiter used when none is configured.
const DefaultDelimiter = '\n'

// Parser splits raw tag file text into groups of tag lines.
// A Parser is stateless between calls and safe for concurrent use.
type Parser struct {
	delimiter rune
}

// Option configures a Parser.
type Option func(*Parser)

// WithDelimiter sets the character used to split input into logical lines.
func WithDelimiter(delimiter rune) Option {
	return func(p *Parser) {
		p.delimiter = delimiter
	}
}

// New creates a new Parser instance
func New(opts ...Option) *Parser {
	p := &Parser{delimiter: DefaultDelimiter}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Delimiter returns the configured line delimiter.
func (p *Parser) Delimiter() rune {
	return p.delimiter
}

// Parse consumes raw text and produces the groups it declares, in order
// of appearance. A segment that trims to "[...]" opens a new group named
// by the verbatim interior; every other non-blank segment becomes a tag
// line of the most recently opened group. Blank segments are dropped.
//
// Parse makes a single forward pass over the input and performs no I/O.
// Empty input yields a result with zero groups. A tag line appearing
// before any group header fails with *types.FormatError; no partial
// result is returned in that case.
func (p *Parser) Parse(input string) (*types.ParseResult, error) {
	result := &types.ParseResult{Groups: make([]types.Group, 0)}

	segments := strings.Split(input, string(p.delimiter))
	current := -1 // index into result.Groups

	for i, segment := range segments {
		line := strings.TrimSpace(segment)
		if line == "" {
			continue
		}

		if isHeader(line) {
			result.Groups = append(result.Groups, types.Group{
				Name: line[1 : len(line)-1],
				Tags: make([]string, 0),
			})
			current = len(result.Groups) - 1
			continue
		}

		if current < 0 {
			return nil, &types.FormatError{Line: i + 1, Segment: line}
		}
		result.Groups[current].Tags = append(result.Groups[current].Tags, line)
	}

	return result, nil
}

// isHeader reports whether a trimmed line opens a group. The check is
// purely syntactic; a line with an unmatched bracket is an ordinary tag.
func isHeader(line string) bool {
	return len(line) >= 2 && strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]")
}
