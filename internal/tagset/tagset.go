package tagset

import (
	"strings"

	"github.com/MightyChubz/tag-parser/pkg/types"
)

// NegationMarker is the prefix that marks an individual tag as negated.
const NegationMarker = "-"

// Split decomposes a single tag line into individual tags. Tokens are
// separated by whitespace; a token with a leading '-' is negated and the
// marker is stripped. A bare '-' carries no tag name and is dropped.
func Split(line string) []types.Tag {
	fields := strings.Fields(line)
	tags := make([]types.Tag, 0, len(fields))

	for _, field := range fields {
		if strings.HasPrefix(field, NegationMarker) {
			name := strings.TrimPrefix(field, NegationMarker)
			if name == "" {
				continue
			}
			tags = append(tags, types.Tag{Name: name, Negated: true})
			continue
		}
		tags = append(tags, types.Tag{Name: field})
	}

	return tags
}

// Expand decomposes every tag line of a group, preserving line order and
// token order within each line.
func Expand(group types.Group) []types.Tag {
	tags := make([]types.Tag, 0, len(group.Tags))
	for _, line := range group.Tags {
		tags = append(tags, Split(line)...)
	}
	return tags
}

// Join renders a sequence of tags back into a single tag line, restoring
// negation markers.
func Join(tags []types.Tag) string {
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = tag.String()
	}
	return strings.Join(parts, " ")
}
