package types

// Tag represents a single decomposed tag token from a tag line.
// A leading '-' in the source marks the tag as negated; the marker is
// stripped from Name.
type Tag struct {
	Name    string
	Negated bool
}

// String renders the tag back into its source form, restoring the
// negation marker when set.
func (t Tag) String() string {
	if t.Negated {
		return "-" + t.Name
	}
	return t.Name
}
