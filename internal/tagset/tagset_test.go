package tagset

import (
	"testing"

	"github.com/MightyChubz/tag-parser/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_PlainTags(t *testing.T) {
	tags := Split("Tag1 Tag2 Tag3")

	require.Len(t, tags, 3)
	assert.Equal(t, types.Tag{Name: "Tag1"}, tags[0])
	assert.Equal(t, types.Tag{Name: "Tag2"}, tags[1])
	assert.Equal(t, types.Tag{Name: "Tag3"}, tags[2])
}

func TestSplit_NegatedTag(t *testing.T) {
	tags := Split("Testing_tag -negated_tag")

	require.Len(t, tags, 2)
	assert.Equal(t, types.Tag{Name: "Testing_tag"}, tags[0])
	assert.Equal(t, types.Tag{Name: "negated_tag", Negated: true}, tags[1])
}

func TestSplit_BareMarkerDropped(t *testing.T) {
	tags := Split("tag1 - tag2")

	require.Len(t, tags, 2)
	assert.Equal(t, "tag1", tags[0].Name)
	assert.Equal(t, "tag2", tags[1].Name)
}

func TestSplit_EmptyLine(t *testing.T) {
	assert.Empty(t, Split(""))
	assert.Empty(t, Split("   \t "))
}

func TestSplit_CasePreserved(t *testing.T) {
	tags := Split("Red_Hair 進撃の巨人")

	require.Len(t, tags, 2)
	assert.Equal(t, "Red_Hair", tags[0].Name)
	assert.Equal(t, "進撃の巨人", tags[1].Name)
}

func TestExpand(t *testing.T) {
	group := types.Group{
		Name: "Generic",
		Tags: []string{"red_hair female", "-blurry", ""},
	}

	tags := Expand(group)

	require.Len(t, tags, 3)
	assert.Equal(t, types.Tag{Name: "red_hair"}, tags[0])
	assert.Equal(t, types.Tag{Name: "female"}, tags[1])
	assert.Equal(t, types.Tag{Name: "blurry", Negated: true}, tags[2])
}

func TestJoin_RoundTrip(t *testing.T) {
	line := "Testing_tag -negated_tag plain"

	tags := Split(line)
	assert.Equal(t, line, Join(tags))
}
