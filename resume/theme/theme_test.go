package theme

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexColor = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestAllReturnsFixedOrder(t *testing.T) {
	got := All()
	require.Len(t, got, 4)

	ids := make([]ID, 0, len(got))
	for _, th := range got {
		ids = append(ids, th.ID)
		assert.Regexp(t, hexColor, th.PrimaryColor)
		assert.NotEmpty(t, th.Name)
	}
	assert.Equal(t, []ID{Modern, Classic, Minimal, Creative}, ids)
}

func TestAllReturnsCopy(t *testing.T) {
	got := All()
	got[0].PrimaryColor = "#000000"
	assert.Equal(t, "#2563eb", All()[0].PrimaryColor)
}

func TestDefaultIsModern(t *testing.T) {
	assert.Equal(t, Modern, Default().ID)
}

func TestLookup(t *testing.T) {
	th, ok := Lookup(Creative)
	require.True(t, ok)
	assert.Equal(t, "#7c3aed", th.PrimaryColor)
	assert.Equal(t, "创意设计", th.Name)

	_, ok = Lookup(ID("neon"))
	assert.False(t, ok)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("  Classic ")
	require.NoError(t, err)
	assert.Equal(t, Classic, id)

	_, err = ParseID("neon")
	assert.Error(t, err)

	_, err = ParseID("")
	assert.Error(t, err)
}
