package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `[["Genie","img/genie.png"],["Ursula","img/ursula.png"],["Goofy",""]]`

func TestParse_Resolution(t *testing.T) {
	c, err := Parse([]byte(testCatalog))
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"Genie", "Ursula", "Goofy"}, c.Names())

	for _, ch := range c.Characters() {
		ref, err := c.ImageRefFor(ch.Name)
		require.NoError(t, err)
		assert.Equal(t, ch.ImageRef, ref)
	}
}

func TestImageRefFor_Unknown(t *testing.T) {
	c, err := Parse([]byte(testCatalog))
	require.NoError(t, err)

	_, err = c.ImageRefFor("Scar")
	assert.ErrorIs(t, err, ErrUnknownCharacter)

	_, err = c.ImageRefFor("genie")
	assert.ErrorIs(t, err, ErrUnknownCharacter, "lookup is case sensitive")
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{`},
		{"object instead of list", `{"Genie":"x"}`},
		{"short pair", `[["Genie"]]`},
		{"long pair", `[["Genie","x","y"]]`},
		{"empty name", `[["  ","x"]]`},
		{"duplicate", `[["Genie","a"],["Genie","b"]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, ErrCatalogLoad)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	c, err := Parse([]byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Names())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "character_list.json")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrCatalogLoad)
}

func TestLoad_ShippedCatalog(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "data", "character_list.json"))
	require.NoError(t, err)
	assert.Greater(t, c.Len(), 0)

	ref, err := c.ImageRefFor("Genie")
	require.NoError(t, err)
	assert.NotEmpty(t, ref)
}

func TestCharacters_ReturnsCopy(t *testing.T) {
	c, err := Parse([]byte(testCatalog))
	require.NoError(t, err)

	chars := c.Characters()
	chars[0].Name = "Scar"
	assert.Equal(t, "Genie", c.Names()[0])
}
