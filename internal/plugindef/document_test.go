package plugindef

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDefinition() *Plugin {
	p := New("TorchLight")
	p.Meta.Author = "someone"
	p.Meta.Desc = "Adds a light radius around the player."
	p.Meta.Help = "Place above battle plugins.\nNo configuration required."
	p.Meta.Dependencies = []string{"CoreShim"}
	p.Meta.Locales = map[string]Localized{
		"ja": {Desc: "プレイヤーの周囲を照らします。"},
	}
	min, max := 1.0, 10.0
	p.Parameters = []Parameter{
		{ID: "radius", Text: "Radius", Type: TypeSpec{Kind: TypeNumber}, Default: "4", Min: &min, Max: &max},
		{ID: "flicker", Text: "Flicker", Type: TypeSpec{Kind: TypeBoolean}, Default: "true", On: "Enabled", Off: "Disabled"},
		{ID: "palette", Type: TypeSpec{Kind: TypeArray, Elem: &TypeSpec{Kind: TypeStruct, Struct: "Tint"}}},
	}
	p.Commands = []Command{
		{ID: "SetRadius", Text: "Set Radius", Args: []Parameter{
			{ID: "value", Type: TypeSpec{Kind: TypeNumber}, Default: "4"},
		}},
	}
	p.Structs = []Struct{
		{ID: "s-1", Name: "Tint", Params: []Parameter{
			{ID: "color", Type: TypeSpec{Kind: TypeColor}},
			{ID: "weight", Type: TypeSpec{Kind: TypeNumber}, Default: "1"},
		}},
	}
	p.CustomCode = "console.log('hi');"
	return p
}

func TestNewDefaults(t *testing.T) {
	p := New("Test")
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Test", p.Meta.Name)
	assert.Equal(t, TargetMZ, p.Meta.Target)
	assert.Equal(t, "1.0.0", p.Meta.Version)

	q := New("Test")
	assert.NotEqual(t, p.ID, q.ID)
}

func TestDocumentRoundTrip(t *testing.T) {
	p := sampleDefinition()
	path := filepath.Join(t.TempDir(), "defs", "TorchLight.yaml")
	require.NoError(t, p.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestLoadMintsMissingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.yaml")
	doc := "meta:\n  name: Bare\nparameters:\n  - id: speed\n    type: number\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Bare", p.Meta.Name)
	require.Len(t, p.Parameters, 1)
	assert.Equal(t, TypeNumber, p.Parameters[0].Type.Kind)
}

func TestLoadRejectsMalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("meta: [unclosed"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestStructByName(t *testing.T) {
	p := sampleDefinition()
	require.NotNil(t, p.StructByName("Tint"))
	assert.Equal(t, "Tint", p.StructByName("Tint").Name)
	assert.Nil(t, p.StructByName("Missing"))
}

func TestAttachRawSourceIsWriteOnce(t *testing.T) {
	p := New("Imported")
	assert.True(t, p.AttachRawSource("original text"))
	assert.False(t, p.AttachRawSource("replacement"))
	assert.Equal(t, "original text", p.RawSource)
}
