package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzsmith/mzsmith/internal/jsgen"
	"github.com/mzsmith/mzsmith/internal/plugindef"
)

const handWritten = `//=============================================================================
// TorchLight.js
//=============================================================================
/*:
 * @target MZ
 * @plugindesc v1.2.0 Flickering torch light for the map scene.
 * @version 1.2.0
 * @author Aiko
 * @url https://example.com/torchlight
 * @base LightingCore
 * @orderAfter WeatherFX
 *
 * @help
 * Drop this below LightingCore and torches start to flicker.
 *
 * Terms: free for commercial use.
 *
 * @param radius
 * @text Light radius
 * @desc Radius of the torch glow, in tiles.
 * @type number
 * @min 1
 * @max 10
 * @decimals 1
 * @default 4
 *
 * @param mode
 * @text Blend mode
 * @type select
 * @option Additive
 * @value add
 * @option screen
 * @value screen
 * @default add
 *
 * @param flicker
 * @text Flicker
 * @type boolean
 * @on Enabled
 * @off Disabled
 * @default true
 *
 * @noteParam torchImage
 * @noteRequire 1
 * @noteDir img/lights/
 * @noteType file
 * @noteData events
 *
 * @command SetRadius
 * @text Set radius
 * @desc Changes the torch radius.
 *
 * @arg value
 * @type number
 * @default 4
 */
/*:ja
 * @plugindesc Torchlight plugin desc in Japanese.
 * @help
 * Put this plugin below LightingCore.
 */
/*~struct~Tint:
 * @param color
 * @text Color
 * @type color
 * @default 18
 */
(() => {
    'use strict';
    const pluginName = 'TorchLight';
})();
`

func TestParseExtractsHeader(t *testing.T) {
	p, err := Parse("TorchLight", handWritten)
	require.NoError(t, err)

	assert.Equal(t, "TorchLight", p.Meta.Name)
	assert.Equal(t, "MZ", p.Meta.Target)
	assert.Equal(t, "v1.2.0 Flickering torch light for the map scene.", p.Meta.Desc)
	assert.Equal(t, "1.2.0", p.Meta.Version)
	assert.Equal(t, "Aiko", p.Meta.Author)
	assert.Equal(t, "https://example.com/torchlight", p.Meta.URL)
	assert.Equal(t, []string{"LightingCore"}, p.Meta.Dependencies)
	assert.Equal(t, []string{"WeatherFX"}, p.Meta.OrderAfter)
	assert.Equal(t, "\nDrop this below LightingCore and torches start to flicker.\n\nTerms: free for commercial use.", p.Meta.Help)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, handWritten, p.RawSource)
}

func TestParseExtractsParameters(t *testing.T) {
	p, err := Parse("TorchLight", handWritten)
	require.NoError(t, err)
	require.Len(t, p.Parameters, 3)

	radius := p.Parameters[0]
	assert.Equal(t, "radius", radius.ID)
	assert.Equal(t, "Light radius", radius.Text)
	assert.Equal(t, "Radius of the torch glow, in tiles.", radius.Desc)
	assert.Equal(t, plugindef.TypeNumber, radius.Type.Kind)
	require.NotNil(t, radius.Min)
	assert.Equal(t, 1.0, *radius.Min)
	require.NotNil(t, radius.Max)
	assert.Equal(t, 10.0, *radius.Max)
	require.NotNil(t, radius.Decimals)
	assert.Equal(t, 1, *radius.Decimals)
	assert.Equal(t, "4", radius.Default)

	mode := p.Parameters[1]
	assert.Equal(t, plugindef.TypeSelect, mode.Type.Kind)
	assert.Equal(t, []plugindef.Option{
		{Value: "add", Label: "Additive"},
		{Value: "screen"},
	}, mode.Options)
	assert.Equal(t, "add", mode.Default)

	flicker := p.Parameters[2]
	assert.Equal(t, plugindef.TypeBoolean, flicker.Type.Kind)
	assert.Equal(t, "Enabled", flicker.On)
	assert.Equal(t, "Disabled", flicker.Off)
	assert.Equal(t, "true", flicker.Default)
}

func TestParseExtractsCommandsNotesStructsLocales(t *testing.T) {
	p, err := Parse("TorchLight", handWritten)
	require.NoError(t, err)

	require.Len(t, p.Commands, 1)
	cmd := p.Commands[0]
	assert.Equal(t, "SetRadius", cmd.ID)
	assert.Equal(t, "Set radius", cmd.Text)
	assert.Equal(t, "Changes the torch radius.", cmd.Desc)
	require.Len(t, cmd.Args, 1)
	assert.Equal(t, "value", cmd.Args[0].ID)
	assert.Equal(t, plugindef.TypeNumber, cmd.Args[0].Type.Kind)

	require.Len(t, p.Meta.NoteParams, 1)
	assert.Equal(t, plugindef.NoteParam{
		Name:     "torchImage",
		Required: true,
		Dir:      "img/lights/",
		Kind:     "file",
		Data:     "events",
	}, p.Meta.NoteParams[0])

	require.Len(t, p.Structs, 1)
	assert.Equal(t, "Tint", p.Structs[0].Name)
	require.Len(t, p.Structs[0].Params, 1)
	assert.Equal(t, "color", p.Structs[0].Params[0].ID)
	assert.Equal(t, plugindef.TypeColor, p.Structs[0].Params[0].Type.Kind)

	require.Contains(t, p.Meta.Locales, "ja")
	assert.Equal(t, "Torchlight plugin desc in Japanese.", p.Meta.Locales["ja"].Desc)
}

func TestParseWithoutAnnotationFails(t *testing.T) {
	_, err := Parse("Plain", "console.log('not a plugin');\n")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no plugin annotation block")
}

func TestUnknownTypeDegradesToString(t *testing.T) {
	src := `/*:
 * @target MZ
 * @param gadget
 * @type fancy_widget
 */
(() => {})();
`
	p, err := Parse("Gadgets", src)
	require.NoError(t, err)
	require.Len(t, p.Parameters, 1)
	assert.Equal(t, plugindef.TypeString, p.Parameters[0].Type.Kind)
}

func TestUnknownTagsIgnored(t *testing.T) {
	src := `/*:
 * @target MZ
 * @requiredAssets img/lights/torch.png
 * @param radius
 * @type number
 */
(() => {})();
`
	p, err := Parse("TorchLight", src)
	require.NoError(t, err)
	require.Len(t, p.Parameters, 1)
	assert.Equal(t, "radius", p.Parameters[0].ID)
}

func campfireDefinition() *plugindef.Plugin {
	min := 1.0
	max := 12.0
	decimals := 1
	p := plugindef.New("Campfire")
	p.Meta.Desc = "Crackling campfires with tinted light."
	p.Meta.Version = "2.0.1"
	p.Meta.Author = "Aiko"
	p.Meta.URL = "https://example.com/campfire"
	p.Meta.Help = "Place campfire events and tag them with <campfire>.\n\nThe tint struct controls the glow color."
	p.Meta.Dependencies = []string{"LightingCore"}
	p.Meta.OrderAfter = []string{"WeatherFX"}
	p.Meta.OrderBefore = []string{"NightShade"}
	p.Meta.NoteParams = []plugindef.NoteParam{
		{Name: "campfireImage", Required: true, Dir: "img/fires/", Kind: "file", Data: "events"},
	}
	p.Meta.Locales = map[string]plugindef.Localized{
		"de": {Desc: "Knisternde Lagerfeuer.", Help: "Events mit <campfire> markieren."},
		"ja": {Desc: "Campfire desc in Japanese."},
	}
	p.Parameters = []plugindef.Parameter{
		{
			ID:       "radius",
			Text:     "Glow radius",
			Desc:     "Radius of the fire glow, in tiles.",
			Type:     plugindef.TypeSpec{Kind: plugindef.TypeNumber},
			Default:  "6",
			Min:      &min,
			Max:      &max,
			Decimals: &decimals,
		},
		{
			ID:      "crackle",
			Text:    "Crackle sound",
			Type:    plugindef.TypeSpec{Kind: plugindef.TypeBoolean},
			On:      "Play",
			Off:     "Mute",
			Default: "true",
		},
		{
			ID:      "blend",
			Text:    "Blend mode",
			Type:    plugindef.TypeSpec{Kind: plugindef.TypeSelect},
			Options: []plugindef.Option{{Value: "add", Label: "Additive"}, {Value: "screen"}},
			Default: "add",
		},
		{
			ID:      "smokeImage",
			Text:    "Smoke picture",
			Type:    plugindef.TypeSpec{Kind: plugindef.TypeFile},
			Dir:     "img/pictures/",
			Default: "Smoke01",
		},
		{
			ID:   "tints",
			Text: "Tint cycle",
			Type: plugindef.TypeSpec{
				Kind: plugindef.TypeArray,
				Elem: &plugindef.TypeSpec{Kind: plugindef.TypeStruct, Struct: "Tint"},
			},
			Default: "[]",
		},
	}
	p.Commands = []plugindef.Command{
		{
			ID:   "Ignite",
			Text: "Ignite",
			Desc: "Lights the campfire at an event.",
			Args: []plugindef.Parameter{
				{ID: "eventId", Text: "Event", Type: plugindef.TypeSpec{Kind: plugindef.TypeNumber}, Default: "0"},
				{ID: "fade", Type: plugindef.TypeSpec{Kind: plugindef.TypeBoolean}, Default: "false"},
			},
		},
	}
	p.Structs = []plugindef.Struct{
		{
			ID:   "b6f0a7d2-4f58-4f6e-9f0c-2bb0e5a6d1c9",
			Name: "Tint",
			Params: []plugindef.Parameter{
				{ID: "color", Text: "Color", Type: plugindef.TypeSpec{Kind: plugindef.TypeColor}, Default: "18"},
				{ID: "weight", Type: plugindef.TypeSpec{Kind: plugindef.TypeNumber}, Default: "1"},
			},
		},
	}
	p.CustomCode = "const refresh = () => {\n    $gameMap.requestRefresh();\n};\nrefresh();"
	return p
}

func TestRoundTripThroughGeneratedSource(t *testing.T) {
	def := campfireDefinition()
	original := jsgen.Generate(def)

	imported, err := Parse("Campfire", original)
	require.NoError(t, err)
	assert.Equal(t, original, imported.RawSource)

	out, preserved := jsgen.GenerateRaw(imported)
	assert.True(t, preserved)
	assert.Equal(t, original, out)
}

func TestRoundTripKeepsBodyVerbatim(t *testing.T) {
	def := campfireDefinition()
	original := jsgen.Generate(def)

	imported, err := Parse("Campfire", original)
	require.NoError(t, err)

	out, preserved := jsgen.GenerateRaw(imported)
	require.True(t, preserved)
	assert.True(t, strings.Contains(out, "$gameMap.requestRefresh();"))
	assert.True(t, strings.Contains(out, `PluginManager.registerCommand(pluginName, "Ignite"`))
}
