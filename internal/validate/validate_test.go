package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzsmith/mzsmith/internal/plugindef"
)

func validDefinition() *plugindef.Plugin {
	p := plugindef.New("TorchLight")
	p.Meta.Desc = "Adds a light radius."
	p.Meta.Help = "No setup required."
	min, max := 1.0, 10.0
	p.Parameters = []plugindef.Parameter{
		{ID: "radius", Type: plugindef.TypeSpec{Kind: plugindef.TypeNumber}, Default: "4", Min: &min, Max: &max},
		{ID: "tint", Type: plugindef.TypeSpec{Kind: plugindef.TypeStruct, Struct: "Tint"}},
	}
	p.Commands = []plugindef.Command{
		{ID: "SetRadius", Args: []plugindef.Parameter{
			{ID: "value", Type: plugindef.TypeSpec{Kind: plugindef.TypeNumber}},
		}},
	}
	p.Structs = []plugindef.Struct{
		{ID: "s1", Name: "Tint", Params: []plugindef.Parameter{
			{ID: "color", Type: plugindef.TypeSpec{Kind: plugindef.TypeColor}},
		}},
	}
	return p
}

func errorsContaining(res Result, fragment string) int {
	n := 0
	for _, e := range res.Errors {
		if strings.Contains(e, fragment) {
			n++
		}
	}
	return n
}

func TestValidDefinitionPasses(t *testing.T) {
	res := Check(validDefinition(), nil)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestDuplicateParameterFlipsValidity(t *testing.T) {
	p := validDefinition()
	res := Check(p, nil)
	require.True(t, res.Valid)

	p.Parameters = append(p.Parameters, p.Parameters[0])
	res = Check(p, nil)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "duplicate id 'radius'")

	p.Parameters = p.Parameters[:len(p.Parameters)-1]
	res = Check(p, nil)
	assert.True(t, res.Valid, "removing the duplicate must restore validity")
}

func TestEmptyPluginName(t *testing.T) {
	p := validDefinition()
	p.Meta.Name = "  "
	res := Check(p, nil)
	assert.False(t, res.Valid)
	assert.Equal(t, 1, errorsContaining(res, "plugin name"))
}

func TestNumericConstraints(t *testing.T) {
	t.Run("min greater than max", func(t *testing.T) {
		p := validDefinition()
		*p.Parameters[0].Min = 20
		res := Check(p, nil)
		assert.Equal(t, 1, errorsContaining(res, "greater than max"))
		// 20 also pushes the default out of range.
		assert.Equal(t, 1, errorsContaining(res, "below min"))
	})

	t.Run("negative decimals", func(t *testing.T) {
		p := validDefinition()
		d := -1
		p.Parameters[0].Decimals = &d
		res := Check(p, nil)
		assert.Equal(t, 1, errorsContaining(res, "decimals"))
	})

	t.Run("default above max", func(t *testing.T) {
		p := validDefinition()
		p.Parameters[0].Default = "11"
		res := Check(p, nil)
		assert.Equal(t, 1, errorsContaining(res, "above max"))
	})
}

func TestOptionalFieldsMustMatchType(t *testing.T) {
	min := 1.0
	cases := []struct {
		name     string
		prm      plugindef.Parameter
		fragment string
	}{
		{"min on string", plugindef.Parameter{ID: "a", Type: plugindef.TypeSpec{Kind: plugindef.TypeString}, Min: &min}, "min/max/decimals"},
		{"options on number", plugindef.Parameter{ID: "a", Type: plugindef.TypeSpec{Kind: plugindef.TypeNumber}, Options: []plugindef.Option{{Value: "x"}}}, "options are not valid"},
		{"dir on select", plugindef.Parameter{ID: "a", Type: plugindef.TypeSpec{Kind: plugindef.TypeSelect}, Dir: "img/", Options: []plugindef.Option{{Value: "x"}}}, "directory hint"},
		{"on/off on string", plugindef.Parameter{ID: "a", Type: plugindef.TypeSpec{Kind: plugindef.TypeString}, On: "Yes"}, "on/off captions"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := plugindef.New("T")
			p.Meta.Desc, p.Meta.Help = "d", "h"
			p.Parameters = []plugindef.Parameter{tc.prm}
			res := Check(p, nil)
			assert.False(t, res.Valid)
			assert.Equal(t, 1, errorsContaining(res, tc.fragment))
		})
	}
}

func TestArrayElementCarriesConstraints(t *testing.T) {
	p := validDefinition()
	min := 0.0
	p.Parameters = append(p.Parameters, plugindef.Parameter{
		ID:   "levels",
		Type: plugindef.TypeSpec{Kind: plugindef.TypeArray, Elem: &plugindef.TypeSpec{Kind: plugindef.TypeNumber}},
		Min:  &min,
	})
	res := Check(p, nil)
	assert.True(t, res.Valid, "numeric constraints are legal on arrays of numbers")
}

func TestEmptyOptionValue(t *testing.T) {
	p := validDefinition()
	p.Parameters = append(p.Parameters, plugindef.Parameter{
		ID:      "mode",
		Type:    plugindef.TypeSpec{Kind: plugindef.TypeSelect},
		Options: []plugindef.Option{{Value: "soft"}, {Value: "", Label: "broken"}},
	})
	res := Check(p, nil)
	assert.False(t, res.Valid)
	assert.Equal(t, 1, errorsContaining(res, "empty value"))
}

func TestDanglingStructReference(t *testing.T) {
	p := validDefinition()
	p.Parameters[1].Type.Struct = "Nowhere"
	res := Check(p, nil)
	assert.False(t, res.Valid)
	assert.Equal(t, 1, errorsContaining(res, "undefined struct 'Nowhere'"))
}

func TestStructCycles(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		p := validDefinition()
		p.Structs[0].Params = append(p.Structs[0].Params, plugindef.Parameter{
			ID: "self", Type: plugindef.TypeSpec{Kind: plugindef.TypeStruct, Struct: "Tint"},
		})
		res := Check(p, nil)
		assert.False(t, res.Valid)
		assert.Equal(t, 1, errorsContaining(res, "struct reference cycle"))
	})

	t.Run("transitive through an array", func(t *testing.T) {
		p := validDefinition()
		p.Structs[0].Params = append(p.Structs[0].Params, plugindef.Parameter{
			ID: "steps", Type: plugindef.TypeSpec{Kind: plugindef.TypeArray,
				Elem: &plugindef.TypeSpec{Kind: plugindef.TypeStruct, Struct: "Step"}},
		})
		p.Structs = append(p.Structs, plugindef.Struct{ID: "s2", Name: "Step",
			Params: []plugindef.Parameter{
				{ID: "back", Type: plugindef.TypeSpec{Kind: plugindef.TypeStruct, Struct: "Tint"}},
			}})
		res := Check(p, nil)
		assert.False(t, res.Valid)
		require.Equal(t, 1, errorsContaining(res, "struct reference cycle"))
	})
}

func TestDuplicateScopes(t *testing.T) {
	t.Run("command ids", func(t *testing.T) {
		p := validDefinition()
		p.Commands = append(p.Commands, plugindef.Command{ID: "SetRadius"})
		res := Check(p, nil)
		assert.Equal(t, 1, errorsContaining(res, "duplicate command id 'SetRadius'"))
	})

	t.Run("struct names", func(t *testing.T) {
		p := validDefinition()
		p.Structs = append(p.Structs, plugindef.Struct{ID: "s9", Name: "Tint"})
		res := Check(p, nil)
		assert.Equal(t, 1, errorsContaining(res, "duplicate struct name 'Tint'"))
	})

	t.Run("argument ids within a command", func(t *testing.T) {
		p := validDefinition()
		p.Commands[0].Args = append(p.Commands[0].Args, p.Commands[0].Args[0])
		res := Check(p, nil)
		assert.Equal(t, 1, errorsContaining(res, "duplicate id 'value' in command 'SetRadius'"))
	})

	t.Run("same id in different scopes is fine", func(t *testing.T) {
		p := validDefinition()
		p.Commands[0].Args[0].ID = "radius"
		res := Check(p, nil)
		assert.True(t, res.Valid)
	})
}

func TestWarnings(t *testing.T) {
	t.Run("missing description and help", func(t *testing.T) {
		p := plugindef.New("Bare")
		res := Check(p, nil)
		assert.True(t, res.Valid, "warnings never block")
		assert.Len(t, res.Warnings, 2)
	})

	t.Run("unknown dependency", func(t *testing.T) {
		p := validDefinition()
		p.Meta.Dependencies = []string{"CoreShim"}

		res := Check(p, []string{"CoreShim", "Other"})
		assert.Empty(t, res.Warnings)

		res = Check(p, []string{"Other"})
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "'CoreShim'")

		res = Check(p, nil)
		assert.Empty(t, res.Warnings, "dependency cross-check is skipped without a project")
	})

	t.Run("unparsable locale tag", func(t *testing.T) {
		p := validDefinition()
		p.Meta.Locales = map[string]plugindef.Localized{
			"ja":        {Desc: "ok"},
			"not a tag": {Desc: "bad"},
		}
		res := Check(p, nil)
		assert.True(t, res.Valid)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "'not a tag'")
	})

	t.Run("commands on MV", func(t *testing.T) {
		p := validDefinition()
		p.Meta.Target = plugindef.TargetMV
		res := Check(p, nil)
		assert.True(t, res.Valid)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "MZ")
	})
}
