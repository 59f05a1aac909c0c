package plugindef

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParamType identifies one of the engine's recognized parameter kinds.
// The set is closed: the generator, validator and kind table all switch
// over it exhaustively.
type ParamType string

const (
	TypeString      ParamType = "string"
	TypeMultiline   ParamType = "multiline_string"
	TypeNote        ParamType = "note"
	TypeNumber      ParamType = "number"
	TypeBoolean     ParamType = "boolean"
	TypeSelect      ParamType = "select"
	TypeCombo       ParamType = "combo"
	TypeFile        ParamType = "file"
	TypeColor       ParamType = "color"
	TypeActor       ParamType = "actor"
	TypeClass       ParamType = "class"
	TypeSkill       ParamType = "skill"
	TypeItem        ParamType = "item"
	TypeWeapon      ParamType = "weapon"
	TypeArmor       ParamType = "armor"
	TypeEnemy       ParamType = "enemy"
	TypeTroop       ParamType = "troop"
	TypeState       ParamType = "state"
	TypeAnimation   ParamType = "animation"
	TypeTileset     ParamType = "tileset"
	TypeCommonEvent ParamType = "common_event"
	TypeSwitch      ParamType = "switch"
	TypeVariable    ParamType = "variable"

	// Compositional kinds. TypeStruct carries a struct name, TypeArray an
	// element type; neither appears bare in an annotation.
	TypeStruct ParamType = "struct"
	TypeArray  ParamType = "array"
)

// ParseStrategy classifies the runtime conversion the generated
// boilerplate applies to the engine's raw string value for a kind.
type ParseStrategy int

const (
	ParseString ParseStrategy = iota
	ParseNumber
	ParseBool
	ParseJSON
)

// KindInfo describes the generation and validation contract of one
// scalar parameter kind: which optional fields are legal and how the
// generated boilerplate parses the raw value.
type KindInfo struct {
	Strategy ParseStrategy
	Numeric  bool // min/max/decimals apply
	Options  bool // select/combo option list applies
	Dir      bool // directory hint applies
	OnOff    bool // on/off captions apply
	DataRef  bool // value indexes a database table
}

var scalarKinds = map[ParamType]KindInfo{
	TypeString:      {Strategy: ParseString},
	TypeMultiline:   {Strategy: ParseString},
	TypeNote:        {Strategy: ParseString},
	TypeNumber:      {Strategy: ParseNumber, Numeric: true},
	TypeBoolean:     {Strategy: ParseBool, OnOff: true},
	TypeSelect:      {Strategy: ParseString, Options: true},
	TypeCombo:       {Strategy: ParseString, Options: true},
	TypeFile:        {Strategy: ParseString, Dir: true},
	TypeColor:       {Strategy: ParseString},
	TypeActor:       {Strategy: ParseNumber, DataRef: true},
	TypeClass:       {Strategy: ParseNumber, DataRef: true},
	TypeSkill:       {Strategy: ParseNumber, DataRef: true},
	TypeItem:        {Strategy: ParseNumber, DataRef: true},
	TypeWeapon:      {Strategy: ParseNumber, DataRef: true},
	TypeArmor:       {Strategy: ParseNumber, DataRef: true},
	TypeEnemy:       {Strategy: ParseNumber, DataRef: true},
	TypeTroop:       {Strategy: ParseNumber, DataRef: true},
	TypeState:       {Strategy: ParseNumber, DataRef: true},
	TypeAnimation:   {Strategy: ParseNumber, DataRef: true},
	TypeTileset:     {Strategy: ParseNumber, DataRef: true},
	TypeCommonEvent: {Strategy: ParseNumber, DataRef: true},
	TypeSwitch:      {Strategy: ParseNumber, DataRef: true},
	TypeVariable:    {Strategy: ParseNumber, DataRef: true},
}

// ScalarKinds returns the scalar kind tags in a stable order, for
// editing surfaces and diagnostics.
func ScalarKinds() []ParamType {
	return []ParamType{
		TypeString, TypeMultiline, TypeNote, TypeNumber, TypeBoolean,
		TypeSelect, TypeCombo, TypeFile, TypeColor,
		TypeActor, TypeClass, TypeSkill, TypeItem, TypeWeapon, TypeArmor,
		TypeEnemy, TypeTroop, TypeState, TypeAnimation, TypeTileset,
		TypeCommonEvent, TypeSwitch, TypeVariable,
	}
}

// Info returns the kind table entry for a scalar kind. Struct and array
// kinds are compositional and have no scalar entry.
func (t ParamType) Info() (KindInfo, bool) {
	info, ok := scalarKinds[t]
	return info, ok
}

// TypeSpec is the declared type of a parameter. Scalar kinds stand
// alone; TypeStruct references a Struct by name and TypeArray wraps an
// element type, so specs nest (e.g. struct<Position>[]).
type TypeSpec struct {
	Kind   ParamType
	Struct string
	Elem   *TypeSpec
}

// String renders the spec in annotation form: the bare kind tag,
// struct<Name>, or the element form suffixed with [].
func (s TypeSpec) String() string {
	switch s.Kind {
	case TypeArray:
		if s.Elem == nil {
			return "[]"
		}
		return s.Elem.String() + "[]"
	case TypeStruct:
		return "struct<" + s.Struct + ">"
	default:
		return string(s.Kind)
	}
}

// BaseKind unwraps array nesting to the underlying element kind, which
// governs the legality of the optional fields (an array of numbers
// still takes min/max for its elements).
func (s TypeSpec) BaseKind() ParamType {
	cur := s
	for cur.Kind == TypeArray && cur.Elem != nil {
		cur = *cur.Elem
	}
	return cur.Kind
}

// Strategy resolves the parse strategy for the spec. Arrays and structs
// always parse as JSON; unknown kinds fall back to plain strings so the
// generator can degrade instead of failing.
func (s TypeSpec) Strategy() ParseStrategy {
	switch s.Kind {
	case TypeArray, TypeStruct:
		return ParseJSON
	default:
		if info, ok := scalarKinds[s.Kind]; ok {
			return info.Strategy
		}
		return ParseString
	}
}

// ParseTypeSpec parses the annotation form of a parameter type.
func ParseTypeSpec(s string) (TypeSpec, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "[]") {
		elem, err := ParseTypeSpec(strings.TrimSuffix(s, "[]"))
		if err != nil {
			return TypeSpec{}, err
		}
		return TypeSpec{Kind: TypeArray, Elem: &elem}, nil
	}
	if strings.HasPrefix(s, "struct<") && strings.HasSuffix(s, ">") {
		name := strings.TrimSuffix(strings.TrimPrefix(s, "struct<"), ">")
		if name == "" {
			return TypeSpec{}, fmt.Errorf("struct type is missing a struct name")
		}
		return TypeSpec{Kind: TypeStruct, Struct: name}, nil
	}
	if _, ok := scalarKinds[ParamType(s)]; ok {
		return TypeSpec{Kind: ParamType(s)}, nil
	}
	return TypeSpec{}, fmt.Errorf("unrecognized parameter type '%s'", s)
}

// MarshalYAML stores the spec in its annotation form.
func (s TypeSpec) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML parses the annotation form back into a spec.
func (s *TypeSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("parameter type must be a scalar, got %v", node.Kind)
	}
	parsed, err := ParseTypeSpec(node.Value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
