package requirement

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAttribute is returned when a name does not map to a known attribute.
// Encountering it while loading catalogs is fatal.
var ErrUnknownAttribute = errors.New("unknown attribute")

// Attribute names a single requirement dimension (e.g. "pitch_size").
type Attribute string

const (
	ConnectionTypes      Attribute = "connection_types"
	Location             Attribute = "location"
	HousingMaterial      Attribute = "housing_material"
	MixedPowerSignal     Attribute = "mixed_power_signal"
	PinCount             Attribute = "pin_count"
	HeightRequirement    Attribute = "height_requirement"
	PitchSize            Attribute = "pitch_size"
	RightAngle           Attribute = "right_angle"
	TempRange            Attribute = "temp_range"
	MaxCurrent           Attribute = "max_current"
	WireGauge            Attribute = "wire_gauge"
	EMIProtection        Attribute = "emi_protection"
	ConnectorOrientation Attribute = "connector_orientation"
)

// Kind is the canonical value kind an attribute normalizes to.
type Kind int

const (
	KindUnknown Kind = iota
	KindNumber
	KindBool
	KindText
	KindSet
	KindRange
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindText:
		return "text"
	case KindSet:
		return "set"
	case KindRange:
		return "range"
	default:
		return "unknown"
	}
}

var attributeKinds = map[Attribute]Kind{
	ConnectionTypes:      KindText,
	Location:             KindText,
	HousingMaterial:      KindText,
	MixedPowerSignal:     KindBool,
	PinCount:             KindNumber,
	HeightRequirement:    KindNumber,
	PitchSize:            KindNumber,
	RightAngle:           KindBool,
	TempRange:            KindNumber,
	MaxCurrent:           KindNumber,
	WireGauge:            KindNumber,
	EMIProtection:        KindBool,
	ConnectorOrientation: KindBool,
}

var attributeAliases = map[string]Attribute{
	"connection_type": ConnectionTypes,
	"connection":      ConnectionTypes,
	"housing":         HousingMaterial,
	"material":        HousingMaterial,
	"mixed_power":     MixedPowerSignal,
	"pins":            PinCount,
	"height":          HeightRequirement,
	"pitch":           PitchSize,
	"temperature":     TempRange,
	"max_temp":        TempRange,
	"current":         MaxCurrent,
	"awg":             WireGauge,
	"emi":             EMIProtection,
	"orientation":     ConnectorOrientation,
}

// ParseAttribute maps a name or a known alias to an Attribute.
func ParseAttribute(name string) (Attribute, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if _, ok := attributeKinds[Attribute(key)]; ok {
		return Attribute(key), nil
	}
	if attr, ok := attributeAliases[key]; ok {
		return attr, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
}

// KindOf returns the canonical kind for attr.
func KindOf(attr Attribute) Kind {
	return attributeKinds[attr]
}

// Known reports whether attr belongs to the closed attribute set.
func Known(attr Attribute) bool {
	_, ok := attributeKinds[attr]
	return ok
}

// Critical attributes must be settled before an early commit is allowed.
var Critical = []Attribute{MixedPowerSignal, HousingMaterial}
