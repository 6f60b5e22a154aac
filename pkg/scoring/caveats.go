package scoring

import (
	"fmt"
	"math"

	"connector-selector/pkg/catalog"
	"connector-selector/pkg/requirement"
)

// Caveat is a requirement the committed candidate does not meet as standard.
type Caveat struct {
	Attribute requirement.Attribute `json:"attribute"`
	Message   string                `json:"message"`
}

// Caveats lists the soft mismatches between a candidate and the known answers,
// in attribute order.
func Caveats(c catalog.Candidate, answers requirement.Answers) []Caveat {
	var out []Caveat
	add := func(attr requirement.Attribute, format string, args ...interface{}) {
		out = append(out, Caveat{Attribute: attr, Message: fmt.Sprintf(format, args...)})
	}

	for _, attr := range sortedAttributes(answers) {
		ans, ok := answers.Known(attr)
		if !ok {
			continue
		}
		v := ans.Value

		switch attr {
		case requirement.PinCount:
			n, ok := v.Number()
			if !ok {
				continue
			}
			pins := int(math.Round(n))
			if pins > c.MaxPins {
				add(attr, "Pin count of %d exceeds standard maximum of %d", pins, c.MaxPins)
			} else if !c.OffersPinCount(pins) {
				add(attr, "Pin count of %d is within range but may need configuration confirmation", pins)
			}

		case requirement.PitchSize:
			if p, ok := v.Number(); ok && math.Abs(p-c.PitchSize) > pitchTolerance {
				add(attr, "Pitch size of %gmm differs from standard %gmm", p, c.PitchSize)
			}

		case requirement.MaxCurrent:
			if a, ok := v.Number(); ok && a > c.MaxCurrent {
				add(attr, "Current requirement of %gA exceeds standard rating of %gA", a, c.MaxCurrent)
			}

		case requirement.TempRange:
			if t, ok := v.Number(); ok && t > c.TempRange.Max {
				add(attr, "Temperature requirement of %g°C exceeds maximum rating of %g°C", t, c.TempRange.Max)
			}

		case requirement.HousingMaterial:
			text, _ := v.Text()
			if m := requirement.ParseMaterial(text); m != requirement.MaterialUnknown && m != c.Material() {
				add(attr, "Housing material requirement (%s) differs from standard (%s)", m, c.Material())
			}

		case requirement.EMIProtection:
			if want, ok := v.Bool(); ok && want && !c.EMIProtection {
				add(attr, "EMI protection is required but not standard with this connector")
			}

		case requirement.MixedPowerSignal:
			if want, ok := v.Bool(); ok && want && !c.MixedPowerSignal {
				add(attr, "Mixed power/signal capability is required but may need special configuration")
			}

		case requirement.RightAngle:
			if want, ok := v.Bool(); ok && want != c.RightAngle {
				add(attr, "Connector orientation (right angle: %t) may require special configuration", want)
			}

		case requirement.HeightRequirement:
			if h, ok := v.Number(); ok && !c.HeightRange.Contains(h) {
				add(attr, "Height requirement of %gmm differs from available options (closest: %gmm)", h, c.NearestHeight(h))
			}
		}
	}
	return out
}
