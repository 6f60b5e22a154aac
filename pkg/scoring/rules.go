package scoring

import (
	"fmt"
	"math"

	"connector-selector/pkg/catalog"
	"connector-selector/pkg/requirement"
)

const (
	pitchTolerance     = 0.05
	neutralScore       = 0.5
	heightRangeNearMm  = 1.5
	currentCriticalX   = 1.5
	tempCriticalDiff   = 50.0
	tempDecaySpan      = 75.0
	pinCriticalDist    = 10
	heightCriticalRel  = 0.8
	maxPlausibleGauges = 8
)

// mismatch tags a critical finding that triggers an extra severity halving.
type mismatch int

const (
	mismatchNone mismatch = iota
	mismatchMixedPower
	mismatchMetalHousing
)

type rule struct {
	score    float64
	critical bool
	severe   mismatch
	reason   string
}

// evaluate applies the attribute's rule. The second result is false when the
// answer carries nothing the rule can score, such as an unrecognized material.
func evaluate(c catalog.Candidate, attr requirement.Attribute, v requirement.Value) (rule, bool) {
	switch attr {
	case requirement.Location:
		return locationRule(c, v)
	case requirement.ConnectionTypes:
		return connectionRule(v)
	case requirement.RightAngle:
		return rightAngleRule(c, v)
	case requirement.WireGauge:
		return gaugeRule(c, v)
	case requirement.HeightRequirement:
		return heightRule(c, v)
	case requirement.PinCount:
		return pinRule(c, v)
	case requirement.HousingMaterial:
		return housingRule(c, v)
	case requirement.MixedPowerSignal:
		return mixedPowerRule(c, v)
	case requirement.TempRange:
		return tempRule(c, v)
	case requirement.MaxCurrent:
		return currentRule(c, v)
	case requirement.PitchSize:
		return pitchRule(c, v)
	case requirement.EMIProtection:
		return emiRule(c, v)
	}
	return rule{score: neutralScore}, true
}

func locationRule(c catalog.Candidate, v requirement.Value) (rule, bool) {
	text, _ := v.Text()
	switch requirement.ParseLocation(text) {
	case requirement.LocationInternal:
		return rule{score: 1.0}, true
	case requirement.LocationExternal:
		if c.PanelMount {
			return rule{score: 1.5, reason: "panel mount suits external use"}, true
		}
		return rule{score: 0.3, reason: "no panel mount for external use"}, true
	}
	return rule{}, false
}

func connectionRule(v requirement.Value) (rule, bool) {
	text, _ := v.Text()
	switch requirement.ParseConnectionType(text) {
	case requirement.ConnectionPCBToCable, requirement.ConnectionCableToPCB:
		return rule{score: 1.0}, true
	case requirement.ConnectionPCBToPCB, requirement.ConnectionCableCable:
		return rule{score: 0.8}, true
	}
	return rule{}, false
}

func rightAngleRule(c catalog.Candidate, v requirement.Value) (rule, bool) {
	want, ok := v.Bool()
	if !ok {
		return rule{}, false
	}
	if want && !c.RightAngle {
		return rule{score: 0.3, critical: true, reason: "Right angle orientation not supported"}, true
	}
	return rule{score: 1.0}, true
}

func gaugeRule(c catalog.Candidate, v requirement.Value) (rule, bool) {
	gauges := v.Numbers()
	if len(gauges) == 0 || len(gauges) > maxPlausibleGauges {
		return rule{}, false
	}
	var missing []int
	for _, g := range gauges {
		if !c.SupportsGauge(int(g)) {
			missing = append(missing, int(g))
		}
	}
	if len(missing) > 0 {
		return rule{critical: true, reason: fmt.Sprintf("Wire gauge AWG%d not supported", missing[0])}, true
	}
	return rule{score: 1.0}, true
}

func heightRule(c catalog.Candidate, v requirement.Value) (rule, bool) {
	if lo, hi, ok := v.Range(); ok {
		return heightRangeRule(c, lo, hi), true
	}
	h, ok := v.Number()
	if !ok || h <= 0 {
		return rule{}, false
	}
	if c.HeightRange.Contains(h) {
		return rule{score: 1.0}, true
	}

	nearest := c.NearestHeight(h)
	rel := math.Abs(nearest-h) / h
	var score float64
	switch {
	case rel <= 0.1:
		score = 0.95
	case rel <= 0.2:
		score = 0.85
	case rel <= 0.3:
		score = 0.7
	default:
		score = math.Max(0.4, 0.8-rel/2)
	}
	r := rule{score: score, reason: fmt.Sprintf("Height %gmm outside range, nearest %gmm", h, nearest)}
	if rel > heightCriticalRel {
		r.critical = true
	}
	return r, true
}

func heightRangeRule(c catalog.Candidate, lo, hi float64) rule {
	diff := math.Inf(1)
	for _, opt := range c.HeightOptions {
		switch {
		case opt >= lo && opt <= hi:
			return rule{score: 1.0}
		case opt < lo:
			diff = math.Min(diff, lo-opt)
		default:
			diff = math.Min(diff, opt-hi)
		}
	}
	if diff <= heightRangeNearMm {
		return rule{score: 0.9}
	}
	return rule{score: math.Max(0.5, 1-diff/10), reason: fmt.Sprintf("No height option within %g-%gmm", lo, hi)}
}

func pinRule(c catalog.Candidate, v requirement.Value) (rule, bool) {
	n, ok := v.Number()
	if !ok || n <= 0 {
		return rule{}, false
	}
	pins := int(math.Round(n))
	if pins > c.MaxPins {
		return rule{critical: true, reason: fmt.Sprintf("Pin count %d exceeds maximum %d", pins, c.MaxPins)}, true
	}
	if c.OffersPinCount(pins) {
		return rule{score: 1.0}, true
	}

	nearest, dist := c.NearestPinCount(pins)
	r := rule{reason: fmt.Sprintf("Pin count %d not offered, nearest %d", pins, nearest)}
	switch {
	case dist <= 2:
		r.score = 0.8
	case dist <= 4:
		r.score = 0.5
	default:
		r.score = 0.2
	}
	r.critical = dist > pinCriticalDist
	return r, true
}

func housingRule(c catalog.Candidate, v requirement.Value) (rule, bool) {
	text, _ := v.Text()
	want := requirement.ParseMaterial(text)
	if want == requirement.MaterialUnknown {
		return rule{}, false
	}
	have := c.Material()
	switch {
	case want == have && have == requirement.MaterialMetal:
		return rule{score: 1.3}, true
	case want == have:
		return rule{score: 1.2}, true
	case want == requirement.MaterialMetal:
		return rule{
			score:    0.15,
			critical: true,
			severe:   mismatchMetalHousing,
			reason:   "Metal housing required but not available",
		}, true
	}
	return rule{score: neutralScore, reason: fmt.Sprintf("Housing is %s", have)}, true
}

func mixedPowerRule(c catalog.Candidate, v requirement.Value) (rule, bool) {
	want, ok := v.Bool()
	if !ok {
		return rule{}, false
	}
	switch {
	case want && c.MixedPowerSignal:
		return rule{score: 1.5}, true
	case want:
		return rule{
			score:    0.1,
			critical: true,
			severe:   mismatchMixedPower,
			reason:   "Mixed power/signal required but not supported",
		}, true
	}
	return rule{score: 1.0}, true
}

func tempRule(c catalog.Candidate, v requirement.Value) (rule, bool) {
	t, ok := v.Number()
	if !ok {
		return rule{}, false
	}
	switch {
	case c.TempRange.Contains(t):
		return rule{score: 1.0}, true
	case t > c.TempRange.Max:
		diff := t - c.TempRange.Max
		return rule{
			score:    math.Max(0.3, 1-diff/tempDecaySpan),
			critical: diff > tempCriticalDiff,
			reason:   fmt.Sprintf("Temperature %g°C above rating %g°C", t, c.TempRange.Max),
		}, true
	}
	diff := c.TempRange.Min - t
	return rule{
		score:  math.Max(0.3, 1-diff/tempDecaySpan),
		reason: fmt.Sprintf("Temperature %g°C below rating %g°C", t, c.TempRange.Min),
	}, true
}

func currentRule(c catalog.Candidate, v requirement.Value) (rule, bool) {
	amps, ok := v.Number()
	if !ok || amps < 0 {
		return rule{}, false
	}
	if amps <= c.MaxCurrent {
		return rule{score: 1.0}, true
	}
	excess := amps - c.MaxCurrent
	return rule{
		score:    math.Max(0.2, 1-excess/c.MaxCurrent),
		critical: amps > currentCriticalX*c.MaxCurrent,
		reason:   fmt.Sprintf("Current %gA exceeds rating %gA", amps, c.MaxCurrent),
	}, true
}

func pitchRule(c catalog.Candidate, v requirement.Value) (rule, bool) {
	p, ok := v.Number()
	if !ok || p <= 0 {
		return rule{}, false
	}
	if math.Abs(p-c.PitchSize) < pitchTolerance {
		return rule{score: 2.0}, true
	}
	return rule{
		score:    0.1,
		critical: true,
		reason:   fmt.Sprintf("Pitch %gmm differs from %gmm", p, c.PitchSize),
	}, true
}

// emiRule only applies to question sets that weight emi_protection. The
// default set has no EMI question, so Score skips the answer and EMI acts
// through the metal housing it implies.
func emiRule(c catalog.Candidate, v requirement.Value) (rule, bool) {
	want, ok := v.Bool()
	if !ok {
		return rule{}, false
	}
	switch {
	case want && !c.EMIProtection:
		return rule{score: 0.3, critical: true, reason: "EMI protection required but not available"}, true
	case want == c.EMIProtection:
		return rule{score: 1.0}, true
	}
	return rule{score: 0.7}, true
}
