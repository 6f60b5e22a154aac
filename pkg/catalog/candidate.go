package catalog

import (
	"math"
	"sort"

	"connector-selector/pkg/requirement"
)

// Span is a closed numeric interval such as a height or temperature range.
type Span struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max" validate:"gtefield=Min"`
}

// Contains reports whether v lies inside the span, bounds included.
func (s Span) Contains(v float64) bool {
	return v >= s.Min && v <= s.Max
}

// Candidate is one connector family. Candidates are never mutated after load.
type Candidate struct {
	ID                string    `yaml:"id" validate:"required,alphanum"`
	Family            string    `yaml:"family" validate:"required"`
	PitchSize         float64   `yaml:"pitch_size" validate:"gt=0"`
	EMIProtection     bool      `yaml:"emi_protection"`
	HousingMaterial   string    `yaml:"housing_material" validate:"oneof=metal plastic"`
	WeightCategory    string    `yaml:"weight_category"`
	PanelMount        bool      `yaml:"panel_mount"`
	HeightRange       Span      `yaml:"height_range"`
	HeightOptions     []float64 `yaml:"height_options" validate:"min=1,dive,gt=0"`
	PCBThicknessRange Span      `yaml:"pcb_thickness_range"`
	RightAngle        bool      `yaml:"right_angle"`
	TempRange         Span      `yaml:"temp_range"`
	VibrationG        float64   `yaml:"vibration_g" validate:"gte=0"`
	ShockG            float64   `yaml:"shock_g" validate:"gte=0"`
	MaxCurrent        float64   `yaml:"max_current" validate:"gt=0"`
	ContactResistance float64   `yaml:"contact_resistance" validate:"gte=0"`
	MixedPowerSignal  bool      `yaml:"mixed_power_signal"`
	Location          string    `yaml:"location" validate:"oneof=internal external"`
	MaxMatingForce    float64   `yaml:"max_mating_force" validate:"gte=0"`
	MinUnmatingForce  float64   `yaml:"min_unmating_force" validate:"gte=0"`
	WireGaugeNames    []string  `yaml:"wire_gauges" validate:"min=1"`
	MatingCycles      int       `yaml:"mating_cycles" validate:"gte=0"`
	Availability      string    `yaml:"availability"`
	ValidPinCounts    []int     `yaml:"valid_pin_counts" validate:"min=1,dive,gt=0"`
	MaxPins           int       `yaml:"max_pins" validate:"gt=0"`
	ConfiguratorURL   string    `yaml:"configurator_url" validate:"omitempty,url"`

	wireGauges []int
	pinSet     map[int]struct{}
}

// Material returns the housing material as a vocabulary value.
func (c Candidate) Material() requirement.Material {
	return requirement.ParseMaterial(c.HousingMaterial)
}

// MountLocation returns the candidate's mounting location as a vocabulary value.
func (c Candidate) MountLocation() requirement.MountLocation {
	return requirement.ParseLocation(c.Location)
}

// WireGauges returns the supported AWG sizes in ascending order.
func (c Candidate) WireGauges() []int {
	return append([]int(nil), c.wireGauges...)
}

// SupportsGauge reports whether the candidate accepts the given AWG size.
func (c Candidate) SupportsGauge(awg int) bool {
	for _, g := range c.wireGauges {
		if g == awg {
			return true
		}
	}
	return false
}

// OffersPinCount reports exact membership in the valid pin count set.
func (c Candidate) OffersPinCount(n int) bool {
	_, ok := c.pinSet[n]
	return ok
}

// NearestPinCount returns the closest offered pin count and its distance.
// Ties resolve to the smaller count.
func (c Candidate) NearestPinCount(n int) (int, int) {
	best, dist := 0, math.MaxInt
	for _, p := range c.ValidPinCounts {
		d := p - n
		if d < 0 {
			d = -d
		}
		if d < dist || (d == dist && p < best) {
			best, dist = p, d
		}
	}
	return best, dist
}

// NearestHeight returns the closest height option to h.
func (c Candidate) NearestHeight(h float64) float64 {
	best := c.HeightOptions[0]
	for _, opt := range c.HeightOptions[1:] {
		if math.Abs(opt-h) < math.Abs(best-h) {
			best = opt
		}
	}
	return best
}

func (c *Candidate) index() error {
	c.wireGauges = c.wireGauges[:0]
	for _, name := range c.WireGaugeNames {
		g, ok := requirement.ParseGauge(name)
		if !ok {
			return &FieldError{Candidate: c.ID, Field: "wire_gauges", Reason: "unparseable gauge " + name}
		}
		c.wireGauges = append(c.wireGauges, g)
	}
	sort.Ints(c.wireGauges)

	c.pinSet = make(map[int]struct{}, len(c.ValidPinCounts))
	maxOffered := 0
	for _, p := range c.ValidPinCounts {
		c.pinSet[p] = struct{}{}
		if p > maxOffered {
			maxOffered = p
		}
	}
	if maxOffered != c.MaxPins {
		return &FieldError{Candidate: c.ID, Field: "max_pins", Reason: "must equal the largest valid pin count"}
	}
	for _, h := range c.HeightOptions {
		if !c.HeightRange.Contains(h) {
			return &FieldError{Candidate: c.ID, Field: "height_options", Reason: "option outside height_range"}
		}
	}
	return nil
}
