package interpreter

import (
	"regexp"
	"strconv"
	"strings"

	"connector-selector/pkg/requirement"
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

var (
	pitchPatterns = compileAll(
		`(\d+(?:\.\d+)?)\s*(?:mm|millimeters?)\s*pitch`,
		`pitch\s*(?:size|of)?\s*(?:is|:)?\s*(\d+(?:\.\d+)?)`,
		`(\d+(?:\.\d+)?)\s*mm\s*(?:pitch|spacing)`,
		`pitch\s*(?:of)?\s*(\d+(?:\.\d+)?)`,
	)
	pinPatterns = compileAll(
		`(\d+)\s*pins?\b`,
		`(\d+)\s*contacts?\b`,
		`pins?(?:\s*count)?(?:\s*of)?\s*(?:is|:)?\s*(\d+)`,
		`contacts?(?:\s*count)?(?:\s*of)?\s*(?:is|:)?\s*(\d+)`,
		`(\d+)\s*(?:way|position)s?\b`,
	)
	boardToBoardPatterns = compileAll(
		`board\s*(?:to|-)\s*board`,
		`pcb\s*(?:to|-)\s*pcb`,
		`board\s*board`,
		`pcb\s*pcb`,
		`board\s*application`,
	)
	currentPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:a|amps?|amperes?)\b`)
	angleDegrees   = regexp.MustCompile(`90\s*-?\s*degrees?`)
	tempPatterns   = compileAll(
		`(-?\d+(?:\.\d+)?)\s*(?:°\s*c|c|celsius|degrees?)\b`,
		`temperature\s*(?:of|is|:)?\s*(-?\d+(?:\.\d+)?)`,
	)
	emiWord     = regexp.MustCompile(`\bemi\b|electromagnetic|shield`)
	awgPatterns = compileAll(
		`(?:awg|gauge)\s*-?\s*(\d+)`,
		`(\d+)\s*(?:awg|gauge)`,
	)
	straightPatterns = compileAll(
		`straight\s+(?:on|onto|connector|pcb|cable|connection)`,
		`connector\s+straight`,
		`vertical\s+(?:connector|connection|mount)`,
		`perpendicular\s+(?:to|connector)`,
		`direct\s+(?:mount|connection)`,
	)
	rightAnglePatterns = compileAll(
		`right[\s-]angle`,
		`90[\s-]degree`,
		`angled\s+(?:connector|connection)`,
		`horizontal\s+(?:connector|connection)`,
		`parallel\s+(?:to|connection)`,
	)
	connectionPatterns = []struct {
		kind     requirement.ConnectionType
		patterns []*regexp.Regexp
	}{
		{requirement.ConnectionPCBToCable, compileAll(
			`pcb\s+(?:to|and|with|on\s+one\s+side).+(?:cable|wire|awg)`,
			`one\s+side\s+(?:on\s+)?pcb.+other\s+side\s+(?:cable|wire|awg)`,
			`connect\s+pcb\s+to\s+(?:cable|wire)`,
			`pcb\s+connector\s+with\s+(?:cable|wire)`,
			`pcb\s+(?:one|1)\s+side.+(?:awg|wire|cable)`,
			`(?:awg|wire|cable).+(?:one|1)\s+side.+pcb`,
			`right\s+angle\s+on\s+pcb`,
		)},
		{requirement.ConnectionCableToPCB, compileAll(
			`(?:cable|wire|awg).+(?:to|and|with|on\s+one\s+side).+pcb`,
			`one\s+side\s+(?:cable|wire|awg).+other\s+side\s+pcb`,
			`connect\s+(?:cable|wire)\s+to\s+pcb`,
			`(?:cable|wire)\s+connector\s+with\s+pcb`,
		)},
		{requirement.ConnectionPCBToPCB, compileAll(
			`pcb\s+to\s+pcb`,
			`connect\s+(?:two|2)\s+pcbs?`,
			`pcb\s+on\s+both\s+sides`,
			`both\s+sides?\s+pcb`,
		)},
		{requirement.ConnectionCableCable, compileAll(
			`(?:cable|wire)\s+to\s+(?:cable|wire)`,
			`connect\s+(?:two|2)\s+(?:cables|wires)`,
			`(?:cable|wire)\s+on\s+both\s+sides`,
			`both\s+sides?\s+(?:cable|wire)`,
		)},
	}
)

var (
	internalIndicators = []string{
		"on board", "onboard", "in box", "internal", "inside", "within the", "in the device",
		"in a box", "circuit board", "pcb mounted", "board mounted", "interior",
	}
	externalIndicators = []string{
		"panel mount", "panel-mount", "external", "outside", "out of box", "on a box", "on the box",
		"on panel", "on a panel", "mounted on box", "exterior", "exposed",
	}
	emiNegatives    = []string{"no emi", "without emi", "no shield", "not shielded", "no electromagnetic", "unshielded"}
	mixedPhrases    = []string{"mix", "both power and signal", "power and signal", "power signal"}
	powerPhrases    = []string{"high power", "power", "current"}
	signalOnly      = []string{"signal only", "only signal", "just signal"}
	metalWords      = []string{"metal", "metallic", "aluminum", "aluminium", "steel"}
	nonMetalWords   = []string{"non-metal", "nonmetal", "non metal", "not metal", "no metal"}
	plasticWords    = []string{"plastic", "polymer", "composite"}
	preferenceTerms = []string{"prefer", "preferable", "ideally", "better", "if possible", "would like"}
)

const (
	bulkConfidence     = 0.9
	boardToBoardConf   = 0.95
	explicitMaterial   = 0.95
	preferenceMaterial = 0.85
	gaugeConf          = 0.95
	looseConnection    = 0.8
	weakNumberConf     = 0.5
)

// ParseBulk extracts every attribute it recognizes from a free-form message
// with regular expressions and keyword lists.
func ParseBulk(text string) Bulk {
	s := requirement.Fold(text)
	b := newBulk()
	h := SourceHeuristic

	if n, ok := firstFloat(s, pitchPatterns); ok {
		conf := bulkConfidence
		if n < 0.5 || n > 2.5 {
			conf = weakNumberConf
		}
		b.set(requirement.PitchSize, requirement.Number(n), conf, "pitch pattern", h)
	}

	if matchAny(s, boardToBoardPatterns) {
		b.set(requirement.ConnectionTypes, requirement.Text(string(requirement.ConnectionPCBToPCB)), boardToBoardConf, "board-to-board pattern", h)
	}

	if n, ok := firstFloat(s, pinPatterns); ok {
		conf := bulkConfidence
		if n < 1 || n > 120 {
			conf = weakNumberConf
		}
		b.set(requirement.PinCount, requirement.Number(n), conf, "pin pattern", h)
	}

	switch {
	case containsAny(s, internalIndicators):
		b.set(requirement.Location, requirement.Text(string(requirement.LocationInternal)), bulkConfidence, "internal indicator", h)
	case containsAny(s, externalIndicators):
		b.set(requirement.Location, requirement.Text(string(requirement.LocationExternal)), bulkConfidence, "external indicator", h)
	}

	if m := currentPattern.FindStringSubmatch(s); m != nil {
		n, _ := strconv.ParseFloat(m[1], 64)
		b.set(requirement.MaxCurrent, requirement.Number(n), 0.8, "current pattern", h)
	}

	if n, ok := firstFloat(angleDegrees.ReplaceAllString(s, " "), tempPatterns); ok {
		conf := 0.8
		if n < -100 || n > 500 {
			conf = weakNumberConf
		}
		b.set(requirement.TempRange, requirement.Number(n), conf, "temperature pattern", h)
	}

	if emiWord.MatchString(s) {
		b.set(requirement.EMIProtection, requirement.Bool(!containsAny(s, emiNegatives)), bulkConfidence, "emi keyword", h)
	}

	switch {
	case containsAny(s, signalOnly):
		b.set(requirement.MixedPowerSignal, requirement.Bool(false), 0.8, "signal only", h)
	case containsAny(s, mixedPhrases) && containsAny(s, powerPhrases):
		b.set(requirement.MixedPowerSignal, requirement.Bool(true), bulkConfidence, "mixed power keyword", h)
	}

	if material, conf, ok := detectMaterial(s); ok {
		b.set(requirement.HousingMaterial, requirement.Text(string(material)), conf, "housing keyword", h)
	}

	if n, ok := firstFloat(s, awgPatterns); ok && n >= 10 && n <= 40 {
		b.set(requirement.WireGauge, requirement.Number(n), gaugeConf, "awg pattern", h)
		if strings.Contains(s, "straight") && strings.Contains(s, "pcb") && strings.Contains(s, "side") {
			b.set(requirement.RightAngle, requirement.Bool(false), gaugeConf, "straight on pcb side with awg", h)
		}
	}

	if !b.has(requirement.RightAngle) {
		switch {
		case matchAny(s, straightPatterns):
			b.set(requirement.RightAngle, requirement.Bool(false), bulkConfidence, "straight pattern", h)
		case matchAny(s, rightAnglePatterns):
			b.set(requirement.RightAngle, requirement.Bool(true), bulkConfidence, "right angle pattern", h)
		}
	}

	if b.has(requirement.WireGauge) && (strings.Contains(s, "pcb") || strings.Contains(s, "board")) {
		b.set(requirement.ConnectionTypes, requirement.Text(string(requirement.ConnectionPCBToCable)), gaugeConf, "awg with pcb", h)
		return b
	}
	if !b.has(requirement.ConnectionTypes) {
		detectConnection(s, b)
	}
	return b
}

func detectMaterial(s string) (requirement.Material, float64, bool) {
	conf := explicitMaterial
	if containsAny(s, preferenceTerms) {
		conf = preferenceMaterial
	}
	switch {
	case containsAny(s, nonMetalWords):
		return requirement.MaterialPlastic, conf, true
	case containsAny(s, metalWords):
		return requirement.MaterialMetal, conf, true
	case containsAny(s, plasticWords):
		return requirement.MaterialPlastic, conf, true
	}
	return requirement.MaterialUnknown, 0, false
}

func detectConnection(s string, b Bulk) {
	for _, group := range connectionPatterns {
		if matchAny(s, group.patterns) {
			b.set(requirement.ConnectionTypes, requirement.Text(string(group.kind)), bulkConfidence, "connection pattern", SourceHeuristic)
			return
		}
	}

	pcb := strings.Index(s, "pcb")
	cable := firstIndex(s, "cable", "wire", "awg")
	switch {
	case pcb >= 0 && cable >= 0 && pcb < cable:
		b.set(requirement.ConnectionTypes, requirement.Text(string(requirement.ConnectionPCBToCable)), looseConnection, "pcb before cable", SourceHeuristic)
	case pcb >= 0 && cable >= 0:
		b.set(requirement.ConnectionTypes, requirement.Text(string(requirement.ConnectionCableToPCB)), looseConnection, "cable before pcb", SourceHeuristic)
	case strings.Count(s, "pcb") >= 2:
		b.set(requirement.ConnectionTypes, requirement.Text(string(requirement.ConnectionPCBToPCB)), looseConnection, "two pcbs", SourceHeuristic)
	case strings.Count(s, "cable") >= 2 || strings.Count(s, "wire") >= 2:
		b.set(requirement.ConnectionTypes, requirement.Text(string(requirement.ConnectionCableCable)), looseConnection, "two cables", SourceHeuristic)
	}
}

func firstIndex(s string, words ...string) int {
	best := -1
	for _, w := range words {
		if i := strings.Index(s, w); i >= 0 && (best < 0 || i < best) {
			best = i
		}
	}
	return best
}

func matchAny(s string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// firstFloat returns the first capture of the first matching pattern.
func firstFloat(s string, patterns []*regexp.Regexp) (float64, bool) {
	for _, p := range patterns {
		m := p.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		if n, err := strconv.ParseFloat(m[1], 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
