package interpreter

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"connector-selector/pkg/requirement"
)

var spaceUncertainty = []string{
	"don't know", "dont know", "not sure", "uncertain", "no idea", "no specific",
	"not specified", "unsure", "don't have", "no constraint", "no requirement",
	"any height", "flexible", "whatever works", "any option", "no particular constraint",
}

var spaceConstrained = []string{
	"minimum footprint", "small footprint", "compact", "tight space", "limited space",
	"not much space", "space available", "small as possible",
	"fit within", "fit in", "maximum of", "not exceed", "at most", "up to",
}

var (
	footprintPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*x\s*(\d+(?:\.\d+)?)(?:\s*x\s*(\d+(?:\.\d+)?))?`)
	rangePattern     = regexp.MustCompile(`(?:between|from)\s*(\d+(?:\.\d+)?)\s*(?:mm)?\s*(?:and|to|-)\s*(\d+(?:\.\d+)?)\s*mm`)
)

type heightPattern struct {
	re         *regexp.Regexp
	confidence float64
}

// Checked in order; the first match wins.
var heightPatterns = []heightPattern{
	{regexp.MustCompile(`height\s*(?:of|is|:)?\s*(\d+(?:\.\d+)?)\s*mm`), 0.9},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*mm\s*(?:tall|height|high)`), 0.9},
	{regexp.MustCompile(`height\s*(?:requirement|constraint|limit)?\s*(?:of|is|:)?\s*(\d+(?:\.\d+)?)`), 0.9},
	{regexp.MustCompile(`maximum\s*(?:height|space|clearance)\s*(?:of|is|:)?\s*(\d+(?:\.\d+)?)`), 0.85},
	{regexp.MustCompile(`(?:height|space|clearance)\s*(?:less than|under|below|not more than)\s*(\d+(?:\.\d+)?)`), 0.9},
	{regexp.MustCompile(`up\s*to\s*(\d+(?:\.\d+)?)\s*mm\s*(?:height|tall|high|clearance)`), 0.85},
	{regexp.MustCompile(`(?:can't exceed|cannot exceed|not exceed|no more than)\s*(\d+(?:\.\d+)?)\s*mm`), 0.9},
	{regexp.MustCompile(`(?:about|around|approximately|roughly|circa|~)\s*(\d+(?:\.\d+)?)\s*mm`), 0.75},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*mm`), 0.9},
}

const (
	minPlausibleHeight = 1.0
	maxPlausibleHeight = 20.0
	implausibleConf    = 0.5
	descriptiveConf    = 0.6
)

// ParseSpace reads a height or clearance constraint. It is deterministic and
// used for every height question regardless of the configured backend.
func ParseSpace(text string) Interpretation {
	s := requirement.Fold(text)
	s = strings.NewReplacer("millimeters", "mm", "millimeter", "mm", "×", "x").Replace(s)

	if containsAny(s, spaceUncertainty) {
		return heuristic(requirement.Unknown(), 0, "User expressed uncertainty about spatial constraints")
	}
	constrained := containsAny(s, spaceConstrained)

	if m := footprintPattern.FindStringSubmatch(s); m != nil {
		dims := parseFloats(m[1:])
		height := dims[0]
		for _, d := range dims[1:] {
			height = math.Min(height, d)
		}
		conf := 0.9
		if constrained {
			conf = 0.95
		}
		return heuristic(requirement.Number(height), conf,
			fmt.Sprintf("Extracted dimensions %s, using %gmm as height", m[0], height))
	}

	if m := rangePattern.FindStringSubmatch(s); m != nil {
		bounds := parseFloats(m[1:])
		mid := (bounds[0] + bounds[1]) / 2
		return heuristic(requirement.Number(mid), 0.8,
			fmt.Sprintf("Using midpoint %gmm of range %g-%gmm", mid, bounds[0], bounds[1]))
	}

	for _, p := range heightPatterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		h, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if h < minPlausibleHeight || h > maxPlausibleHeight {
			return heuristic(requirement.Number(h), implausibleConf, fmt.Sprintf("Extracted unusual height value %gmm", h))
		}
		return heuristic(requirement.Number(h), p.confidence, fmt.Sprintf("Extracted height %gmm", h))
	}

	switch {
	case containsAny(s, []string{"small", "compact", "tiny", "low profile"}):
		return heuristic(requirement.Number(4.0), descriptiveConf, "Inferred small height from descriptive terms")
	case containsAny(s, []string{"large", "big", "spacious", "tall"}):
		return heuristic(requirement.Number(10.0), descriptiveConf, "Inferred larger height from descriptive terms")
	}

	out := heuristic(requirement.Unknown(), 0, "No height or space constraint found")
	out.Unparseable = true
	return out
}

func heuristic(v requirement.Value, confidence float64, reasoning string) Interpretation {
	return Interpretation{Value: v, Confidence: confidence, Reasoning: reasoning, Source: SourceHeuristic}
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// parseFloats converts regexp groups, skipping empty optional groups. Groups
// come from patterns that only capture digits, so parsing cannot fail.
func parseFloats(groups []string) []float64 {
	out := make([]float64, 0, len(groups))
	for _, g := range groups {
		if g == "" {
			continue
		}
		f, _ := strconv.ParseFloat(g, 64)
		out = append(out, f)
	}
	return out
}
