package interpreter

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"connector-selector/pkg/catalog"
	"connector-selector/pkg/requirement"
)

// StandardPitches are the pitch sizes offered by the catalog families.
var StandardPitches = []float64{1.0, 1.27, 2.0}

var (
	integerPattern = regexp.MustCompile(`\b\d+\b`)
	numberPattern  = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	mmPattern      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:mm|millimeters?)`)
	wordPattern    = regexp.MustCompile(`[a-z']+`)
)

var (
	uncertainPhrases = []string{"i dont know", "i don't know", "don't know", "dont know", "unknown", "unclear", "not sure", "no idea"}
	affirmative      = map[string]bool{"yes": true, "yeah": true, "yep": true, "correct": true, "right": true, "sure": true, "required": true}
	negative         = map[string]bool{"no": true, "nope": true, "not": true, "don't": true, "dont": true, "never": true}
)

const (
	simplePitchConf   = 0.8
	simplePinConf     = 0.7
	simpleHousingConf = 0.8
	emiHousingConf    = 0.7
	yesNoConf         = 0.7
	simpleVocabConf   = 0.7
	simpleNumberConf  = 0.6
	rawTextConf       = 0.4
	aggressiveConf    = 0.6
	defaultConf       = 0.3
)

// aggressiveDefaults are last resort values once parsing keeps failing.
var aggressiveDefaults = map[requirement.Attribute]requirement.Value{
	requirement.PitchSize:       requirement.Number(2.0),
	requirement.HousingMaterial: requirement.Text(string(requirement.MaterialPlastic)),
	requirement.RightAngle:      requirement.Bool(true),
	requirement.PinCount:        requirement.Number(20),
	requirement.MaxCurrent:      requirement.Number(5.0),
	requirement.TempRange:       requirement.Number(85.0),
	requirement.ConnectionTypes: requirement.Text(string(requirement.ConnectionPCBToPCB)),
}

// Heuristic is the deterministic interpreter. It needs no network and never
// fails.
type Heuristic struct{}

var _ Interpreter = Heuristic{}

func (Heuristic) Interpret(_ context.Context, text string, q catalog.Question, failures int) (Interpretation, error) {
	switch {
	case q.Attribute == requirement.HeightRequirement:
		return ParseSpace(text), nil
	case failures > AggressiveAfter:
		return AggressiveParse(text, q), nil
	}
	return SimpleParse(text, q), nil
}

func (Heuristic) InterpretBulk(_ context.Context, text string, _ int) (Bulk, error) {
	return ParseBulk(text), nil
}

// SimpleParse reads a reply to a single question with keyword and number
// matching. Replies it cannot read come back as raw text at low confidence,
// flagged Unparseable.
func SimpleParse(text string, q catalog.Question) Interpretation {
	s := requirement.Fold(text)

	if containsAny(s, uncertainPhrases) {
		return heuristic(requirement.Unknown(), 0, "User explicitly expressed uncertainty")
	}

	switch q.Attribute {
	case requirement.PitchSize:
		for _, m := range numberPattern.FindAllString(s, -1) {
			n, _ := strconv.ParseFloat(m, 64)
			if p, ok := nearestPitch(n); ok {
				return heuristic(requirement.Number(p), simplePitchConf, fmt.Sprintf("Matched standard pitch size %gmm", p))
			}
		}

	case requirement.PinCount:
		if m := integerPattern.FindString(s); m != "" {
			n, _ := strconv.Atoi(m)
			if n >= 1 && n <= 200 {
				return heuristic(requirement.Number(float64(n)), simplePinConf, fmt.Sprintf("Extracted pin count %d", n))
			}
		}

	case requirement.HousingMaterial:
		switch {
		case containsAny(s, nonMetalWords):
			return heuristic(requirement.Text(string(requirement.MaterialPlastic)), simpleHousingConf, "User ruled out metal housing")
		case strings.Contains(s, "metal"):
			return heuristic(requirement.Text(string(requirement.MaterialMetal)), simpleHousingConf, "User mentioned metal housing")
		case strings.Contains(s, "plastic"):
			return heuristic(requirement.Text(string(requirement.MaterialPlastic)), simpleHousingConf, "User mentioned plastic housing")
		case emiWord.MatchString(s):
			return heuristic(requirement.Text(string(requirement.MaterialMetal)), emiHousingConf, "EMI or shielding implies metal housing")
		}

	case requirement.Location:
		if loc := requirement.ParseLocation(s); loc != requirement.LocationUnknown {
			return heuristic(requirement.Text(string(loc)), simpleVocabConf, "Matched location keyword")
		}
		switch {
		case containsAny(s, internalIndicators):
			return heuristic(requirement.Text(string(requirement.LocationInternal)), simpleVocabConf, "Matched internal indicator")
		case containsAny(s, externalIndicators):
			return heuristic(requirement.Text(string(requirement.LocationExternal)), simpleVocabConf, "Matched external indicator")
		}

	case requirement.ConnectionTypes:
		if c := requirement.ParseConnectionType(s); c != "" {
			return heuristic(requirement.Text(string(c)), simpleVocabConf, "Matched connection keyword")
		}

	case requirement.RightAngle:
		switch {
		case strings.Contains(s, "straight") || matchAny(s, straightPatterns):
			return heuristic(requirement.Bool(false), yesNoConf, "User asked for a straight connector")
		case matchAny(s, rightAnglePatterns):
			return heuristic(requirement.Bool(true), yesNoConf, "User asked for a right-angle connector")
		}

	case requirement.WireGauge:
		if n, ok := firstFloat(s, awgPatterns); ok {
			return heuristic(requirement.Number(n), simpleVocabConf, fmt.Sprintf("Extracted AWG%g", n))
		}
		if m := integerPattern.FindString(s); m != "" {
			n, _ := strconv.Atoi(m)
			if n >= 10 && n <= 40 {
				return heuristic(requirement.Number(float64(n)), simpleNumberConf, fmt.Sprintf("Read %d as AWG", n))
			}
		}

	case requirement.TempRange, requirement.MaxCurrent:
		if nums := numberPattern.FindAllString(s, -1); len(nums) > 0 {
			n, _ := strconv.ParseFloat(nums[len(nums)-1], 64)
			return heuristic(requirement.Number(n), simpleNumberConf, fmt.Sprintf("Extracted %g", n))
		}
	}

	if requirement.KindOf(q.Attribute) == requirement.KindBool {
		if b, ok := yesNo(s); ok {
			return heuristic(requirement.Bool(b), yesNoConf, "User answered yes or no")
		}
	}

	out := heuristic(requirement.Text(strings.TrimSpace(text)), rawTextConf, "Could not confidently parse the response")
	out.Unparseable = true
	return out
}

// AggressiveParse is used after repeated failures. It prefers a plausible
// guess over asking again.
func AggressiveParse(text string, q catalog.Question) Interpretation {
	s := requirement.Fold(text)
	out := func(v requirement.Value, conf float64, reasoning string) Interpretation {
		return Interpretation{Value: v, Confidence: conf, Reasoning: reasoning, Source: SourceAggressive}
	}

	switch q.Attribute {
	case requirement.PitchSize:
		if m := mmPattern.FindStringSubmatch(s); m != nil {
			n, _ := strconv.ParseFloat(m[1], 64)
			p := closest(StandardPitches, n)
			return out(requirement.Number(p), aggressiveConf, fmt.Sprintf("Approximated to standard pitch size %gmm", p))
		}

	case requirement.HousingMaterial:
		conf := explicitMaterial
		if containsAny(s, preferenceTerms) {
			conf = preferenceMaterial
		}
		if containsAny(s, []string{"metal", "alumin", "steel", "shield"}) || emiWord.MatchString(s) {
			return out(requirement.Text(string(requirement.MaterialMetal)), conf, "Matched metal-related terms")
		}
		return out(requirement.Text(string(requirement.MaterialPlastic)), conf, "Defaulted to plastic as no metal indicators found")

	case requirement.TempRange:
		if n, ok := firstFloat(s, tempPatterns[:1]); ok {
			return out(requirement.Number(n), aggressiveConf, fmt.Sprintf("Extracted temperature %g°C", n))
		}
	}

	if v, ok := aggressiveDefaults[q.Attribute]; ok {
		return out(v, defaultConf, "Used default value after multiple parse failures")
	}
	res := out(requirement.Unknown(), 0, "Could not determine a value even with aggressive fallback")
	res.Unparseable = true
	return res
}

func nearestPitch(n float64) (float64, bool) {
	for _, p := range StandardPitches {
		if math.Abs(p-n) < 0.05 {
			return p, true
		}
	}
	return 0, false
}

func closest(options []float64, n float64) float64 {
	best := options[0]
	for _, o := range options[1:] {
		if math.Abs(o-n) < math.Abs(best-n) {
			best = o
		}
	}
	return best
}

// yesNo reads the first yes or no word of a reply.
func yesNo(s string) (bool, bool) {
	for _, w := range wordPattern.FindAllString(s, -1) {
		if affirmative[w] {
			return true, true
		}
		if negative[w] {
			return false, true
		}
	}
	return requirement.ParseBoolWord(s)
}
