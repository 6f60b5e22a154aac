package ledger

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"connector-selector/pkg/requirement"
)

var (
	numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	gaugeListSep  = regexp.MustCompile(`\s*(?:,|/|\bor\b|\band\b)\s*`)
)

// Normalize converts a raw interpreter value into the attribute's canonical
// form. It never fails: values it cannot convert are returned unchanged and
// logged, except vocabulary attributes, where unrecognized text becomes Unknown.
func (l *Ledger) Normalize(attr requirement.Attribute, raw requirement.Value) requirement.Value {
	if raw.IsUnknown() {
		return raw
	}
	if text, ok := raw.Text(); ok && isUnknownWord(text) {
		return requirement.Unknown()
	}

	var (
		out requirement.Value
		ok  bool
	)
	switch {
	case attr == requirement.WireGauge:
		out, ok = normalizeGauge(raw)
	case attr == requirement.HousingMaterial:
		out, ok = normalizeVocabulary(raw, func(s string) string { return string(requirement.ParseMaterial(s)) })
	case attr == requirement.Location:
		out, ok = normalizeVocabulary(raw, func(s string) string { return string(requirement.ParseLocation(s)) })
	case attr == requirement.ConnectionTypes:
		out, ok = normalizeVocabulary(raw, func(s string) string { return string(requirement.ParseConnectionType(s)) })
	case requirement.KindOf(attr) == requirement.KindBool:
		out, ok = normalizeBool(raw)
	case requirement.KindOf(attr) == requirement.KindNumber:
		out, ok = normalizeNumber(raw)
	default:
		out, ok = raw, true
	}

	if !ok {
		l.log.Warn(module, "Could not normalize value", map[string]interface{}{
			"attribute": attr,
			"value":     raw.String(),
		})
		return raw
	}
	return out
}

func isUnknownWord(s string) bool {
	switch requirement.Fold(s) {
	case "", "unknown", "none", "null", "n/a", "not sure", "don't know", "dont know":
		return true
	}
	return false
}

func normalizeGauge(raw requirement.Value) (requirement.Value, bool) {
	switch raw.Kind() {
	case requirement.KindNumber, requirement.KindSet:
		nums := raw.Numbers()
		for i, n := range nums {
			nums[i] = math.Trunc(n)
		}
		if len(nums) == 1 {
			return requirement.Number(nums[0]), true
		}
		return requirement.Set(nums...), true
	case requirement.KindText:
		text, _ := raw.Text()
		var gauges []float64
		for _, part := range gaugeListSep.Split(strings.TrimSpace(text), -1) {
			if part == "" {
				continue
			}
			g, ok := requirement.ParseGauge(part)
			if !ok {
				return raw, false
			}
			gauges = append(gauges, float64(g))
		}
		switch len(gauges) {
		case 0:
			return raw, false
		case 1:
			return requirement.Number(gauges[0]), true
		default:
			return requirement.Set(gauges...), true
		}
	}
	return raw, false
}

func normalizeVocabulary(raw requirement.Value, parse func(string) string) (requirement.Value, bool) {
	text, ok := raw.Text()
	if !ok {
		return raw, false
	}
	canonical := parse(text)
	if canonical == "" {
		return requirement.Unknown(), true
	}
	return requirement.Text(canonical), true
}

func normalizeBool(raw requirement.Value) (requirement.Value, bool) {
	switch raw.Kind() {
	case requirement.KindBool:
		return raw, true
	case requirement.KindNumber:
		n, _ := raw.Number()
		return requirement.Bool(n != 0), true
	case requirement.KindText:
		text, _ := raw.Text()
		if b, ok := requirement.ParseBoolWord(text); ok {
			return requirement.Bool(b), true
		}
	}
	return raw, false
}

func normalizeNumber(raw requirement.Value) (requirement.Value, bool) {
	switch raw.Kind() {
	case requirement.KindNumber, requirement.KindRange:
		return raw, true
	case requirement.KindSet:
		nums := raw.Numbers()
		return requirement.Number(nums[len(nums)-1]), true
	case requirement.KindText:
		text, _ := raw.Text()
		m := numberPattern.FindString(text)
		if m == "" {
			return raw, false
		}
		n, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return raw, false
		}
		return requirement.Number(n), true
	}
	return raw, false
}
