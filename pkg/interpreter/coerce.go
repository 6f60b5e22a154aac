package interpreter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"connector-selector/pkg/requirement"
)

type llmAnswer struct {
	Value      json.RawMessage `json:"value"`
	Confidence json.RawMessage `json:"confidence"`
	Reasoning  string          `json:"reasoning"`
}

// extractJSON cuts the outermost object out of a reply that may carry prose
// or code fences around it.
func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}
	return response[startIdx : endIdx+1]
}

func decodeAnswer(response string) (Interpretation, error) {
	content := extractJSON(response)
	if content == "" {
		return Interpretation{}, fmt.Errorf("%w: no JSON object found", ErrInterpreterMalformedOutput)
	}
	var raw llmAnswer
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return Interpretation{}, fmt.Errorf("%w: %v", ErrInterpreterMalformedOutput, err)
	}
	return raw.interpretation()
}

func (a llmAnswer) interpretation() (Interpretation, error) {
	v, err := coerceValue(a.Value)
	if err != nil {
		return Interpretation{}, err
	}
	conf := 0.0
	if !v.IsUnknown() {
		if conf, err = coerceConfidence(a.Confidence); err != nil {
			return Interpretation{}, err
		}
	}
	return Interpretation{Value: v, Confidence: conf, Reasoning: a.Reasoning, Source: SourceLLM}, nil
}

// coerceValue maps a JSON value onto the requirement variants. Objects with
// min and max become ranges; arrays of numbers become sets.
func coerceValue(raw json.RawMessage) (requirement.Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return requirement.Unknown(), nil
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return requirement.Value{}, fmt.Errorf("%w: value: %v", ErrInterpreterMalformedOutput, err)
	}

	switch v := decoded.(type) {
	case float64:
		return requirement.Number(v), nil
	case bool:
		return requirement.Bool(v), nil
	case string:
		return requirement.Text(strings.TrimSpace(v)), nil
	case []interface{}:
		return coerceList(v)
	case map[string]interface{}:
		lo, okLo := v["min"].(float64)
		hi, okHi := v["max"].(float64)
		if okLo && okHi {
			return requirement.Range(lo, hi), nil
		}
	}
	return requirement.Value{}, fmt.Errorf("%w: unsupported value %s", ErrInterpreterMalformedOutput, string(raw))
}

func coerceList(items []interface{}) (requirement.Value, error) {
	nums := make([]float64, 0, len(items))
	texts := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case float64:
			nums = append(nums, v)
		case string:
			texts = append(texts, v)
		default:
			return requirement.Value{}, fmt.Errorf("%w: unsupported list item %v", ErrInterpreterMalformedOutput, item)
		}
	}
	if len(texts) > 0 {
		for _, n := range nums {
			texts = append(texts, strconv.FormatFloat(n, 'f', -1, 64))
		}
		return requirement.Text(strings.Join(texts, ", ")), nil
	}
	return requirement.Set(nums...), nil
}

// coerceConfidence accepts a number or a numeric string.
func coerceConfidence(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("%w: missing confidence", ErrInterpreterMalformedOutput)
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("%w: confidence: %v", ErrInterpreterMalformedOutput, err)
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: confidence %q is not a number", ErrInterpreterMalformedOutput, s)
	}
	return n, nil
}

// decodeBulk reads an object keyed by attribute name. Entries that are not
// {value, confidence} objects or name unknown attributes are skipped and
// reported back so the caller can log them.
func decodeBulk(response string) (Bulk, []string, error) {
	content := extractJSON(response)
	if content == "" {
		return Bulk{}, nil, fmt.Errorf("%w: no JSON object found", ErrInterpreterMalformedOutput)
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &entries); err != nil {
		return Bulk{}, nil, fmt.Errorf("%w: %v", ErrInterpreterMalformedOutput, err)
	}

	bulk := newBulk()
	var skipped []string
	for name, raw := range entries {
		attr, err := requirement.ParseAttribute(name)
		if err != nil {
			skipped = append(skipped, name)
			continue
		}
		var entry llmAnswer
		if err := json.Unmarshal(raw, &entry); err != nil {
			skipped = append(skipped, name)
			continue
		}
		interp, err := entry.interpretation()
		if err != nil || interp.Value.IsUnknown() {
			skipped = append(skipped, name)
			continue
		}
		bulk.Attributes[attr] = interp
	}
	return bulk, skipped, nil
}
