package main

import (
	"fmt"
	"strconv"
	"strings"

	"connector-selector/pkg/requirement"
)

// answerFlag is one parsed --answer value.
type answerFlag struct {
	Attribute  requirement.Attribute
	Raw        requirement.Value
	Confidence float64
}

// parseAnswerFlag reads "attribute=value" with an optional ":confidence"
// suffix, e.g. "pitch=2mm" or "housing=metal:0.8". The value stays raw text
// for the ledger to normalize.
func parseAnswerFlag(s string) (answerFlag, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return answerFlag{}, fmt.Errorf("answer %q must look like attribute=value", s)
	}
	attr, err := requirement.ParseAttribute(name)
	if err != nil {
		return answerFlag{}, err
	}

	conf := 1.0
	if i := strings.LastIndex(value, ":"); i >= 0 {
		c, err := strconv.ParseFloat(value[i+1:], 64)
		if err != nil || c < 0 || c > 1 {
			return answerFlag{}, fmt.Errorf("answer %q: confidence must be a number between 0 and 1", s)
		}
		conf, value = c, value[:i]
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return answerFlag{}, fmt.Errorf("answer %q has no value", s)
	}
	return answerFlag{Attribute: attr, Raw: requirement.Text(value), Confidence: conf}, nil
}
