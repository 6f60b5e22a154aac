package requirement

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Value is a tagged requirement value. The zero Value is Unknown, which is the
// explicit "the user does not know" answer rather than a missing one.
type Value struct {
	kind Kind
	num  float64
	flag bool
	text string
	set  []float64
	lo   float64
	hi   float64
}

// Unknown returns the explicit unknown value.
func Unknown() Value { return Value{} }

func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

func Text(s string) Value { return Value{kind: KindText, text: s} }

// Set returns a sorted, de-duplicated numeric set. An empty set is Unknown.
func Set(items ...float64) Value {
	if len(items) == 0 {
		return Unknown()
	}
	sorted := append([]float64(nil), items...)
	sort.Float64s(sorted)
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return Value{kind: KindSet, set: out}
}

// Range returns a closed numeric interval. Bounds are swapped when inverted.
func Range(lo, hi float64) Value {
	if lo > hi {
		lo, hi = hi, lo
	}
	return Value{kind: KindRange, lo: lo, hi: hi}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsUnknown() bool { return v.kind == KindUnknown }

func (v Value) Number() (float64, bool) { return v.num, v.kind == KindNumber }

func (v Value) Bool() (bool, bool) { return v.flag, v.kind == KindBool }

func (v Value) Text() (string, bool) { return v.text, v.kind == KindText }

func (v Value) Set() ([]float64, bool) {
	if v.kind != KindSet {
		return nil, false
	}
	return append([]float64(nil), v.set...), true
}

func (v Value) Range() (lo, hi float64, ok bool) { return v.lo, v.hi, v.kind == KindRange }

// Numbers flattens Number and Set values into a slice.
func (v Value) Numbers() []float64 {
	switch v.kind {
	case KindNumber:
		return []float64{v.num}
	case KindSet:
		return append([]float64(nil), v.set...)
	}
	return nil
}

// Equal compares kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindUnknown:
		return true
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.flag == o.flag
	case KindText:
		return v.text == o.text
	case KindRange:
		return v.lo == o.lo && v.hi == o.hi
	case KindSet:
		if len(v.set) != len(o.set) {
			return false
		}
		for i := range v.set {
			if v.set[i] != o.set[i] {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindText:
		return v.text
	case KindRange:
		return fmt.Sprintf("%s-%s", formatNumber(v.lo), formatNumber(v.hi))
	case KindSet:
		parts := make([]string, len(v.set))
		for i, n := range v.set {
			parts[i] = formatNumber(n)
		}
		return "{" + strings.Join(parts, ",") + "}"
	}
	return "unknown"
}

// Interface returns a plain Go value for logging and event payloads.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBool:
		return v.flag
	case KindText:
		return v.text
	case KindSet:
		return append([]float64(nil), v.set...)
	case KindRange:
		return []float64{v.lo, v.hi}
	}
	return nil
}

func formatNumber(n float64) string {
	if n == math.Trunc(n) {
		return strconv.FormatFloat(n, 'f', 0, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Answer pairs a value with the interpreter's confidence in it.
type Answer struct {
	Value      Value
	Confidence float64
}

// NewAnswer clamps confidence to [0, 1]. Unknown values always carry zero confidence.
func NewAnswer(v Value, confidence float64) Answer {
	if v.IsUnknown() || math.IsNaN(confidence) {
		return Answer{Value: v}
	}
	return Answer{Value: v, Confidence: math.Max(0, math.Min(1, confidence))}
}

func (a Answer) Equal(o Answer) bool {
	return a.Confidence == o.Confidence && a.Value.Equal(o.Value)
}

// Answers is a read-only snapshot of a ledger, keyed by attribute.
type Answers map[Attribute]Answer

// Known returns the answer for attr when it carries a usable value.
func (a Answers) Known(attr Attribute) (Answer, bool) {
	ans, ok := a[attr]
	if !ok || ans.Value.IsUnknown() {
		return Answer{}, false
	}
	return ans, true
}

// Clone copies the snapshot.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
