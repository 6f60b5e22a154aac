package ledger

import (
	"connector-selector/pkg/requirement"
)

const (
	// gaugeConnectionDiscount scales a wire gauge's confidence when it is used
	// to infer a cable connection.
	gaugeConnectionDiscount = 0.9
	// emiMetalThreshold is the EMI confidence above which metal housing is inferred.
	emiMetalThreshold = 0.8
)

// InferAndPropagate applies the cross-attribute rules triggered by attr. Every
// rule is idempotent, so calling it again changes nothing.
func (l *Ledger) InferAndPropagate(attr requirement.Attribute) {
	switch attr {
	case requirement.ConnectionTypes:
		l.ApplyApplicability()
	case requirement.WireGauge:
		l.inferConnectionFromGauge()
		l.ApplyApplicability()
	case requirement.EMIProtection:
		l.inferHousingFromEMI()
	case requirement.RightAngle, requirement.ConnectorOrientation:
		l.resolveOrientation()
	}
}

// ApplyApplicability records the implied answer of every question that the
// current answers make inapplicable. It returns the attributes it touched.
func (l *Ledger) ApplyApplicability() []requirement.Attribute {
	var touched []requirement.Attribute
	for _, q := range l.questions.Ordered() {
		if q.Implied == nil || q.Applicable(l.answers) {
			continue
		}
		implied := requirement.NewAnswer(l.Normalize(q.Attribute, requirement.Text(q.Implied.Value)), q.Implied.Confidence)
		if existing, ok := l.answers[q.Attribute]; ok && existing.Confidence > implied.Confidence {
			continue
		}
		if l.record(q.Attribute, implied, EntryImplied) {
			touched = append(touched, q.Attribute)
		}
	}
	return touched
}

func (l *Ledger) inferConnectionFromGauge() {
	gauge, ok := l.answers.Known(requirement.WireGauge)
	if !ok {
		return
	}
	if _, has := l.answers[requirement.ConnectionTypes]; has {
		return
	}
	l.record(requirement.ConnectionTypes,
		requirement.NewAnswer(requirement.Text(string(requirement.ConnectionPCBToCable)), gauge.Confidence*gaugeConnectionDiscount),
		EntryImplied)
}

func (l *Ledger) inferHousingFromEMI() {
	emi, ok := l.answers.Known(requirement.EMIProtection)
	if !ok {
		return
	}
	required, isBool := emi.Value.Bool()
	if !isBool || !required || emi.Confidence <= emiMetalThreshold {
		return
	}
	if housing, has := l.answers.Known(requirement.HousingMaterial); has && housing.Confidence >= emi.Confidence {
		return
	}
	l.record(requirement.HousingMaterial,
		requirement.NewAnswer(requirement.Text(string(requirement.MaterialMetal)), emi.Confidence),
		EntryImplied)
}

func (l *Ledger) resolveOrientation() {
	orientation, ok := l.answers[requirement.ConnectorOrientation]
	if !ok {
		return
	}
	current, has := l.answers.Known(requirement.RightAngle)
	if resolved, changed := ResolveOrientation(current, has, orientation); changed {
		l.record(requirement.RightAngle, resolved, EntryImplied)
	}
	l.forget(requirement.ConnectorOrientation)
}

// ResolveOrientation merges a connector_orientation answer (true means
// straight) into the right_angle answer. The orientation is first converted to
// its right-angle equivalent. Then:
//   - with no usable right_angle answer, the equivalent is taken;
//   - when both agree, right_angle keeps the higher of the two confidences;
//   - when they conflict, the higher confidence wins and ties keep right_angle.
//
// The second result reports whether right_angle must change.
func ResolveOrientation(rightAngle requirement.Answer, hasRightAngle bool, orientation requirement.Answer) (requirement.Answer, bool) {
	straight, ok := orientation.Value.Bool()
	if !ok {
		return rightAngle, false
	}
	equivalent := requirement.NewAnswer(requirement.Bool(!straight), orientation.Confidence)

	if _, isBool := rightAngle.Value.Bool(); !hasRightAngle || !isBool {
		return equivalent, true
	}
	// Agreement and conflict reduce to the same comparison: the equivalent
	// carries the same value when they agree.
	if orientation.Confidence > rightAngle.Confidence {
		return equivalent, true
	}
	return rightAngle, false
}
