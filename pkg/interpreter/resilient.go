package interpreter

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"connector-selector/internal/pkg/logger"
	"connector-selector/pkg/catalog"
	"connector-selector/pkg/requirement"
)

var compactAWG = regexp.MustCompile(`awg(\d{2})`)

// Resilient runs the primary interpreter and falls back to the heuristic one
// whenever it errors. It never returns an error itself. A nil primary means
// heuristics only.
type Resilient struct {
	primary  Interpreter
	fallback Heuristic
	log      logger.ILogger
}

var _ Interpreter = (*Resilient)(nil)

func NewResilient(primary Interpreter, log logger.ILogger) *Resilient {
	return &Resilient{primary: primary, log: log}
}

func (r *Resilient) Interpret(ctx context.Context, text string, q catalog.Question, failures int) (Interpretation, error) {
	if r.primary == nil {
		return r.fallback.Interpret(ctx, text, q, failures)
	}

	interp, err := r.primary.Interpret(ctx, text, q, failures)
	if err == nil {
		return interp, nil
	}

	r.log.Warn(module, "Primary interpreter failed, using fallback", map[string]interface{}{
		"attribute": q.Attribute,
		"error":     err.Error(),
	})
	interp, _ = r.fallback.Interpret(ctx, text, q, failures+1)
	interp.Failed = true
	return interp, nil
}

func (r *Resilient) InterpretBulk(ctx context.Context, text string, failures int) (Bulk, error) {
	var bulk Bulk
	if r.primary != nil {
		var err error
		bulk, err = r.primary.InterpretBulk(ctx, text, failures)
		if err != nil {
			r.log.Warn(module, "Primary bulk interpretation failed, using fallback", map[string]interface{}{
				"error": err.Error(),
			})
			bulk = ParseBulk(text)
			bulk.Failed = true
		}
	} else {
		bulk = ParseBulk(text)
	}

	postProcess(text, bulk)
	return bulk, nil
}

// postProcess corrects connection and orientation readings that contradict a
// wire gauge in the same message.
func postProcess(text string, b Bulk) {
	s := requirement.Fold(text)

	if gauge, ok := b.Attributes[requirement.WireGauge]; ok && !gauge.Value.IsUnknown() {
		conn, hasConn := b.Attributes[requirement.ConnectionTypes]
		kind := connectionOf(conn)
		if hasConn && !kind.InvolvesCable() {
			b.set(requirement.ConnectionTypes, requirement.Text(string(requirement.ConnectionPCBToCable)), 0.9,
				"wire gauge implies a cable side", conn.Source)
		}
		if strings.Contains(s, "pcb") || strings.Contains(s, "board") {
			b.set(requirement.ConnectionTypes, requirement.Text(string(requirement.ConnectionPCBToCable)), 0.95,
				"wire gauge with pcb", SourceHeuristic)
		}
	}

	if !strings.Contains(s, "straight") || !strings.Contains(s, "pcb") || !strings.Contains(s, "side") {
		return
	}
	m := compactAWG.FindStringSubmatch(strings.ReplaceAll(s, " ", ""))
	if m == nil {
		return
	}
	n, _ := strconv.Atoi(m[1])
	if n < 10 || n > 39 {
		return
	}
	b.set(requirement.ConnectionTypes, requirement.Text(string(requirement.ConnectionPCBToCable)), 0.99,
		"straight on pcb side with awg on the other", SourceHeuristic)
	b.set(requirement.RightAngle, requirement.Bool(false), 0.95, "straight on pcb side", SourceHeuristic)
	b.set(requirement.WireGauge, requirement.Number(float64(n)), 0.95, "compact awg", SourceHeuristic)
}

func connectionOf(i Interpretation) requirement.ConnectionType {
	s, ok := i.Value.Text()
	if !ok {
		return requirement.ConnectionUnknown
	}
	return requirement.ParseConnectionType(s)
}
