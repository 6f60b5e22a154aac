package advisor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"connector-selector/internal/pkg/logger"
	"connector-selector/pkg/catalog"
	"connector-selector/pkg/decision"
	"connector-selector/pkg/events"
	"connector-selector/pkg/interpreter"
	"connector-selector/pkg/ledger"
	"connector-selector/pkg/requirement"
	"connector-selector/pkg/scoring"
	"connector-selector/pkg/selector"
	"connector-selector/pkg/store"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

const (
	module = "ADVISOR"

	// MentionBonus is added to the score of every family the user names.
	MentionBonus = 15.0
	// MinAcceptConfidence is the confidence below which a reply is retried
	// instead of recorded.
	MinAcceptConfidence = 0.25
)

// SessionStore keeps sessions between submissions.
type SessionStore interface {
	Save(session *store.Session)
	Get(sessionID string) (*store.Session, bool)
	Delete(sessionID string)
}

// Service is the caller-facing API of the selection engine. The catalogs and
// the policy are shared read-only by every session.
type Service struct {
	catalog     *catalog.Catalog
	questions   *catalog.QuestionSet
	scorer      *scoring.Engine
	policy      decision.Policy
	interpreter interpreter.Interpreter
	sessions    SessionStore
	publisher   events.Publisher
	log         logger.ILogger

	mentions mentionMatcher
	now      func() time.Time
}

func NewService(
	cat *catalog.Catalog,
	questions *catalog.QuestionSet,
	policy decision.Policy,
	interp interpreter.Interpreter,
	sessions SessionStore,
	publisher events.Publisher,
	log logger.ILogger,
) *Service {
	if publisher == nil {
		publisher = events.Nop
	}
	return &Service{
		catalog:     cat,
		questions:   questions,
		scorer:      scoring.NewEngine(questions, log),
		policy:      policy,
		interpreter: interp,
		sessions:    sessions,
		publisher:   publisher,
		log:         log,
		mentions:    newMentionMatcher(cat.IDs()),
		now:         time.Now,
	}
}

// BeginSession creates an empty session waiting for an opening message.
func (s *Service) BeginSession(ctx context.Context) (string, error) {
	id := uuid.NewString()
	sess := store.NewSession(id, ledger.New(s.questions, s.log), selector.New(s.questions, s.log), s.now())
	s.sessions.Save(sess)

	s.log.Info(module, "Session started", map[string]interface{}{"session_id": id})
	s.publish(ctx, events.TypeSessionStarted, id, nil)
	return id, nil
}

// SubmitOpeningMessage extracts every requirement it can from a free-form
// description and decides whether to commit, ask or escalate.
func (s *Service) SubmitOpeningMessage(ctx context.Context, sessionID, text string) (decision.Outcome, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return decision.Outcome{}, err
	}
	sess.Lock()
	defer sess.Unlock()
	defer s.touch(sess)

	return s.opening(ctx, sess, text), nil
}

// SubmitAnswer answers the pending question. Without a pending question the
// text is handled as an opening message.
func (s *Service) SubmitAnswer(ctx context.Context, sessionID, text string) (decision.Outcome, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return decision.Outcome{}, err
	}
	sess.Lock()
	defer sess.Unlock()
	defer s.touch(sess)

	if IsRestart(text) {
		return s.restart(ctx, sess), nil
	}

	q, pending := sess.Selector.Pending()
	if !pending || sess.Stage == store.StageAwaitingOpening {
		return s.opening(ctx, sess, text), nil
	}
	s.answer(ctx, sess, q, text)
	return s.decide(ctx, sess, decision.StageAnswer), nil
}

// Restart clears the session and returns the first question.
func (s *Service) Restart(ctx context.Context, sessionID string) (decision.Outcome, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return decision.Outcome{}, err
	}
	sess.Lock()
	defer sess.Unlock()
	defer s.touch(sess)

	return s.restart(ctx, sess), nil
}

// Answers returns a snapshot of the session's recorded answers.
func (s *Service) Answers(sessionID string) (requirement.Answers, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()
	return sess.Ledger.Answers(), nil
}

// EndSession forgets a session.
func (s *Service) EndSession(sessionID string) {
	s.sessions.Delete(sessionID)
}

func (s *Service) session(id string) (*store.Session, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// touch saves the session again, which restarts its TTL.
func (s *Service) touch(sess *store.Session) {
	sess.UpdatedAt = s.now()
	s.sessions.Save(sess)
}

func (s *Service) opening(ctx context.Context, sess *store.Session, text string) decision.Outcome {
	l := sess.Ledger

	bulk, err := s.interpreter.InterpretBulk(ctx, text, l.ParseFailures())
	if err != nil {
		s.log.Warn(module, "Bulk interpretation failed", map[string]interface{}{"session_id": sess.ID, "error": err.Error()})
		bulk = interpreter.Bulk{Failed: true}
	}
	s.trackFailure(l, bulk.Failed)

	for _, attr := range s.recordOrder(bulk) {
		interp := bulk.Attributes[attr]
		v := l.Normalize(attr, interp.Value)
		if v.IsUnknown() {
			continue
		}
		s.record(ctx, sess, attr, v, interp)
	}

	s.noteMentions(sess, text)
	sess.Stage = store.StageAwaitingAnswer
	return s.decide(ctx, sess, decision.StageOpening)
}

func (s *Service) answer(ctx context.Context, sess *store.Session, q catalog.Question, text string) {
	l := sess.Ledger

	interp, err := s.interpreter.Interpret(ctx, text, q, l.ParseFailures())
	if err != nil {
		s.log.Warn(module, "Interpretation failed", map[string]interface{}{"session_id": sess.ID, "error": err.Error()})
		interp = interpreter.Interpretation{Failed: true, Unparseable: true}
	}
	s.trackFailure(l, interp.Failed || interp.Unparseable)
	s.noteMentions(sess, text)

	v := l.Normalize(q.Attribute, interp.Value)
	if interp.Unparseable || (!v.IsUnknown() && interp.Confidence < MinAcceptConfidence) {
		retries := l.NoteRetry(q.Attribute)
		s.log.Info(module, "Reply not usable, question will be retried", map[string]interface{}{
			"session_id": sess.ID,
			"attribute":  q.Attribute,
			"retries":    retries,
			"confidence": interp.Confidence,
		})
		if retries < selector.RetryCap {
			return
		}
		v, interp.Confidence = requirement.Unknown(), 0
	}
	s.record(ctx, sess, q.Attribute, v, interp)
}

func (s *Service) record(ctx context.Context, sess *store.Session, attr requirement.Attribute, v requirement.Value, interp interpreter.Interpretation) {
	if !sess.Ledger.Record(attr, v, interp.Confidence) {
		return
	}
	sess.Ledger.InferAndPropagate(attr)

	s.publish(ctx, events.TypeAnswerRecorded, sess.ID, map[string]interface{}{
		"attribute":  string(attr),
		"value":      v.String(),
		"confidence": interp.Confidence,
		"source":     string(interp.Source),
	})
}

func (s *Service) restart(ctx context.Context, sess *store.Session) decision.Outcome {
	sess.Reset()
	sess.Stage = store.StageAwaitingAnswer
	s.publish(ctx, events.TypeSessionRestarted, sess.ID, nil)

	out := s.decide(ctx, sess, decision.StageAnswer)
	out.Restarted = true
	return out
}

// decide selects the next question, scores every candidate and applies the
// policy. A terminal outcome resets the session for a new selection.
func (s *Service) decide(ctx context.Context, sess *store.Session, stage decision.Stage) decision.Outcome {
	next, nextErr := sess.Selector.Next(sess.Ledger)
	board := s.scorer.ScoreAll(s.catalog, sess.Ledger.Answers()).Boost(sess.Ledger.Mentioned(), MentionBonus)

	out := s.policy.Evaluate(decision.Input{
		Stage:   stage,
		Catalog: s.catalog,
		Board:   board,
		Ledger:  sess.Ledger,
		Next:    next,
		NextErr: nextErr,
	})

	switch out.Kind {
	case decision.KindCommit:
		s.log.Info(module, "Recommendation committed", map[string]interface{}{
			"session_id":   sess.ID,
			"candidate_id": out.CandidateID,
			"score":        out.Score,
			"caveats":      len(out.Caveats),
		})
		s.publish(ctx, events.TypeSessionCommitted, sess.ID, map[string]interface{}{
			"candidate_id": out.CandidateID,
			"score":        out.Score,
			"caveats":      caveatMessages(out.Caveats),
			"answered":     sess.Ledger.AnsweredCount(),
		})
		sess.Reset()
	case decision.KindEscalate:
		s.log.Warn(module, "Escalating to a human", map[string]interface{}{
			"session_id": sess.ID,
			"reason":     out.Reason,
		})
		s.publish(ctx, events.TypeSessionEscalated, sess.ID, map[string]interface{}{
			"reason":   out.Reason,
			"scores":   out.Scores,
			"answers":  answerSummary(sess.Ledger.Answers()),
			"answered": sess.Ledger.AnsweredCount(),
		})
		sess.Reset()
	default:
		s.log.Debug(module, "Asking next question", map[string]interface{}{
			"session_id": sess.ID,
			"attribute":  out.Question.Attribute,
		})
	}
	return out
}

// recordOrder is question order first, then the attributes no question asks
// about, by name. Propagation depends on it, so it must be stable.
func (s *Service) recordOrder(bulk interpreter.Bulk) []requirement.Attribute {
	order := make([]requirement.Attribute, 0, len(bulk.Attributes))
	seen := map[requirement.Attribute]bool{}
	for _, q := range s.questions.Ordered() {
		if _, ok := bulk.Attributes[q.Attribute]; ok {
			order = append(order, q.Attribute)
			seen[q.Attribute] = true
		}
	}
	var rest []requirement.Attribute
	for attr := range bulk.Attributes {
		if !seen[attr] {
			rest = append(rest, attr)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(order, rest...)
}

func (s *Service) trackFailure(l *ledger.Ledger, failed bool) {
	if failed {
		l.NoteParseFailure()
		return
	}
	l.ResetParseFailures()
}

func (s *Service) noteMentions(sess *store.Session, text string) {
	for _, id := range s.mentions.Find(text) {
		sess.Ledger.Mention(id)
	}
}

func (s *Service) publish(ctx context.Context, eventType, sessionID string, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["session_id"] = sessionID
	if err := s.publisher.Publish(ctx, events.New(eventType, data)); err != nil {
		s.log.Warn(module, "Failed to publish event", map[string]interface{}{
			"event_type": eventType,
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

func caveatMessages(caveats []scoring.Caveat) []string {
	out := make([]string, len(caveats))
	for i, c := range caveats {
		out[i] = c.Message
	}
	return out
}

func answerSummary(answers requirement.Answers) map[string]string {
	out := make(map[string]string, len(answers))
	for attr, a := range answers {
		out[string(attr)] = a.Value.String()
	}
	return out
}
