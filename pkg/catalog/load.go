package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"connector-selector/pkg/requirement"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrEmptyCandidateSet is fatal: the engine cannot run without candidates.
var ErrEmptyCandidateSet = errors.New("catalog has no candidates")

// ErrEmptyQuestionSet is returned when a question file defines no questions.
var ErrEmptyQuestionSet = errors.New("question catalog is empty")

//go:embed data/catalog.yaml
var defaultCatalogYAML []byte

//go:embed data/questions.yaml
var defaultQuestionsYAML []byte

var validate = validator.New()

// FieldError describes a catalog entry that passed tag validation but is
// internally inconsistent.
type FieldError struct {
	Candidate string
	Field     string
	Reason    string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("candidate %s: %s: %s", e.Candidate, e.Field, e.Reason)
}

// Catalog is the read-only candidate store.
type Catalog struct {
	candidates []Candidate
	byID       map[string]int
}

type catalogFile struct {
	Candidates []Candidate `yaml:"candidates" validate:"dive"`
}

// Default returns the built-in four-family catalog.
func Default() (*Catalog, error) {
	return Load(defaultCatalogYAML)
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Load(data)
}

// Load parses and validates a YAML catalog.
func Load(data []byte) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(file.Candidates) == 0 {
		return nil, ErrEmptyCandidateSet
	}
	if err := validate.Struct(file); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]int, len(file.Candidates))}
	for i := range file.Candidates {
		cand := file.Candidates[i]
		if _, dup := c.byID[cand.ID]; dup {
			return nil, &FieldError{Candidate: cand.ID, Field: "id", Reason: "duplicate id"}
		}
		if err := cand.index(); err != nil {
			return nil, err
		}
		c.byID[cand.ID] = len(c.candidates)
		c.candidates = append(c.candidates, cand)
	}
	return c, nil
}

// Candidates returns all candidates in catalog order.
func (c *Catalog) Candidates() []Candidate {
	return append([]Candidate(nil), c.candidates...)
}

// Lookup finds a candidate by id.
func (c *Catalog) Lookup(id string) (Candidate, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Candidate{}, false
	}
	return c.candidates[i], true
}

// IDs returns candidate ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.candidates))
	for i, cand := range c.candidates {
		ids[i] = cand.ID
	}
	return ids
}

// Position returns the catalog order index of id, or -1.
func (c *Catalog) Position(id string) int {
	i, ok := c.byID[id]
	if !ok {
		return -1
	}
	return i
}

func (c *Catalog) Len() int { return len(c.candidates) }

type questionFile struct {
	Questions []Question `yaml:"questions" validate:"dive"`
}

// DefaultQuestions returns the built-in question catalog.
func DefaultQuestions() (*QuestionSet, error) {
	return LoadQuestions(defaultQuestionsYAML)
}

// LoadQuestionsFile reads a question catalog from a YAML file.
func LoadQuestionsFile(path string) (*QuestionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	return LoadQuestions(data)
}

// LoadQuestions parses and validates a YAML question catalog. An attribute
// outside the closed set fails with requirement.ErrUnknownAttribute.
func LoadQuestions(data []byte) (*QuestionSet, error) {
	var file questionFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	if len(file.Questions) == 0 {
		return nil, ErrEmptyQuestionSet
	}
	if err := validate.Struct(file); err != nil {
		return nil, fmt.Errorf("validate questions: %w", err)
	}

	seen := make(map[requirement.Attribute]bool, len(file.Questions))
	for i := range file.Questions {
		q := &file.Questions[i]
		attr, err := requirement.ParseAttribute(q.AttributeName)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		if seen[attr] {
			return nil, fmt.Errorf("question %d: duplicate attribute %s", i, attr)
		}
		seen[attr] = true
		q.Attribute = attr

		q.excludedFor = make(map[requirement.ConnectionType]struct{}, len(q.NotApplicableFor))
		for _, name := range q.NotApplicableFor {
			ct := requirement.ParseConnectionType(name)
			if ct == requirement.ConnectionUnknown {
				return nil, fmt.Errorf("question %s: unknown connection type %q", attr, name)
			}
			q.excludedFor[ct] = struct{}{}
		}
	}
	return newQuestionSet(file.Questions), nil
}
