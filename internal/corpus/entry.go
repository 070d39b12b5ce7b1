package corpus

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/drillsergeant/internal/content"
)

//go:embed entry.schema.json
var entrySchemaJSON []byte

var (
	entrySchemaOnce sync.Once
	entrySchema     *jsonschema.Schema
	entrySchemaErr  error
)

func compiledEntrySchema() (*jsonschema.Schema, error) {
	entrySchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(entrySchemaJSON))
		if err != nil {
			entrySchemaErr = fmt.Errorf("parse entry schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://corpus-entry.json", doc); err != nil {
			entrySchemaErr = fmt.Errorf("add entry schema: %w", err)
			return
		}
		entrySchema, entrySchemaErr = c.Compile("schema://corpus-entry.json")
	})
	return entrySchema, entrySchemaErr
}

// rawEntry is the on-disk shape of one corpus file.
type rawEntry struct {
	Title     string        `json:"title"`
	Text      string        `json:"text"`
	Questions []rawQuestion `json:"questions"`
}

type rawQuestion struct {
	ID            rawID      `json:"id"`
	QuestionText  string     `json:"question_text"`
	Options       rawOptions `json:"options"`
	CorrectOption string     `json:"correct_option"`
}

// rawID accepts both `"q_007"` and `7`.
type rawID string

func (r *rawID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = rawID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*r = rawID(n.String())
	return nil
}

// rawOptions accepts a label→text object or a list whose entries are
// labelled A, B, C... in order.
type rawOptions map[string]string

func (o *rawOptions) UnmarshalJSON(b []byte) error {
	var m map[string]string
	if err := json.Unmarshal(b, &m); err == nil {
		*o = m
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("options must be an object or a list of strings: %w", err)
	}
	if len(list) > 26 {
		return fmt.Errorf("too many options: %d", len(list))
	}
	m = make(map[string]string, len(list))
	for i, text := range list {
		m[string(rune('A'+i))] = text
	}
	*o = m
	return nil
}

// Parse validates data against the entry schema and builds a content.Set
// with normalized question IDs.
func Parse(data []byte) (*content.Set, error) {
	schema, err := compiledEntrySchema()
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	var raw rawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	rawIDs := make([]string, len(raw.Questions))
	for i, q := range raw.Questions {
		rawIDs[i] = string(q.ID)
	}
	ids := NormalizeIDs(rawIDs)

	questions := make([]content.Question, 0, len(raw.Questions))
	for i, rq := range raw.Questions {
		q, err := content.NewQuestion(ids[i], rq.QuestionText, rq.Options, rq.CorrectOption)
		if err != nil {
			return nil, fmt.Errorf("question %q: %w", rawIDs[i], err)
		}
		questions = append(questions, q)
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = "Reading Comprehension"
	}
	return content.NewSet(content.Passage{Title: title, Body: strings.TrimSpace(raw.Text)}, questions)
}
