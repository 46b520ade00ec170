// Package catalog holds the flattened movie records the rest of the system answers from.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"chitravaani/internal/domain"
)

// DefaultIdentifierField is the dataset field used as a record's display key.
const DefaultIdentifierField = "movie_name"

// Field is one key-value pair of a raw dataset entry.
type Field struct {
	Key   string
	Value any
}

// Entry is a raw dataset entry with its original field order.
type Entry []Field

// Get returns the value stored under key.
func (e Entry) Get(key string) (any, bool) {
	for _, f := range e {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Corpus is the ordered, read-only set of records.
type Corpus struct {
	records []domain.Record
}

// Load flattens raw entries into a Corpus.
// raw may be []Entry, []map[string]any or []any holding either kind of mapping;
// anything else fails with domain.ErrDataFormat.
func Load(raw any, identifierField string) (*Corpus, error) {
	entries, err := toEntries(raw)
	if err != nil {
		return nil, err
	}
	if identifierField == "" {
		identifierField = DefaultIdentifierField
	}
	records := make([]domain.Record, len(entries))
	for i, e := range entries {
		records[i] = domain.Record{
			Position:   i,
			Identifier: identifierOf(e, identifierField),
			Text:       Flatten(e),
		}
	}
	return &Corpus{records: records}, nil
}

// Flatten renders every field as a "key: value" line in field order.
func Flatten(e Entry) string {
	lines := make([]string, len(e))
	for i, f := range e {
		lines[i] = f.Key + ": " + renderValue(f.Value)
	}
	return strings.Join(lines, "\n")
}

func identifierOf(e Entry, field string) string {
	v, ok := e.Get(field)
	if !ok {
		return domain.UnknownIdentifier
	}
	id := strings.TrimSpace(renderValue(v))
	if id == "" {
		return domain.UnknownIdentifier
	}
	return id
}

func toEntries(raw any) ([]Entry, error) {
	switch v := raw.(type) {
	case nil:
		return nil, fmt.Errorf("dataset is empty: %w", domain.ErrDataFormat)
	case []Entry:
		return v, nil
	case []map[string]any:
		out := make([]Entry, len(v))
		for i, m := range v {
			out[i] = entryFromMap(m)
		}
		return out, nil
	case []any:
		out := make([]Entry, len(v))
		for i, item := range v {
			switch m := item.(type) {
			case Entry:
				out[i] = m
			case map[string]any:
				out[i] = entryFromMap(m)
			default:
				return nil, fmt.Errorf("entry %d is %T, not a mapping: %w", i, item, domain.ErrDataFormat)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("dataset is %T, not a sequence of mappings: %w", raw, domain.ErrDataFormat)
	}
}

// entryFromMap orders keys alphabetically; Go maps carry no field order.
func entryFromMap(m map[string]any) Entry {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	e := make(Entry, len(keys))
	for i, k := range keys {
		e[i] = Field{Key: k, Value: m[k]}
	}
	return e
}

// Len returns the number of records.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// Records returns the records in corpus order.
func (c *Corpus) Records() []domain.Record {
	if c == nil {
		return nil
	}
	out := make([]domain.Record, len(c.records))
	copy(out, c.records)
	return out
}

// Texts returns the flattened record texts in corpus order.
func (c *Corpus) Texts() []string {
	out := make([]string, c.Len())
	for i := range out {
		out[i] = c.records[i].Text
	}
	return out
}

// Identifiers returns the distinct record identifiers, excluding the unknown sentinel.
func (c *Corpus) Identifiers() []string {
	seen := make(map[string]struct{}, c.Len())
	var out []string
	for i := 0; i < c.Len(); i++ {
		id := c.records[i].Identifier
		if id == domain.UnknownIdentifier {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// WithVectors returns a copy of the corpus whose records carry the given vectors.
// vectors[i] belongs to record i and all vectors must share one dimension.
func (c *Corpus) WithVectors(vectors [][]float64) (*Corpus, error) {
	if len(vectors) != c.Len() {
		return nil, fmt.Errorf("got %d vectors for %d records", len(vectors), c.Len())
	}
	records := make([]domain.Record, len(c.records))
	dim := -1
	for i, r := range c.records {
		v := vectors[i]
		if len(v) == 0 {
			return nil, errors.New("empty vector for record " + r.Identifier)
		}
		if dim >= 0 && len(v) != dim {
			return nil, fmt.Errorf("vector dimension mismatch at record %d: %d != %d", i, len(v), dim)
		}
		dim = len(v)
		r.Vector = v
		records[i] = r
	}
	return &Corpus{records: records}, nil
}
