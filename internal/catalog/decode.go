package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"chitravaani/internal/domain"
)

// LoadFile decodes a .json, .yaml or .yml dataset and flattens it into a Corpus.
func LoadFile(path, identifierField string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		entries, err = DecodeJSON(f)
	case ".yaml", ".yml":
		entries, err = DecodeYAML(f)
	default:
		return nil, fmt.Errorf("unsupported dataset extension %q: %w", ext, domain.ErrDataFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Load(entries, identifierField)
}

// DecodeJSON reads a JSON array of objects, preserving each object's key order.
func DecodeJSON(r io.Reader) ([]Entry, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %v: %w", err, domain.ErrDataFormat)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("dataset must be a JSON array: %w", domain.ErrDataFormat)
	}
	entries := []Entry{}
	for dec.More() {
		v, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		e, ok := v.(Entry)
		if !ok {
			return nil, fmt.Errorf("entry %d is not an object: %w", len(entries), domain.ErrDataFormat)
		}
		entries = append(entries, e)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read dataset: %v: %w", err, domain.ErrDataFormat)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after dataset array: %w", domain.ErrDataFormat)
	}
	return entries, nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %v: %w", err, domain.ErrDataFormat)
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch d {
	case '{':
		var e Entry
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("read dataset: %v: %w", err, domain.ErrDataFormat)
			}
			key, _ := kt.(string)
			v, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			e = setField(e, key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("read dataset: %v: %w", err, domain.ErrDataFormat)
		}
		if e == nil {
			e = Entry{}
		}
		return e, nil
	case '[':
		list := []any{}
		for dec.More() {
			v, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("read dataset: %v: %w", err, domain.ErrDataFormat)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q: %w", d, domain.ErrDataFormat)
	}
}

// setField keeps the first position of a duplicated key and the last value.
func setField(e Entry, key string, v any) Entry {
	for i := range e {
		if e[i].Key == key {
			e[i].Value = v
			return e
		}
	}
	return append(e, Field{Key: key, Value: v})
}

// DecodeYAML reads a YAML sequence of mappings, preserving each mapping's key order.
func DecodeYAML(r io.Reader) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("read dataset: %v: %w", err, domain.ErrDataFormat)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("dataset must be a YAML sequence: %w", domain.ErrDataFormat)
	}
	entries := make([]Entry, 0, len(root.Content))
	for i, item := range root.Content {
		v, err := yamlValue(item)
		if err != nil {
			return nil, err
		}
		e, ok := v.(Entry)
		if !ok {
			return nil, fmt.Errorf("entry %d is not a mapping: %w", i, domain.ErrDataFormat)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.MappingNode:
		e := Entry{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := yamlValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			e = setField(e, n.Content[i].Value, v)
		}
		return e, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %v: %w", n.Line, err, domain.ErrDataFormat)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node: %w", n.Line, domain.ErrDataFormat)
	}
}
