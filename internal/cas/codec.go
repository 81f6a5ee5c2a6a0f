package cas

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"span-mapper/internal/schema"
)

// Format selects the serialization of a document file.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatForPath picks the format from a file extension (".json" is JSON,
// anything else YAML).
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}

	return FormatYAML
}

// documentRecord is the file form of a Document.
type documentRecord struct {
	ID    string       `yaml:"id,omitempty" json:"id,omitempty"`
	Text  string       `yaml:"text" json:"text"`
	Spans []spanRecord `yaml:"spans,omitempty" json:"spans,omitempty"`
}

type spanRecord struct {
	Type     string         `yaml:"type" json:"type"`
	Begin    int            `yaml:"begin" json:"begin"`
	End      int            `yaml:"end" json:"end"`
	Features map[string]any `yaml:"features,omitempty" json:"features,omitempty"`
}

// ReadFile decodes a YAML or JSON document file against ts.
func ReadFile(ts *schema.TypeSystem, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read document %s", path)
	}

	doc, err := Decode(ts, data)
	if err != nil {
		return nil, errors.Wrapf(err, "document %s", path)
	}

	return doc, nil
}

// Decode decodes a YAML or JSON document. Span type names are resolved with
// schema.TypeSystem.ResolveType; feature values are checked against their
// ranges. Null feature values are treated as unset.
func Decode(ts *schema.TypeSystem, data []byte) (*Document, error) {
	var rec documentRecord

	// JSON is valid YAML, one decoder covers both formats.
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, "failed to parse document")
	}

	doc := NewDocument(ts, rec.ID, rec.Text)

	for i, sr := range rec.Spans {
		if err := doc.addRecord(sr); err != nil {
			return nil, errors.Wrapf(err, "span %d (%s [%d,%d))", i, sr.Type, sr.Begin, sr.End)
		}
	}

	return doc, nil
}

func (d *Document) addRecord(sr spanRecord) error {
	t, err := d.ts.ResolveType(sr.Type)
	if err != nil {
		return err
	}

	s, err := d.CreateSpan(t, sr.Begin, sr.End)
	if err != nil {
		return err
	}

	for name, raw := range sr.Features {
		if raw == nil {
			continue
		}

		f, err := d.ts.ResolveFeature(t, name)
		if err != nil {
			return err
		}

		if err := setRaw(s, f, raw); err != nil {
			return err
		}
	}

	return d.AddToIndexes(s)
}

// setRaw stores a decoded YAML scalar according to the feature range.
func setRaw(s *Span, f *schema.Feature, raw any) error {
	switch f.Range {
	case schema.KindString:
		if v, ok := raw.(string); ok {
			return s.SetStringValue(f, v)
		}
	case schema.KindInteger:
		switch v := raw.(type) {
		case int:
			return s.SetIntValue(f, int64(v))
		case int64:
			return s.SetIntValue(f, v)
		case uint64:
			if v <= math.MaxInt64 {
				return s.SetIntValue(f, int64(v))
			}
		case float64:
			if v == math.Trunc(v) {
				return s.SetIntValue(f, int64(v))
			}
		}
	case schema.KindFloat:
		switch v := raw.(type) {
		case float64:
			return s.SetFloatValue(f, v)
		case int:
			return s.SetFloatValue(f, float64(v))
		}
	case schema.KindBoolean:
		if v, ok := raw.(bool); ok {
			return s.SetBoolValue(f, v)
		}
	}

	return errors.Wrapf(ErrRangeMismatch, "%s is %s, got %T", f, f.Range, raw)
}

// Encode serializes d. Spans are written in annotation order with qualified
// type names.
func Encode(d *Document, format Format) ([]byte, error) {
	rec := documentRecord{ID: d.ID, Text: d.text}

	for _, s := range d.Spans() {
		sr := spanRecord{Type: s.typ.ID.String(), Begin: s.begin, End: s.end}

		for _, f := range s.typ.AllFeatures() {
			if v, ok := s.values[f]; ok {
				if sr.Features == nil {
					sr.Features = make(map[string]any)
				}

				sr.Features[f.Name] = v
			}
		}

		rec.Spans = append(rec.Spans, sr)
	}

	if format == FormatJSON {
		return json.MarshalIndent(rec, "", "  ")
	}

	return yaml.Marshal(rec)
}

// WriteFile writes d to path in the format chosen by its extension.
func WriteFile(d *Document, path string) error {
	data, err := Encode(d, FormatForPath(path))
	if err != nil {
		return errors.Wrapf(err, "failed to encode document %s", d.ID)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write document %s", path)
	}

	return nil
}
