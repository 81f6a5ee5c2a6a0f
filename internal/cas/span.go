package cas

import (
	"github.com/cockroachdb/errors"

	"span-mapper/internal/schema"
)

// ErrFeatureNotOnType is returned when a feature is read or written on a span
// whose type does not carry it.
var ErrFeatureNotOnType = errors.New("feature not defined on span type")

// ErrRangeMismatch is returned when a value's kind does not match the
// feature's range.
var ErrRangeMismatch = errors.New("feature range mismatch")

// Span is a typed, attributed range over a document's text.
type Span struct {
	doc    *Document
	typ    *schema.TypeInfo
	begin  int
	end    int
	seq    uint64
	inIdx  bool
	values map[*schema.Feature]any
}

// Type returns the span's type.
func (s *Span) Type() *schema.TypeInfo { return s.typ }

// Begin returns the start offset.
func (s *Span) Begin() int { return s.begin }

// End returns the end offset (exclusive).
func (s *Span) End() int { return s.end }

// CoveredText returns the document text under the span.
func (s *Span) CoveredText() string { return s.doc.CoveredText(s) }

// Has reports whether a value is set for f.
func (s *Span) Has(f *schema.Feature) bool {
	_, ok := s.values[f]
	return ok
}

// StringValue returns the string value of f. ok is false when no value is
// set, when f is not carried by the span's type, or when f is not a string
// feature.
func (s *Span) StringValue(f *schema.Feature) (string, bool) {
	v, ok := s.values[f].(string)
	return v, ok
}

// IntValue returns the integer value of f.
func (s *Span) IntValue(f *schema.Feature) (int64, bool) {
	v, ok := s.values[f].(int64)
	return v, ok
}

// FloatValue returns the float value of f.
func (s *Span) FloatValue(f *schema.Feature) (float64, bool) {
	v, ok := s.values[f].(float64)
	return v, ok
}

// BoolValue returns the boolean value of f.
func (s *Span) BoolValue(f *schema.Feature) (bool, bool) {
	v, ok := s.values[f].(bool)
	return v, ok
}

// SetStringValue sets a string feature.
func (s *Span) SetStringValue(f *schema.Feature, v string) error {
	return s.set(f, schema.KindString, v)
}

// SetIntValue sets an integer feature.
func (s *Span) SetIntValue(f *schema.Feature, v int64) error {
	return s.set(f, schema.KindInteger, v)
}

// SetFloatValue sets a float feature.
func (s *Span) SetFloatValue(f *schema.Feature, v float64) error {
	return s.set(f, schema.KindFloat, v)
}

// SetBoolValue sets a boolean feature.
func (s *Span) SetBoolValue(f *schema.Feature, v bool) error {
	return s.set(f, schema.KindBoolean, v)
}

// Unset removes the value of f.
func (s *Span) Unset(f *schema.Feature) {
	delete(s.values, f)
}

// Value returns the raw value of f.
func (s *Span) Value(f *schema.Feature) (any, bool) {
	v, ok := s.values[f]
	return v, ok
}

func (s *Span) set(f *schema.Feature, kind schema.Kind, v any) error {
	if f == nil {
		return errors.Wrapf(ErrFeatureNotOnType, "nil feature on %s", s.typ.ID)
	}

	if !s.typ.HasFeature(f) {
		return errors.Wrapf(ErrFeatureNotOnType, "%s on %s", f, s.typ.ID)
	}

	if f.Range != kind {
		return errors.Wrapf(ErrRangeMismatch, "%s is %s, got %s", f, f.Range, kind)
	}

	if s.values == nil {
		s.values = make(map[*schema.Feature]any)
	}

	s.values[f] = v

	return nil
}

// less orders spans by begin ascending, end descending, then insertion.
func less(a, b *Span) bool {
	if a.begin != b.begin {
		return a.begin < b.begin
	}

	if a.end != b.end {
		return a.end > b.end
	}

	return a.seq < b.seq
}
