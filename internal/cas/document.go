package cas

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"span-mapper/internal/common"
	"span-mapper/internal/schema"
)

var (
	// ErrOutOfBounds is returned for offsets outside the document text.
	ErrOutOfBounds = errors.New("span offsets out of bounds")
	// ErrForeignType is returned for a type that belongs to another type system.
	ErrForeignType = errors.New("type not part of document type system")
	// ErrForeignSpan is returned when a span created by another document is indexed.
	ErrForeignSpan = errors.New("span belongs to another document")
)

// Document is a text buffer plus a per-type index of spans.
type Document struct {
	// ID identifies the document in logs and reports.
	ID string

	text  string
	ts    *schema.TypeSystem
	index map[*schema.TypeInfo][]*Span
	seq   uint64
	size  int
}

// NewDocument creates an empty document over text. An empty id is replaced
// by a random UUID.
func NewDocument(ts *schema.TypeSystem, id, text string) *Document {
	if id == "" {
		id = uuid.NewString()
	}

	return &Document{
		ID:    id,
		text:  text,
		ts:    ts,
		index: make(map[*schema.TypeInfo][]*Span),
	}
}

// Text returns the document text.
func (d *Document) Text() string { return d.text }

// TypeSystem returns the type system the document's spans are typed against.
func (d *Document) TypeSystem() *schema.TypeSystem { return d.ts }

// Len returns the number of indexed spans.
func (d *Document) Len() int { return d.size }

// CreateSpan creates a span of type t over [begin, end). The span is not
// visible to Index until AddToIndexes is called.
func (d *Document) CreateSpan(t *schema.TypeInfo, begin, end int) (*Span, error) {
	if t == nil {
		return nil, errors.Wrap(ErrForeignType, "nil type")
	}

	if d.ts.GetType(t.ID) != t {
		return nil, errors.Wrapf(ErrForeignType, "%s", t.ID)
	}

	if begin < 0 || begin > end || end > len(d.text) {
		return nil, errors.Wrapf(ErrOutOfBounds, "[%d,%d) in text of length %d", begin, end, len(d.text))
	}

	d.seq++

	return &Span{doc: d, typ: t, begin: begin, end: end, seq: d.seq}, nil
}

// AddToIndexes makes s visible to later Index calls. Adding an already
// indexed span is a no-op.
func (d *Document) AddToIndexes(s *Span) error {
	if s.doc != d {
		return ErrForeignSpan
	}

	if s.inIdx {
		return nil
	}

	list := d.index[s.typ]
	i := sort.Search(len(list), func(i int) bool { return less(s, list[i]) })

	list = append(list, nil)
	copy(list[i+1:], list[i:])
	list[i] = s

	d.index[s.typ] = list
	s.inIdx = true
	d.size++

	return nil
}

// AddSpan creates a span and adds it to the indexes.
func (d *Document) AddSpan(t *schema.TypeInfo, begin, end int) (*Span, error) {
	s, err := d.CreateSpan(t, begin, end)
	if err != nil {
		return nil, err
	}

	if err := d.AddToIndexes(s); err != nil {
		return nil, err
	}

	return s, nil
}

// Index returns a snapshot of the spans whose type is exactly t, in
// annotation order. Spans added afterwards do not appear in the snapshot.
func (d *Document) Index(t *schema.TypeInfo) []*Span {
	return common.Clone(d.index[t])
}

// Spans returns every indexed span in annotation order. Spans of different
// types at the same offsets keep their insertion order.
func (d *Document) Spans() []*Span {
	out := make([]*Span, 0, d.size)
	for _, list := range d.index {
		out = append(out, list...)
	}

	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })

	return out
}

// CoveredText returns the text under s.
func (d *Document) CoveredText(s *Span) string {
	return d.text[s.begin:s.end]
}
