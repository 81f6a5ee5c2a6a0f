package engine

import (
	"span-mapper/internal/cas"
	"span-mapper/internal/mapping"
)

// VisitFunc receives a source span and its lookup key.
type VisitFunc func(span *cas.Span, key string) error

// ForEachSpan calls visit for every span indexed under source.Type when the
// walk starts. Spans added while walking are not visited. When source names
// a feature, spans without a value for it are skipped; otherwise the key is
// the covered text. The first error returned by visit stops the walk.
func ForEachSpan(doc *cas.Document, source mapping.PathSpec, visit VisitFunc) error {
	_, err := walk(doc, source, visit)
	return err
}

// walk is ForEachSpan that also reports how many spans had no key.
func walk(doc *cas.Document, source mapping.PathSpec, visit VisitFunc) (skipped int, err error) {
	for _, span := range doc.Index(source.Type) {
		key, ok := spanKey(span, source)
		if !ok {
			skipped++
			continue
		}

		if err := visit(span, key); err != nil {
			return skipped, err
		}
	}

	return skipped, nil
}

func spanKey(span *cas.Span, source mapping.PathSpec) (string, bool) {
	if !source.HasFeature() {
		return span.CoveredText(), true
	}

	return span.StringValue(source.Feature)
}
