package engine

import (
	"github.com/cockroachdb/errors"

	"span-mapper/internal/cas"
	"span-mapper/internal/mapping"
	"span-mapper/internal/schema"
)

// Apply materializes a looked-up value.
//
// In update mode value is written to target.Feature on span itself, which
// must carry that feature; a span that cannot yields *AttributeMismatchError.
// In create mode a span of target.Type is created over span's offsets, gets
// value in target.Feature when one is named, and is added to the index.
func Apply(doc *cas.Document, span *cas.Span, target mapping.PathSpec, update bool, value string) (*cas.Span, error) {
	if update {
		return span, applyUpdate(span, target, value)
	}

	return applyCreate(doc, span, target, value)
}

func applyUpdate(span *cas.Span, target mapping.PathSpec, value string) error {
	switch {
	case !target.HasFeature():
		return mismatch(span, target, "update mode needs a target feature")
	case !span.Type().HasFeature(target.Feature):
		return mismatch(span, target, "span type does not carry feature "+target.Feature.String())
	case target.Feature.Range != schema.KindString:
		return mismatch(span, target, "feature range is "+target.Feature.Range.String())
	}

	return span.SetStringValue(target.Feature, value)
}

func applyCreate(doc *cas.Document, span *cas.Span, target mapping.PathSpec, value string) (*cas.Span, error) {
	created, err := doc.CreateSpan(target.Type, span.Begin(), span.End())
	if err != nil {
		return nil, errors.Wrap(err, "create target span")
	}

	if target.HasFeature() {
		if err := created.SetStringValue(target.Feature, value); err != nil {
			return nil, errors.Wrapf(err, "set %s", target.Feature)
		}
	}

	if err := doc.AddToIndexes(created); err != nil {
		return nil, errors.Wrap(err, "index target span")
	}

	return created, nil
}
