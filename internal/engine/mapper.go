package engine

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"span-mapper/internal/cas"
	"span-mapper/internal/logger"
	"span-mapper/internal/lookup"
	"span-mapper/internal/mapping"
)

// Mapper applies one rule with one lookup table. A Mapper processes one
// document at a time; use one Mapper per goroutine.
type Mapper struct {
	rule  mapping.Rule
	table lookup.Table
	log   *zap.SugaredLogger
}

// New returns a Mapper for rule. The rule is checked syntactically here and
// resolved against each document's type system in Process.
func New(rule mapping.Rule, table lookup.Table) (*Mapper, error) {
	if err := rule.CheckSyntax(); err != nil {
		return nil, err
	}

	if table == nil {
		return nil, errors.New("lookup table is nil")
	}

	return &Mapper{
		rule:  rule,
		table: table,
		log:   logger.ComponentLogger("engine"),
	}, nil
}

// Rule returns the rule the mapper applies.
func (m *Mapper) Rule() mapping.Rule {
	return m.rule
}

// Process maps doc in place.
//
// Source and target are resolved first; a resolution failure is returned as
// *mapping.SchemaResolutionError and doc is left untouched. Spans whose hit
// cannot be materialized are skipped and their *AttributeMismatchError values
// are returned joined once every span has been visited. The report is
// returned in both cases when resolution succeeded.
func (m *Mapper) Process(doc *cas.Document) (*Report, error) {
	ts := doc.TypeSystem()

	source, err := mapping.Resolve(ts, m.rule.Source)
	if err == nil {
		err = source.RequireString()
	}

	if err != nil {
		return nil, err
	}

	target, err := mapping.Resolve(ts, m.rule.Target)
	if err == nil {
		err = target.RequireString()
	}

	if err != nil {
		return nil, err
	}

	report := &Report{DocumentID: doc.ID}

	var failures []error

	skipped, err := walk(doc, source, func(span *cas.Span, key string) error {
		report.Visited++

		value, ok := m.table.Get(key)
		if !ok {
			report.Misses++
			return nil
		}

		report.Hits++

		if _, err := Apply(doc, span, target, m.rule.Update, value); err != nil {
			var am *AttributeMismatchError
			if !errors.As(err, &am) {
				return err
			}

			report.Failed++
			report.Diagnostics.AddError("attribute_mismatch", am.Reason, doc.ID,
				fmt.Sprintf("%s[%d,%d)", am.Type, am.Begin, am.End))
			failures = append(failures, am)

			return nil
		}

		if m.rule.Update {
			report.Updated++
		} else {
			report.Created++
		}

		return nil
	})

	report.Skipped = skipped
	report.Visited += skipped

	if err != nil {
		return report, errors.Wrapf(err, "process document %s", doc.ID)
	}

	m.log.Debugw("Processed document",
		"document", doc.ID,
		"source", source.String(),
		"target", target.String(),
		"update", m.rule.Update,
		"visited", report.Visited,
		"hits", report.Hits,
		"misses", report.Misses,
		"failed", report.Failed)

	if len(failures) > 0 {
		return report, errors.Join(failures...)
	}

	return report, nil
}
