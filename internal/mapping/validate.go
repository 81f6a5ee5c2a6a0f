package mapping

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"span-mapper/internal/diagnostic"
	"span-mapper/internal/schema"
)

// Rule is one mapping configuration.
type Rule struct {
	// Source is the path spec whose spans are looked up.
	Source string
	// Target is the path spec receiving looked-up values.
	Target string
	// Update selects update mode (write onto the source span) instead of
	// create mode (new target span over the same offsets).
	Update bool
}

// ErrInvalidRule is returned by CheckSyntax.
var ErrInvalidRule = errors.New("invalid mapping rule")

// CheckSyntax validates the rule without a type system: both specs must
// parse, and update mode needs a target feature to write.
func (r Rule) CheckSyntax() error {
	if r.Source == "" {
		return errors.Wrap(ErrInvalidRule, "source is required")
	}

	if r.Target == "" {
		return errors.Wrap(ErrInvalidRule, "target is required")
	}

	if _, err := ParsePathSpec(r.Source); err != nil {
		return errors.Wrap(err, "source")
	}

	target, err := ParsePathSpec(r.Target)
	if err != nil {
		return errors.Wrap(err, "target")
	}

	if r.Update && target.Feature == "" {
		return errors.WithHint(
			errors.Wrapf(ErrInvalidRule, "update mode needs a target feature, got %q", r.Target),
			"use Type:feature, e.g. \"Location:code\"")
	}

	return nil
}

// Validate checks a rule against a type system. This is a structural check
// only; it mirrors the resolution every document performs, so a rule that
// validates cleanly never fails resolution against an equal type system.
func Validate(r Rule, ts *schema.TypeSystem) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if ts == nil {
		res.AddError("type_system_is_nil", "type system is nil", "", "")
		return res
	}

	if err := r.CheckSyntax(); err != nil {
		res.AddError("invalid_rule", err.Error(), "", "")
		return res
	}

	source, okSrc := validateSide(res, ts, "source", r.Source)
	target, okDst := validateSide(res, ts, "target", r.Target)

	if !okSrc || !okDst {
		return res
	}

	if !source.HasFeature() {
		res.AddInfo("covered_text_key", fmt.Sprintf("keys are the covered text of %s spans", source.Type.ID), "", "source")
	}

	if r.Update {
		validateUpdate(res, source, target)
		return res
	}

	if !target.HasFeature() {
		res.AddWarning("no_target_feature",
			fmt.Sprintf("created %s spans will carry no looked-up value", target.Type.ID), "", "target")
	}

	if target.Type == source.Type {
		res.AddWarning("self_mapping",
			fmt.Sprintf("created spans have the source type %s and are mapped again on later runs", source.Type.ID),
			"", "target")
	}

	return res
}

func validateSide(res *diagnostic.Diagnostics, ts *schema.TypeSystem, side, spec string) (PathSpec, bool) {
	ps, err := Resolve(ts, spec)
	if err == nil {
		err = ps.RequireString()
	}

	if err == nil {
		return ps, true
	}

	res.AddError("unresolved_"+side, err.Error(), "", side)

	var sre *SchemaResolutionError
	if errors.As(err, &sre) {
		res.AddSuggestions(sre.Suggestions...)
	}

	return PathSpec{}, false
}

// validateUpdate checks that update mode can write the target feature onto
// source spans.
func validateUpdate(res *diagnostic.Diagnostics, source, target PathSpec) {
	if !source.Type.HasFeature(target.Feature) {
		res.AddError("update_feature_not_on_source",
			fmt.Sprintf("update mode writes %s onto %s spans, which do not carry it", target.Feature, source.Type.ID),
			"", "target")

		return
	}

	if target.Type != source.Type {
		res.AddInfo("update_target_type",
			fmt.Sprintf("target type %s is ignored in update mode; %s spans are updated", target.Type.ID, source.Type.ID),
			"", "target")
	}
}
