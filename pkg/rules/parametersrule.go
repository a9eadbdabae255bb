package rules

import (
	"context"
	"fmt"

	"github.com/input-output-hk/catalyst-libs-go/pkg/report"
	"github.com/input-output-hk/catalyst-libs-go/pkg/signeddoc"
)

// ParametersRule behaves like RefRule over the `parameters` field, plus the
// transitive-consistency check from spec §4.4: every one of the document's
// own template/ref/reply targets must themselves point to the same
// parameters value, so a comment cannot be smuggled onto a proposal under a
// different campaign.
type ParametersRule struct {
	RefRule
}

// Validate runs the embedded RefRule check, then (if it passed and the
// parameters field is present) the transitive-consistency check.
func (p ParametersRule) Validate(ctx context.Context, doc signeddoc.SignedDocument, provider DocumentProvider, rep *report.Report) bool {
	p.RefRule.Field = "parameters"
	if !p.RefRule.Validate(ctx, doc, provider, rep) {
		return false
	}
	if len(doc.Metadata.Parameters) == 0 {
		return true
	}

	ownParam := doc.Metadata.Parameters[0]
	ok := true
	for _, field := range []string{"template", "ref", "reply"} {
		refs := fieldRefs(field, doc.Metadata)
		for _, ref := range refs {
			target, err := provider.TryGetDoc(ctx, ref)
			if err != nil {
				rep.Push(report.FunctionalValidation, "parameters", fmt.Sprintf("provider unavailable while checking transitive parameters via %q: %v", field, err))
				ok = false
				continue
			}
			if target == nil {
				// Already reported by the corresponding RefRule/TemplateRule, if
				// one ran; nothing further to check here.
				continue
			}
			if !transitiveParamsMatch(ownParam, target.Metadata.Parameters) {
				rep.Push(report.FunctionalValidation, "parameters", fmt.Sprintf("document referenced via %q does not share this document's parameters", field))
				ok = false
			}
		}
	}
	return ok
}

func transitiveParamsMatch(own signeddoc.DocumentRef, other []signeddoc.DocumentRef) bool {
	if len(other) == 0 {
		return false
	}
	return own.Equal(other[0])
}
