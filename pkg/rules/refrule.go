package rules

import (
	"context"
	"fmt"

	"github.com/input-output-hk/catalyst-libs-go/pkg/hash"
	"github.com/input-output-hk/catalyst-libs-go/pkg/report"
	"github.com/input-output-hk/catalyst-libs-go/pkg/signeddoc"
)

// RefMode selects whether a RefRule's field is expected, and if so, how.
type RefMode int

const (
	// RefNotSpecified forbids the field outright.
	RefNotSpecified RefMode = iota
	// RefSpecified allows the field, constrained by AllowedTypes/Multiple/Optional.
	RefSpecified
)

// RefRule validates a single typed cross-reference field (ref, template,
// reply, or parameters) against a document provider (spec §4.4).
type RefRule struct {
	Field        string // "ref", "template", "reply", "parameters" — used only for report context
	Mode         RefMode
	AllowedTypes []hash.Uuid4
	Multiple     bool
	Optional     bool
}

// fieldRefs extracts the named reference-list field from doc's metadata.
func fieldRefs(field string, m signeddoc.Metadata) []signeddoc.DocumentRef {
	switch field {
	case "ref":
		return m.Ref
	case "template":
		return m.Template
	case "reply":
		return m.Reply
	case "parameters":
		return m.Parameters
	default:
		return nil
	}
}

func typeAllowed(t []hash.Uuid4, allowed []hash.Uuid4) bool {
	for _, got := range t {
		for _, want := range allowed {
			if got.Equal(want) {
				return true
			}
		}
	}
	return len(allowed) == 0
}

// Validate implements the ref-rule semantics described in spec §4.4 and the
// test matrix in spec §8: NotSpecified forbids the field; Specified requires
// every reference to resolve, have an allowed type, and (unless Multiple) be
// the sole reference present.
func (r RefRule) Validate(ctx context.Context, doc signeddoc.SignedDocument, provider DocumentProvider, rep *report.Report) bool {
	refs := fieldRefs(r.Field, doc.Metadata)

	if r.Mode == RefNotSpecified {
		if len(refs) > 0 {
			rep.Push(report.FunctionalValidation, r.Field, fmt.Sprintf("field %q must not be present", r.Field))
			return false
		}
		return true
	}

	if len(refs) == 0 {
		if r.Optional {
			return true
		}
		rep.MissingField(r.Field, r.Field)
		return false
	}
	if !r.Multiple && len(refs) > 1 {
		rep.Push(report.FunctionalValidation, r.Field, fmt.Sprintf("field %q allows at most one reference", r.Field))
		return false
	}

	ok := true
	for _, ref := range refs {
		target, err := provider.TryGetDoc(ctx, ref)
		if err != nil {
			rep.Push(report.FunctionalValidation, r.Field, fmt.Sprintf("provider unavailable for %s: %v", r.Field, err))
			ok = false
			continue
		}
		if target == nil {
			rep.Push(report.FunctionalValidation, r.Field, fmt.Sprintf("referenced document %s/%s not found", ref.Id, ref.Ver))
			ok = false
			continue
		}
		if !ref.Equal(signeddoc.DocumentRef{Id: target.Metadata.Id, Ver: target.Metadata.Ver}) {
			rep.Push(report.FunctionalValidation, r.Field, "resolved document id/ver does not match the reference")
			ok = false
			continue
		}
		if len(r.AllowedTypes) > 0 && !typeAllowed(target.Metadata.Type, r.AllowedTypes) {
			rep.Push(report.FunctionalValidation, r.Field, fmt.Sprintf("referenced document type not in allowed set for %q", r.Field))
			ok = false
		}
	}
	return ok
}
